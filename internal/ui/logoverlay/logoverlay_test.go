package logoverlay

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/skillboard/internal/log"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seeded() Model {
	m := New(0)
	m = m.Append("2026-10-18T10:00:00 [DEBUG] [ui] resized")
	m = m.Append("2026-10-18T10:00:01 [INFO] [store] loaded skills=2")
	m = m.Append("2026-10-18T10:00:02 [WARN] [catalog] override missing")
	m = m.Append("2026-10-18T10:00:03 [ERROR] [store] save failed\n")
	return m
}

func TestNew_Hidden(t *testing.T) {
	m := New(0)
	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, log.LevelDebug, m.MinLevel())
	require.Equal(t, DefaultCapacity, m.capacity)
}

func TestAppend_EvictsOldest(t *testing.T) {
	m := New(3)
	for i := range 5 {
		m = m.Append(fmt.Sprintf("[INFO] entry %d", i))
	}
	require.Equal(t, []string{"[INFO] entry 2", "[INFO] entry 3", "[INFO] entry 4"}, m.Entries())
}

func TestAppend_TrimsNewline(t *testing.T) {
	m := seeded()
	entries := m.Entries()
	require.Equal(t, "2026-10-18T10:00:03 [ERROR] [store] save failed", entries[len(entries)-1])
}

func TestUpdate_IgnoredWhileHidden(t *testing.T) {
	m := seeded()
	m, cmd := m.Update(key("e"))
	require.Nil(t, cmd)
	require.Equal(t, log.LevelDebug, m.MinLevel())
}

func TestUpdate_LevelFilters(t *testing.T) {
	m := seeded().SetSize(100, 30).Toggle()

	tests := []struct {
		key   string
		level log.Level
		count int
	}{
		{"e", log.LevelError, 1},
		{"w", log.LevelWarn, 2},
		{"i", log.LevelInfo, 3},
		{"d", log.LevelDebug, 4},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ = m.Update(key(tt.key))
			require.Equal(t, tt.level, m.MinLevel())
			require.Len(t, m.Entries(), tt.count)
		})
	}
}

func TestLevelOf_UntaggedAlwaysShown(t *testing.T) {
	m := New(0).Append("bubbletea: raw line")
	m, _ = m.Toggle().Update(key("e"))
	require.Equal(t, []string{"bubbletea: raw line"}, m.Entries())
}

func TestUpdate_Clear(t *testing.T) {
	m := seeded().SetSize(100, 30).Toggle()
	m, _ = m.Update(key("c"))
	require.Empty(t, m.Entries())
	require.Contains(t, m.View(), "No logs to display")
}

func TestUpdate_EscCloses(t *testing.T) {
	m := seeded().SetSize(100, 30).Toggle()
	m, cmd := m.Update(key("esc"))
	require.False(t, m.Visible())
	require.NotNil(t, cmd)
	require.Equal(t, CloseMsg{}, cmd())
}

func TestView_ShowsEntriesAndHint(t *testing.T) {
	m := seeded().SetSize(120, 30).Toggle()
	view := m.View()
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "save failed")
	require.Contains(t, view, "[c] Clear")
	require.Contains(t, view, "[e] Error")

	m, _ = m.Update(key("e"))
	require.NotContains(t, m.View(), "resized")
}

func TestView_TruncatesLongEntries(t *testing.T) {
	m := New(0).Append("[INFO] " + strings.Repeat("x", 200))
	m = m.SetSize(60, 20).Toggle()
	require.Contains(t, m.viewport.View(), "...")
}

func TestOverlay_PassThroughWhenHidden(t *testing.T) {
	m := seeded()
	require.Equal(t, "background", m.Overlay("background", 80, 24))
}

func TestOverlay_DrawsOverBackground(t *testing.T) {
	m := seeded().SetSize(80, 24).Toggle()
	bg := strings.Repeat(fmt.Sprintf("%-80s\n", "row"), 40)
	out := m.Overlay(bg, 80, 40)
	require.Contains(t, out, "Logs")
	require.Contains(t, out, "row")
}
