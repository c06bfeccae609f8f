// Package logoverlay shows recent debug log entries on top of the board.
//
// The overlay keeps its own bounded buffer. The app feeds it every entry the
// log broker publishes, whether or not the overlay is open, so opening it shows
// history from before it was first toggled.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/ui/overlay"
	"github.com/zjrosen/skillboard/internal/ui/styles"
)

const (
	// DefaultCapacity is how many entries the buffer retains.
	DefaultCapacity = 500

	viewportMaxHeight = 20
	viewportMinHeight = 4
	boxMaxWidth       = 140
	boxMinWidth       = 30
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// Model is the log overlay state.
type Model struct {
	entries  []string
	capacity int
	minLevel log.Level
	visible  bool
	width    int
	height   int
	viewport viewport.Model
}

// New returns a hidden overlay holding up to capacity entries.
// A non-positive capacity uses DefaultCapacity.
func New(capacity int) Model {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Model{capacity: capacity, minLevel: log.LevelDebug}
}

// Append records entry, evicting the oldest when full.
func (m Model) Append(entry string) Model {
	entry = strings.TrimSuffix(entry, "\n")
	if len(m.entries) >= m.capacity {
		m.entries = append(m.entries[:0:0], m.entries[len(m.entries)-m.capacity+1:]...)
	}
	m.entries = append(m.entries, entry)
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// Entries returns the entries that pass the current level filter.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// MinLevel returns the active filter.
func (m Model) MinLevel() log.Level {
	return m.minLevel
}

// Visible reports whether the overlay is open.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle opens or closes the overlay.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// SetSize records the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh()
	return m
}

// Update handles keys while the overlay is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "c":
		m.entries = nil
		m.refresh()
	case "d":
		m.setLevel(log.LevelDebug)
	case "i":
		m.setLevel(log.LevelInfo)
	case "w":
		m.setLevel(log.LevelWarn)
	case "e":
		m.setLevel(log.LevelError)
	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	case "esc", "ctrl+l":
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	}
	return m, nil
}

func (m *Model) setLevel(l log.Level) {
	m.minLevel = l
	m.refresh()
}

// View renders the overlay box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := styles.MutedStyle.Render(strings.Repeat("─", width-4))

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	if m.width == 0 || m.height == 0 {
		b.WriteString(m.content(width - 4))
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.filterHint())

	return styles.OverlayBoxStyle.Width(width - 2).Render(b.String())
}

// Overlay draws the overlay centered over bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Center}, m.View(), bg)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// title + 2 dividers + hint + border
	h := min(viewportMaxHeight, m.height-6)
	h = max(h, viewportMinHeight)
	w := m.boxWidth() - 4
	m.viewport = viewport.New(w, h)
	m.viewport.SetContent(m.content(w))
}

func (m Model) content(width int) string {
	entries := m.Entries()
	if len(entries) == 0 {
		return styles.MutedStyle.Italic(true).Render("No logs to display")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = colorize(e, width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) boxWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

// levelOf extracts the severity tag from a formatted entry. Entries without a
// recognized tag always pass the filter.
func levelOf(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug
	default:
		return log.LevelError
	}
}

func colorize(entry string, width int) string {
	if width > 3 && ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-3, "...")
	}
	var color lipgloss.TerminalColor
	switch levelOf(entry) {
	case log.LevelError:
		color = styles.StatusErrorColor
	case log.LevelWarn:
		color = styles.StatusWarningColor
	case log.LevelInfo:
		color = styles.StatusInfoColor
	default:
		color = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}
