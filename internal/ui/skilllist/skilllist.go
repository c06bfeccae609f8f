// Package skilllist renders the skill inventory as a navigable list with a
// clickable level bar per row.
package skilllist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/padding"

	"github.com/zjrosen/skillboard/internal/keys"
	"github.com/zjrosen/skillboard/internal/skills"
	"github.com/zjrosen/skillboard/internal/ui/styles"
)

const (
	nameMinWidth = 8
	nameMaxWidth = 24
	removeMarker = "[x]"
	filledCell   = "■"
	emptyCell    = "□"
)

// StepMsg asks for the level of ID to move by Delta (+1 or -1).
type StepMsg struct {
	ID    string
	Delta int
}

// LevelMsg asks for the level of ID to be set directly (a level cell click).
type LevelMsg struct {
	ID    string
	Level int
}

// RemoveMsg asks for ID to be removed.
type RemoveMsg struct {
	ID string
}

// Model is the list state. It never mutates skills itself; intents are
// returned as commands for the app to apply to the registry.
type Model struct {
	items      []skills.Skill
	cursor     int
	offset     int
	width      int
	height     int
	showLabels bool
}

// New returns an empty list.
func New(showLabels bool) Model {
	return Model{showLabels: showLabels}
}

// SetSkills replaces the rows, keeping the cursor on the same skill when it
// still exists.
func (m Model) SetSkills(items []skills.Skill) Model {
	var selected string
	if s, ok := m.Selected(); ok {
		selected = s.ID
	}
	m.items = items
	m.cursor = min(m.cursor, max(len(items)-1, 0))
	if selected != "" {
		m = m.SelectID(selected)
	}
	m.scroll()
	return m
}

// SelectID moves the cursor to the skill with id, if listed.
func (m Model) SelectID(id string) Model {
	for i, s := range m.items {
		if s.ID == id {
			m.cursor = i
			m.scroll()
			break
		}
	}
	return m
}

// SetSize sets the area the list may draw in.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.scroll()
	return m
}

// SetShowLabels toggles the level description column.
func (m Model) SetShowLabels(show bool) Model {
	m.showLabels = show
	return m
}

// Cursor returns the selected row index.
func (m Model) Cursor() int {
	return m.cursor
}

// Len returns the number of rows.
func (m Model) Len() int {
	return len(m.items)
}

// Selected returns the skill under the cursor.
func (m Model) Selected() (skills.Skill, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return skills.Skill{}, false
	}
	return m.items[m.cursor], true
}

// Update handles navigation, level and remove keys, and clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Board.Up):
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case key.Matches(msg, keys.Board.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.scroll()
			}
		case key.Matches(msg, keys.Board.Increase):
			return m, m.intent(func(s skills.Skill) tea.Msg { return StepMsg{ID: s.ID, Delta: 1} })
		case key.Matches(msg, keys.Board.Decrease):
			return m, m.intent(func(s skills.Skill) tea.Msg { return StepMsg{ID: s.ID, Delta: -1} })
		case key.Matches(msg, keys.Board.Remove):
			return m, m.intent(func(s skills.Skill) tea.Msg { return RemoveMsg{ID: s.ID} })
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) intent(build func(skills.Skill) tea.Msg) tea.Cmd {
	s, ok := m.Selected()
	if !ok {
		return nil
	}
	msg := build(s)
	return func() tea.Msg { return msg }
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp && m.cursor > 0:
		m.cursor--
		m.scroll()
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown && m.cursor < len(m.items)-1:
		m.cursor++
		m.scroll()
		return m, nil
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	for i, s := range m.visible() {
		idx := m.offset + i
		if z := zone.Get(RemoveZoneID(s.ID)); z != nil && z.InBounds(msg) {
			m.cursor = idx
			id := s.ID
			return m, func() tea.Msg { return RemoveMsg{ID: id} }
		}
		for level := skills.MinLevel; level <= skills.MaxLevel; level++ {
			if z := zone.Get(LevelZoneID(s.ID, level)); z != nil && z.InBounds(msg) {
				m.cursor = idx
				id, lvl := s.ID, level
				return m, func() tea.Msg { return LevelMsg{ID: id, Level: lvl} }
			}
		}
	}
	return m, nil
}

// LevelZoneID is the bubblezone id of level cell n in the row for id.
func LevelZoneID(id string, n int) string {
	return fmt.Sprintf("skilllist-level-%s-%d", id, n)
}

// RemoveZoneID is the bubblezone id of the remove marker in the row for id.
func RemoveZoneID(id string) string {
	return "skilllist-remove-" + id
}

func (m Model) visible() []skills.Skill {
	if m.height <= 0 || len(m.items) <= m.height {
		return m.items
	}
	end := min(m.offset+m.height, len(m.items))
	return m.items[m.offset:end]
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.height <= 0 || len(m.items) <= m.height {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = min(m.offset, len(m.items)-m.height)
}

// View renders the visible rows.
func (m Model) View() string {
	if len(m.items) == 0 {
		return styles.MutedStyle.Render("No skills yet. Press a to add one.")
	}

	nameWidth := nameMinWidth
	for _, s := range m.items {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
	}
	nameWidth = min(nameWidth, nameMaxWidth)

	// Labels are the first thing to go on narrow screens.
	labels := m.showLabels && (m.width <= 0 || rowWidth(nameWidth, true) <= m.width)

	rows := make([]string, 0, len(m.items))
	for i, s := range m.visible() {
		rows = append(rows, renderRow(s, m.offset+i == m.cursor, nameWidth, labels))
	}
	return strings.Join(rows, "\n")
}

func renderRow(s skills.Skill, selected bool, nameWidth int, labels bool) string {
	indicator := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">") + " "
		nameStyle = styles.SelectedRowStyle
	}

	name := padding.String(styles.TruncateString(s.Name, nameWidth), uint(nameWidth)) //nolint:gosec // G115: width is bounded
	var b strings.Builder
	b.WriteString(indicator)
	b.WriteString(nameStyle.Render(name))
	b.WriteString("  ")
	b.WriteString(renderLevelBar(s))
	fmt.Fprintf(&b, " %d/%d", s.Level, skills.MaxLevel)
	if labels {
		b.WriteString("  ")
		b.WriteString(styles.MutedStyle.Render(padding.String(s.Label(), uint(labelWidth())))) //nolint:gosec // G115: width is bounded
	}
	b.WriteString("  ")
	b.WriteString(zone.Mark(RemoveZoneID(s.ID), styles.ErrorTextStyle.Render(removeMarker)))
	return b.String()
}

func renderLevelBar(s skills.Skill) string {
	var b strings.Builder
	for n := skills.MinLevel; n <= skills.MaxLevel; n++ {
		cell := styles.LevelEmptyStyle.Render(emptyCell)
		if n <= s.Level {
			cell = styles.LevelFilledStyle.Render(filledCell)
		}
		b.WriteString(zone.Mark(LevelZoneID(s.ID, n), cell))
	}
	return b.String()
}

func labelWidth() int {
	w := 0
	for n := skills.MinLevel; n <= skills.MaxLevel; n++ {
		w = max(w, runewidth.StringWidth(skills.LevelLabel(n)))
	}
	return w
}

// rowWidth is the unstyled width of a row: indicator, name, bar, "n/5",
// optional label, remove marker.
func rowWidth(nameWidth int, labels bool) int {
	w := 2 + nameWidth + 2 + skills.MaxLevel + 4 + 2 + len(removeMarker)
	if labels {
		w += 2 + labelWidth()
	}
	return w
}
