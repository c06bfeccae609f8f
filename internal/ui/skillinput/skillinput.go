// Package skillinput is the add-skill text field with its catalog dropdown.
package skillinput

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/skillboard/internal/autocomplete"
	"github.com/zjrosen/skillboard/internal/keys"
	"github.com/zjrosen/skillboard/internal/ui/styles"
)

const defaultWidth = 36

// SubmitMsg asks the app to add Name. The input stays open until the app
// calls Reset, so a rejected name can be corrected in place.
type SubmitMsg struct {
	Name string
}

// CancelMsg is sent when the user closes the input.
type CancelMsg struct{}

// Model is the add-skill input state.
type Model struct {
	input   textinput.Model
	session autocomplete.Session
	source  autocomplete.Searcher
	width   int
}

// New returns a focused, empty input searching source.
func New(source autocomplete.Searcher) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a language..."
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Width = defaultWidth
	ti.Focus()

	return Model{
		input:   ti,
		session: autocomplete.New(source),
		source:  source,
		width:   defaultWidth,
	}
}

// Value returns the raw text in the field.
func (m Model) Value() string {
	return m.input.Value()
}

// Session exposes the dropdown state.
func (m Model) Session() autocomplete.Session {
	return m.session
}

// SetWidth sets the field width in cells.
func (m Model) SetWidth(w int) Model {
	if w > 4 {
		m.width = w
		m.input.Width = w - 4
	}
	return m
}

// Reset clears the text and the dropdown.
func (m Model) Reset() Model {
	m.input.SetValue("")
	m.session = m.session.Reset()
	return m
}

// Blur drops focus, which also dismisses the dropdown.
func (m Model) Blur() Model {
	m.input.Blur()
	m.session = m.session.Dismiss()
	return m
}

// Focused reports whether the field takes keystrokes.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Update handles keystrokes and candidate clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Input.Next):
			m.session = m.session.MoveDown()
			return m, nil
		case key.Matches(msg, keys.Input.Prev):
			m.session = m.session.MoveUp()
			return m, nil
		case key.Matches(msg, keys.Input.Confirm):
			return m.submit()
		case key.Matches(msg, keys.Input.Dismiss):
			if m.session.Visible() {
				m.session = m.session.Dismiss()
				return m, nil
			}
			return m, func() tea.Msg { return CancelMsg{} }
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease || !m.session.Visible() {
			return m, nil
		}
		for i := range m.session.Candidates() {
			if z := zone.Get(CandidateZoneID(i)); z != nil && z.InBounds(msg) {
				return m.Pick(i)
			}
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.session = m.session.SetQuery(m.input.Value())
	}
	return m, cmd
}

// Pick highlights candidate i and submits it, as a click does.
func (m Model) Pick(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.session.Candidates()) {
		return m, nil
	}
	for m.session.Highlighted() < i {
		m.session = m.session.MoveDown()
	}
	for m.session.Highlighted() > i {
		m.session = m.session.MoveUp()
	}
	return m.submit()
}

// submit adopts the highlighted candidate when there is one, otherwise the
// raw text goes to the registry as typed.
func (m Model) submit() (Model, tea.Cmd) {
	session, name, ok := m.session.Confirm()
	if ok {
		m.session = session
		m.input.SetValue(name)
		m.input.CursorEnd()
	} else {
		name = m.input.Value()
	}
	return m, func() tea.Msg { return SubmitMsg{Name: name} }
}

// CandidateZoneID is the bubblezone id of dropdown row i.
func CandidateZoneID(i int) string {
	return fmt.Sprintf("skillinput-candidate-%d", i)
}

// View renders the field and, below it, the dropdown.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Add skill"))
	b.WriteString("\n")
	b.WriteString(m.input.View())

	if m.session.Visible() {
		inner := m.width - 4
		for i, c := range m.session.Candidates() {
			row := "  " + styles.TruncateString(c, inner-2)
			if i == m.session.Highlighted() {
				row = styles.SelectionIndicatorStyle.Render(">") + " " +
					styles.SelectedRowStyle.Render(styles.TruncateString(c, inner-2))
			}
			b.WriteString("\n")
			b.WriteString(zone.Mark(CandidateZoneID(i), row))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render("enter add · ↑/↓ choose · esc close"))

	return styles.OverlayBoxStyle.Width(m.width).Render(b.String())
}

// Height returns the rendered height, for layout.
func (m Model) Height() int {
	return lipgloss.Height(m.View())
}
