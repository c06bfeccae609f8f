// Package picker provides a single-choice menu drawn as an overlay.
package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/skillboard/internal/keys"
	"github.com/zjrosen/skillboard/internal/ui/overlay"
	"github.com/zjrosen/skillboard/internal/ui/styles"
)

const defaultBoxWidth = 28

// Option is one menu entry.
type Option struct {
	Label string
	Value string
}

// SelectedMsg reports the confirmed option.
type SelectedMsg struct {
	Option Option
}

// CancelMsg is sent when the picker is closed without a choice.
type CancelMsg struct{}

// Model holds the picker state.
type Model struct {
	title    string
	options  []Option
	selected int
	boxWidth int
}

// New creates a picker with the first option selected.
func New(title string, options []Option) Model {
	return Model{title: title, options: options, boxWidth: defaultBoxWidth}
}

// SetSelected moves the cursor to index when it is in range.
func (m Model) SetSelected(index int) Model {
	if index >= 0 && index < len(m.options) {
		m.selected = index
	}
	return m
}

// Selected returns the option under the cursor.
func (m Model) Selected() Option {
	if m.selected >= 0 && m.selected < len(m.options) {
		return m.options[m.selected]
	}
	return Option{}
}

// Update moves the cursor or emits SelectedMsg / CancelMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Picker.Down):
		if m.selected < len(m.options)-1 {
			m.selected++
		}
	case key.Matches(keyMsg, keys.Picker.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(keyMsg, keys.Picker.Confirm):
		opt := m.Selected()
		return m, func() tea.Msg { return SelectedMsg{Option: opt} }
	case key.Matches(keyMsg, keys.Picker.Cancel):
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, nil
}

// View renders the picker box.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render(strings.Repeat("─", m.boxWidth)))
	for i, opt := range m.options {
		b.WriteString("\n")
		if i == m.selected {
			b.WriteString(styles.SelectionIndicatorStyle.Render(">"))
			b.WriteString(styles.SelectedRowStyle.Render(opt.Label))
		} else {
			b.WriteString(" " + opt.Label)
		}
	}
	return styles.OverlayBoxStyle.Width(m.boxWidth + 2).Render(b.String())
}

// Overlay renders the picker centered over background.
func (m Model) Overlay(background string, width, height int) string {
	if background == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.View())
	}
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Center}, m.View(), background)
}

// FindIndexByValue returns the index of the option with value, or 0.
func FindIndexByValue(options []Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return 0
}
