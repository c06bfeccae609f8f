// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// BoardKeyMap holds the bindings active while the skill list has focus.
type BoardKeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Level
	Decrease key.Binding
	Increase key.Binding

	// Actions
	Add    key.Binding
	Remove key.Binding
	Sort   key.Binding

	// General
	Help         key.Binding
	Logs         key.Binding
	ToggleStatus key.Binding
	Quit         key.Binding
}

// InputKeyMap holds the bindings active while the add-skill input is open.
type InputKeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Confirm key.Binding
	Dismiss key.Binding
}

// PickerKeyMap holds the bindings for single-choice menus.
type PickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// Board is the default list keymap.
var Board = BoardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("h", "left", "-"),
		key.WithHelp("h/←", "lower level"),
	),
	Increase: key.NewBinding(
		key.WithKeys("l", "right", "+"),
		key.WithHelp("l/→", "raise level"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add skill"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d/x", "remove skill"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "debug log"),
	),
	ToggleStatus: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "toggle status bar"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Input is the default add-skill keymap.
var Input = InputKeyMap{
	Prev: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑/ctrl+p", "previous match"),
	),
	Next: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓/ctrl+n", "next match"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close matches / cancel"),
	),
}

// Picker is the default menu keymap.
var Picker = PickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up", "ctrl+p"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down", "ctrl+n"),
		key.WithHelp("j/↓", "down"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "cancel"),
	),
}

// ShortHelp returns keybindings for the status bar.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Decrease, k.Increase, k.Remove, k.Sort, k.Help, k.Quit}
}

// FullHelp returns keybindings grouped for the help overlay.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Decrease, k.Increase},
		{k.Add, k.Remove, k.Sort},
		{k.Help, k.Logs, k.ToggleStatus, k.Quit},
	}
}

// ShortHelp returns keybindings for the input hint line.
func (k InputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Confirm, k.Dismiss}
}

// FullHelp implements help.KeyMap.
func (k InputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
