// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bubblehelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/skillboard/internal/autocomplete"
	"github.com/zjrosen/skillboard/internal/keys"
	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/pubsub"
	"github.com/zjrosen/skillboard/internal/skills"
	"github.com/zjrosen/skillboard/internal/ui/help"
	"github.com/zjrosen/skillboard/internal/ui/logoverlay"
	"github.com/zjrosen/skillboard/internal/ui/overlay"
	"github.com/zjrosen/skillboard/internal/ui/picker"
	"github.com/zjrosen/skillboard/internal/ui/skillinput"
	"github.com/zjrosen/skillboard/internal/ui/skilllist"
	"github.com/zjrosen/skillboard/internal/ui/styles"
	"github.com/zjrosen/skillboard/internal/ui/toaster"
)

// focus is the component that receives key presses.
type focus int

const (
	focusList focus = iota
	focusInput
	focusSort
	focusHelp
)

// Config carries the services and settings the model needs.
type Config struct {
	Registry *skills.Registry
	Catalog  autocomplete.Searcher
	// Events receives the registry's mutation events. Optional.
	Events *pubsub.Broker[skills.Skill]
	// Logs feeds the debug overlay. Nil disables ctrl+l.
	Logs *pubsub.Broker[string]

	ShowLevelLabels bool
	ShowStatusBar   bool
	MarkdownStyle   string

	// StartupWarning is shown as a toast once the UI starts, e.g. when the
	// saved skills could not be read.
	StartupWarning string
}

// Model is the root application state.
type Model struct {
	registry *skills.Registry
	catalog  autocomplete.Searcher

	focus  focus
	list   skilllist.Model
	input  skillinput.Model
	sorter picker.Model
	help   help.Model

	statusBar     bubblehelp.Model
	showStatusBar bool

	toaster    toaster.Model
	logOverlay logoverlay.Model

	ctx            context.Context
	cancel         context.CancelFunc
	eventsListener *pubsub.ContinuousListener[skills.Skill]
	logListener    *pubsub.ContinuousListener[string]

	startupWarning string

	width  int
	height int
}

// New creates the root model. Call Close when the program exits.
func New(cfg Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		registry:       cfg.Registry,
		catalog:        cfg.Catalog,
		list:           skilllist.New(cfg.ShowLevelLabels).SetSkills(cfg.Registry.Skills()),
		help:           help.New(cfg.MarkdownStyle),
		statusBar:      bubblehelp.New(),
		showStatusBar:  cfg.ShowStatusBar,
		toaster:        toaster.New(),
		logOverlay:     logoverlay.New(logoverlay.DefaultCapacity),
		ctx:            ctx,
		cancel:         cancel,
		startupWarning: cfg.StartupWarning,
	}
	if cfg.Events != nil {
		m.eventsListener = pubsub.NewContinuousListener(ctx, cfg.Events)
	}
	if cfg.Logs != nil {
		m.logListener = pubsub.NewContinuousListener(ctx, cfg.Logs)
	}
	return m
}

// Init starts the event listeners and shows any startup warning.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.eventsListener != nil {
		cmds = append(cmds, m.eventsListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.startupWarning != "" {
		warning := m.startupWarning
		cmds = append(cmds, func() tea.Msg { return toastMsg{text: warning, style: toaster.StyleWarn} })
	}
	return tea.Batch(cmds...)
}

// toastMsg asks the model to show a toast.
type toastMsg struct {
	text  string
	style toaster.Style
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list = m.list.SetSize(msg.Width, m.listHeight())
		m.input = m.input.SetWidth(min(msg.Width-4, 48))
		m.statusBar.Width = msg.Width
		m.logOverlay = m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case pubsub.Event[skills.Skill]:
		return m.handleRegistryEvent(msg)

	case log.LogEvent:
		m.logOverlay = m.logOverlay.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case toastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.text, msg.style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logoverlay.CloseMsg:
		return m, nil

	case skillinput.SubmitMsg:
		return m.handleSubmit(msg.Name)

	case skillinput.CancelMsg:
		m.closeInput()
		return m, nil

	case picker.SelectedMsg:
		m.focus = focusList
		return m.handleSort(skills.SortCriterion(msg.Option.Value))

	case picker.CancelMsg:
		m.focus = focusList
		return m, nil

	case skilllist.StepMsg:
		var err error
		if msg.Delta > 0 {
			err = m.registry.Increment(m.ctx, msg.ID)
		} else {
			err = m.registry.Decrement(m.ctx, msg.ID)
		}
		return m.afterMutation(err)

	case skilllist.LevelMsg:
		return m.afterMutation(m.registry.SetLevel(m.ctx, msg.ID, msg.Level))

	case skilllist.RemoveMsg:
		return m.afterMutation(m.registry.Remove(m.ctx, msg.ID))

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.logListener != nil && key.Matches(msg, keys.Board.Logs) && !m.logOverlay.Visible() {
		m.logOverlay = m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusInput:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case focusSort:
		var cmd tea.Cmd
		m.sorter, cmd = m.sorter.Update(msg)
		return m, cmd

	case focusHelp:
		if key.Matches(msg, keys.Board.Help) || msg.Type == tea.KeyEsc || key.Matches(msg, keys.Board.Quit) {
			m.focus = focusList
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Board.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Board.Add):
		m.focus = focusInput
		m.input = skillinput.New(m.catalog).SetWidth(min(max(m.width-4, 20), 48))
		return m, nil

	case key.Matches(msg, keys.Board.Sort):
		m.focus = focusSort
		m.sorter = picker.New("Sort by", sortOptions())
		return m, nil

	case key.Matches(msg, keys.Board.Help):
		m.focus = focusHelp
		return m, nil

	case key.Matches(msg, keys.Board.ToggleStatus):
		m.showStatusBar = !m.showStatusBar
		m.list = m.list.SetSize(m.width, m.listHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.logOverlay.Visible():
		m.logOverlay, cmd = m.logOverlay.Update(msg)
	case m.focus == focusInput:
		m.input, cmd = m.input.Update(msg)
	case m.focus == focusList:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// handleSubmit adds name. A rejected name keeps the input open with its text
// so it can be corrected; the toast explains why.
func (m Model) handleSubmit(name string) (tea.Model, tea.Cmd) {
	added, err := m.registry.Add(m.ctx, name)

	var invalid *skills.InvalidCatalogEntryError
	var dup *skills.DuplicateSkillError
	switch {
	case errors.Is(err, skills.ErrEmptyInput):
		return m, nil
	case errors.As(err, &invalid):
		log.Debug(log.CatUI, "Rejected skill name", "name", invalid.Name)
		return m.toast(skills.ErrInvalidCatalogEntry.Error(), toaster.StyleError)
	case errors.As(err, &dup):
		log.Debug(log.CatUI, "Rejected duplicate skill", "name", dup.Name)
		return m.toast(dup.Error(), toaster.StyleError)
	}

	m.closeInput()
	m.list = m.list.SetSkills(m.registry.Skills()).SelectID(added.ID)
	if err != nil {
		return m.persistWarning(err)
	}
	return m, nil
}

func (m Model) handleSort(c skills.SortCriterion) (tea.Model, tea.Cmd) {
	err := m.registry.Sort(m.ctx, c)
	m.list = m.list.SetSkills(m.registry.Skills())
	if err != nil {
		return m.persistWarning(err)
	}
	return m.toast("Sorted by "+strings.ToLower(c.Label()), toaster.StyleInfo)
}

// afterMutation refreshes the list and reports a failed write. The in-memory
// change stands either way.
func (m Model) afterMutation(err error) (tea.Model, tea.Cmd) {
	m.list = m.list.SetSkills(m.registry.Skills())
	if err != nil {
		return m.persistWarning(err)
	}
	return m, nil
}

func (m Model) persistWarning(err error) (tea.Model, tea.Cmd) {
	log.ErrorErr(log.CatUI, "Change not saved", err)
	if errors.Is(err, skills.ErrPersistenceWrite) {
		return m.toast("Change kept but not saved", toaster.StyleWarn)
	}
	return m.toast(err.Error(), toaster.StyleError)
}

func (m Model) handleRegistryEvent(ev pubsub.Event[skills.Skill]) (tea.Model, tea.Cmd) {
	next := m.eventsListener.Listen()
	switch ev.Type {
	case pubsub.CreatedEvent:
		mm, cmd := m.toast("Added "+ev.Payload.Name, toaster.StyleSuccess)
		return mm, tea.Batch(cmd, next)
	case pubsub.DeletedEvent:
		mm, cmd := m.toast("Removed "+ev.Payload.Name, toaster.StyleInfo)
		return mm, tea.Batch(cmd, next)
	}
	return m, next
}

func (m Model) toast(text string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(text, style, toaster.DefaultDuration)
	return m, cmd
}

func (m *Model) closeInput() {
	m.input = m.input.Reset().Blur()
	m.focus = focusList
}

func sortOptions() []picker.Option {
	opts := make([]picker.Option, len(skills.SortCriteria))
	for i, c := range skills.SortCriteria {
		opts[i] = picker.Option{Label: c.Label(), Value: string(c)}
	}
	return opts
}

func (m Model) listHeight() int {
	h := m.height - 3 // title, blank line, and status bar
	if !m.showStatusBar {
		h++
	}
	return max(h, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Skills"))
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  %d", m.registry.Len())))
	b.WriteString("\n\n")
	b.WriteString(m.list.View())

	view := b.String()
	if m.height > 0 {
		view = lipgloss.NewStyle().Height(m.height - 1).MaxHeight(m.height - 1).Render(view)
	}
	if m.showStatusBar {
		view += "\n" + styles.StatusBarStyle.Render(m.statusBar.View(keys.Board))
	}

	switch m.focus {
	case focusInput:
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Top, PadY: 2}, m.input.View(), view)
	case focusSort:
		view = m.sorter.Overlay(view, m.width, m.height)
	case focusHelp:
		view = m.help.Overlay(view, m.width, m.height)
	}

	view = m.toaster.Overlay(view, m.width, m.height)
	view = m.logOverlay.Overlay(view, m.width, m.height)

	return zone.Scan(view)
}

// Close stops the event listeners.
func (m *Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
