// Package ui provides the Bubble Tea terminal interface for Paddock.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pitwall/paddock/internal/console"
	"github.com/pitwall/paddock/internal/mcapd"
	"github.com/pitwall/paddock/internal/prefs"
	"github.com/pitwall/paddock/internal/state"
)

// snapshotTick is how often the model re-reads the store between events.
// Controller operations run on background commands, so the view needs a
// cadence to pick up busy flags while a call is still in flight.
const snapshotTick = 250 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context       context.Context
	Controller    *console.Controller
	ThemeName     string
	PrefsPath     string
	ReplaceOnSave bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	controller    *console.Controller
	prefsPath     string
	replaceOnSave bool

	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	view        state.ViewState
	selectedRow int

	// Record filter
	searchActive bool
	searchQuery  string
	searchInput  textinput.Model

	// Upload path prompt
	uploadActive bool
	uploadInput  textinput.Model

	// Edit modal fields: vehicle id, operator id, event type id, notes
	editInputs   [4]textinput.Model
	editFocusIdx int
	editSeeded   bool

	// Summary modal scrollback
	summaryViewport viewport.Model
	summarySeeded   bool

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:           ctx,
		controller:    opts.Controller,
		prefsPath:     prefsPath,
		replaceOnSave: opts.ReplaceOnSave,
		theme:         GetTheme(themeName),
		keys:          DefaultKeyMap(),
	}
	m.initInputs()
	return m
}

func (m *Model) initInputs() {
	search := textinput.New()
	search.Placeholder = "Filter by id, vehicle, operator, notes..."
	search.CharLimit = 100
	m.searchInput = search

	upload := textinput.New()
	upload.Placeholder = "/path/to/recording.mcap"
	upload.CharLimit = 300
	upload.Width = 50
	m.uploadInput = upload

	vehicle := textinput.New()
	vehicle.Placeholder = "vehicle id (blank clears)"
	vehicle.CharLimit = 12
	vehicle.Width = 30

	operator := textinput.New()
	operator.Placeholder = "operator id (blank clears)"
	operator.CharLimit = 12
	operator.Width = 30

	eventType := textinput.New()
	eventType.Placeholder = "event type id (blank clears)"
	eventType.CharLimit = 12
	eventType.Width = 30

	notes := textinput.New()
	notes.Placeholder = "session notes"
	notes.CharLimit = 500
	notes.Width = 44

	m.editInputs[0] = vehicle
	m.editInputs[1] = operator
	m.editInputs[2] = eventType
	m.editInputs[3] = notes
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		m.snapshotCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.summarySeeded {
			m.summaryViewport.Width, m.summaryViewport.Height = m.summaryExtent()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd())

	case stateMsg:
		m.applyState(state.ViewState(msg))
		return m, nil
	}

	return m, nil
}

// applyState installs a fresh store snapshot and keeps derived UI state
// (selection bounds, edit field seeding) consistent with it.
func (m *Model) applyState(view state.ViewState) {
	m.view = view

	visible := m.visibleLogs()
	if len(visible) == 0 {
		m.selectedRow = 0
	} else if m.selectedRow >= len(visible) {
		m.selectedRow = len(visible) - 1
	}

	if view.Modal.Kind == state.ModalEdit {
		if !m.editSeeded {
			m.seedEditInputs(view.Draft)
			m.editSeeded = true
		}
	} else {
		m.editSeeded = false
	}

	if view.Modal.Kind == state.ModalSummary {
		if !m.summarySeeded {
			width, height := m.summaryExtent()
			m.summaryViewport = viewport.New(width, height)
			m.summaryViewport.SetContent(summaryContent(view.Modal.Summary))
			m.summarySeeded = true
		}
	} else {
		m.summarySeeded = false
	}
}

func (m *Model) seedEditInputs(draft state.EditDraft) {
	m.editInputs[0].SetValue(draft.VehicleID)
	m.editInputs[1].SetValue(draft.OperatorID)
	m.editInputs[2].SetValue(draft.EventTypeID)
	m.editInputs[3].SetValue(draft.Notes)
	m.editFocusIdx = 0
	m.editInputs[0].Focus()
	for i := 1; i < len(m.editInputs); i++ {
		m.editInputs[i].Blur()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.view.Modal.Kind != state.ModalNone {
		return m.renderModal()
	}

	return m.renderMain()
}

// visibleLogs returns the collection projected through the active filter.
func (m Model) visibleLogs() []mcapd.LogRecord {
	return console.Filter(m.view.Logs, m.controller.Lookups(), m.searchQuery)
}

// selectedLog returns the record under the cursor, or nil when none.
func (m Model) selectedLog() *mcapd.LogRecord {
	visible := m.visibleLogs()
	if m.selectedRow < 0 || m.selectedRow >= len(visible) {
		return nil
	}
	return &visible[m.selectedRow]
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}
	if m.uploadActive {
		return m.handleUploadKey(msg)
	}

	switch m.view.Modal.Kind {
	case state.ModalEdit:
		return m.handleEditKey(msg)
	case state.ModalConfirmDelete:
		return m.handleConfirmKey(msg)
	case state.ModalView, state.ModalMap, state.ModalSummary:
		return m.handleDismissKey(msg)
	}

	return m.handleBrowseKey(msg)
}

// handleBrowseKey processes input on the main collection view.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ReplaceOnSave: m.replaceOnSave})
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.dispatch(m.controller.Refresh)

	case key.Matches(msg, m.keys.Upload):
		m.uploadActive = true
		m.uploadInput.SetValue("")
		m.uploadInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Summary):
		return m, m.dispatch(m.controller.Summary)

	case key.Matches(msg, m.keys.Escape):
		m.searchQuery = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.visibleLogs())-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.visibleLogs()); n > 0 {
			m.selectedRow = n - 1
		}
		return m, nil
	}

	record := m.selectedLog()
	if record == nil {
		return m, nil
	}
	id := record.ID

	switch {
	case key.Matches(msg, m.keys.View):
		return m, m.dispatchID(m.controller.View, id)

	case key.Matches(msg, m.keys.Edit):
		return m, m.dispatchID(m.controller.Edit, id)

	case key.Matches(msg, m.keys.Delete):
		m.controller.ConfirmDelete(id)
		return m, m.snapshotCmd()

	case key.Matches(msg, m.keys.Download):
		return m, m.dispatchID(m.controller.Download, id)

	case key.Matches(msg, m.keys.Map):
		return m, m.dispatchID(m.controller.ShowMap, id)
	}

	return m, nil
}

// handleSearchKey processes input while the filter prompt is open.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.searchActive = false
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleUploadKey processes input while the upload path prompt is open.
func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.uploadActive = false
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		path := strings.TrimSpace(m.uploadInput.Value())
		m.uploadActive = false
		if path == "" {
			return m, nil
		}
		controller := m.controller
		return m, m.dispatch(func(ctx context.Context) {
			controller.Upload(ctx, path)
		})
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

// handleEditKey processes input while the edit modal is open.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.controller.CloseModal()
		return m, m.snapshotCmd()

	case key.Matches(msg, m.keys.Confirm):
		m.controller.UpdateDraft(state.EditDraft{
			VehicleID:   strings.TrimSpace(m.editInputs[0].Value()),
			OperatorID:  strings.TrimSpace(m.editInputs[1].Value()),
			EventTypeID: strings.TrimSpace(m.editInputs[2].Value()),
			Notes:       m.editInputs[3].Value(),
		})
		mode := mcapd.UpdateMerge
		if m.replaceOnSave {
			mode = mcapd.UpdateReplace
		}
		controller := m.controller
		return m, m.dispatch(func(ctx context.Context) {
			controller.Save(ctx, mode)
		})

	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		m.editInputs[m.editFocusIdx].Blur()
		m.editFocusIdx = (m.editFocusIdx + 1) % len(m.editInputs)
		m.editInputs[m.editFocusIdx].Focus()
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		m.editInputs[m.editFocusIdx].Blur()
		m.editFocusIdx = (m.editFocusIdx - 1 + len(m.editInputs)) % len(m.editInputs)
		m.editInputs[m.editFocusIdx].Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocusIdx], cmd = m.editInputs[m.editFocusIdx].Update(msg)
	return m, cmd
}

// handleConfirmKey processes input while the delete confirmation is open.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), msg.String() == "y":
		return m, m.dispatch(m.controller.Delete)

	case key.Matches(msg, m.keys.Escape), msg.String() == "n":
		m.controller.CloseModal()
		return m, m.snapshotCmd()
	}
	return m, nil
}

// handleDismissKey processes input on read-only modals (view, map, summary).
func (m Model) handleDismissKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.controller.CloseModal()
		return m, m.snapshotCmd()

	case key.Matches(msg, m.keys.Edit):
		if m.view.Modal.Kind == state.ModalView {
			id := m.view.Modal.LogID
			return m, m.dispatchID(m.controller.Edit, id)
		}

	case key.Matches(msg, m.keys.Download):
		if m.view.Modal.Kind == state.ModalView {
			id := m.view.Modal.LogID
			return m, m.dispatchID(m.controller.Download, id)
		}
	}

	if m.view.Modal.Kind == state.ModalSummary {
		var cmd tea.Cmd
		m.summaryViewport, cmd = m.summaryViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Messages

type tickMsg time.Time

type stateMsg state.ViewState

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(snapshotTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// snapshotCmd re-reads the store without touching the backend.
func (m Model) snapshotCmd() tea.Cmd {
	store := m.controller.Store()
	return func() tea.Msg {
		return stateMsg(store.Snapshot())
	}
}

// dispatch runs a controller operation off the update loop and delivers the
// resulting store state back as a message.
func (m Model) dispatch(op func(context.Context)) tea.Cmd {
	ctx := m.ctx
	store := m.controller.Store()
	return func() tea.Msg {
		op(ctx)
		return stateMsg(store.Snapshot())
	}
}

func (m Model) dispatchID(op func(context.Context, int64), id int64) tea.Cmd {
	return m.dispatch(func(ctx context.Context) {
		op(ctx, id)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
