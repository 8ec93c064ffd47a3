// Package tui is the terminal front end: a five-day week grid with
// drag-to-create and drag-to-move scheduling, a person sidebar, an
// event editor modal, and a click-to-inspect popover. All scheduling
// logic lives in the view package; this package only translates key
// and mouse input and renders state.
package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/md-rashed-zaman/opscal/internal/dragstate"
	"github.com/md-rashed-zaman/opscal/internal/editor"
	"github.com/md-rashed-zaman/opscal/internal/inspector"
	"github.com/md-rashed-zaman/opscal/internal/model"
	"github.com/md-rashed-zaman/opscal/internal/view"
)

type uiMode int

const (
	modeGrid uiMode = iota
	modeEditor
	modeInspector
	modeConfirmDelete
)

type sidebarEntry struct {
	header   bool
	label    string
	personID string
	kind     model.PersonType
}

type popoverState struct {
	event model.Event
	pos   inspector.Point
}

// Messages from command goroutines back into Update.

type dataLoadedMsg struct{ err error }

type mutationDoneMsg struct{ err error }

type errorFadeMsg struct{}

const errorFadeDelay = 5 * time.Second

type Model struct {
	ctx    context.Context
	cal    *view.Calendar
	logger *slog.Logger
	now    func() time.Time

	width  int
	height int
	ready  bool

	slotOffset int
	mode       uiMode

	sidebar       []sidebarEntry
	sidebarCursor int

	form     *editorForm
	popover  *popoverState
	deleteID string

	errText string
}

func New(ctx context.Context, cal *view.Calendar, logger *slog.Logger) Model {
	return Model{
		ctx:    ctx,
		cal:    cal,
		logger: logger,
		now:    time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return dataLoadedMsg{err: m.cal.Load(m.ctx)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return dataLoadedMsg{err: m.cal.Refresh(m.ctx)}
	}
}

func (m Model) moveCmd(id string, dest dragstate.Cell) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.cal.MoveEvent(m.ctx, id, dest)}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.cal.DeleteEvent(m.ctx, id)}
	}
}

func (m Model) saveCmd(mode editor.Mode, event model.Event) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.cal.SaveEvent(m.ctx, mode, event)}
	}
}

func errorFadeCmd() tea.Cmd {
	return tea.Tick(errorFadeDelay, func(time.Time) tea.Msg { return errorFadeMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampScroll()
		return m, nil

	case dataLoadedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, errorFadeCmd()
		}
		m.rebuildSidebar()
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			// A failed save renders inside the open editor; anything
			// else lands in the status line.
			if m.mode == modeEditor && m.form != nil {
				m.form.form.RecordSaveFailure()
				return m, nil
			}
			m.errText = msg.err.Error()
			return m, errorFadeCmd()
		}
		if m.mode == modeEditor {
			m.mode = modeGrid
			m.form = nil
		}
		if m.mode == modeConfirmDelete {
			m.mode = modeGrid
			m.deleteID = ""
			m.popover = nil
		}
		return m, nil

	case errorFadeMsg:
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeEditor:
		return m.handleEditorKey(msg)
	case modeInspector:
		return m.handleInspectorKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "left", "h":
		m.cal.PrevWeek()
		return m, m.refreshCmd()

	case "right", "l":
		m.cal.NextWeek()
		return m, m.refreshCmd()

	case "t":
		m.cal.Today(m.now())
		return m, m.refreshCmd()

	case "r":
		return m, m.loadCmd()

	case "up":
		m.scrollBy(-1)
		return m, nil

	case "down":
		m.scrollBy(1)
		return m, nil

	case "pgup":
		m.scrollBy(-8)
		return m, nil

	case "pgdown":
		m.scrollBy(8)
		return m, nil

	case "j":
		m.moveSidebarCursor(1)
		return m, nil

	case "k":
		m.moveSidebarCursor(-1)
		return m, nil

	case " ":
		if e, ok := m.sidebarEntryAt(m.sidebarCursor); ok && !e.header {
			m.cal.Directory().Toggle(e.personID)
		}
		return m, nil

	case "e":
		m.cal.Directory().ToggleAllOfType(model.PersonEmployee)
		return m, nil

	case "c":
		m.cal.Directory().ToggleAllOfType(model.PersonCustomer)
		return m, nil

	case "esc":
		if m.cal.Drag.Active() {
			m.cal.Drag.Abandon()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleInspectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeGrid
		m.popover = nil

	case "enter", "e":
		if m.popover != nil {
			m.openEditorFor(m.popover.event)
			m.popover = nil
		}

	case "d":
		if m.popover != nil {
			m.deleteID = m.popover.event.ID
			m.mode = modeConfirmDelete
		}

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.deleteID
		return m, m.deleteCmd(id)

	case "n", "esc":
		m.mode = modeInspector
		m.deleteID = ""

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeGrid && m.mode != modeInspector {
		return m, nil
	}
	l := computeLayout(m.width, m.height, m.slotOffset)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-2)
		return m, nil

	case tea.MouseButtonWheelDown:
		m.scrollBy(2)
		return m, nil

	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			return m.handleLeftPress(l, msg.X, msg.Y)

		case tea.MouseActionMotion:
			if cell, ok := l.cellAt(msg.X, msg.Y); ok {
				m.cal.EnterCell(cell)
			}
			return m, nil

		case tea.MouseActionRelease:
			return m.handleLeftRelease(l, msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m Model) handleLeftPress(l layout, x, y int) (tea.Model, tea.Cmd) {
	// Any press dismisses an open popover.
	if m.mode == modeInspector {
		m.mode = modeGrid
		m.popover = nil
	}

	if idx, ok := l.sidebarRowAt(x, y); ok {
		if e, found := m.sidebarEntryAt(idx); found && !e.header {
			m.sidebarCursor = idx
			m.cal.Directory().Toggle(e.personID)
		}
		return m, nil
	}

	if cell, ok := l.cellAt(x, y); ok {
		m.cal.PressCell(cell)
	}
	return m, nil
}

func (m Model) handleLeftRelease(l layout, x, y int) (tea.Model, tea.Cmd) {
	if !m.cal.Drag.Active() {
		return m, nil
	}

	cell, ok := l.cellAt(x, y)
	if !ok {
		// Released outside the grid: the gesture dissolves.
		m.cal.Drag.Abandon()
		return m, nil
	}
	m.cal.EnterCell(cell)

	res := m.cal.Drag.Release()
	switch res.Kind {
	case dragstate.ResultCreate:
		m.form = newEditorForm(m.cal.EditorForCreate(res), m.cal.Directory().Employees(), m.cal.Directory().People())
		m.mode = modeEditor
		return m, m.form.focusCmd()

	case dragstate.ResultMove:
		return m, m.moveCmd(res.EventID, res.Dest)

	case dragstate.ResultInspect:
		event, found := m.cal.EventByID(res.EventID)
		if !found {
			return m, nil
		}
		m.openPopover(event, inspector.Point{X: x, Y: y})
		return m, nil
	}
	return m, nil
}

func (m *Model) openPopover(event model.Event, click inspector.Point) {
	size := popoverSize(event)
	pos := inspector.Place(click, inspector.Size{W: m.width, H: m.height}, size, 1)
	m.popover = &popoverState{event: event, pos: pos}
	m.mode = modeInspector
}

func (m *Model) openEditorFor(event model.Event) {
	m.form = newEditorForm(m.cal.EditorForEvent(event), m.cal.Directory().Employees(), m.cal.Directory().People())
	m.mode = modeEditor
}

func (m *Model) scrollBy(delta int) {
	m.slotOffset += delta
	m.clampScroll()
}

func (m *Model) clampScroll() {
	l := computeLayout(m.width, m.height, m.slotOffset)
	if m.slotOffset > l.maxSlotOffset() {
		m.slotOffset = l.maxSlotOffset()
	}
	if m.slotOffset < 0 {
		m.slotOffset = 0
	}
}

func (m *Model) rebuildSidebar() {
	dir := m.cal.Directory()
	entries := []sidebarEntry{{header: true, label: "Employees"}}
	for _, p := range dir.Employees() {
		entries = append(entries, sidebarEntry{label: p.Name, personID: p.ID, kind: model.PersonEmployee})
	}
	entries = append(entries, sidebarEntry{header: true, label: "Customers"})
	for _, p := range dir.Customers() {
		entries = append(entries, sidebarEntry{label: p.Name, personID: p.ID, kind: model.PersonCustomer})
	}
	m.sidebar = entries
	if m.sidebarCursor >= len(entries) {
		m.sidebarCursor = len(entries) - 1
	}
}

func (m Model) sidebarEntryAt(idx int) (sidebarEntry, bool) {
	if idx < 0 || idx >= len(m.sidebar) {
		return sidebarEntry{}, false
	}
	return m.sidebar[idx], true
}

func (m *Model) moveSidebarCursor(delta int) {
	if len(m.sidebar) == 0 {
		return
	}
	next := m.sidebarCursor + delta
	for next >= 0 && next < len(m.sidebar) && m.sidebar[next].header {
		next += delta
	}
	if next < 0 || next >= len(m.sidebar) {
		return
	}
	m.sidebarCursor = next
}
