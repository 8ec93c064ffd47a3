// Package view is the composition root of the calendar: it owns the
// visible week, the person directory, the drag machine, and the event
// cache, and it wires editor/inspector actions to API calls. Every
// mutation is one HTTP call followed by a scoped refetch of the event
// list; week and selection state survive the refetch. The server is
// the single source of truth and the cache never merges optimistically.
package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/md-rashed-zaman/opscal/internal/calclient"
	"github.com/md-rashed-zaman/opscal/internal/directory"
	"github.com/md-rashed-zaman/opscal/internal/dragstate"
	"github.com/md-rashed-zaman/opscal/internal/editor"
	"github.com/md-rashed-zaman/opscal/internal/model"
	"github.com/md-rashed-zaman/opscal/internal/session"
	"github.com/md-rashed-zaman/opscal/internal/timegrid"
)

// API is the slice of the calendar client the view needs.
type API interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]model.Event, error)
	CreateSlot(ctx context.Context, req calclient.CreateSlotRequest) (model.Event, error)
	CreateBooking(ctx context.Context, req calclient.CreateBookingRequest) (model.Event, error)
	Reschedule(ctx context.Context, id string, from, to time.Time) error
	UpdateSlot(ctx context.Context, id string, req calclient.UpdateSlotRequest) error
	DeleteSlot(ctx context.Context, id string) error
}

type Calendar struct {
	api     API
	dir     *directory.Directory
	sess    session.Session
	logger  *slog.Logger
	loc     *time.Location
	tzName  string

	// mu guards everything below. The TUI reads state from its render
	// loop while mutations run in command goroutines.
	mu        sync.Mutex
	weekStart time.Time
	events    []model.Event
	loading   bool
	saving    bool

	Drag dragstate.Machine
}

func New(api API, dir *directory.Directory, sess session.Session, loc *time.Location, logger *slog.Logger, now time.Time) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{
		api:       api,
		dir:       dir,
		sess:      sess,
		logger:    logger,
		loc:       loc,
		tzName:    loc.String(),
		weekStart: timegrid.WeekStart(now.In(loc)),
	}
}

func (c *Calendar) Directory() *directory.Directory { return c.dir }
func (c *Calendar) Session() session.Session        { return c.sess }
func (c *Calendar) Location() *time.Location        { return c.loc }

// Load fetches the directory and the initial event window.
func (c *Calendar) Load(ctx context.Context) error {
	if err := c.dir.Load(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Refresh refetches the current week's events. This is the one
// invalidation path: every successful mutation ends here, and nothing
// else ever rewrites the cache.
func (c *Calendar) Refresh(ctx context.Context) error {
	c.mu.Lock()
	from := c.weekStart
	c.loading = true
	c.mu.Unlock()

	events, err := c.api.ListEvents(ctx, from, from.AddDate(0, 0, 7))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return err
	}
	c.events = events
	return nil
}

func (c *Calendar) Loading() bool { c.mu.Lock(); defer c.mu.Unlock(); return c.loading }
func (c *Calendar) Saving() bool  { c.mu.Lock(); defer c.mu.Unlock(); return c.saving }

func (c *Calendar) WeekStart() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekStart
}

func (c *Calendar) WeekDays() [timegrid.WorkDays]time.Time {
	return timegrid.WeekDays(c.WeekStart())
}

// PrevWeek/NextWeek/Today shift the visible week. Pure and
// synchronous; the caller refetches afterwards.
func (c *Calendar) PrevWeek() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weekStart = timegrid.PrevWeek(c.weekStart)
}

func (c *Calendar) NextWeek() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weekStart = timegrid.NextWeek(c.weekStart)
}

func (c *Calendar) Today(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weekStart = timegrid.WeekStart(now.In(c.loc))
}

// Grid buckets the selected people's events into the visible week.
func (c *Calendar) Grid() timegrid.Grid {
	c.mu.Lock()
	events := c.dir.FilterEvents(c.events)
	weekStart := c.weekStart
	c.mu.Unlock()
	return timegrid.Bucket(events, timegrid.WeekDays(weekStart), c.loc)
}

// EventsAt returns the visible events starting in one grid cell.
func (c *Calendar) EventsAt(cell dragstate.Cell) []model.Event {
	days := c.WeekDays()
	slots := timegrid.Slots()
	if cell.Day < 0 || cell.Day >= len(days) || cell.Slot < 0 || cell.Slot >= len(slots) {
		return nil
	}
	return c.Grid().At(days[cell.Day], slots[cell.Slot])
}

// BookedAt returns the first booked event in a cell, if any.
func (c *Calendar) BookedAt(cell dragstate.Cell) (model.Event, bool) {
	for _, e := range c.EventsAt(cell) {
		if e.Booked() {
			return e, true
		}
	}
	return model.Event{}, false
}

// EventByID finds an event in the current cache.
func (c *Calendar) EventByID(id string) (model.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// PressCell starts a gesture: a booked cell begins a move, an empty
// cell begins a create with the candidate owner. With an empty
// directory there is nothing to schedule and the press is ignored.
func (c *Calendar) PressCell(cell dragstate.Cell) {
	if booked, ok := c.BookedAt(cell); ok {
		c.Drag.StartMove(cell, booked.ID)
		return
	}
	owner, ok := c.dir.CandidateOwner()
	if !ok {
		return
	}
	c.Drag.StartCreate(cell, owner)
}

// EnterCell forwards pointer motion to the drag machine.
func (c *Calendar) EnterCell(cell dragstate.Cell) {
	c.Drag.Enter(cell)
}

// EditorForCreate turns a resolved create gesture into a pre-filled
// form. The gesture itself persisted nothing.
func (c *Calendar) EditorForCreate(res dragstate.Result) *editor.Form {
	days := c.WeekDays()
	slots := timegrid.Slots()
	from := timegrid.SlotStart(days[res.From.Day], slots[res.From.Slot])
	to := timegrid.SlotStart(days[res.To.Day], slots[res.To.Slot]).Add(timegrid.SlotMinutes * time.Minute)
	return editor.NewCreate(res.Owner, from, to, c.tzName, c.sess)
}

// EditorForEvent opens an existing event for editing.
func (c *Calendar) EditorForEvent(event model.Event) *editor.Form {
	owner, _ := c.dir.ByID(event.PersonEntityID)
	return editor.NewEdit(event, owner, c.sess)
}

// MoveEvent reschedules an event to start at dest, preserving its
// duration, then refetches. A failed PATCH leaves the cache untouched;
// the drag preview is already gone either way.
func (c *Calendar) MoveEvent(ctx context.Context, id string, dest dragstate.Cell) error {
	event, ok := c.EventByID(id)
	if !ok {
		return calclient.ErrNotFound
	}
	days := c.WeekDays()
	slots := timegrid.Slots()
	from := timegrid.SlotStart(days[dest.Day], slots[dest.Slot])
	to := from.Add(event.Duration())

	c.setSaving(true)
	err := c.api.Reschedule(ctx, id, from, to)
	c.setSaving(false)
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// SaveEvent persists an editor form's result: POST for create, PATCH
// for edit, then refetch.
func (c *Calendar) SaveEvent(ctx context.Context, mode editor.Mode, event model.Event) error {
	c.setSaving(true)
	var err error
	if mode == editor.ModeCreate {
		_, err = c.api.CreateSlot(ctx, createSlotRequest(event))
	} else {
		err = c.api.UpdateSlot(ctx, event.ID, updateSlotRequest(event))
	}
	c.setSaving(false)
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// CreateBooking runs the orchestrated booking flow, then refetches.
func (c *Calendar) CreateBooking(ctx context.Context, req calclient.CreateBookingRequest) error {
	c.setSaving(true)
	_, err := c.api.CreateBooking(ctx, req)
	c.setSaving(false)
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// DeleteEvent removes a slot, then refetches. Callers confirm with the
// user before getting here.
func (c *Calendar) DeleteEvent(ctx context.Context, id string) error {
	c.setSaving(true)
	err := c.api.DeleteSlot(ctx, id)
	c.setSaving(false)
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func (c *Calendar) setSaving(v bool) {
	c.mu.Lock()
	c.saving = v
	c.mu.Unlock()
}

func createSlotRequest(event model.Event) calclient.CreateSlotRequest {
	return calclient.CreateSlotRequest{
		Code:             event.Code,
		Name:             event.Title,
		PersonEntityType: string(event.PersonEntityType),
		PersonEntityID:   event.PersonEntityID,
		FromTs:           event.FromTs,
		ToTs:             event.ToTs,
		Timezone:         event.Timezone,
		AvailabilityFlag: event.Available,
		EventType:        string(event.EventType),
		PlatformProvider: event.PlatformProvider,
		Address:          event.Address,
		Instructions:     event.Instructions,
		Organizers:       event.Organizers,
		Attendees:        event.Attendees,
	}
}

func updateSlotRequest(event model.Event) calclient.UpdateSlotRequest {
	name := event.Title
	from := event.FromTs
	to := event.ToTs
	eventType := string(event.EventType)
	platform := event.PlatformProvider
	address := event.Address
	instructions := event.Instructions
	organizers := event.Organizers
	attendees := event.Attendees
	return calclient.UpdateSlotRequest{
		Name:             &name,
		FromTs:           &from,
		ToTs:             &to,
		EventType:        &eventType,
		PlatformProvider: &platform,
		Address:          &address,
		Instructions:     &instructions,
		Organizers:       &organizers,
		Attendees:        &attendees,
	}
}
