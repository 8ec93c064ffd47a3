// Package editor holds the event form: field state, validation, and
// submission. The form has no network access: Submit hands the caller
// the event to persist and a failed save is reported back through
// RecordSaveFailure, which lets the same form serve both free-standing
// creation and editing an existing slot.
package editor

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/opscal/internal/model"
	"github.com/md-rashed-zaman/opscal/internal/session"
)

// ErrValidation is returned by Submit when field validation fails; no
// event is built in that case.
var ErrValidation = errors.New("editor: validation failed")

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// FieldErrors maps field name to a user-facing message. Validation
// failures are field-scoped, never exceptions.
type FieldErrors map[string]string

type Form struct {
	Mode    Mode
	EventID string

	Title            string
	From             time.Time
	To               time.Time
	Timezone         string
	EventType        model.EventType
	PlatformProvider string
	Address          string
	Instructions     string
	Available        bool

	Owner      model.Person
	Organizers []model.Organizer
	Attendees  []model.Attendee

	// Errors holds the result of the last Validate/Submit. SubmitErr
	// is set when the save itself failed; the form stays open so the
	// user can retry.
	Errors    FieldErrors
	SubmitErr string

	current session.Session
	now     func() time.Time
}

// NewCreate builds a form pre-filled from a drag-create gesture. The
// current user starts as the sole organizer.
func NewCreate(owner model.Person, from, to time.Time, timezone string, current session.Session) *Form {
	return &Form{
		Mode:       ModeCreate,
		From:       from,
		To:         to,
		Timezone:   timezone,
		EventType:  model.EventOnsite,
		Owner:      owner,
		Organizers: []model.Organizer{current.Organizer()},
		current:    current,
		now:        time.Now,
	}
}

// NewEdit builds a form from an existing event.
func NewEdit(event model.Event, owner model.Person, current session.Session) *Form {
	f := &Form{
		Mode:             ModeEdit,
		EventID:          event.ID,
		Title:            event.Title,
		From:             event.FromTs,
		To:               event.ToTs,
		Timezone:         event.Timezone,
		EventType:        event.EventType,
		PlatformProvider: event.PlatformProvider,
		Address:          event.Address,
		Instructions:     event.Instructions,
		Available:        event.Available,
		Owner:            owner,
		Organizers:       append([]model.Organizer(nil), event.Organizers...),
		Attendees:        append([]model.Attendee(nil), event.Attendees...),
		current:          current,
		now:              time.Now,
	}
	if f.EventType == "" {
		f.EventType = model.EventOnsite
	}
	return f
}

// CurrentUserID identifies the signed-in user the form was opened by.
func (f *Form) CurrentUserID() string { return f.current.UserID }

// ToggleOrganizer adds or removes an employee from the organizer set.
// The current user cannot be removed: deselecting them is a no-op.
func (f *Form) ToggleOrganizer(p model.Person) {
	if p.Type != model.PersonEmployee {
		return
	}
	for i, org := range f.Organizers {
		if org.EmployeeID == p.ID {
			if p.ID == f.current.UserID {
				return
			}
			f.Organizers = append(f.Organizers[:i], f.Organizers[i+1:]...)
			return
		}
	}
	f.Organizers = append(f.Organizers, model.Organizer{
		EmployeeID: p.ID,
		Name:       p.Name,
		Email:      p.Email,
	})
}

// ToggleAttendee adds or removes a person from the attendee list,
// snapshotting their identity so display never re-resolves the
// directory.
func (f *Form) ToggleAttendee(p model.Person) {
	for i, att := range f.Attendees {
		if att.PersonEntityID == p.ID {
			f.Attendees = append(f.Attendees[:i], f.Attendees[i+1:]...)
			return
		}
	}
	f.Attendees = append(f.Attendees, model.Attendee{
		PersonEntityID:   p.ID,
		PersonEntityType: p.Type,
		RSVPStatus:       "pending",
	})
}

// Validate checks the form and records field-scoped messages.
func (f *Form) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "name is required"
	}
	if f.From.IsZero() {
		errs["from"] = "start time is required"
	}
	if f.To.IsZero() {
		errs["to"] = "end time is required"
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		errs["to"] = "end must be after start"
	}
	if len(f.Organizers) == 0 {
		errs["organizers"] = "at least one organizer is required"
	}
	f.Errors = errs
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates the form and returns the event to persist. On
// validation failure no event is built and the field errors are
// recorded. The form does no I/O itself: the caller runs the save and
// reports a failure back through RecordSaveFailure, which keeps the
// form open for a retry.
func (f *Form) Submit() (model.Event, error) {
	f.SubmitErr = ""
	if errs := f.Validate(); errs != nil {
		return model.Event{}, ErrValidation
	}
	return f.buildEvent(), nil
}

// RecordSaveFailure marks the last submitted event as failed at the
// persistence step. Field errors are untouched.
func (f *Form) RecordSaveFailure() {
	f.SubmitErr = "could not save the event, please try again"
}

func (f *Form) buildEvent() model.Event {
	code := ""
	if f.Mode == ModeCreate {
		code = NewEventCode(f.now())
	}
	return model.Event{
		ID:               f.EventID,
		Code:             code,
		PersonEntityID:   f.Owner.ID,
		PersonEntityType: f.Owner.Type,
		FromTs:           f.From,
		ToTs:             f.To,
		Timezone:         f.Timezone,
		Available:        f.Available,
		Title:            strings.TrimSpace(f.Title),
		EventType:        f.EventType,
		PlatformProvider: f.PlatformProvider,
		Address:          f.Address,
		Instructions:     f.Instructions,
		Organizers:       f.organizersWithCurrent(),
		Attendees:        append([]model.Attendee(nil), f.Attendees...),
	}
}

// organizersWithCurrent guarantees the current user is in the
// organizer set at persist time, whatever happened to the selection.
func (f *Form) organizersWithCurrent() []model.Organizer {
	for _, org := range f.Organizers {
		if org.EmployeeID == f.current.UserID {
			return append([]model.Organizer(nil), f.Organizers...)
		}
	}
	return append([]model.Organizer{f.current.Organizer()}, f.Organizers...)
}

// NewEventCode synthesizes a human-readable event code from a
// timestamp, e.g. EVT-M5KX01TC.
func NewEventCode(t time.Time) string {
	return "EVT-" + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}
