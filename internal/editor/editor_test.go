package editor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/opscal/internal/model"
	"github.com/md-rashed-zaman/opscal/internal/session"
)

var (
	current = session.Session{UserID: "emp-me", Name: "Me", Email: "me@example.com"}
	owner   = model.Person{ID: "cust-1", Name: "Acme", Type: model.PersonCustomer}
)

func validForm() *Form {
	from := time.Date(2024, 1, 8, 14, 0, 0, 0, time.UTC)
	f := NewCreate(owner, from, from.Add(30*time.Minute), "Europe/Berlin", current)
	f.Title = "Consult"
	return f
}

func TestSubmitValidForm(t *testing.T) {
	f := validForm()

	saved, err := f.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if saved.Title != "Consult" || saved.PersonEntityID != "cust-1" {
		t.Fatalf("unexpected event: %+v", saved)
	}
	if !strings.HasPrefix(saved.Code, "EVT-") {
		t.Fatalf("create should synthesize an EVT code, got %q", saved.Code)
	}
}

func TestSubmitBlockedByInvalidRange(t *testing.T) {
	f := validForm()
	f.To = f.From // to <= from

	if _, err := f.Submit(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if f.Errors["to"] == "" {
		t.Fatal("expected a field-scoped error on 'to'")
	}
}

func TestSubmitBlockedByMissingTitle(t *testing.T) {
	f := validForm()
	f.Title = "   "
	if _, err := f.Submit(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if f.Errors["title"] == "" {
		t.Fatal("expected a field-scoped error on 'title'")
	}
}

func TestCurrentUserCannotBeRemoved(t *testing.T) {
	f := validForm()

	// Deselecting the current user is a no-op.
	f.ToggleOrganizer(model.Person{ID: current.UserID, Name: current.Name, Type: model.PersonEmployee})
	if len(f.Organizers) != 1 || f.Organizers[0].EmployeeID != current.UserID {
		t.Fatalf("current user was removed: %+v", f.Organizers)
	}

	// Even if the set is mangled directly, submit re-adds them.
	f.Organizers = []model.Organizer{{EmployeeID: "emp-2", Name: "Sam"}}
	saved, err := f.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	found := false
	for _, org := range saved.Organizers {
		if org.EmployeeID == current.UserID {
			found = true
		}
	}
	if !found {
		t.Fatalf("current user missing from persisted organizers: %+v", saved.Organizers)
	}
}

func TestOrganizerToggle(t *testing.T) {
	f := validForm()
	sam := model.Person{ID: "emp-2", Name: "Sam", Email: "sam@example.com", Type: model.PersonEmployee}

	f.ToggleOrganizer(sam)
	if len(f.Organizers) != 2 || f.Organizers[1].Email != "sam@example.com" {
		t.Fatalf("organizer snapshot not taken: %+v", f.Organizers)
	}
	f.ToggleOrganizer(sam)
	if len(f.Organizers) != 1 {
		t.Fatalf("second toggle should remove: %+v", f.Organizers)
	}

	// Customers cannot organize.
	f.ToggleOrganizer(model.Person{ID: "cust-9", Type: model.PersonCustomer})
	if len(f.Organizers) != 1 {
		t.Fatalf("customer must not join organizers: %+v", f.Organizers)
	}
}

func TestAttendeeToggleSnapshots(t *testing.T) {
	f := validForm()
	f.ToggleAttendee(model.Person{ID: "cust-2", Name: "Globex", Type: model.PersonCustomer})
	if len(f.Attendees) != 1 {
		t.Fatalf("expected one attendee, got %+v", f.Attendees)
	}
	att := f.Attendees[0]
	if att.PersonEntityType != model.PersonCustomer || att.RSVPStatus != "pending" {
		t.Fatalf("unexpected attendee snapshot: %+v", att)
	}
	f.ToggleAttendee(model.Person{ID: "cust-2"})
	if len(f.Attendees) != 0 {
		t.Fatal("second toggle should remove the attendee")
	}
}

func TestSaveFailureKeepsFormOpen(t *testing.T) {
	f := validForm()
	if _, err := f.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	f.RecordSaveFailure()
	if f.SubmitErr == "" {
		t.Fatal("expected a user-facing submit error")
	}

	// A later successful submit clears the message.
	if _, err := f.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if f.SubmitErr != "" {
		t.Fatalf("resubmit should clear the save failure, got %q", f.SubmitErr)
	}
}

func TestEditPreservesCodeAndID(t *testing.T) {
	event := model.Event{
		ID:               "ev-1",
		Code:             "EVT-EXISTING",
		Title:            "Review",
		FromTs:           time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		ToTs:             time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
		PersonEntityID:   owner.ID,
		PersonEntityType: owner.Type,
		Organizers:       []model.Organizer{current.Organizer()},
	}
	f := NewEdit(event, owner, current)
	saved, err := f.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if saved.ID != "ev-1" {
		t.Fatalf("edit must keep the event id, got %q", saved.ID)
	}
	if saved.Code != "" {
		// Edit mode does not re-synthesize a code; the backend keeps
		// the stored one when the field is absent.
		t.Fatalf("edit must not synthesize a new code, got %q", saved.Code)
	}
}

func TestNewEventCode(t *testing.T) {
	code := NewEventCode(time.UnixMilli(1704722400000))
	if !strings.HasPrefix(code, "EVT-") {
		t.Fatalf("bad prefix: %q", code)
	}
	if code != strings.ToUpper(code) {
		t.Fatalf("code should be upper-case base36: %q", code)
	}
}
