package model

import "time"

type PersonType string

const (
	PersonEmployee PersonType = "employee"
	PersonCustomer PersonType = "customer"
)

type EventType string

const (
	EventOnsite  EventType = "onsite"
	EventVirtual EventType = "virtual"
)

// Organizer is a snapshot of the employee responsible for a booked
// event. The snapshot is taken at selection time so rendering never
// needs to re-resolve the directory.
type Organizer struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type Attendee struct {
	PersonEntityID   string     `json:"person_entity_id"`
	PersonEntityType PersonType `json:"person_entity_type"`
	RSVPStatus       string     `json:"rsvp_status"`
}

// Event is a scheduled interval for one primary person. Available is
// true for unclaimed capacity (no title, no attendees) and false for a
// booked appointment, which must carry a title and a primary person.
type Event struct {
	ID               string
	Code             string
	PersonEntityID   string
	PersonEntityType PersonType
	FromTs           time.Time
	ToTs             time.Time
	Timezone         string
	Available        bool
	Title            string
	EventType        EventType
	PlatformProvider string
	Address          string
	Instructions     string
	Organizers       []Organizer
	Attendees        []Attendee
}

// Booked reports whether the event is an owned booking rather than
// open capacity.
func (e Event) Booked() bool {
	return !e.Available
}

// Duration returns ToTs - FromTs.
func (e Event) Duration() time.Duration {
	return e.ToTs.Sub(e.FromTs)
}
