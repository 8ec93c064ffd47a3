package calclient

import (
	"time"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

// EventRecord is the wire shape of a person-calendar slot.
type EventRecord struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Name             string            `json:"name"`
	PersonEntityType string            `json:"person_entity_type"`
	PersonEntityID   string            `json:"person_entity_id"`
	FromTs           time.Time         `json:"from_ts"`
	ToTs             time.Time         `json:"to_ts"`
	Timezone         string            `json:"timezone"`
	AvailabilityFlag bool              `json:"availability_flag"`
	EventID          string            `json:"event_id,omitempty"`
	EventType        string            `json:"event_type,omitempty"`
	PlatformProvider string            `json:"platform_provider_name,omitempty"`
	Address          string            `json:"address,omitempty"`
	Instructions     string            `json:"instructions,omitempty"`
	Organizers       []model.Organizer `json:"organizers,omitempty"`
	Attendees        []model.Attendee  `json:"attendees,omitempty"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
}

// ToEvent converts the wire record into the domain event.
func (r EventRecord) ToEvent() model.Event {
	return model.Event{
		ID:               r.ID,
		Code:             r.Code,
		PersonEntityID:   r.PersonEntityID,
		PersonEntityType: model.PersonType(r.PersonEntityType),
		FromTs:           r.FromTs,
		ToTs:             r.ToTs,
		Timezone:         r.Timezone,
		Available:        r.AvailabilityFlag,
		Title:            r.Name,
		EventType:        model.EventType(r.EventType),
		PlatformProvider: r.PlatformProvider,
		Address:          r.Address,
		Instructions:     r.Instructions,
		Organizers:       r.Organizers,
		Attendees:        r.Attendees,
	}
}

// CreateSlotRequest is the plain slot creation body (POST /person-calendar).
type CreateSlotRequest struct {
	Code             string            `json:"code"`
	Name             string            `json:"name"`
	PersonEntityType string            `json:"person_entity_type"`
	PersonEntityID   string            `json:"person_entity_id"`
	FromTs           time.Time         `json:"from_ts"`
	ToTs             time.Time         `json:"to_ts"`
	Timezone         string            `json:"timezone"`
	AvailabilityFlag bool              `json:"availability_flag"`
	EventID          string            `json:"event_id,omitempty"`
	EventType        string            `json:"event_type,omitempty"`
	PlatformProvider string            `json:"platform_provider_name,omitempty"`
	Address          string            `json:"address,omitempty"`
	Instructions     string            `json:"instructions,omitempty"`
	Organizers       []model.Organizer `json:"organizers,omitempty"`
	Attendees        []model.Attendee  `json:"attendees,omitempty"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
}

// CreateBookingRequest is the orchestrated booking body
// (POST /person-calendar/create): the richer booking-service flow that
// also carries the primary party's contact details.
type CreateBookingRequest struct {
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email,omitempty"`
	CustomerPhone    string            `json:"customer_phone,omitempty"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	EventType        string            `json:"event_type"`
	PlatformProvider string            `json:"platform_provider_name,omitempty"`
	Address          string            `json:"address,omitempty"`
	Instructions     string            `json:"instructions,omitempty"`
	AssignedEmployee string            `json:"assigned_employee_id"`
	FromTs           time.Time         `json:"from_ts"`
	ToTs             time.Time         `json:"to_ts"`
	Timezone         string            `json:"timezone"`
	Organizers       []model.Organizer `json:"organizers,omitempty"`
	Attendees        []model.Attendee  `json:"attendees,omitempty"`
}

// UpdateSlotRequest is a partial update (PATCH /person-calendar/{id}).
// Nil fields are omitted from the body and left untouched by the
// backend; a drag-move sends only the two timestamps.
type UpdateSlotRequest struct {
	Name             *string            `json:"name,omitempty"`
	FromTs           *time.Time         `json:"from_ts,omitempty"`
	ToTs             *time.Time         `json:"to_ts,omitempty"`
	EventType        *string            `json:"event_type,omitempty"`
	PlatformProvider *string            `json:"platform_provider_name,omitempty"`
	Address          *string            `json:"address,omitempty"`
	Instructions     *string            `json:"instructions,omitempty"`
	Organizers       *[]model.Organizer `json:"organizers,omitempty"`
	Attendees        *[]model.Attendee  `json:"attendees,omitempty"`
}

type listEventsResponse struct {
	Items []EventRecord `json:"items"`
}

type personRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type listPeopleResponse struct {
	Items []personRecord `json:"items"`
	Total int            `json:"total"`
}
