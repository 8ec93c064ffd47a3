package model

// Person is a schedulable party from the directory. Immutable reference
// data for a calendar session; the calendar never mutates it.
type Person struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  PersonType `json:"type"`
	Email string     `json:"email,omitempty"`
}
