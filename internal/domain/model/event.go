package model

import "time"

// EventCategory classifies portal events.
type EventCategory string

const (
	EventVolunteering            EventCategory = "VOLUNTEERING"
	EventSocial                  EventCategory = "SOCIAL"
	EventProfessionalDevelopment EventCategory = "PROFESSIONAL_DEVELOPMENT"
)

// Valid reports whether the category is one of the known values.
func (c EventCategory) Valid() bool {
	switch c {
	case EventVolunteering, EventSocial, EventProfessionalDevelopment:
		return true
	}
	return false
}

// Event is a portal event. Events are publicly readable.
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    EventCategory `json:"category"`
	StartsAt    time.Time     `json:"startsAt"`
	EndsAt      time.Time     `json:"endsAt,omitzero"`
	Location    string        `json:"location,omitempty"`
	Capacity    int           `json:"capacity,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitzero"`
	UpdatedAt   time.Time     `json:"updatedAt,omitzero"`
}
