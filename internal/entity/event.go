package entity

import (
	"time"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// IsTerminal reports whether no further status transition is possible.
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusCancelled || s == EventStatusCompleted
}

type Event struct {
	ID           int64       `json:"id" db:"id"`
	VenueID      int64       `json:"venue_id" db:"venue_id"`
	HostID       int64       `json:"host_id" db:"host_id"`
	Name         string      `json:"name" db:"name"`
	Description  string      `json:"description" db:"description"`
	Date         time.Time   `json:"date" db:"date"`
	StartTime    string      `json:"start_time" db:"start_time"`
	EndTime      string      `json:"end_time" db:"end_time"`
	Cost         float64     `json:"cost" db:"cost"`
	TotalSlots   int         `json:"total_slots" db:"total_slots"`
	SlotDuration int         `json:"slot_duration" db:"slot_duration"`
	Status       EventStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// EffectiveStatus folds the time-based scheduled->completed transition into
// reads, so a stale stored status never leaks to clients. The stored row is
// reconciled separately by the status worker.
func (e *Event) EffectiveStatus(now time.Time) EventStatus {
	if e.Status == EventStatusScheduled && e.Date.Before(now) {
		return EventStatusCompleted
	}
	return e.Status
}

// OpenForRegistration reports whether performer/attendee registration is
// currently accepted.
func (e *Event) OpenForRegistration(now time.Time) error {
	if e.Date.Before(now) {
		return ErrEventInPast
	}
	if e.Status != EventStatusScheduled {
		return ErrEventNotOpen
	}
	return nil
}

// Performer is one entry on an event's performance lineup. SlotNumber is
// assigned from a per-event monotonic counter and never reused after a
// withdrawal, so the lineup order is stable under concurrent removals.
type Performer struct {
	EventID     int64     `json:"event_id" db:"event_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	UserName    string    `json:"user_name,omitempty" db:"user_name"`
	SlotNumber  int       `json:"slot_number" db:"slot_number"`
	IsConfirmed bool      `json:"is_confirmed" db:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Attendee is a user registered to watch an event without performing.
type Attendee struct {
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	UserName  string    `json:"user_name,omitempty" db:"user_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EventWithRegistrations is the detail-view shape: the event plus its lineup,
// attendee list and the derived slot availability. AvailableSlots is always
// computed from the authoritative performer count, never stored.
type EventWithRegistrations struct {
	Event
	Performers     []Performer `json:"performers"`
	Attendees      []Attendee  `json:"attendees"`
	AvailableSlots int         `json:"available_slots"`
}

// EventWithAvailability is the listing shape.
type EventWithAvailability struct {
	Event
	PerformerCount int `json:"performer_count"`
	AttendeeCount  int `json:"attendee_count"`
	AvailableSlots int `json:"available_slots"`
}

// EventFilter narrows event listings. Zero values mean "no filter";
// by default only upcoming events are returned.
type EventFilter struct {
	VenueID  int64
	HostID   int64
	FreeOnly bool
	ShowPast bool
}
