package repository

import (
	"context"
	"time"

	"github.com/micdrop/openmic/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*entity.User, error)
}

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	GetByID(ctx context.Context, id int64) (*entity.Venue, error)
	GetAll(ctx context.Context) ([]*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error

	// Delete fails with entity.ErrVenueHasEvents while any event still
	// references the venue; events are never orphaned.
	Delete(ctx context.Context, id int64) error

	// GetInRadius finds venues within distance miles of the centroid of the
	// venues recorded under the given zipcode.
	GetInRadius(ctx context.Context, zipcode string, distance float64) ([]*entity.VenueWithDistance, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetDetail(ctx context.Context, id int64) (*entity.EventWithRegistrations, error)
	GetAll(ctx context.Context, filter *entity.EventFilter) ([]*entity.EventWithAvailability, error)

	// Update rejects a total_slots value below the current performer count
	// with entity.ErrSlotsBelowRegistered.
	Update(ctx context.Context, event *entity.Event) error

	// Cancel transitions scheduled -> cancelled. Terminal states are
	// rejected with entity.ErrEventTerminal.
	Cancel(ctx context.Context, id int64) error

	// MarkCompleted persists the scheduled -> completed transition for
	// events whose date has passed. Idempotent; returns rows updated.
	MarkCompleted(ctx context.Context, before time.Time, limit int) ([]*entity.Event, error)

	// My-events queries
	GetByHost(ctx context.Context, hostID int64) ([]*entity.EventWithAvailability, error)
	GetByPerformer(ctx context.Context, userID int64) ([]*entity.EventWithAvailability, error)
	GetByAttendee(ctx context.Context, userID int64) ([]*entity.EventWithAvailability, error)
}

// RegistrationRepository mutates an event's performer and attendee lists.
// Capacity and uniqueness checks run inside a transaction that locks the
// event row, so concurrent registrations against one event serialize.
type RegistrationRepository interface {
	AddPerformer(ctx context.Context, eventID, userID int64, now time.Time) (*entity.Performer, error)
	RemovePerformer(ctx context.Context, eventID, userID int64) error
	AddAttendee(ctx context.Context, eventID, userID int64, now time.Time) (*entity.Attendee, error)
	RemoveAttendee(ctx context.Context, eventID, userID int64) error
	GetPerformers(ctx context.Context, eventID int64) ([]entity.Performer, error)
	GetAttendees(ctx context.Context, eventID int64) ([]entity.Attendee, error)
}

type ReviewRepository interface {
	// Create inserts the review and recomputes the venue's aggregate rating
	// in the same transaction.
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id int64) (*entity.Review, error)
	GetByVenue(ctx context.Context, venueID int64) ([]*entity.Review, error)

	// Delete removes the review and recomputes the venue's aggregate rating
	// in the same transaction.
	Delete(ctx context.Context, id int64) error
}
