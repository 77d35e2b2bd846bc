package entity

import "time"

// Review ties a user and a venue (optionally an event at that venue) to a
// 1-5 rating. One review per (user, venue) pair; the venue's aggregate
// rating and review count are recomputed whenever a review is written or
// removed.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	VenueID   int64     `json:"venue_id" db:"venue_id"`
	EventID   *int64    `json:"event_id,omitempty" db:"event_id"`
	Rating    int       `json:"rating" db:"rating"`
	Title     string    `json:"title" db:"title"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	if r.Comment == "" {
		return ErrInvalidInput
	}
	return nil
}
