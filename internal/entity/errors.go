package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound  = errors.New("event not found")
	ErrEventInPast    = errors.New("cannot register for past events")
	ErrEventNotOpen   = errors.New("event is cancelled or completed")
	ErrEventDatePast  = errors.New("event date cannot be in the past")
	ErrEventTerminal  = errors.New("event is already in a terminal status")
	ErrInvalidSlots   = errors.New("total slots must be a positive integer")

	ErrSlotsBelowRegistered = errors.New("total slots cannot drop below registered performers")

	// Registration errors
	ErrSlotsFull         = errors.New("no performance slots available")
	ErrAlreadyPerforming = errors.New("already registered as performer")
	ErrAlreadyAttending  = errors.New("already registered as attendee")
	ErrNotPerforming     = errors.New("not registered as performer")
	ErrNotAttending      = errors.New("not registered as attendee")

	// Venue errors
	ErrVenueNotFound  = errors.New("venue not found")
	ErrVenueHasEvents = errors.New("venue has events referencing it")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidRole       = errors.New("invalid user role")

	// Review errors
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("venue already reviewed by this user")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden operation")
)
