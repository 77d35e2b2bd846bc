package service

import (
	"context"
	"time"

	"github.com/micdrop/openmic/internal/entity"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, string, error)
	Login(ctx context.Context, req *LoginRequest) (*entity.User, string, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
}

type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	UpdateProfile(ctx context.Context, actor *entity.User, req *UpdateProfileRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, actor *entity.User, id int64) error
	GetMyEvents(ctx context.Context, actor *entity.User) (*MyEvents, error)
}

type VenueService interface {
	CreateVenue(ctx context.Context, actor *entity.User, req *VenueRequest) (*entity.Venue, error)
	GetVenue(ctx context.Context, id int64) (*entity.Venue, error)
	GetAllVenues(ctx context.Context) ([]*entity.Venue, error)
	UpdateVenue(ctx context.Context, actor *entity.User, id int64, req *VenueRequest) (*entity.Venue, error)
	DeleteVenue(ctx context.Context, actor *entity.User, id int64) error
	GetVenuesInRadius(ctx context.Context, zipcode string, distance float64) ([]*entity.VenueWithDistance, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, actor *entity.User, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.EventWithRegistrations, error)
	GetAllEvents(ctx context.Context, filter *entity.EventFilter) ([]*entity.EventWithAvailability, error)
	UpdateEvent(ctx context.Context, actor *entity.User, id int64, req *UpdateEventRequest) (*entity.Event, error)
	CancelEvent(ctx context.Context, actor *entity.User, id int64) error
	GetEventPerformers(ctx context.Context, eventID int64) ([]entity.Performer, error)
	GetEventAttendees(ctx context.Context, eventID int64) ([]entity.Attendee, error)

	// ReconcileCompleted persists the time-based scheduled -> completed
	// transition; driven by the status worker.
	ReconcileCompleted(ctx context.Context, before time.Time, limit int) (int, error)
}

// RegistrationService mutates an event's performer and attendee lists under
// the capacity and uniqueness invariants.
type RegistrationService interface {
	RegisterPerformer(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error)
	UnregisterPerformer(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error)
	RegisterAttendee(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error)
	UnregisterAttendee(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, actor *entity.User, venueID int64, req *ReviewRequest) (*entity.Review, error)
	GetVenueReviews(ctx context.Context, venueID int64) ([]*entity.Review, error)
	DeleteReview(ctx context.Context, actor *entity.User, id int64) error
}

// TaskPublisher decouples services from the queue implementation; a nil
// publisher disables notifications without touching business logic.
type TaskPublisher interface {
	PublishTask(ctx context.Context, taskType string, data map[string]interface{}) error
}

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Bio             string `json:"bio"`
	Photo           string `json:"photo"`
	ComedyStyle     string `json:"comedy_style"`
	ExperienceLevel string `json:"experience_level"`
	Instagram       string `json:"instagram"`
	Twitter         string `json:"twitter"`
	Website         string `json:"website"`
}

type VenueRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=255"`
	Street         string  `json:"street" binding:"required"`
	City           string  `json:"city" binding:"required"`
	State          string  `json:"state" binding:"required"`
	Zipcode        string  `json:"zipcode" binding:"required"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Description    string  `json:"description" binding:"required"`
	ShowTitle      string  `json:"show_title"`
	OperatingHours string  `json:"operating_hours"`
	Price          float64 `json:"price" binding:"min=0"`
	DrinkMinimum   float64 `json:"drink_minimum" binding:"min=0"`
	PerformerSlots int     `json:"performer_slots" binding:"min=0"`
	Capacity       int     `json:"capacity" binding:"min=0"`
	HasStage       *bool   `json:"has_stage"`
	HasMicrophone  *bool   `json:"has_microphone"`
	HasLighting    *bool   `json:"has_lighting"`
	HasSoundSystem *bool   `json:"has_sound_system"`
}

type CreateEventRequest struct {
	VenueID      int64     `json:"venue_id" binding:"required"`
	Name         string    `json:"name" binding:"required,min=1,max=255"`
	Description  string    `json:"description" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	StartTime    string    `json:"start_time" binding:"required"`
	EndTime      string    `json:"end_time" binding:"required"`
	Cost         float64   `json:"cost" binding:"min=0"`
	TotalSlots   int       `json:"total_slots" binding:"required,min=1"`
	SlotDuration int       `json:"slot_duration" binding:"min=1"`
}

type UpdateEventRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Date         *time.Time `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	Cost         *float64   `json:"cost"`
	TotalSlots   *int       `json:"total_slots"`
	SlotDuration *int       `json:"slot_duration"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=100"`
	Comment string `json:"comment" binding:"required,max=500"`
	EventID *int64 `json:"event_id"`
}

// MyEvents groups a user's relationship to events: hosting, performing,
// attending.
type MyEvents struct {
	Hosting    []*entity.EventWithAvailability `json:"hosting"`
	Performing []*entity.EventWithAvailability `json:"performing"`
	Attending  []*entity.EventWithAvailability `json:"attending"`
}
