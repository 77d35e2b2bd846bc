package entity

import "time"

type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	Zipcode string `json:"zipcode" db:"zipcode"`
}

// Amenities are simple capability flags shown on venue detail pages.
type Amenities struct {
	HasStage       bool `json:"has_stage" db:"has_stage"`
	HasMicrophone  bool `json:"has_microphone" db:"has_microphone"`
	HasLighting    bool `json:"has_lighting" db:"has_lighting"`
	HasSoundSystem bool `json:"has_sound_system" db:"has_sound_system"`
}

type Venue struct {
	ID             int64     `json:"id" db:"id"`
	OwnerID        int64     `json:"owner_id" db:"owner_id"`
	Name           string    `json:"name" db:"name"`
	Address        Address   `json:"address"`
	Latitude       float64   `json:"latitude" db:"latitude"`
	Longitude      float64   `json:"longitude" db:"longitude"`
	Description    string    `json:"description" db:"description"`
	ShowTitle      string    `json:"show_title" db:"show_title"`
	OperatingHours string    `json:"operating_hours" db:"operating_hours"`
	Price          float64   `json:"price" db:"price"`
	DrinkMinimum   float64   `json:"drink_minimum" db:"drink_minimum"`
	PerformerSlots int       `json:"performer_slots" db:"performer_slots"`
	Capacity       int       `json:"capacity" db:"capacity"`
	Amenities      Amenities `json:"amenities"`
	Rating         float64   `json:"rating" db:"rating"`
	NumReviews     int       `json:"num_reviews" db:"num_reviews"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// VenueWithDistance is returned by radius searches; distance is in miles.
type VenueWithDistance struct {
	Venue
	Distance float64 `json:"distance"`
}
