package entity

import "time"

type Role string

const (
	RoleGuest      Role = "guest"
	RoleComedian   Role = "comedian"
	RoleVenueOwner Role = "venue_owner"
	RoleAdmin      Role = "admin"
)

// ParseRole validates a role string against the closed role set.
// An empty string defaults to guest.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleGuest, RoleComedian, RoleVenueOwner, RoleAdmin:
		return Role(s), nil
	case "":
		return RoleGuest, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID              int64     `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	Name            string    `json:"name" db:"name"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Role            Role      `json:"role" db:"role"`
	Bio             string    `json:"bio" db:"bio"`
	Photo           string    `json:"photo" db:"photo"`
	ComedyStyle     string    `json:"comedy_style,omitempty" db:"comedy_style"`
	ExperienceLevel string    `json:"experience_level,omitempty" db:"experience_level"`
	Instagram       string    `json:"instagram,omitempty" db:"instagram"`
	Twitter         string    `json:"twitter,omitempty" db:"twitter"`
	Website         string    `json:"website,omitempty" db:"website"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the shape returned alongside tokens and in populated references.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
