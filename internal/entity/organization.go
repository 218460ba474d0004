package entity

import "time"

// Organization represents a company registered on the exchange. Listings
// inherit their geographic location from the owning organization.
type Organization struct {
	ID           int64     `json:"org_id"`
	Name         string    `json:"org_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        *string   `json:"phone_number,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Verified     bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
