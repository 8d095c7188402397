package models

import (
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
)

type Profile struct {
	ID              string    `json:"id"`
	Firstname       string    `json:"firstname,omitempty"`
	Lastname        string    `json:"lastname,omitempty"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	IdentityCardURL string    `json:"identity_card_url,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	LoyaltyPoints   int       `json:"loyalty_points"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AdminProfile rows are keyed by email rather than by auth id, unlike
// Profile. The lookup asymmetry comes from the backing schema.
type AdminProfile struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"club_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ProfileFromRecord(r *pbmodels.Record) *Profile {
	return &Profile{
		ID:              r.Id,
		Firstname:       r.GetString("firstname"),
		Lastname:        r.GetString("lastname"),
		Email:           r.GetString("email"),
		Phone:           r.GetString("phone"),
		IdentityCardURL: r.GetString("identity_card_url"),
		IsVerified:      r.GetBool("is_verified"),
		LoyaltyPoints:   r.GetInt("loyalty_points"),
		CreatedAt:       r.Created.Time(),
		UpdatedAt:       r.Updated.Time(),
	}
}

func AdminProfileFromRecord(r *pbmodels.Record) *AdminProfile {
	return &AdminProfile{
		ID:        r.Id,
		ClubID:    r.GetString("club_id"),
		Email:     r.GetString("email"),
		Role:      r.GetString("role"),
		FirstName: r.GetString("first_name"),
		LastName:  r.GetString("last_name"),
		IsActive:  r.GetBool("is_active"),
		CreatedAt: r.Created.Time(),
		UpdatedAt: r.Updated.Time(),
	}
}
