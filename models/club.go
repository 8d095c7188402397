package models

import (
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
)

type Club struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Logo           string    `json:"logo,omitempty"`
	WhatsappNumber string    `json:"whatsapp_number,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func ClubFromRecord(r *pbmodels.Record) *Club {
	return &Club{
		ID:             r.Id,
		Name:           r.GetString("name"),
		Address:        r.GetString("address"),
		Phone:          r.GetString("phone"),
		Email:          r.GetString("email"),
		Logo:           r.GetString("logo"),
		WhatsappNumber: r.GetString("whatsapp_number"),
		IsActive:       r.GetBool("is_active"),
		CreatedAt:      r.Created.Time(),
	}
}

func ClubsFromRecords(records []*pbmodels.Record) []*Club {
	clubs := make([]*Club, 0, len(records))
	for _, r := range records {
		clubs = append(clubs, ClubFromRecord(r))
	}
	return clubs
}
