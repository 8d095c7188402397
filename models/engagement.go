package models

import (
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/shopspring/decimal"
)

type Game struct {
	ID        string     `json:"id"`
	ClubID    string     `json:"club_id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	WinnerID  string     `json:"winner_id,omitempty"`
}

type GameParticipation struct {
	ID             string    `json:"id"`
	GameID         string    `json:"game_id"`
	UserID         string    `json:"user_id"`
	IsWinner       bool      `json:"is_winner"`
	PrizeWon       string    `json:"prize_won,omitempty"`
	ParticipatedAt time.Time `json:"participated_at"`
}

type LoyaltyTransaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"type"`
	PointsEarned int       `json:"points_earned"`
	PointsSpent  int       `json:"points_spent"`
	CreatedAt    time.Time `json:"created_at"`
}

// NetPoints is earned minus spent for a single transaction.
func (t *LoyaltyTransaction) NetPoints() int {
	return t.PointsEarned - t.PointsSpent
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type Payment struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	Reference string          `json:"reference,omitempty"`
	RefundID  string          `json:"refund_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

type TableReservation struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func GameFromRecord(r *pbmodels.Record) *Game {
	game := &Game{
		ID:       r.Id,
		ClubID:   r.GetString("club_id"),
		Name:     r.GetString("name"),
		IsActive: r.GetBool("is_active"),
		WinnerID: r.GetString("winner_id"),
	}
	if start := r.GetDateTime("start_date"); !start.IsZero() {
		t := start.Time()
		game.StartDate = &t
	}
	if end := r.GetDateTime("end_date"); !end.IsZero() {
		t := end.Time()
		game.EndDate = &t
	}
	return game
}

func GameParticipationFromRecord(r *pbmodels.Record) *GameParticipation {
	return &GameParticipation{
		ID:             r.Id,
		GameID:         r.GetString("game_id"),
		UserID:         r.GetString("user_id"),
		IsWinner:       r.GetBool("is_winner"),
		PrizeWon:       r.GetString("prize_won"),
		ParticipatedAt: r.Created.Time(),
	}
}

func LoyaltyTransactionFromRecord(r *pbmodels.Record) *LoyaltyTransaction {
	return &LoyaltyTransaction{
		ID:           r.Id,
		UserID:       r.GetString("user_id"),
		Type:         r.GetString("type"),
		PointsEarned: r.GetInt("points_earned"),
		PointsSpent:  r.GetInt("points_spent"),
		CreatedAt:    r.Created.Time(),
	}
}

func NotificationFromRecord(r *pbmodels.Record) *Notification {
	return &Notification{
		ID:        r.Id,
		UserID:    r.GetString("user_id"),
		Title:     r.GetString("title"),
		Body:      r.GetString("body"),
		IsRead:    r.GetBool("is_read"),
		CreatedAt: r.Created.Time(),
	}
}

func PaymentFromRecord(r *pbmodels.Record) *Payment {
	return &Payment{
		ID:        r.Id,
		UserID:    r.GetString("user_id"),
		Amount:    decimal.NewFromFloat(r.GetFloat("amount")),
		Method:    r.GetString("method"),
		Status:    r.GetString("status"),
		Reference: r.GetString("reference"),
		RefundID:  r.GetString("refund_id"),
		CreatedAt: r.Created.Time(),
	}
}

func TableReservationFromRecord(r *pbmodels.Record) *TableReservation {
	return &TableReservation{
		ID:          r.Id,
		ClubID:      r.GetString("club_id"),
		EventID:     r.GetString("event_id"),
		UserID:      r.GetString("user_id"),
		TableNumber: r.GetString("table_number"),
		Status:      r.GetString("status"),
		CreatedAt:   r.Created.Time(),
	}
}
