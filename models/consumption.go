package models

import (
	"log"
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type ConsumptionTicketType struct {
	ID          string          `json:"id"`
	ClubID      string          `json:"club_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	IsActive    bool            `json:"is_active"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type OrderItem struct {
	TypeID    string          `json:"type_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type ConsumptionOrder struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	EventID     string          `json:"event_id"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
}

// ComputeTotal sums quantity x unit price over the line items. The stored
// total_amount column is treated as a cache of this value.
func (o *ConsumptionOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type ConsumptionTicket struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	UserID         string     `json:"user_id"`
	EventID        string     `json:"event_id"`
	TypeID         string     `json:"type_id"`
	IsConsumed     bool       `json:"is_consumed"`
	ConsumedAt     *time.Time `json:"consumed_at,omitempty"`
	ValidationCode string     `json:"validation_code,omitempty"`
}

func ConsumptionTicketTypeFromRecord(r *pbmodels.Record) *ConsumptionTicketType {
	return &ConsumptionTicketType{
		ID:          r.Id,
		ClubID:      r.GetString("club_id"),
		Name:        r.GetString("name"),
		Description: r.GetString("description"),
		Price:       decimal.NewFromFloat(r.GetFloat("price")),
		Category:    r.GetString("category"),
		IsActive:    r.GetBool("is_active"),
		ImageURL:    r.GetString("image_url"),
	}
}

func ConsumptionTicketTypesFromRecords(records []*pbmodels.Record) []*ConsumptionTicketType {
	types := make([]*ConsumptionTicketType, 0, len(records))
	for _, r := range records {
		types = append(types, ConsumptionTicketTypeFromRecord(r))
	}
	return types
}

func ConsumptionOrderFromRecord(r *pbmodels.Record) *ConsumptionOrder {
	order := &ConsumptionOrder{
		ID:          r.Id,
		UserID:      r.GetString("user_id"),
		EventID:     r.GetString("event_id"),
		TotalAmount: decimal.NewFromFloat(r.GetFloat("total_amount")),
		Status:      r.GetString("status"),
		OrderDate:   r.GetDateTime("order_date").Time(),
	}

	if err := r.UnmarshalJSONField("items", &order.Items); err != nil {
		log.Printf("Error unmarshaling order items for %s: %v", r.Id, err)
	}

	return order
}

func ConsumptionOrdersFromRecords(records []*pbmodels.Record) []*ConsumptionOrder {
	orders := make([]*ConsumptionOrder, 0, len(records))
	for _, r := range records {
		orders = append(orders, ConsumptionOrderFromRecord(r))
	}
	return orders
}

func ConsumptionTicketFromRecord(r *pbmodels.Record) *ConsumptionTicket {
	ticket := &ConsumptionTicket{
		ID:             r.Id,
		OrderID:        r.GetString("order_id"),
		UserID:         r.GetString("user_id"),
		EventID:        r.GetString("event_id"),
		TypeID:         r.GetString("type_id"),
		IsConsumed:     r.GetBool("is_consumed"),
		ValidationCode: r.GetString("validation_code"),
	}

	if consumedAt := r.GetDateTime("consumed_at"); !consumedAt.IsZero() {
		t := consumedAt.Time()
		ticket.ConsumedAt = &t
	}

	return ticket
}
