package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConsumptionOrder_ComputeTotal(t *testing.T) {
	order := &ConsumptionOrder{
		Items: []OrderItem{
			{TypeID: "beer", Quantity: 3, UnitPrice: decimal.RequireFromString("6.50")},
			{TypeID: "cocktail", Quantity: 2, UnitPrice: decimal.RequireFromString("12.00")},
		},
	}

	assert.True(t, order.ComputeTotal().Equal(decimal.RequireFromString("43.50")))
}

func TestConsumptionOrder_ComputeTotal_Empty(t *testing.T) {
	order := &ConsumptionOrder{}
	assert.True(t, order.ComputeTotal().IsZero())
}

// Decimal arithmetic keeps cent precision where floats would drift.
func TestConsumptionOrder_ComputeTotal_CentPrecision(t *testing.T) {
	order := &ConsumptionOrder{
		Items: []OrderItem{
			{TypeID: "shot", Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		},
	}

	assert.Equal(t, "0.3", order.ComputeTotal().String())
}

func TestLoyaltyTransaction_NetPoints(t *testing.T) {
	earned := &LoyaltyTransaction{PointsEarned: 120, PointsSpent: 0}
	assert.Equal(t, 120, earned.NetPoints())

	spent := &LoyaltyTransaction{PointsEarned: 0, PointsSpent: 80}
	assert.Equal(t, -80, spent.NetPoints())

	mixed := &LoyaltyTransaction{PointsEarned: 50, PointsSpent: 20}
	assert.Equal(t, 30, mixed.NetPoints())
}
