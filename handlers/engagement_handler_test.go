package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"club-ticketing/models"
)

func TestLoyaltyBalance(t *testing.T) {
	transactions := []*models.LoyaltyTransaction{
		{PointsEarned: 120},
		{PointsSpent: 40},
		{PointsEarned: 10, PointsSpent: 5},
	}

	assert.Equal(t, 85, loyaltyBalance(transactions))
	assert.Equal(t, 0, loyaltyBalance(nil))
}
