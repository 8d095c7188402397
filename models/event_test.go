package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_RemainingCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		sold     int
		want     int
	}{
		{"plenty left", 100, 30, 70},
		{"sold out", 100, 100, 0},
		{"oversold clamps to zero", 100, 120, 0},
		{"nothing sold", 50, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &Event{MaxCapacity: tt.capacity, SoldTickets: tt.sold}
			assert.Equal(t, tt.want, event.RemainingCapacity())
		})
	}
}

func TestEvent_PresaleOpen(t *testing.T) {
	now := time.Now()

	open := &Event{IsActive: true, PresaleEndTime: now.Add(time.Hour)}
	assert.True(t, open.PresaleOpen(now))

	past := &Event{IsActive: true, PresaleEndTime: now.Add(-time.Hour)}
	assert.False(t, past.PresaleOpen(now))

	inactive := &Event{IsActive: false, PresaleEndTime: now.Add(time.Hour)}
	assert.False(t, inactive.PresaleOpen(now))
}
