package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stayledger/internal/domains/booking/model"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusCheckedIn, model.StatusCompleted, true},
		{model.StatusPending, model.StatusCheckedIn, false},
		{model.StatusCheckedIn, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusPending, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCompleted, model.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestBlockingStatuses(t *testing.T) {
	for _, status := range []string{model.StatusPending, model.StatusConfirmed, model.StatusCheckedIn} {
		assert.True(t, model.IsBlocking(status), status)
		assert.False(t, model.IsTerminal(status), status)
	}

	for _, status := range []string{model.StatusCompleted, model.StatusCancelled} {
		assert.False(t, model.IsBlocking(status), status)
		assert.True(t, model.IsTerminal(status), status)
	}
}

func TestBooking_Range(t *testing.T) {
	b := model.Booking{
		CheckIn:  time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "[2025-06-01, 2025-06-04)", b.Range().String())
	assert.Equal(t, 3, b.Range().Nights())
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	b := model.Booking{
		ID:        "booking-1",
		ListingID: "listing-1",
		GuestID:   "guest-1",
		CheckIn:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		Status:    model.StatusConfirmed,
		Amount:    decimal.RequireFromString("270.00"),
		Currency:  "USD",
		PaymentID: "attempt-1",
	}

	event, ok := model.NewEvent(b, at)
	assert.True(t, ok)
	assert.Equal(t, model.EventBookingConfirmed, event.Type)
	assert.Equal(t, "2025-06-04", event.CheckOut)
	assert.Equal(t, "attempt-1", event.PaymentID)
	assert.Equal(t, at, event.OccurredAt)

	b.Status = model.StatusCancelled
	event, ok = model.NewEvent(b, at)
	assert.True(t, ok)
	assert.Equal(t, model.EventBookingCancelled, event.Type)

	b.Status = model.StatusCheckedIn
	_, ok = model.NewEvent(b, at)
	assert.False(t, ok)
}
