package model

import (
	"stayledger/shared/constant"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// Event is the body published for confirmed and cancelled bookings, keyed by booking id.
type Event struct {
	Type         string          `json:"type"`
	BookingID    string          `json:"booking_id"`
	ListingID    string          `json:"listing_id"`
	GuestID      string          `json:"guest_id"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	PaymentID    string          `json:"payment_id,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// NewEvent describes the booking's current status. It returns false for statuses nobody subscribes to.
func NewEvent(b Booking, at time.Time) (Event, bool) {
	var eventType string

	switch b.Status {
	case StatusConfirmed:
		eventType = EventBookingConfirmed
	case StatusCancelled:
		eventType = EventBookingCancelled
	default:
		return Event{}, false
	}

	return Event{
		Type:         eventType,
		BookingID:    b.ID,
		ListingID:    b.ListingID,
		GuestID:      b.GuestID,
		CheckIn:      b.CheckIn.Format(constant.DateOnlyFormat),
		CheckOut:     b.CheckOut.Format(constant.DateOnlyFormat),
		Status:       b.Status,
		Amount:       b.Amount,
		Currency:     b.Currency,
		CouponCode:   b.CouponCode,
		PaymentID:    b.PaymentID,
		CancelReason: b.CancelReason,
		OccurredAt:   at,
	}, true
}
