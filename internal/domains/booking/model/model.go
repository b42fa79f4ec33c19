package model

import (
	"stayledger/shared/daterange"
	"stayledger/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldListingID = "listing_id"
	FieldGuestID   = "guest_id"
	FieldCheckIn   = "check_in"
	FieldCheckOut  = "check_out"
	FieldStatus    = "status"
	FieldCreatedBy = "created_by"
)

const (
	FieldPaymentID    = "payment_id"
	FieldCancelReason = "cancel_reason"
)

const (
	CancelReasonGuest           = "guest_cancelled"
	CancelReasonPaymentDeclined = "payment_declined"
	CancelReasonPaymentTimeout  = "payment_timeout"
	CancelReasonUnpaid          = "unpaid_expired"
	CancelReasonCoupon          = "coupon_unavailable"
)

// OverlapConstraint is the exclusion constraint that keeps blocking bookings of one listing apart.
const OverlapConstraint = "bookings_no_overlap"

// Booking is a guest's hold on a listing for [CheckIn, CheckOut). The price fields are a snapshot
// taken when the booking was reserved.
type Booking struct {
	ID           string          `db:"id"`
	ListingID    string          `db:"listing_id"`
	GuestID      string          `db:"guest_id"`
	CheckIn      time.Time       `db:"check_in"`
	CheckOut     time.Time       `db:"check_out"`
	Guests       int             `db:"guests"`
	Status       string          `db:"status"`
	NightlyPrice decimal.Decimal `db:"nightly_price"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	Fees         decimal.Decimal `db:"fees"`
	Discount     decimal.Decimal `db:"discount"`
	Amount       decimal.Decimal `db:"amount"`
	Currency     string          `db:"currency"`
	CouponCode   string          `db:"coupon_code"`
	PaymentID    string          `db:"payment_id"`
	CancelReason string          `db:"cancel_reason"`
	model.Metadata
}

func (b Booking) Range() daterange.Range {
	return daterange.Range{Start: daterange.Date(b.CheckIn), End: daterange.Date(b.CheckOut)}
}

func (b Booking) IsBlocking() bool {
	return IsBlocking(b.Status)
}
