package dto

import (
	"stayledger/internal/domains/booking/model"
	"stayledger/shared"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	ListingID  string `json:"listing_id"  validate:"required,uuid"`
	CheckIn    string `json:"check_in"    validate:"required,date"`
	CheckOut   string `json:"check_out"   validate:"required,date"`
	Guests     int    `json:"guests"      validate:"required,min=1"`
	CouponCode string `json:"coupon_code" validate:"omitempty,max=50"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type BookingResponse struct {
	ID           string          `json:"id"`
	ListingID    string          `json:"listing_id"`
	GuestID      string          `json:"guest_id"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Nights       int             `json:"nights"`
	Guests       int             `json:"guests"`
	Status       string          `json:"status"`
	NightlyPrice decimal.Decimal `json:"nightly_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Fees         decimal.Decimal `json:"fees"`
	Discount     decimal.Decimal `json:"discount"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	PaymentID    string          `json:"payment_id,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ListingID = model.ListingID
	r.GuestID = model.GuestID
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Nights = model.Range().Nights()
	r.Guests = model.Guests
	r.Status = model.Status
	r.NightlyPrice = model.NightlyPrice
	r.Subtotal = model.Subtotal
	r.Fees = model.Fees
	r.Discount = model.Discount
	r.Amount = model.Amount
	r.Currency = model.Currency
	r.CouponCode = model.CouponCode
	r.PaymentID = model.PaymentID
	r.CancelReason = model.CancelReason
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AvailabilityRequest struct {
	From string `json:"from" validate:"required,date"`
	To   string `json:"to"   validate:"required,date"`
}

type BlockedRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

// AvailabilityResponse lists the stays that block the listing inside [From, To).
// Any night not covered by Blocked is free at the time of reading.
type AvailabilityResponse struct {
	ListingID string         `json:"listing_id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Blocked   []BlockedRange `json:"blocked"`
}

func (r *AvailabilityResponse) FromModels(models []model.Booking) {
	r.Blocked = make([]BlockedRange, len(models))
	for i, mod := range models {
		r.Blocked[i] = BlockedRange{
			CheckIn:  mod.CheckIn.Format(constant.DateOnlyFormat),
			CheckOut: mod.CheckOut.Format(constant.DateOnlyFormat),
			Status:   mod.Status,
		}
	}
}
