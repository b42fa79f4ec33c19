package model

import (
	"stayledger/shared/failure"

	"github.com/shopspring/decimal"
)

var ErrInvalidGuestCount = failure.Validation("invalid_guest_count", "guest count exceeds listing capacity")

// PriceBreakdown is the priced stay. Every amount is rounded half up to cents and
// Total = Subtotal + Fees - Discount is never negative.
type PriceBreakdown struct {
	Nights       int             `json:"nights"`
	NightlyPrice decimal.Decimal `json:"nightly_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CleaningFee  decimal.Decimal `json:"cleaning_fee"`
	PlatformFee  decimal.Decimal `json:"platform_fee"`
	Fees         decimal.Decimal `json:"fees"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	CouponCode   string          `json:"coupon_code,omitempty"`
}
