package model

import (
	"stayledger/shared/model"

	"github.com/shopspring/decimal"
)

const (
	RedemptionTableName  = "coupon_redemptions"
	RedemptionEntityName = "coupon_redemption"
)

const (
	RedemptionHeld      = "held"
	RedemptionCommitted = "committed"
	RedemptionReleased  = "released"
)

// Redemption ties one use of a coupon to one booking. Only held and committed redemptions
// count against the coupon's limits.
type Redemption struct {
	ID        string          `db:"id"`
	CouponID  string          `db:"coupon_id"`
	UserID    string          `db:"user_id"`
	BookingID string          `db:"booking_id"`
	Status    string          `db:"status"`
	Discount  decimal.Decimal `db:"discount"`
	model.Metadata
}

func (r Redemption) Active() bool {
	return r.Status == RedemptionHeld || r.Status == RedemptionCommitted
}
