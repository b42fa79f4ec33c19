package model

import (
	"stayledger/shared/model"
	"stayledger/shared/money"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "coupons"
	EntityName = "coupon"

	FieldID       = "id"
	FieldCode     = "code"
	FieldIsActive = "is_active"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type Coupon struct {
	ID             string          `db:"id"`
	Code           string          `db:"code"`
	DiscountType   string          `db:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value"`
	MinAmount      decimal.Decimal `db:"min_amount"`
	MaxUses        int             `db:"max_uses"`
	MaxUsesPerUser int             `db:"max_uses_per_user"`
	IsActive       bool            `db:"is_active"`
	ExpiresAt      *time.Time      `db:"expires_at"`
	UsedCount      int             `db:"used_count"`
	HeldCount      int             `db:"held_count"`
	model.Metadata
}

// Evaluate checks whether the coupon can be redeemed by a user who already holds or used it
// userUses times, and returns the discount it grants on amount. It never mutates the coupon.
func (c Coupon) Evaluate(now time.Time, userUses int, amount decimal.Decimal) (decimal.Decimal, error) {
	if !c.IsActive {
		return decimal.Zero, ErrCouponInvalid
	}

	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return decimal.Zero, ErrCouponExpired
	}

	if c.MaxUses > 0 && c.UsedCount+c.HeldCount >= c.MaxUses {
		return decimal.Zero, ErrCouponLimitReached
	}

	if c.MaxUsesPerUser > 0 && userUses >= c.MaxUsesPerUser {
		return decimal.Zero, ErrCouponLimitReached
	}

	if amount.LessThan(c.MinAmount) {
		return decimal.Zero, ErrCouponMinAmount
	}

	return c.Discount(amount), nil
}

// Discount is the rounded reduction the coupon grants on amount, never more than amount.
func (c Coupon) Discount(amount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = money.Percent(amount, c.DiscountValue)
	case DiscountTypeFixed:
		discount = money.Round(c.DiscountValue)
	}

	return money.Clamp(discount, amount)
}
