package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stayledger/internal/domains/coupon/model"
)

func TestCoupon_Evaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	base := model.Coupon{
		Code:          "TEST10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	}

	tests := []struct {
		name     string
		mutate   func(c *model.Coupon)
		userUses int
		amount   string
		want     string
		wantErr  error
	}{
		{name: "percentage", amount: "300", want: "30"},
		{name: "percentage rounds half up", amount: "0.05", want: "0.01"},
		{
			name:   "fixed capped at amount",
			mutate: func(c *model.Coupon) { c.DiscountType = model.DiscountTypeFixed; c.DiscountValue = decimal.NewFromInt(500) },
			amount: "300",
			want:   "300",
		},
		{name: "inactive", mutate: func(c *model.Coupon) { c.IsActive = false }, amount: "300", wantErr: model.ErrCouponInvalid},
		{name: "expired", mutate: func(c *model.Coupon) { c.ExpiresAt = &past }, amount: "300", wantErr: model.ErrCouponExpired},
		{name: "not yet expired", mutate: func(c *model.Coupon) { c.ExpiresAt = &future }, amount: "300", want: "30"},
		{
			name:    "global cap counts holds",
			mutate:  func(c *model.Coupon) { c.MaxUses = 2; c.UsedCount = 1; c.HeldCount = 1 },
			amount:  "300",
			wantErr: model.ErrCouponLimitReached,
		},
		{name: "zero max uses is unlimited", mutate: func(c *model.Coupon) { c.UsedCount = 1000 }, amount: "300", want: "30"},
		{
			name:     "per user cap",
			mutate:   func(c *model.Coupon) { c.MaxUsesPerUser = 1 },
			userUses: 1,
			amount:   "300",
			wantErr:  model.ErrCouponLimitReached,
		},
		{
			name:    "below minimum",
			mutate:  func(c *model.Coupon) { c.MinAmount = decimal.NewFromInt(500) },
			amount:  "300",
			wantErr: model.ErrCouponInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := base
			if tt.mutate != nil {
				tt.mutate(&coupon)
			}

			got, err := coupon.Evaluate(now, tt.userUses, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, got.IsZero())

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, decimal.RequireFromString(tt.want).StringFixed(2), got.StringFixed(2))
		})
	}
}

func TestUnusable(t *testing.T) {
	assert.True(t, model.Unusable(model.ErrCouponLimitReached))
	assert.True(t, model.Unusable(model.ErrCouponExpired))
	assert.True(t, model.Unusable(model.ErrCouponInvalid))
	assert.True(t, model.Unusable(model.ErrCouponMinAmount))
	assert.False(t, model.Unusable(model.ErrHoldNotFound))
	assert.False(t, model.Unusable(errors.New("connection reset by peer")))
}
