package model

import (
	"errors"
	"net/http"
	"stayledger/shared/failure"
)

var (
	ErrCouponInvalid      = failure.Validation("coupon_invalid", "coupon is not valid")
	ErrCouponExpired      = failure.Validation("coupon_expired", "coupon has expired")
	ErrCouponMinAmount    = failure.Validation("coupon_invalid", "order amount is below the coupon minimum")
	ErrCouponLimitReached = failure.New(http.StatusConflict, failure.KindConflict, "coupon_limit_reached", "coupon usage limit reached")
	ErrCouponExists       = failure.New(http.StatusConflict, failure.KindConflict, "coupon_exists", "coupon code already exists")
	ErrHoldNotFound       = failure.StateConflict("coupon_hold_missing", "no active coupon hold for booking")
)

// Unusable reports whether err means the coupon can no longer be redeemed at all.
func Unusable(err error) bool {
	return errors.Is(err, ErrCouponInvalid) ||
		errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrCouponLimitReached)
}
