package dto

import (
	"stayledger/internal/domains/coupon/model"
	"stayledger/shared"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	gModel "stayledger/shared/model"
	"stayledger/shared/money"
	"stayledger/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code           string          `json:"code"              validate:"required,alphanum,max=50"`
	DiscountType   string          `json:"discount_type"     validate:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal `json:"discount_value"    validate:"gt=0"`
	MinAmount      decimal.Decimal `json:"min_amount"        validate:"omitempty,gte=0"`
	MaxUses        int             `json:"max_uses"          validate:"omitempty,min=0"`
	MaxUsesPerUser int             `json:"max_uses_per_user" validate:"omitempty,min=0"`
	IsActive       *bool           `json:"is_active"         validate:"omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at"        validate:"omitempty"`
}

func (c *CreateCouponRequest) ToModel(user string) model.Coupon {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Coupon{
		ID:             uuid.NewString(),
		Code:           NormalizeCode(c.Code),
		DiscountType:   c.DiscountType,
		DiscountValue:  money.Round(c.DiscountValue),
		MinAmount:      money.Round(c.MinAmount),
		MaxUses:        c.MaxUses,
		MaxUsesPerUser: c.MaxUsesPerUser,
		IsActive:       active,
		ExpiresAt:      c.ExpiresAt,
		Metadata:       gModel.NewMetadata(user, timezone.Now()),
	}
}

// NormalizeCode is the canonical stored form of a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type ValidateCouponRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

type ValidateCouponResponse struct {
	Code     string          `json:"code"`
	Amount   decimal.Decimal `json:"amount"`
	Discount decimal.Decimal `json:"discount"`
}

// HoldRequest reserves one use of a coupon for a booking until it is committed or rolled back.
type HoldRequest struct {
	Code      string
	UserID    string
	BookingID string
	Amount    decimal.Decimal
}

type CouponResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MinAmount      decimal.Decimal `json:"min_amount"`
	MaxUses        int             `json:"max_uses"`
	MaxUsesPerUser int             `json:"max_uses_per_user"`
	IsActive       bool            `json:"is_active"`
	ExpiresAt      string          `json:"expires_at,omitempty"`
	UsedCount      int             `json:"used_count"`
	HeldCount      int             `json:"held_count"`
	gDto.Metadata
}

func (r *CouponResponse) FromModel(model model.Coupon) {
	r.ID = model.ID
	r.Code = model.Code
	r.DiscountType = model.DiscountType
	r.DiscountValue = model.DiscountValue
	r.MinAmount = model.MinAmount
	r.MaxUses = model.MaxUses
	r.MaxUsesPerUser = model.MaxUsesPerUser
	r.IsActive = model.IsActive
	r.UsedCount = model.UsedCount
	r.HeldCount = model.HeldCount

	if model.ExpiresAt != nil {
		r.ExpiresAt = timezone.Format(*model.ExpiresAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetCouponsResponse struct {
	Coupons   []CouponResponse `json:"coupons"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetCouponsResponse) FromModels(models []model.Coupon, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Coupons = make([]CouponResponse, len(models))
	for i, mod := range models {
		r.Coupons[i].FromModel(mod)
	}
}
