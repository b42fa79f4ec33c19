package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"stayledger/config"
	"stayledger/infras/otel"
	couponService "stayledger/internal/domains/coupon/service"
	listingModel "stayledger/internal/domains/listing/model"
	listingRepo "stayledger/internal/domains/listing/repository"
	"stayledger/internal/domains/pricing/model"
	"stayledger/internal/domains/pricing/model/dto"
	"stayledger/shared"
	"stayledger/shared/constant"
	"stayledger/shared/daterange"
	"stayledger/shared/money"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Pricing prices stays. Given the same listing, stay and coupon state it always returns the
// same breakdown, so a retried reservation is repriced identically.
type Pricing interface {
	Quote(ctx context.Context, in dto.QuoteInput) (model.PriceBreakdown, error)
	QuoteListing(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
}

type serviceImpl struct {
	coupon      couponService.Coupon
	listingRepo listingRepo.Listing
	platformFee decimal.Decimal
	otel        otel.Otel
}

func New(coupon couponService.Coupon, listingRepo listingRepo.Listing, cfg *config.Config, otel otel.Otel) Pricing {
	platformFee := decimal.Zero

	if cfg.Pricing.PlatformFeePercent != constant.Empty {
		fee, err := decimal.NewFromString(cfg.Pricing.PlatformFeePercent)
		if err != nil || fee.IsNegative() {
			log.Error().Err(err).Str("value", cfg.Pricing.PlatformFeePercent).Msg("invalid platform fee percent, using 0")
		} else {
			platformFee = fee
		}
	}

	return &serviceImpl{
		coupon:      coupon,
		listingRepo: listingRepo,
		platformFee: platformFee,
		otel:        otel,
	}
}

func (s *serviceImpl) Quote(ctx context.Context, in dto.QuoteInput) (res model.PriceBreakdown, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = in.Range.Validate(); err != nil {
		return res, err
	}

	if in.Guests < 1 || in.Guests > in.Listing.MaxGuests {
		return res, model.ErrInvalidGuestCount
	}

	nightly := money.Round(in.Listing.NightlyPrice)
	nights := in.Range.Nights()

	res = model.PriceBreakdown{
		Nights:       nights,
		NightlyPrice: nightly,
		Subtotal:     money.Round(nightly.Mul(decimal.NewFromInt(int64(nights)))),
		CleaningFee:  money.Round(in.Listing.CleaningFee),
		Discount:     decimal.Zero,
		Currency:     in.Listing.Currency,
	}

	res.PlatformFee = money.Percent(res.Subtotal, s.platformFee)
	res.Fees = res.CleaningFee.Add(res.PlatformFee)

	if in.CouponCode != constant.Empty {
		discount, err := s.coupon.Apply(ctx, in.CouponCode, in.UserID, res.Subtotal)
		if err != nil {
			return model.PriceBreakdown{}, err
		}

		res.Discount = money.Clamp(discount, res.Subtotal.Add(res.Fees))
		res.CouponCode = in.CouponCode
	}

	res.Total = res.Subtotal.Add(res.Fees).Sub(res.Discount)

	return res, nil
}

func (s *serviceImpl) QuoteListing(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.QuoteListing")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	stay, err := daterange.Parse(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(req.ListingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty || !listing.Active {
		return res, listingModel.ErrListingNotFound
	}

	breakdown, err := s.Quote(ctx, dto.QuoteInput{
		Listing:    listing,
		Range:      stay,
		Guests:     req.Guests,
		CouponCode: req.CouponCode,
		UserID:     user,
	})
	if err != nil {
		return res, err
	}

	return dto.QuoteResponse{
		ListingID:      listing.ID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Guests:         req.Guests,
		PriceBreakdown: breakdown,
	}, nil
}
