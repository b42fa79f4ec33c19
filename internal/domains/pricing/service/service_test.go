package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayledger/config"
	"stayledger/infras/otel/mocks"
	couponModel "stayledger/internal/domains/coupon/model"
	couponMocks "stayledger/internal/domains/coupon/service/mocks"
	listingMocks "stayledger/internal/domains/listing/mocks"
	listingModel "stayledger/internal/domains/listing/model"
	"stayledger/internal/domains/pricing/model"
	"stayledger/internal/domains/pricing/model/dto"
	"stayledger/internal/domains/pricing/service"
	"stayledger/shared/daterange"
)

func listing() listingModel.Listing {
	return listingModel.Listing{
		ID:           "listing-1",
		NightlyPrice: decimal.RequireFromString("100.00"),
		Currency:     "USD",
		MaxGuests:    4,
		Active:       true,
	}
}

func july(t *testing.T) daterange.Range {
	t.Helper()

	r, err := daterange.New(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	return r
}

func TestPricingService_Quote(t *testing.T) {
	tests := []struct {
		name        string
		platformFee string
		mutate      func(l *listingModel.Listing)
		guests      int
		coupon      string
		setupMock   func(m *couponMocks.MockCoupon)
		want        map[string]string
		wantErr     error
	}{
		{
			name:   "three nights with ten percent coupon",
			guests: 2,
			coupon: "TEST10",
			setupMock: func(m *couponMocks.MockCoupon) {
				m.EXPECT().
					Apply(gomock.Any(), "TEST10", "guest-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, amount decimal.Decimal) (decimal.Decimal, error) {
						assert.Equal(t, "300.00", amount.StringFixed(2))

						return decimal.RequireFromString("30.00"), nil
					})
			},
			want: map[string]string{"subtotal": "300.00", "fees": "0.00", "discount": "30.00", "total": "270.00"},
		},
		{
			name:        "cleaning and platform fees",
			platformFee: "12.5",
			mutate: func(l *listingModel.Listing) {
				l.NightlyPrice = decimal.RequireFromString("99.99")
				l.CleaningFee = decimal.RequireFromString("25")
			},
			guests: 1,
			want:   map[string]string{"subtotal": "299.97", "fees": "62.50", "discount": "0.00", "total": "362.47"},
		},
		{
			name:   "discount never makes total negative",
			guests: 1,
			coupon: "FREE",
			setupMock: func(m *couponMocks.MockCoupon) {
				m.EXPECT().Apply(gomock.Any(), "FREE", "guest-1", gomock.Any()).Return(decimal.NewFromInt(5000), nil)
			},
			want: map[string]string{"subtotal": "300.00", "fees": "0.00", "discount": "300.00", "total": "0.00"},
		},
		{
			name:    "too many guests",
			guests:  5,
			wantErr: model.ErrInvalidGuestCount,
		},
		{
			name:    "no guests",
			guests:  0,
			wantErr: model.ErrInvalidGuestCount,
		},
		{
			name:   "expired coupon",
			guests: 1,
			coupon: "OLD",
			setupMock: func(m *couponMocks.MockCoupon) {
				m.EXPECT().Apply(gomock.Any(), "OLD", "guest-1", gomock.Any()).Return(decimal.Zero, couponModel.ErrCouponExpired)
			},
			wantErr: couponModel.ErrCouponExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockCoupon := couponMocks.NewMockCoupon(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(mockCoupon)
			}

			cfg := &config.Config{}
			cfg.Pricing.PlatformFeePercent = tt.platformFee

			svc := service.New(mockCoupon, listingMocks.NewMockListing(ctrl), cfg, mocks.NewOtel())

			l := listing()
			if tt.mutate != nil {
				tt.mutate(&l)
			}

			got, err := svc.Quote(context.Background(), dto.QuoteInput{
				Listing:    l,
				Range:      july(t),
				Guests:     tt.guests,
				CouponCode: tt.coupon,
				UserID:     "guest-1",
			})
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, got.Nights)
			assert.Equal(t, tt.want["subtotal"], got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.want["fees"], got.Fees.StringFixed(2))
			assert.Equal(t, tt.want["discount"], got.Discount.StringFixed(2))
			assert.Equal(t, tt.want["total"], got.Total.StringFixed(2))
			assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Fees).Sub(got.Discount)))
		})
	}
}

func TestPricingService_QuoteIsDeterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCoupon := couponMocks.NewMockCoupon(ctrl)
	mockCoupon.EXPECT().Apply(gomock.Any(), "TEST10", "guest-1", gomock.Any()).Return(decimal.RequireFromString("30"), nil).Times(2)

	cfg := &config.Config{}
	cfg.Pricing.PlatformFeePercent = "3"

	svc := service.New(mockCoupon, listingMocks.NewMockListing(ctrl), cfg, mocks.NewOtel())
	in := dto.QuoteInput{Listing: listing(), Range: july(t), Guests: 2, CouponCode: "TEST10", UserID: "guest-1"}

	first, err := svc.Quote(context.Background(), in)
	require.NoError(t, err)

	second, err := svc.Quote(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPricingService_QuoteListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := listingMocks.NewMockListing(ctrl)

	svc := service.New(couponMocks.NewMockCoupon(ctrl), mockRepo, &config.Config{}, mocks.NewOtel())

	t.Run("inactive listing", func(t *testing.T) {
		inactive := listing()
		inactive.Active = false
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)

		_, err := svc.QuoteListing(context.Background(), dto.QuoteRequest{
			ListingID: "listing-1", CheckIn: "2025-07-01", CheckOut: "2025-07-04", Guests: 1,
		})
		assert.True(t, errors.Is(err, listingModel.ErrListingNotFound))
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := svc.QuoteListing(context.Background(), dto.QuoteRequest{
			ListingID: "listing-1", CheckIn: "2025-07-04", CheckOut: "2025-07-01", Guests: 1,
		})
		assert.True(t, errors.Is(err, daterange.ErrInvalidRange))
	})

	t.Run("priced", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(), nil)

		res, err := svc.QuoteListing(context.Background(), dto.QuoteRequest{
			ListingID: "listing-1", CheckIn: "2025-07-01", CheckOut: "2025-07-04", Guests: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "300.00", res.Total.StringFixed(2))
		assert.Equal(t, "USD", res.Currency)
	})
}
