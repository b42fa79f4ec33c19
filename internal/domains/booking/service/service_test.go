package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayledger/config"
	"stayledger/infras/otel/mocks"
	txMocks "stayledger/infras/postgres/mocks"
	"stayledger/internal/domains/booking/lifecycle"
	lifecycleMocks "stayledger/internal/domains/booking/lifecycle/mocks"
	bookingMocks "stayledger/internal/domains/booking/mocks"
	"stayledger/internal/domains/booking/model"
	"stayledger/internal/domains/booking/model/dto"
	"stayledger/internal/domains/booking/service"
	listingMocks "stayledger/internal/domains/listing/mocks"
	listingModel "stayledger/internal/domains/listing/model"
	paymentMocks "stayledger/internal/domains/payment/mocks"
	pricingModel "stayledger/internal/domains/pricing/model"
	pricingDto "stayledger/internal/domains/pricing/model/dto"
	pricingMocks "stayledger/internal/domains/pricing/service/mocks"
	"stayledger/shared/cache"
	cacheMocks "stayledger/shared/cache/mocks"
	"stayledger/shared/constant"
	"stayledger/shared/daterange"
	"stayledger/shared/failure"
	"stayledger/shared/timezone"
)

type fixture struct {
	svc        service.Booking
	repo       *bookingMocks.MockBooking
	listings   *listingMocks.MockListing
	payments   *paymentMocks.MockPayment
	pricing    *pricingMocks.MockPricing
	lifecycle  *lifecycleMocks.MockLifecycle
	transactor *txMocks.Transactor
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		listings:   listingMocks.NewMockListing(ctrl),
		payments:   paymentMocks.NewMockPayment(ctrl),
		pricing:    pricingMocks.NewMockPricing(ctrl),
		lifecycle:  lifecycleMocks.NewMockLifecycle(ctrl),
		transactor: txMocks.NewTransactor(),
	}

	f.svc = service.New(f.repo, f.listings, f.payments, f.pricing, f.lifecycle, f.transactor, &config.Config{}, mockCache, mocks.NewOtel())

	return f
}

func asUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func activeListing() listingModel.Listing {
	return listingModel.Listing{
		ID:           "listing-1",
		OwnerID:      "host-1",
		NightlyPrice: decimal.RequireFromString("100.00"),
		Currency:     "USD",
		MaxGuests:    4,
		MinNights:    1,
		Active:       true,
	}
}

func reserveRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ListingID:  "listing-1",
		CheckIn:    "2099-06-01",
		CheckOut:   "2099-06-04",
		Guests:     2,
		CouponCode: "TEST10",
	}
}

func quote() pricingModel.PriceBreakdown {
	return pricingModel.PriceBreakdown{
		Nights:       3,
		NightlyPrice: decimal.RequireFromString("100.00"),
		Subtotal:     decimal.RequireFromString("300.00"),
		Fees:         decimal.Zero,
		Discount:     decimal.RequireFromString("30.00"),
		Total:        decimal.RequireFromString("270.00"),
		Currency:     "USD",
		CouponCode:   "TEST10",
	}
}

func storedBooking(status string, checkIn time.Time) model.Booking {
	return model.Booking{
		ID:        "booking-1",
		ListingID: "listing-1",
		GuestID:   "guest-1",
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 3),
		Guests:    2,
		Status:    status,
		Amount:    decimal.RequireFromString("270.00"),
		Currency:  "USD",
	}
}

func applyTransition(_ context.Context, _ *sqlx.Tx, b model.Booking, to string, change lifecycle.Change) (model.Booking, error) {
	b.Status = to
	if to == model.StatusCancelled {
		b.CancelReason = change.Reason
	}

	return b, nil
}

func TestBookingService_Reserve(t *testing.T) {
	t.Run("creates a pending booking priced by the quote", func(t *testing.T) {
		f := newFixture(t)

		var inserted model.Booking

		f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(true, nil)
		f.listings.EXPECT().GetForShareTx(gomock.Any(), gomock.Any(), "listing-1").Return(activeListing(), nil)
		f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in pricingDto.QuoteInput) (pricingModel.PriceBreakdown, error) {
				assert.Equal(t, 3, in.Range.Nights())
				assert.Equal(t, "guest-1", in.UserID)
				assert.Equal(t, "TEST10", in.CouponCode)

				return quote(), nil
			})
		f.repo.EXPECT().HasBlockingOverlapTx(gomock.Any(), gomock.Any(), "listing-1", gomock.Any()).Return(false, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				inserted = b

				return nil
			})
		f.lifecycle.EXPECT().Announce(gomock.Any(), gomock.Any())

		res, err := f.svc.Reserve(asUser("guest-1", constant.RoleUser), reserveRequest())

		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, "guest-1", res.GuestID)
		assert.Equal(t, "270.00", res.Amount.StringFixed(2))
		assert.Equal(t, "300.00", inserted.Subtotal.StringFixed(2))
		assert.Equal(t, "2099-06-01", res.CheckIn)
		assert.Equal(t, 3, res.Nights)
		assert.Equal(t, []sql.IsolationLevel{sql.LevelRepeatableRead}, f.transactor.Isolations())
	})

	t.Run("verifies the overlap constraint only once", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(true, nil).Times(1)
		f.listings.EXPECT().GetForShareTx(gomock.Any(), gomock.Any(), "listing-1").Return(activeListing(), nil).Times(2)
		f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(quote(), nil).Times(2)
		f.repo.EXPECT().HasBlockingOverlapTx(gomock.Any(), gomock.Any(), "listing-1", gomock.Any()).Return(true, nil).Times(2)

		for range 2 {
			_, err := f.svc.Reserve(asUser("guest-1", constant.RoleUser), reserveRequest())
			assert.ErrorIs(t, err, model.ErrOverlapConflict)
		}
	})

	tests := []struct {
		name      string
		mutate    func(req *dto.CreateBookingRequest)
		setupMock func(f fixture)
		wantErr   error
	}{
		{
			name: "check_out equal to check_in",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CheckOut = req.CheckIn
			},
			wantErr: daterange.ErrInvalidRange,
		},
		{
			name: "check_in in the past",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CheckIn = "2000-01-01"
				req.CheckOut = "2000-01-03"
			},
			wantErr: model.ErrCheckInTooSoon,
		},
		{
			name: "exclusion constraint missing",
			setupMock: func(f fixture) {
				f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(false, nil)
			},
			wantErr: model.ErrOverlapGuardMissing,
		},
		{
			name: "inactive listing",
			setupMock: func(f fixture) {
				listing := activeListing()
				listing.Active = false

				f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(true, nil)
				f.listings.EXPECT().GetForShareTx(gomock.Any(), gomock.Any(), "listing-1").Return(listing, nil)
			},
			wantErr: listingModel.ErrListingNotFound,
		},
		{
			name: "stay shorter than the listing minimum",
			setupMock: func(f fixture) {
				listing := activeListing()
				listing.MinNights = 5

				f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(true, nil)
				f.listings.EXPECT().GetForShareTx(gomock.Any(), gomock.Any(), "listing-1").Return(listing, nil)
			},
			wantErr: model.ErrStayLength,
		},
		{
			name: "pricing rejects the guest count",
			setupMock: func(f fixture) {
				f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(true, nil)
				f.listings.EXPECT().GetForShareTx(gomock.Any(), gomock.Any(), "listing-1").Return(activeListing(), nil)
				f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(pricingModel.PriceBreakdown{}, pricingModel.ErrInvalidGuestCount)
			},
			wantErr: pricingModel.ErrInvalidGuestCount,
		},
		{
			name: "insert loses the race to the exclusion constraint",
			setupMock: func(f fixture) {
				f.repo.EXPECT().ConstraintPresent(gomock.Any()).Return(true, nil)
				f.listings.EXPECT().GetForShareTx(gomock.Any(), gomock.Any(), "listing-1").Return(activeListing(), nil)
				f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(quote(), nil)
				f.repo.EXPECT().HasBlockingOverlapTx(gomock.Any(), gomock.Any(), "listing-1", gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.ErrOverlapConflict)
			},
			wantErr: model.ErrOverlapConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			req := reserveRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			_, err := f.svc.Reserve(asUser("guest-1", constant.RoleUser), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	future := time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		wantErr   error
		want      string
	}{
		{
			name: "guest cancels a pending booking",
			ctx:  asUser("guest-1", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusPending, future), nil)
				f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCancelled,
					lifecycle.Change{Actor: "guest-1", Reason: model.CancelReasonGuest}).DoAndReturn(applyTransition)
				f.lifecycle.EXPECT().Announce(gomock.Any(), gomock.Any())
			},
			want: model.StatusCancelled,
		},
		{
			name: "admin cancels someone else's confirmed booking",
			ctx:  asUser("admin-1", constant.RoleAdmin),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusConfirmed, future), nil)
				f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCancelled, gomock.Any()).DoAndReturn(applyTransition)
				f.lifecycle.EXPECT().Announce(gomock.Any(), gomock.Any())
			},
			want: model.StatusCancelled,
		},
		{
			name: "already cancelled is returned unchanged",
			ctx:  asUser("guest-1", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusCancelled, future), nil)
			},
			want: model.StatusCancelled,
		},
		{
			name: "another guest is rejected",
			ctx:  asUser("guest-2", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusPending, future), nil)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name: "unknown booking",
			ctx:  asUser("guest-1", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(model.Booking{}, nil)
			},
			wantErr: model.ErrBookingNotFound,
		},
		{
			name: "completed booking cannot be cancelled",
			ctx:  asUser("guest-1", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusCompleted, future), nil)
				f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCancelled, gomock.Any()).
					Return(model.Booking{}, model.ErrInvalidTransition)
			},
			wantErr: model.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Cancel(tt.ctx, "booking-1", dto.CancelBookingRequest{})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, []sql.IsolationLevel{sql.LevelReadCommitted}, f.transactor.Isolations())
		})
	}
}

func TestBookingService_CheckIn(t *testing.T) {
	started := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		wantErr   error
	}{
		{
			name: "host checks the guest in",
			ctx:  asUser("host-1", constant.RoleHost),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusConfirmed, started), nil)
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeListing(), nil)
				f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCheckedIn, gomock.Any()).DoAndReturn(applyTransition)
				f.lifecycle.EXPECT().Announce(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "stay has not started",
			ctx:  asUser("host-1", constant.RoleHost),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusConfirmed, future), nil)
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeListing(), nil)
			},
			wantErr: model.ErrCheckInNotStarted,
		},
		{
			name: "host of another listing",
			ctx:  asUser("host-2", constant.RoleHost),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusConfirmed, started), nil)
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeListing(), nil)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name: "pending booking cannot be checked in",
			ctx:  asUser("admin-1", constant.RoleAdmin),
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(storedBooking(model.StatusPending, started), nil)
				f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCheckedIn, gomock.Any()).
					Return(model.Booking{}, model.ErrInvalidTransition)
			},
			wantErr: model.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CheckIn(tt.ctx, "booking-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusCheckedIn, res.Status)
		})
	}
}

func TestBookingService_ExpireUnpaid(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stale := storedBooking(model.StatusPending, now.AddDate(0, 1, 0))
	paying := stale
	paying.ID = "booking-2"
	gone := stale
	gone.ID = "booking-3"

	f.repo.EXPECT().ListExpiredPending(gomock.Any(), now.Add(-30*time.Minute), 100).Return([]model.Booking{stale, paying, gone}, nil)

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(stale, nil)
	f.payments.EXPECT().HasPendingTx(gomock.Any(), gomock.Any(), "booking-1").Return(false, nil)
	f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCancelled,
		lifecycle.Change{Actor: constant.RoleSystem, Reason: model.CancelReasonUnpaid}).DoAndReturn(applyTransition)
	f.lifecycle.EXPECT().Announce(gomock.Any(), gomock.Any())

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-2").Return(paying, nil)
	f.payments.EXPECT().HasPendingTx(gomock.Any(), gomock.Any(), "booking-2").Return(true, nil)

	confirmed := gone
	confirmed.Status = model.StatusConfirmed
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-3").Return(confirmed, nil)

	expired, err := f.svc.ExpireUnpaid(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
}

func TestBookingService_CompleteFinished(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	finished := storedBooking(model.StatusCheckedIn, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	f.repo.EXPECT().ListFinished(gomock.Any(), time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 100).Return([]model.Booking{finished}, nil)
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(finished, nil)
	f.lifecycle.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), model.StatusCompleted, lifecycle.Change{Actor: constant.RoleSystem}).
		DoAndReturn(applyTransition)
	f.lifecycle.EXPECT().Announce(gomock.Any(), gomock.Any())

	completed, err := f.svc.CompleteFinished(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, completed)
}

func TestBookingService_CompleteFinished_UsesAppTimezone(t *testing.T) {
	require.NoError(t, timezone.SetLocation("Asia/Tokyo"))
	t.Cleanup(func() { _ = timezone.SetLocation("UTC") })

	f := newFixture(t)

	// 20:00 UTC on the 9th is already the 10th in Tokyo.
	now := time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC)

	f.repo.EXPECT().ListFinished(gomock.Any(), time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 100).Return(nil, nil)

	completed, err := f.svc.CompleteFinished(context.Background(), now)

	require.NoError(t, err)
	assert.Zero(t, completed)
}

func TestBookingService_Availability(t *testing.T) {
	f := newFixture(t)

	blocked := storedBooking(model.StatusConfirmed, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeListing(), nil)
	f.repo.EXPECT().ListBlocking(gomock.Any(), "listing-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, window daterange.Range) ([]model.Booking, error) {
			assert.Equal(t, "[2025-06-01, 2025-06-30)", window.String())

			return []model.Booking{blocked}, nil
		})

	res, err := f.svc.Availability(context.Background(), "listing-1", dto.AvailabilityRequest{From: "2025-06-01", To: "2025-06-30"})

	require.NoError(t, err)
	require.Len(t, res.Blocked, 1)
	assert.Equal(t, "2025-06-02", res.Blocked[0].CheckIn)
	assert.Equal(t, "2025-06-05", res.Blocked[0].CheckOut)

	_, err = f.svc.Availability(context.Background(), "listing-1", dto.AvailabilityRequest{From: "2025-06-30", To: "2025-06-01"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestBookingService_Get(t *testing.T) {
	f := newFixture(t)

	booking := storedBooking(model.StatusPending, time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil).Times(2)

	res, err := f.svc.Get(asUser("guest-1", constant.RoleUser), "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "booking-1", res.ID)

	_, err = f.svc.Get(asUser("guest-2", constant.RoleUser), "booking-1")
	assert.True(t, errors.Is(err, failure.ResourceRestrictedError))
}
