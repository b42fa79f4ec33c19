package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/booking/lifecycle"
	"stayledger/internal/domains/booking/model"
	"stayledger/internal/domains/booking/model/dto"
	"stayledger/internal/domains/booking/repository"
	listingModel "stayledger/internal/domains/listing/model"
	listingRepo "stayledger/internal/domains/listing/repository"
	paymentRepo "stayledger/internal/domains/payment/repository"
	pricingDto "stayledger/internal/domains/pricing/model/dto"
	pricingService "stayledger/internal/domains/pricing/service"
	"stayledger/shared"
	"stayledger/shared/cache"
	"stayledger/shared/constant"
	"stayledger/shared/daterange"
	gDto "stayledger/shared/dto"
	"stayledger/shared/failure"
	gModel "stayledger/shared/model"
	"stayledger/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	defaultUnpaidTTLMinutes = 30
	defaultBatchSize        = 100
)

// Booking admits stays and drives them through their lifecycle. Reserve never admits two
// blocking bookings of one listing for overlapping nights, however many run concurrently.
type Booking interface {
	Reserve(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Availability(ctx context.Context, listingID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	Complete(ctx context.Context, id string) (dto.BookingResponse, error)
	ExpireUnpaid(ctx context.Context, now time.Time) (int, error)
	CompleteFinished(ctx context.Context, now time.Time) (int, error)
}

type serviceImpl struct {
	repo        repository.Booking
	listingRepo listingRepo.Listing
	payments    paymentRepo.Payment
	pricing     pricingService.Pricing
	lifecycle   lifecycle.Lifecycle
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel

	guardMu       sync.Mutex
	guardVerified bool
}

func New(repo repository.Booking, listingRepo listingRepo.Listing, payments paymentRepo.Payment, pricing pricingService.Pricing,
	lifecycle lifecycle.Lifecycle, transactor postgres.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		payments:    payments,
		pricing:     pricing,
		lifecycle:   lifecycle,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Reserve creates a pending booking for the caller. The listing row is read FOR SHARE so the
// snapshot price cannot change under the quote, and the overlap pre-check only saves a doomed
// insert: the exclusion constraint decides.
func (s *serviceImpl) Reserve(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	stay, err := daterange.Parse(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	earliest := timezone.Today().AddDate(0, 0, s.cfg.Booking.MinAdvanceDays)
	if stay.Start.Before(earliest) {
		return res, model.ErrCheckInTooSoon
	}

	if s.cfg.Booking.MaxGuests > 0 && req.Guests > s.cfg.Booking.MaxGuests {
		return res, model.ErrGuestLimit
	}

	if err = s.ensureOverlapGuard(ctx); err != nil {
		return res, err
	}

	var booking model.Booking

	err = s.transactor.WithTx(ctx, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
		listing, err := s.listingRepo.GetForShareTx(ctx, tx, req.ListingID)
		if err != nil {
			return fmt.Errorf("failed to load listing: %w", err)
		}

		if listing.ID == constant.Empty || !listing.Active {
			return listingModel.ErrListingNotFound
		}

		if !listing.AllowsStay(stay.Nights()) {
			return model.ErrStayLength
		}

		quote, err := s.pricing.Quote(ctx, pricingDto.QuoteInput{
			Listing:    listing,
			Range:      stay,
			Guests:     req.Guests,
			CouponCode: req.CouponCode,
			UserID:     user,
		})
		if err != nil {
			return err
		}

		overlap, err := s.repo.HasBlockingOverlapTx(ctx, tx, listing.ID, stay)
		if err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}

		if overlap {
			return model.ErrOverlapConflict
		}

		booking = model.Booking{
			ID:           uuid.NewString(),
			ListingID:    listing.ID,
			GuestID:      user,
			CheckIn:      stay.Start,
			CheckOut:     stay.End,
			Guests:       req.Guests,
			Status:       model.StatusPending,
			NightlyPrice: quote.NightlyPrice,
			Subtotal:     quote.Subtotal,
			Fees:         quote.Fees,
			Discount:     quote.Discount,
			Amount:       quote.Total,
			Currency:     quote.Currency,
			CouponCode:   quote.CouponCode,
			Metadata:     gModel.NewMetadata(user, timezone.Now()),
		}

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		if errors.Is(err, model.ErrOverlapConflict) {
			log.Warn().Str("listing_id", req.ListingID).Str("range", stay.String()).Msg("reservation rejected, dates taken")
		} else if failure.GetKind(err) == constant.Empty {
			log.Error().Err(err).Str("listing_id", req.ListingID).Msg("failed to reserve booking")
		}

		return res, err
	}

	log.Info().Str("booking_id", booking.ID).Str("listing_id", booking.ListingID).Str("range", stay.String()).Msg("booking reserved")

	s.lifecycle.Announce(ctx, booking)

	res.FromModel(booking)

	return res, nil
}

// ensureOverlapGuard refuses every reservation while the exclusion constraint is missing.
// Only a positive answer is remembered.
func (s *serviceImpl) ensureOverlapGuard(ctx context.Context) error {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()

	if s.guardVerified {
		return nil
	}

	present, err := s.repo.ConstraintPresent(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify booking constraints: %w", err)
	}

	if !present {
		log.Error().Str("constraint", model.OverlapConstraint).Msg("overlap constraint missing, refusing reservations")

		return model.ErrOverlapGuardMissing
	}

	s.guardVerified = true

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")
	} else {
		booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return res, model.ErrBookingNotFound
		}

		res.FromModel(booking)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	if !isGuestOrAdmin(ctx, res.GuestID) {
		return dto.BookingResponse{}, failure.ResourceRestrictedError
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Availability reports the nights of a listing held by blocking bookings inside the window.
// The answer is a read model and may be stale by the time a reservation is attempted.
func (s *serviceImpl) Availability(ctx context.Context, listingID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	window, err := daterange.Parse(req.From, req.To)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(model.CacheBookingAvailability, listingID, req.From, req.To)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, listingModel.ErrListingNotFound
	}

	blocking, err := s.repo.ListBlocking(ctx, listingID, window)
	if err != nil {
		return res, fmt.Errorf("failed to get availability: %w", err)
	}

	res = dto.AvailabilityResponse{
		ListingID: listingID,
		From:      req.From,
		To:        req.To,
	}
	res.FromModels(blocking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return res, nil
}

// Cancel releases the booking's nights. Cancelling an already cancelled booking returns it unchanged.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reason := req.Reason
	if reason == constant.Empty {
		reason = model.CancelReasonGuest
	}

	booking, changed, err := s.transition(ctx, id, model.StatusCancelled, lifecycle.Change{Actor: user, Reason: reason},
		func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			if !isGuestOrAdmin(ctx, booking.GuestID) {
				return failure.ResourceRestrictedError
			}

			return nil
		})
	if err != nil {
		return res, err
	}

	if changed {
		s.lifecycle.Announce(ctx, booking)
	}

	res.FromModel(booking)

	return res, nil
}

// CheckIn is done by the listing's host once the stay has started.
func (s *serviceImpl) CheckIn(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, changed, err := s.transition(ctx, id, model.StatusCheckedIn, lifecycle.Change{Actor: user},
		func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
			if err := s.authorizeHost(ctx, tx, booking); err != nil {
				return err
			}

			if timezone.Today().Before(booking.Range().Start) {
				return model.ErrCheckInNotStarted
			}

			return nil
		})
	if err != nil {
		return res, err
	}

	if changed {
		s.lifecycle.Announce(ctx, booking)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, changed, err := s.transition(ctx, id, model.StatusCompleted, lifecycle.Change{Actor: user}, s.authorizeHost)
	if err != nil {
		return res, err
	}

	if changed {
		s.lifecycle.Announce(ctx, booking)
	}

	res.FromModel(booking)

	return res, nil
}

// ExpireUnpaid cancels pending bookings older than the unpaid TTL that have no payment in flight.
// It returns how many bookings it cancelled.
func (s *serviceImpl) ExpireUnpaid(ctx context.Context, now time.Time) (expired int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpireUnpaid")
	defer scope.End()
	defer scope.TraceIfError(err)

	ttl := s.cfg.Reconciler.UnpaidTTLMinutes
	if ttl <= 0 {
		ttl = defaultUnpaidTTLMinutes
	}

	bookings, err := s.repo.ListExpiredPending(ctx, now.Add(-time.Duration(ttl)*time.Minute), s.batchSize())
	if err != nil {
		return 0, fmt.Errorf("failed to list unpaid bookings: %w", err)
	}

	change := lifecycle.Change{Actor: constant.RoleSystem, Reason: model.CancelReasonUnpaid}

	for _, candidate := range bookings {
		booking, changed, err := s.transition(ctx, candidate.ID, model.StatusCancelled, change,
			func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
				if booking.Status != model.StatusPending {
					return errSkip
				}

				inFlight, err := s.payments.HasPendingTx(ctx, tx, booking.ID)
				if err != nil {
					return fmt.Errorf("failed to check pending payments: %w", err)
				}

				if inFlight {
					return errSkip
				}

				return nil
			})
		if errors.Is(err, errSkip) {
			continue
		}

		if err != nil {
			log.Error().Err(err).Str("booking_id", candidate.ID).Msg("failed to expire unpaid booking")

			continue
		}

		if changed {
			expired++

			s.lifecycle.Announce(ctx, booking)
		}
	}

	return expired, nil
}

// CompleteFinished completes checked-in bookings whose check-out day has come.
func (s *serviceImpl) CompleteFinished(ctx context.Context, now time.Time) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CompleteFinished")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := s.repo.ListFinished(ctx, timezone.DateOf(now), s.batchSize())
	if err != nil {
		return 0, fmt.Errorf("failed to list finished bookings: %w", err)
	}

	change := lifecycle.Change{Actor: constant.RoleSystem}

	for _, candidate := range bookings {
		booking, changed, err := s.transition(ctx, candidate.ID, model.StatusCompleted, change,
			func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
				if booking.Status != model.StatusCheckedIn {
					return errSkip
				}

				return nil
			})
		if errors.Is(err, errSkip) {
			continue
		}

		if err != nil {
			log.Error().Err(err).Str("booking_id", candidate.ID).Msg("failed to complete booking")

			continue
		}

		if changed {
			completed++

			s.lifecycle.Announce(ctx, booking)
		}
	}

	return completed, nil
}
