package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/infras/payment"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/booking/lifecycle"
	bookingModel "stayledger/internal/domains/booking/model"
	bookingRepo "stayledger/internal/domains/booking/repository"
	couponModel "stayledger/internal/domains/coupon/model"
	couponDto "stayledger/internal/domains/coupon/model/dto"
	couponService "stayledger/internal/domains/coupon/service"
	"stayledger/internal/domains/payment/model"
	"stayledger/internal/domains/payment/model/dto"
	"stayledger/internal/domains/payment/repository"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/failure"
	gModel "stayledger/shared/model"
	"stayledger/shared/money"
	"stayledger/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	defaultPendingStaleSeconds = 60
	defaultExpireAfterSeconds  = 900
	defaultBatchSize           = 100
)

// Payment charges bookings exactly once per idempotency key. A charge is split in three steps:
// the intent is recorded and claimed, the provider is called with no transaction open, and the
// outcome is written together with the booking transition.
type Payment interface {
	Charge(ctx context.Context, req dto.ProcessPaymentRequest) (dto.PaymentResult, error)
	Get(ctx context.Context, key string) (dto.PaymentResult, error)
	ResolveStale(ctx context.Context, now time.Time) (dto.ResolveSummary, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	coupon      couponService.Coupon
	lifecycle   lifecycle.Lifecycle
	provider    payment.Provider
	transactor  postgres.Transactor
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Payment, bookingRepo bookingRepo.Booking, coupon couponService.Coupon, lifecycle lifecycle.Lifecycle,
	provider payment.Provider, transactor postgres.Transactor, cfg *config.Config, otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		coupon:      coupon,
		lifecycle:   lifecycle,
		provider:    provider,
		transactor:  transactor,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Charge(ctx context.Context, req dto.ProcessPaymentRequest) (res dto.PaymentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := actorFrom(ctx)
	amount := money.Round(req.Amount)
	currency := money.NormalizeCurrency(req.Currency)

	var (
		attempt    model.Attempt
		replay     bool
		couponLost bool
	)

	err = s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		replay = false
		couponLost = false

		booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, req.BookingID)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return bookingModel.ErrBookingNotFound
		}

		if !isGuestOrAdmin(ctx, booking.GuestID) {
			return failure.ResourceRestrictedError
		}

		existing, err := s.repo.GetByKeyForUpdateTx(ctx, tx, req.IdempotencyKey)
		if err != nil {
			return fmt.Errorf("failed to lock payment attempt: %w", err)
		}

		now := timezone.Now()

		if existing.ID != constant.Empty {
			switch {
			case existing.BookingID != booking.ID:
				return model.ErrIdempotencyKeyReused
			case !existing.Matches(amount, currency):
				return model.ErrAmountMismatch
			case existing.IsFinal():
				attempt = existing
				replay = true

				return nil
			case !existing.Claimable(now, s.staleAfter()):
				return model.ErrPaymentInProgress
			}

			existing.Claim(now, actor)
			attempt = existing

			return s.repo.UpdateTx(ctx, tx, existing)
		}

		if booking.Status != bookingModel.StatusPending {
			return bookingModel.ErrBookingNotPending
		}

		if !money.Equal(booking.Amount, amount) || booking.Currency != currency {
			return model.ErrAmountMismatch
		}

		inFlight, err := s.repo.HasPendingTx(ctx, tx, booking.ID)
		if err != nil {
			return fmt.Errorf("failed to check pending payments: %w", err)
		}

		if inFlight {
			return model.ErrPaymentInProgress
		}

		if booking.CouponCode != constant.Empty {
			err = s.coupon.HoldTx(ctx, tx, couponDto.HoldRequest{
				Code:      booking.CouponCode,
				UserID:    booking.GuestID,
				BookingID: booking.ID,
				Amount:    booking.Subtotal,
			})
			if err != nil {
				couponLost = couponModel.Unusable(err)

				return err //nolint:wrapcheck
			}
		}

		attempt = model.Attempt{
			ID:             uuid.NewString(),
			IdempotencyKey: req.IdempotencyKey,
			BookingID:      booking.ID,
			Amount:         amount,
			Currency:       currency,
			Method:         req.Method,
			Status:         model.StatusPending,
			Metadata:       gModel.NewMetadata(actor, now),
		}
		attempt.Claim(now, actor)

		return s.repo.InsertTx(ctx, tx, attempt)
	})
	if err != nil {
		if failure.GetKind(err) == constant.Empty {
			log.Error().Err(err).Str("booking_id", req.BookingID).Msg("failed to reserve payment intent")
		}

		if couponLost {
			res.BookingStatus = s.cancelForCoupon(ctx, req.BookingID, actor)
		}

		return res, err
	}

	if replay {
		log.Info().Str("attempt_id", attempt.ID).Str("status", attempt.Status).Msg("payment replayed")

		res.FromModel(attempt)
		res.Replayed = true

		return res, nil
	}

	attempt, booking, err := s.execute(ctx, attempt, actor)

	res.FromModel(attempt)
	res.BookingStatus = booking.Status

	return res, err
}

// execute asks the provider for the claimed attempt's outcome and records it. Zero amounts are
// settled without calling the provider.
func (s *serviceImpl) execute(ctx context.Context, attempt model.Attempt, actor string) (model.Attempt, bookingModel.Booking, error) {
	ctx = context.WithoutCancel(ctx)

	outcome := payment.ChargeResult{Status: payment.StatusSucceeded}

	if attempt.Amount.IsPositive() {
		var err error

		outcome, err = s.provider.Charge(ctx, payment.ChargeRequest{
			IdempotencyKey: attempt.IdempotencyKey,
			Amount:         attempt.Amount,
			Currency:       attempt.Currency,
			Method:         attempt.Method,
			Reference:      attempt.BookingID,
		})
		if err != nil {
			log.Warn().Err(err).Str("attempt_id", attempt.ID).Int("attempts", attempt.Attempts).Msg("payment provider call failed")

			s.releaseClaim(ctx, attempt, actor)

			return attempt, bookingModel.Booking{}, model.ErrProviderError
		}
	}

	return s.finalize(ctx, attempt, outcome, actor)
}

// finalize writes the provider outcome. Money the provider has taken is always recorded: if the
// booking stopped waiting for payment meanwhile, the attempt succeeds with RequiresRefund and
// ErrBookingNotPending is returned.
func (s *serviceImpl) finalize(ctx context.Context, claimed model.Attempt, outcome payment.ChargeResult, actor string) (model.Attempt, bookingModel.Booking, error) {
	var (
		attempt   model.Attempt
		booking   bookingModel.Booking
		changed   bool
		resultErr error
	)

	err := s.transactor.WithTx(ctx, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
		changed = false
		resultErr = nil

		var err error

		booking, err = s.bookingRepo.GetForUpdateTx(ctx, tx, claimed.BookingID)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		attempt, err = s.repo.GetByKeyForUpdateTx(ctx, tx, claimed.IdempotencyKey)
		if err != nil {
			return fmt.Errorf("failed to lock payment attempt: %w", err)
		}

		if attempt.ID == constant.Empty {
			return model.ErrPaymentNotFound
		}

		if attempt.IsFinal() && !(outcome.Succeeded() && closedWithoutCharge(attempt)) {
			return nil
		}

		now := timezone.Now()
		attempt.ClaimedAt = nil
		attempt.ModifiedAt = now
		attempt.ModifiedBy = actor

		if !outcome.Succeeded() {
			attempt.Status = model.StatusFailed
			attempt.FailureReason = model.ReasonDeclinedPrefix + outcome.DeclineReason

			if err = s.repo.UpdateTx(ctx, tx, attempt); err != nil {
				return err //nolint:wrapcheck
			}

			if booking.Status != bookingModel.StatusPending {
				return nil
			}

			booking, err = s.lifecycle.TransitionTx(ctx, tx, booking, bookingModel.StatusCancelled,
				lifecycle.Change{Actor: actor, Reason: bookingModel.CancelReasonPaymentDeclined})
			changed = err == nil

			return err //nolint:wrapcheck
		}

		attempt.Status = model.StatusSucceeded
		attempt.ProviderRef = outcome.Reference
		attempt.FailureReason = constant.Empty

		if booking.Status != bookingModel.StatusPending {
			attempt.RequiresRefund = true
			resultErr = bookingModel.ErrBookingNotPending

			return s.repo.UpdateTx(ctx, tx, attempt)
		}

		if err = s.repo.UpdateTx(ctx, tx, attempt); err != nil {
			return err //nolint:wrapcheck
		}

		booking, err = s.lifecycle.TransitionTx(ctx, tx, booking, bookingModel.StatusConfirmed,
			lifecycle.Change{Actor: actor, PaymentID: attempt.ID})
		changed = err == nil

		return err //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("attempt_id", claimed.ID).Msg("failed to finalize payment")

		return claimed, booking, err
	}

	if resultErr != nil {
		log.Error().Str("attempt_id", attempt.ID).Str("booking_id", booking.ID).Str("booking_status", booking.Status).
			Msg("payment captured for a booking that is no longer pending, refund required")
	} else {
		log.Info().Str("attempt_id", attempt.ID).Str("status", attempt.Status).Str("booking_status", booking.Status).Msg("payment finalized")
	}

	if changed {
		s.lifecycle.Announce(ctx, booking)
	}

	return attempt, booking, resultErr
}

// cancelForCoupon cancels a booking still waiting for payment whose discounted price can no longer
// be honoured, which frees its nights. It returns the booking's status afterwards.
func (s *serviceImpl) cancelForCoupon(ctx context.Context, bookingID, actor string) string {
	ctx = context.WithoutCancel(ctx)

	var (
		booking bookingModel.Booking
		changed bool
	)

	err := s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		changed = false

		var err error

		booking, err = s.bookingRepo.GetForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.Status != bookingModel.StatusPending {
			return nil
		}

		booking, err = s.lifecycle.TransitionTx(ctx, tx, booking, bookingModel.StatusCancelled,
			lifecycle.Change{Actor: actor, Reason: bookingModel.CancelReasonCoupon})
		changed = err == nil

		return err //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to cancel booking with unusable coupon")

		return booking.Status
	}

	if changed {
		log.Info().Str("booking_id", booking.ID).Str("coupon", booking.CouponCode).Msg("booking cancelled, coupon no longer available")
		s.lifecycle.Announce(ctx, booking)
	}

	return booking.Status
}

// closedWithoutCharge is true for attempts failed by the ledger itself rather than by the provider.
func closedWithoutCharge(attempt model.Attempt) bool {
	return attempt.Status == model.StatusFailed &&
		(attempt.FailureReason == model.ReasonBookingCancelled || attempt.FailureReason == model.ReasonExpired)
}

// releaseClaim lets the next request or the reconciler retry the attempt straight away.
func (s *serviceImpl) releaseClaim(ctx context.Context, claimed model.Attempt, actor string) {
	err := s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		attempt, err := s.repo.GetByKeyForUpdateTx(ctx, tx, claimed.IdempotencyKey)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if attempt.Status != model.StatusPending {
			return nil
		}

		attempt.ClaimedAt = nil
		attempt.ModifiedAt = timezone.Now()
		attempt.ModifiedBy = actor

		return s.repo.UpdateTx(ctx, tx, attempt)
	})
	if err != nil {
		log.Error().Err(err).Str("attempt_id", claimed.ID).Msg("failed to release payment claim")
	}
}

func (s *serviceImpl) Get(ctx context.Context, key string) (res dto.PaymentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIdempotencyKey,
				Value:    key,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	attempt, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment attempt")

		return res, fmt.Errorf("failed to get payment attempt: %w", err)
	}

	if attempt.ID == constant.Empty {
		return res, model.ErrPaymentNotFound
	}

	if !isGuestOrAdmin(ctx, attempt.CreatedBy) {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(attempt)

	return res, nil
}

// ResolveStale retries pending attempts nobody is working on, with their original key. Attempts
// the provider still cannot settle once they are older than the expiry window are failed and
// their booking cancelled.
func (s *serviceImpl) ResolveStale(ctx context.Context, now time.Time) (summary dto.ResolveSummary, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.ResolveStale")
	defer scope.End()
	defer scope.TraceIfError(err)

	attempts, err := s.repo.ListStale(ctx, now.Add(-s.staleAfter()), s.batchSize())
	if err != nil {
		return summary, fmt.Errorf("failed to list stale payments: %w", err)
	}

	for _, stale := range attempts {
		summary.Scanned++

		claimed, ok, err := s.reclaim(ctx, stale, now)
		if err != nil {
			log.Error().Err(err).Str("attempt_id", stale.ID).Msg("failed to claim stale payment")
			summary.Unresolved++

			continue
		}

		if !ok {
			continue
		}

		attempt, _, err := s.execute(ctx, claimed, constant.RoleSystem)

		switch {
		case errors.Is(err, model.ErrProviderError):
			if now.Sub(stale.CreatedAt) < s.expireAfter() {
				summary.Unresolved++

				continue
			}

			if expireErr := s.expire(ctx, stale); expireErr != nil {
				log.Error().Err(expireErr).Str("attempt_id", stale.ID).Msg("failed to expire payment")
				summary.Unresolved++

				continue
			}

			summary.Expired++
		case err != nil && !errors.Is(err, bookingModel.ErrBookingNotPending):
			summary.Unresolved++
		case attempt.Status == model.StatusSucceeded:
			summary.Succeeded++
		case attempt.Status == model.StatusFailed:
			summary.Failed++
		default:
			summary.Unresolved++
		}
	}

	if summary.Scanned > 0 {
		log.Info().Interface("summary", summary).Msg("stale payments resolved")
	}

	return summary, nil
}

func (s *serviceImpl) reclaim(ctx context.Context, stale model.Attempt, now time.Time) (model.Attempt, bool, error) {
	var (
		attempt model.Attempt
		ok      bool
	)

	err := s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		ok = false

		if _, err := s.bookingRepo.GetForUpdateTx(ctx, tx, stale.BookingID); err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		var err error

		attempt, err = s.repo.GetByKeyForUpdateTx(ctx, tx, stale.IdempotencyKey)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if attempt.Status != model.StatusPending || !attempt.Claimable(now, s.staleAfter()) {
			return nil
		}

		attempt.Claim(now, constant.RoleSystem)
		ok = true

		return s.repo.UpdateTx(ctx, tx, attempt)
	})

	return attempt, ok, err //nolint:wrapcheck
}

func (s *serviceImpl) expire(ctx context.Context, stale model.Attempt) error {
	var (
		booking bookingModel.Booking
		changed bool
	)

	err := s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		changed = false

		var err error

		booking, err = s.bookingRepo.GetForUpdateTx(ctx, tx, stale.BookingID)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		attempt, err := s.repo.GetByKeyForUpdateTx(ctx, tx, stale.IdempotencyKey)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if attempt.Status != model.StatusPending {
			return nil
		}

		attempt.Status = model.StatusFailed
		attempt.FailureReason = model.ReasonExpired
		attempt.ClaimedAt = nil
		attempt.ModifiedAt = timezone.Now()
		attempt.ModifiedBy = constant.RoleSystem

		if err = s.repo.UpdateTx(ctx, tx, attempt); err != nil {
			return err //nolint:wrapcheck
		}

		if booking.Status != bookingModel.StatusPending {
			return nil
		}

		booking, err = s.lifecycle.TransitionTx(ctx, tx, booking, bookingModel.StatusCancelled,
			lifecycle.Change{Actor: constant.RoleSystem, Reason: bookingModel.CancelReasonPaymentTimeout})
		changed = err == nil

		return err //nolint:wrapcheck
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Warn().Str("attempt_id", stale.ID).Str("booking_id", stale.BookingID).Msg("payment attempt expired")

	if changed {
		s.lifecycle.Announce(ctx, booking)
	}

	return nil
}

func (s *serviceImpl) staleAfter() time.Duration {
	seconds := s.cfg.Payment.PendingStaleSeconds
	if seconds <= 0 {
		seconds = defaultPendingStaleSeconds
	}

	return time.Duration(seconds) * time.Second
}

func (s *serviceImpl) expireAfter() time.Duration {
	seconds := s.cfg.Payment.ExpireAfterSeconds
	if seconds <= 0 {
		seconds = defaultExpireAfterSeconds
	}

	return time.Duration(seconds) * time.Second
}

func (s *serviceImpl) batchSize() int {
	if s.cfg.Reconciler.BatchSize > 0 {
		return s.cfg.Reconciler.BatchSize
	}

	return defaultBatchSize
}

func actorFrom(ctx context.Context) string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return constant.RoleSystem
	}

	return user
}

func isGuestOrAdmin(ctx context.Context, owner string) bool {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if user != constant.Empty && user == owner {
		return true
	}

	return role == constant.RoleAdmin || role == constant.RoleSuperAdmin || role == constant.RoleSystem
}
