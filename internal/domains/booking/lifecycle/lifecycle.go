package lifecycle

//go:generate go run go.uber.org/mock/mockgen -source=./lifecycle.go -destination=./mocks/lifecycle_mock.go -package=mocks

import (
	"context"
	"fmt"

	"stayledger/config"
	"stayledger/infras/kafka"
	"stayledger/infras/otel"
	"stayledger/internal/domains/booking/model"
	"stayledger/internal/domains/booking/repository"
	couponService "stayledger/internal/domains/coupon/service"
	paymentModel "stayledger/internal/domains/payment/model"
	paymentRepo "stayledger/internal/domains/payment/repository"
	"stayledger/shared"
	"stayledger/shared/cache"
	"stayledger/shared/constant"
	"stayledger/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Change carries what a transition records besides the new status.
type Change struct {
	Actor     string
	Reason    string
	PaymentID string
}

// Lifecycle executes booking transitions. TransitionTx must run inside the caller's transaction
// with the booking row already locked; Announce is called once that transaction has committed.
type Lifecycle interface {
	TransitionTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, to string, change Change) (model.Booking, error)
	Announce(ctx context.Context, booking model.Booking)
}

type lifecycleImpl struct {
	repo     repository.Booking
	coupon   couponService.Coupon
	payments paymentRepo.Payment
	kafka    kafka.Client
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Booking, coupon couponService.Coupon, payments paymentRepo.Payment, kafka kafka.Client,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) Lifecycle {
	return &lifecycleImpl{
		repo:     repo,
		coupon:   coupon,
		payments: payments,
		kafka:    kafka,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// TransitionTx moves booking to status to. The update only applies while the row still has the
// status the caller read, so a concurrent transition surfaces as ErrBookingStateChanged.
// Confirming spends the coupon hold; cancelling gives the coupon back and fails any payment
// attempt still pending for the booking.
func (l *lifecycleImpl) TransitionTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, to string, change Change) (res model.Booking, err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.TransitionTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.CanTransitionTo(booking.Status, to) {
		return booking, model.ErrInvalidTransition
	}

	actor := change.Actor
	if actor == constant.Empty {
		actor = constant.RoleSystem
	}

	next := booking
	next.Status = to
	next.ModifiedAt = timezone.Now()
	next.ModifiedBy = actor

	switch to {
	case model.StatusConfirmed:
		next.PaymentID = change.PaymentID
	case model.StatusCancelled:
		next.CancelReason = change.Reason
	}

	updated, err := l.repo.UpdateStatusTx(ctx, tx, next, booking.Status)
	if err != nil {
		return booking, fmt.Errorf("failed to transition booking: %w", err)
	}

	if !updated {
		return booking, model.ErrBookingStateChanged
	}

	switch to {
	case model.StatusConfirmed:
		if next.CouponCode != constant.Empty {
			if err = l.coupon.CommitTx(ctx, tx, next.ID); err != nil {
				return booking, fmt.Errorf("failed to commit coupon: %w", err)
			}
		}
	case model.StatusCancelled:
		var failed int64

		failed, err = l.payments.FailPendingByBookingTx(ctx, tx, next.ID, paymentModel.ReasonBookingCancelled, actor)
		if err != nil {
			return booking, fmt.Errorf("failed to close pending payments: %w", err)
		}

		if failed > 0 {
			log.Info().Str("booking_id", next.ID).Int64("attempts", failed).Msg("pending payment attempts failed by cancellation")
		}

		if next.CouponCode != constant.Empty {
			if err = l.coupon.RollbackTx(ctx, tx, next.ID); err != nil {
				return booking, fmt.Errorf("failed to roll back coupon: %w", err)
			}
		}
	}

	log.Info().
		Str("booking_id", next.ID).
		Str("from", booking.Status).
		Str("to", to).
		Str("actor", actor).
		Msg("booking transitioned")

	return next, nil
}

// Announce publishes the booking's event and drops cached reads of it. Both are best effort.
func (l *lifecycleImpl) Announce(ctx context.Context, booking model.Booking) {
	go l.announce(context.WithoutCancel(ctx), booking)
}

func (l *lifecycleImpl) announce(ctx context.Context, booking model.Booking) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Announce")
	defer scope.End()

	if event, ok := model.NewEvent(booking, timezone.Now()); ok {
		message := kafka.Message{Key: booking.ID, Value: event}

		if err := l.kafka.SendMessages(ctx, l.topic(event.Type), message); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("booking_id", booking.ID).Str("event", event.Type).Msg("failed to publish booking event")
		}
	}

	if err := l.cache.Delete(ctx, shared.BuildCacheKey(model.CacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	shared.InvalidateCaches(ctx, l.cache, model.CacheGetAllBooking)
	shared.InvalidateCaches(ctx, l.cache, model.CacheCountBooking)
	shared.InvalidateCaches(ctx, l.cache, model.CacheBookingAvailability)
}

func (l *lifecycleImpl) topic(eventType string) string {
	switch eventType {
	case model.EventBookingConfirmed:
		if l.cfg.Kafka.Topics.BookingConfirmed != constant.Empty {
			return l.cfg.Kafka.Topics.BookingConfirmed
		}
	case model.EventBookingCancelled:
		if l.cfg.Kafka.Topics.BookingCancelled != constant.Empty {
			return l.cfg.Kafka.Topics.BookingCancelled
		}
	}

	return eventType
}
