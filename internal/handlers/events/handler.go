package events

import (
	"context"
	"stayledger/config"
	"stayledger/infras/kafka"
	"stayledger/infras/otel"
	bookingModel "stayledger/internal/domains/booking/model"
	couponService "stayledger/internal/domains/coupon/service"
	"stayledger/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Handler consumes booking events. A cancelled booking gives back its coupon use even if the
// cancelling transaction could not.
type Handler struct {
	coupon couponService.Coupon
	kafka  kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(coupon couponService.Coupon, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		coupon: coupon,
		kafka:  kafka,
		cfg:    cfg,
		otel:   otel,
	}
}

// Consume blocks until ctx is done.
func (handler *Handler) Consume(ctx context.Context) {
	topic := handler.cfg.Kafka.Topics.BookingCancelled
	if topic == constant.Empty {
		topic = bookingModel.EventBookingCancelled
	}

	log.Info().Str("topic", topic).Msg("consuming booking cancellations")

	handler.kafka.Consume(ctx, handler.cfg.Kafka.ConsumerGroup, topic, func(message kafkaGo.Message) {
		handler.HandleBookingCancelled(context.WithoutCancel(ctx), message)
	})
}

func (handler *Handler) HandleBookingCancelled(ctx context.Context, message kafkaGo.Message) {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleBookingCancelled")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[bookingModel.Event](message)
	if err != nil {
		scope.TraceError(err)

		return
	}

	event, _ := decoded.Value.(bookingModel.Event)

	if event.Type != bookingModel.EventBookingCancelled || event.BookingID == constant.Empty {
		return
	}

	scope.SetAttribute("booking_id", event.BookingID)

	if event.CouponCode == constant.Empty {
		return
	}

	if err := handler.coupon.ReleaseForBooking(ctx, event.BookingID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", event.BookingID).Msg("failed to release coupon for cancelled booking")

		return
	}

	log.Info().Str("booking_id", event.BookingID).Str("coupon", event.CouponCode).Msg("coupon released for cancelled booking")
}
