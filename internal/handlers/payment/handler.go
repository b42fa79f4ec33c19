package payment

import (
	"net/http"
	"stayledger/infras/otel"
	"stayledger/internal/domains/payment/model"
	"stayledger/internal/domains/payment/model/dto"
	"stayledger/internal/domains/payment/service"
	"stayledger/shared/constant"
	"stayledger/shared/failure"
	"stayledger/shared/logger"
	"stayledger/shared/validator"
	"stayledger/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.ProcessPayment)
		routerGroup.Get("/{key}", handler.GetPayment)
	})
}

// ProcessPayment charges a pending booking once per idempotency key.
// @Summary Pay for a booking
// @Description The idempotency key may be sent in the body or in the Idempotency-Key header. Repeating a request
// @Description with the same key returns the recorded result with replayed=true and never charges twice.
// @Tags Payment
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body dto.ProcessPaymentRequest true "Process Payment Request"
// @Success 200 {object} response.Data[dto.PaymentResult] "Replayed result"
// @Success 201 {object} response.Data[dto.PaymentResult] "Payment succeeded, booking confirmed"
// @Failure 402 {object} response.Data[dto.PaymentResult] "Payment declined, booking cancelled"
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments [post]
// @Security BearerAuth
func (handler *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ProcessPayment")
	defer scope.End()

	req := dto.ProcessPaymentRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	if header := r.Header.Get(constant.RequestHeaderIdempotencyKey); header != constant.Empty {
		if req.IdempotencyKey != constant.Empty && req.IdempotencyKey != header {
			err := failure.BadRequestFromString("idempotency key in header and body differ")
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}

		req.IdempotencyKey = header
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	result, err := handler.service.Charge(ctx, req)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Warn().Err(err).Str("booking_id", req.BookingID).Str("idempotency_key", req.IdempotencyKey).Msg("payment not completed")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"payment.status":   result.Status,
		"payment.replayed": result.Replayed,
	})

	switch {
	case result.Replayed:
		response.WithJSON(w, http.StatusOK, result)
	case result.Status == model.StatusFailed:
		response.WithJSON(w, http.StatusPaymentRequired, result)
	default:
		response.WithJSON(w, http.StatusCreated, result)
	}
}

// GetPayment retrieves a payment attempt by its idempotency key.
// @Summary Get a payment by idempotency key
// @Tags Payment
// @Produce json
// @Param key path string true "Idempotency key"
// @Success 200 {object} response.Data[dto.PaymentResult] "Payment attempt"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/payments/{key} [get]
// @Security BearerAuth
func (handler *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayment")
	defer scope.End()

	key := chi.URLParam(r, constant.RequestParamKey)

	result, err := handler.service.Get(ctx, key)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("idempotency_key", key).Msg("failed to get payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, result)
}
