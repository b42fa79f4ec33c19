package pricing

import (
	"net/http"
	"stayledger/infras/otel"
	"stayledger/internal/domains/pricing/model/dto"
	"stayledger/internal/domains/pricing/service"
	"stayledger/shared/constant"
	"stayledger/shared/validator"
	"stayledger/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Pricing
	otel    otel.Otel
}

func New(service service.Pricing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/quotes", handler.CreateQuote)
}

// CreateQuote prices a stay without reserving it.
// @Summary Quote a stay
// @Description Price breakdown for a listing, date range and optional coupon. Nothing is held.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.QuoteResponse] "Price breakdown"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/quotes [post]
// @Security BearerAuth
func (handler *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateQuote")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	quote, err := handler.service.QuoteListing(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("listing_id", req.ListingID).Msg("failed to quote stay")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, quote)
}
