package coupon

import (
	"net/http"
	"stayledger/infras/otel"
	"stayledger/internal/domains/coupon/model"
	"stayledger/internal/domains/coupon/model/dto"
	"stayledger/internal/domains/coupon/service"
	"stayledger/shared"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/validator"
	"stayledger/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Coupon
	otel    otel.Otel
}

func New(service service.Coupon, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/coupons", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCoupon)
		routerGroup.Get("/", handler.GetCoupons)
		routerGroup.Get("/{code}", handler.GetCoupon)
		routerGroup.Post("/{code}/validate", handler.ValidateCoupon)
	})
}

// CreateCoupon handles the creation of a new coupon.
// @Summary Create a coupon @Admin
// @Tags Coupon
// @Accept json
// @Produce json
// @Param request body dto.CreateCouponRequest true "Create Coupon Request"
// @Success 201 {object} response.Data[dto.CouponResponse] "Coupon created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coupons [post]
// @Security BearerAuth
func (handler *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCoupon")
	defer scope.End()

	req := dto.CreateCouponRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	coupon, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create coupon")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Coupon created " + coupon.Code)

	response.WithJSON(w, http.StatusCreated, coupon)
}

// GetCoupons retrieves coupons based on query parameters.
// @Summary Get all coupons @Admin
// @Tags Coupon
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetCouponsResponse] "List of coupons"
// @Failure 500 {object} response.Error
// @Router /v1/coupons [get]
// @Security BearerAuth
func (handler *Handler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCoupons")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	coupons, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get coupons")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, coupons)
}

// GetCoupon retrieves a coupon by its code.
// @Summary Get a coupon by code @Admin
// @Tags Coupon
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} response.Data[dto.CouponResponse] "Coupon details"
// @Failure 404 {object} response.Error
// @Router /v1/coupons/{code} [get]
// @Security BearerAuth
func (handler *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCoupon")
	defer scope.End()

	code := chi.URLParam(r, constant.RequestParamCode)

	coupon, err := handler.service.Get(ctx, code)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("code", code).Msg("failed to get coupon")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, coupon)
}

// ValidateCoupon dry-runs a coupon for the current user. No use is recorded.
// @Summary Validate a coupon
// @Tags Coupon
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Param request body dto.ValidateCouponRequest true "Amount the coupon would apply to"
// @Success 200 {object} response.Data[dto.ValidateCouponResponse] "Discount the coupon grants"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/coupons/{code}/validate [post]
// @Security BearerAuth
func (handler *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ValidateCoupon")
	defer scope.End()

	code := chi.URLParam(r, constant.RequestParamCode)

	req := dto.ValidateCouponRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Validate(ctx, code, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("code", code).Msg("coupon rejected")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
