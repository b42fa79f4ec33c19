package listing

import (
	"net/http"
	"stayledger/infras/otel"
	bookingDto "stayledger/internal/domains/booking/model/dto"
	bookingService "stayledger/internal/domains/booking/service"
	"stayledger/internal/domains/listing/model"
	"stayledger/internal/domains/listing/model/dto"
	"stayledger/internal/domains/listing/service"
	"stayledger/shared"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/validator"
	"stayledger/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	queryParamFrom = "from"
	queryParamTo   = "to"
)

type Handler struct {
	service  service.Listing
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.Listing, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateListing)
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Get("/{id}", handler.GetListingByID)
		routerGroup.Patch("/{id}", handler.UpdateListing)
		routerGroup.Get("/{id}/availability", handler.GetAvailability)
	})
}

// CreateListing registers a listing owned by the current user.
// @Summary Create a listing @Host
// @Tags Listing
// @Accept json
// @Produce json
// @Param request body dto.CreateListingRequest true "Create Listing Request"
// @Success 201 {object} response.Data[dto.ListingResponse] "Listing created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	req := dto.CreateListingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing created " + listing.ID)

	response.WithJSON(w, http.StatusCreated, listing)
}

// GetListings retrieves listings based on query parameters.
// @Summary Get all listings
// @Tags Listing
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param title query string false "Filter by title"
// @Param active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetListingsResponse] "List of listings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if title := r.URL.Query().Get(model.FieldTitle); title != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	listings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, listings)
}

// GetListingByID retrieves a listing by its ID.
// @Summary Get a listing by ID
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, listing)
}

// UpdateListing changes the price or stay policy of a listing. Existing bookings keep their price snapshot.
// @Summary Update a listing @Host
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpdateListingRequest true "Update Listing Request"
// @Success 200 {object} response.Message "Listing updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateListingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Listing updated successfully")
}

// GetAvailability lists the stays that block a listing inside a window.
// @Summary Get listing availability
// @Description Blocking stays (pending, confirmed, checked in) overlapping [from, to).
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} response.Data[bookingDto.AvailabilityResponse] "Blocked ranges"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id}/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := bookingDto.AvailabilityRequest{
		From: r.URL.Query().Get(queryParamFrom),
		To:   r.URL.Query().Get(queryParamTo),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	availability, err := handler.bookings.Availability(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, availability)
}
