package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/internal/domains/listing/model"
	"stayledger/internal/domains/listing/model/dto"
	"stayledger/internal/domains/listing/repository"
	"stayledger/shared"
	"stayledger/shared/cache"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetListing    = "listing:get"
	cacheGetAllListing = "listing:gets"
	cacheCountListing  = "listing:count"
)

type Listing interface {
	Create(ctx context.Context, req dto.CreateListingRequest) (dto.ListingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetListingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	Update(ctx context.Context, req dto.UpdateListingRequest, id string) error
}

type serviceImpl struct {
	repo  repository.Listing
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Listing {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	listing := req.ToModel(user)

	if err = s.repo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to create listing")

		return res, fmt.Errorf("failed to create listing: %w", err)
	}

	res.FromModel(listing)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllListing)
		shared.InvalidateCaches(c, s.cache, cacheCountListing)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetListingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllListing, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return res, fmt.Errorf("failed to get listings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountListing, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetListing, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listing")

		return res, nil
	}

	listing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, model.ErrListingNotFound
	}

	res.FromModel(listing)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing to cache")
		}
	}()

	return res, nil
}

// Update changes the listing's terms. Existing bookings keep the price they were reserved at.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateListingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check listing existence")

		return fmt.Errorf("failed to get listing: %w", err)
	}

	if current.ID == constant.Empty {
		return model.ErrListingNotFound
	}

	if current.OwnerID != user && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return failure.ResourceRestrictedError
	}

	minNights := current.MinNights
	if req.MinNights != nil {
		minNights = *req.MinNights
	}

	maxNights := current.MaxNights
	if req.MaxNights != nil {
		maxNights = *req.MaxNights
	}

	if maxNights > 0 && maxNights < minNights {
		return failure.Validation("invalid_stay_policy", "max_nights must not be lower than min_nights")
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update listing")

		return fmt.Errorf("failed to update listing: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetListing, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete listing cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllListing)
		shared.InvalidateCaches(c, s.cache, cacheCountListing)
	}()

	return nil
}
