package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"

	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/coupon/model"
	"stayledger/internal/domains/coupon/model/dto"
	"stayledger/internal/domains/coupon/repository"
	"stayledger/shared"
	"stayledger/shared/cache"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/failure"
	gModel "stayledger/shared/model"
	"stayledger/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetAllCoupon = "coupon:gets"
	cacheCountCoupon  = "coupon:count"

	maxPercentage = 100
)

// Coupon validates discount codes and tracks their usage. Apply is a dry run; a use only counts
// once it is held for a booking, and it is only spent when the booking is confirmed.
type Coupon interface {
	Create(ctx context.Context, req dto.CreateCouponRequest) (dto.CouponResponse, error)
	Get(ctx context.Context, code string) (dto.CouponResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCouponsResponse, error)
	Apply(ctx context.Context, code, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Validate(ctx context.Context, code string, req dto.ValidateCouponRequest) (dto.ValidateCouponResponse, error)

	HoldTx(ctx context.Context, tx *sqlx.Tx, req dto.HoldRequest) error
	CommitTx(ctx context.Context, tx *sqlx.Tx, bookingID string) error
	RollbackTx(ctx context.Context, tx *sqlx.Tx, bookingID string) error
	ReleaseForBooking(ctx context.Context, bookingID string) error
}

type serviceImpl struct {
	repo       repository.Coupon
	transactor postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.Coupon, transactor postgres.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Coupon {
	return &serviceImpl{
		repo:       repo,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCouponRequest) (res dto.CouponResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.DiscountType == model.DiscountTypePercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(maxPercentage)) {
		return res, failure.Validation("invalid_discount", "percentage discount cannot exceed 100")
	}

	coupon := req.ToModel(user)

	if err = s.repo.Insert(ctx, coupon); err != nil {
		if postgres.IsUniqueViolation(err) {
			return res, model.ErrCouponExists
		}

		log.Error().Err(err).Msg("failed to create coupon")

		return res, fmt.Errorf("failed to create coupon: %w", err)
	}

	res.FromModel(coupon)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCoupon)
		shared.InvalidateCaches(c, s.cache, cacheCountCoupon)
	}()

	return res, nil
}

// Get always reads the store so the usage counters are current.
func (s *serviceImpl) Get(ctx context.Context, code string) (res dto.CouponResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	coupon, err := s.getByCode(ctx, code)
	if err != nil {
		return res, err
	}

	if coupon.ID == constant.Empty {
		return res, failure.NotFound("coupon not found") // nolint:wrapcheck
	}

	res.FromModel(coupon)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCouponsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCoupon, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coupons")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coupons")

		return res, fmt.Errorf("failed to count coupons: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupons")

		return res, fmt.Errorf("failed to get coupons: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coupons to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Apply(ctx context.Context, code, userID string, amount decimal.Decimal) (discount decimal.Decimal, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Apply")
	defer scope.End()
	defer scope.TraceIfError(err)

	coupon, err := s.getByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	if coupon.ID == constant.Empty {
		return decimal.Zero, model.ErrCouponInvalid
	}

	uses := 0
	if userID != constant.Empty {
		uses, err = s.repo.CountUserRedemptions(ctx, coupon.ID, userID)
		if err != nil {
			log.Error().Err(err).Msg("failed to count coupon redemptions")

			return decimal.Zero, fmt.Errorf("failed to count coupon redemptions: %w", err)
		}
	}

	return coupon.Evaluate(timezone.Now(), uses, amount)
}

func (s *serviceImpl) Validate(ctx context.Context, code string, req dto.ValidateCouponRequest) (res dto.ValidateCouponResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	discount, err := s.Apply(ctx, code, user, req.Amount)
	if err != nil {
		return res, err
	}

	return dto.ValidateCouponResponse{
		Code:     dto.NormalizeCode(code),
		Amount:   req.Amount,
		Discount: discount,
	}, nil
}

// HoldTx reserves one use of the coupon for the booking. The coupon row stays locked until tx ends,
// so concurrent holds beyond the limit fail with ErrCouponLimitReached. Holding twice for the same
// booking is a no-op.
func (s *serviceImpl) HoldTx(ctx context.Context, tx *sqlx.Tx, req dto.HoldRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.HoldTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	coupon, err := s.repo.GetByCodeForUpdateTx(ctx, tx, dto.NormalizeCode(req.Code))
	if err != nil {
		return fmt.Errorf("failed to lock coupon: %w", err)
	}

	if coupon.ID == constant.Empty {
		return model.ErrCouponInvalid
	}

	redemption, err := s.repo.GetRedemptionForUpdateTx(ctx, tx, req.BookingID)
	if err != nil {
		return fmt.Errorf("failed to lock coupon redemption: %w", err)
	}

	if redemption.Active() {
		return nil
	}

	uses, err := s.repo.CountUserRedemptionsTx(ctx, tx, coupon.ID, req.UserID, req.BookingID)
	if err != nil {
		return fmt.Errorf("failed to count coupon redemptions: %w", err)
	}

	now := timezone.Now()

	discount, err := coupon.Evaluate(now, uses, req.Amount)
	if err != nil {
		log.Warn().Err(err).Str("code", coupon.Code).Str("booking_id", req.BookingID).Msg("coupon hold rejected")

		return err
	}

	if redemption.ID == constant.Empty {
		redemption = model.Redemption{
			ID:        uuid.NewString(),
			CouponID:  coupon.ID,
			UserID:    req.UserID,
			BookingID: req.BookingID,
			Status:    model.RedemptionHeld,
			Discount:  discount,
			Metadata:  gModel.NewMetadata(req.UserID, now),
		}

		err = s.repo.InsertRedemptionTx(ctx, tx, redemption)
	} else {
		redemption.Status = model.RedemptionHeld
		redemption.UserID = req.UserID
		redemption.Discount = discount
		redemption.ModifiedAt = now
		redemption.ModifiedBy = req.UserID

		err = s.repo.UpdateRedemptionTx(ctx, tx, redemption)
	}

	if err != nil {
		return fmt.Errorf("failed to hold coupon: %w", err)
	}

	if err = s.repo.AdjustCountersTx(ctx, tx, coupon.ID, 0, 1); err != nil {
		return fmt.Errorf("failed to hold coupon: %w", err)
	}

	return nil
}

// CommitTx turns the booking's hold into a spent use. Committing twice is a no-op.
func (s *serviceImpl) CommitTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.CommitTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	coupon, redemption, err := s.lockRedemption(ctx, tx, bookingID)
	if err != nil {
		return err
	}

	if coupon.ID == constant.Empty {
		return model.ErrHoldNotFound
	}

	switch redemption.Status {
	case model.RedemptionCommitted:
		return nil
	case model.RedemptionHeld:
		return s.moveRedemption(ctx, tx, coupon, redemption, model.RedemptionCommitted, 1, -1)
	default:
		return model.ErrHoldNotFound
	}
}

// RollbackTx gives back whatever use the booking holds or has spent. Bookings without a
// redemption are ignored.
func (s *serviceImpl) RollbackTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.RollbackTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	coupon, redemption, err := s.lockRedemption(ctx, tx, bookingID)
	if err != nil {
		return err
	}

	switch {
	case coupon.ID == constant.Empty:
		return nil
	case redemption.Status == model.RedemptionHeld:
		return s.moveRedemption(ctx, tx, coupon, redemption, model.RedemptionReleased, 0, -1)
	case redemption.Status == model.RedemptionCommitted:
		return s.moveRedemption(ctx, tx, coupon, redemption, model.RedemptionReleased, -1, 0)
	default:
		return nil
	}
}

func (s *serviceImpl) ReleaseForBooking(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.ReleaseForBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		return s.RollbackTx(ctx, tx, bookingID)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to release coupon for booking")

		return fmt.Errorf("failed to release coupon: %w", err)
	}

	return nil
}

// lockRedemption locks the coupon before the redemption to keep a single lock order.
func (s *serviceImpl) lockRedemption(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Coupon, model.Redemption, error) {
	coupon, err := s.repo.GetByBookingForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return coupon, model.Redemption{}, fmt.Errorf("failed to lock coupon: %w", err)
	}

	if coupon.ID == constant.Empty {
		return coupon, model.Redemption{}, nil
	}

	redemption, err := s.repo.GetRedemptionForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return coupon, redemption, fmt.Errorf("failed to lock coupon redemption: %w", err)
	}

	return coupon, redemption, nil
}

func (s *serviceImpl) moveRedemption(ctx context.Context, tx *sqlx.Tx, coupon model.Coupon, redemption model.Redemption, status string, usedDelta, heldDelta int) error {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = constant.RoleSystem
	}

	redemption.Status = status
	redemption.ModifiedAt = timezone.Now()
	redemption.ModifiedBy = actor

	if err := s.repo.UpdateRedemptionTx(ctx, tx, redemption); err != nil {
		return fmt.Errorf("failed to update coupon redemption: %w", err)
	}

	if err := s.repo.AdjustCountersTx(ctx, tx, coupon.ID, usedDelta, heldDelta); err != nil {
		return fmt.Errorf("failed to update coupon counters: %w", err)
	}

	log.Info().Str("code", coupon.Code).Str("booking_id", redemption.BookingID).Str("status", status).Msg("coupon redemption updated")

	return nil
}

func (s *serviceImpl) getByCode(ctx context.Context, code string) (model.Coupon, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Value:    dto.NormalizeCode(code),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	coupon, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupon")

		return coupon, fmt.Errorf("failed to get coupon: %w", err)
	}

	return coupon, nil
}
