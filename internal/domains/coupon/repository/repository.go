package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/coupon/model"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/logger"
	gRepo "stayledger/shared/repository"
	"stayledger/shared/timezone"

	"github.com/jmoiron/sqlx"
)

const couponColumns = `c.id, c.code, c.discount_type, c.discount_value, c.min_amount, c.max_uses, c.max_uses_per_user,
	c.is_active, c.expires_at, c.used_count, c.held_count, c.created_at, c.modified_at, c.created_by, c.modified_by`

const (
	queryCouponByCodeForUpdate = `SELECT ` + couponColumns + ` FROM coupons c WHERE c.code = $1 FOR UPDATE`

	queryCouponByBookingForUpdate = `SELECT ` + couponColumns + ` FROM coupons c
	JOIN coupon_redemptions r ON r.coupon_id = c.id
	WHERE r.booking_id = $1 FOR UPDATE OF c`

	queryRedemptionForUpdate = `SELECT id, coupon_id, user_id, booking_id, status, discount, created_at, modified_at,
	created_by, modified_by FROM coupon_redemptions WHERE booking_id = $1 FOR UPDATE`

	queryCountUserRedemptions = `SELECT COUNT(1) FROM coupon_redemptions
	WHERE coupon_id = $1 AND user_id = $2 AND booking_id::text <> $3 AND status IN ('held', 'committed')`

	queryAdjustCounters = `UPDATE coupons SET used_count = used_count + $2, held_count = held_count + $3,
	modified_at = $4 WHERE id = $1`

	queryUpdateRedemption = `UPDATE coupon_redemptions SET status = $2, discount = $3, user_id = $4,
	modified_at = $5, modified_by = $6 WHERE booking_id = $1`
)

type Coupon interface {
	Insert(ctx context.Context, model model.Coupon) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Coupon, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Coupon, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CountUserRedemptions(ctx context.Context, couponID, userID string) (int, error)

	GetByCodeForUpdateTx(ctx context.Context, tx *sqlx.Tx, code string) (model.Coupon, error)
	GetByBookingForUpdateTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Coupon, error)
	GetRedemptionForUpdateTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Redemption, error)
	CountUserRedemptionsTx(ctx context.Context, tx *sqlx.Tx, couponID, userID, excludeBookingID string) (int, error)
	InsertRedemptionTx(ctx context.Context, tx *sqlx.Tx, redemption model.Redemption) error
	UpdateRedemptionTx(ctx context.Context, tx *sqlx.Tx, redemption model.Redemption) error
	AdjustCountersTx(ctx context.Context, tx *sqlx.Tx, couponID string, usedDelta, heldDelta int) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Coupon]
	redemptions gRepo.Repository[model.Redemption]
	db          *postgres.Connection
	otel        otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Coupon {
	return &repositoryImpl{
		Repository:  gRepo.NewRepository[model.Coupon](model.EntityName, model.TableName, model.FieldID, db, otel),
		redemptions: gRepo.NewRepository[model.Redemption](model.RedemptionEntityName, model.RedemptionTableName, model.FieldID, db, otel),
		db:          db,
		otel:        otel,
	}
}

func (r *repositoryImpl) CountUserRedemptions(ctx context.Context, couponID, userID string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.CountUserRedemptions")
	defer scope.End()

	var count int

	if err := r.db.Read.GetContext(ctx, &count, queryCountUserRedemptions, couponID, userID, constant.Empty); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count coupon redemptions: %w", err)
	}

	return count, nil
}

// GetByCodeForUpdateTx locks the coupon row. A zero Coupon is returned when the code is unknown.
func (r *repositoryImpl) GetByCodeForUpdateTx(ctx context.Context, tx *sqlx.Tx, code string) (model.Coupon, error) {
	return r.getCouponTx(ctx, tx, "GetByCodeForUpdateTx", queryCouponByCodeForUpdate, code)
}

// GetByBookingForUpdateTx locks the coupon redeemed by a booking, if any.
func (r *repositoryImpl) GetByBookingForUpdateTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Coupon, error) {
	return r.getCouponTx(ctx, tx, "GetByBookingForUpdateTx", queryCouponByBookingForUpdate, bookingID)
}

func (r *repositoryImpl) getCouponTx(ctx context.Context, tx *sqlx.Tx, name, query string, arg any) (model.Coupon, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon."+name)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var coupon model.Coupon

	err := tx.GetContext(ctx, &coupon, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return coupon, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return coupon, fmt.Errorf("failed to lock coupon: %w", err)
	}

	return coupon, nil
}

// GetRedemptionForUpdateTx locks the redemption of a booking. A zero Redemption means none exists.
func (r *repositoryImpl) GetRedemptionForUpdateTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Redemption, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.GetRedemptionForUpdateTx")
	defer scope.End()

	var redemption model.Redemption

	err := tx.GetContext(ctx, &redemption, queryRedemptionForUpdate, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return redemption, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return redemption, fmt.Errorf("failed to lock coupon redemption: %w", err)
	}

	return redemption, nil
}

func (r *repositoryImpl) CountUserRedemptionsTx(ctx context.Context, tx *sqlx.Tx, couponID, userID, excludeBookingID string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.CountUserRedemptionsTx")
	defer scope.End()

	var count int

	if err := tx.GetContext(ctx, &count, queryCountUserRedemptions, couponID, userID, excludeBookingID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count coupon redemptions: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) InsertRedemptionTx(ctx context.Context, tx *sqlx.Tx, redemption model.Redemption) error {
	return r.redemptions.InsertTx(ctx, tx, redemption) //nolint:wrapcheck
}

func (r *repositoryImpl) UpdateRedemptionTx(ctx context.Context, tx *sqlx.Tx, redemption model.Redemption) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.UpdateRedemptionTx")
	defer scope.End()

	_, err := tx.ExecContext(ctx, queryUpdateRedemption, redemption.BookingID, redemption.Status, redemption.Discount,
		redemption.UserID, redemption.ModifiedAt, redemption.ModifiedBy)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update coupon redemption: %w", err)
	}

	return nil
}

func (r *repositoryImpl) AdjustCountersTx(ctx context.Context, tx *sqlx.Tx, couponID string, usedDelta, heldDelta int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.AdjustCountersTx")
	defer scope.End()

	_, err := tx.ExecContext(ctx, queryAdjustCounters, couponID, usedDelta, heldDelta, timezone.Now())
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to adjust coupon counters: %w", err)
	}

	return nil
}
