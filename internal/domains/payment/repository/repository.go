package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/payment/model"
	"stayledger/shared/constant"
	gDto "stayledger/shared/dto"
	"stayledger/shared/logger"
	gRepo "stayledger/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

const attemptColumns = `id, idempotency_key, booking_id, amount, currency, method, status, provider_ref, failure_reason,
	attempts, claimed_at, requires_refund, created_at, modified_at, created_by, modified_by`

const (
	queryByKeyForUpdate = `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE idempotency_key = $1 FOR UPDATE`

	queryHasPending = `SELECT EXISTS(SELECT 1 FROM payment_attempts WHERE booking_id = $1 AND status = 'pending')`

	queryUpdate = `UPDATE payment_attempts SET status = :status, provider_ref = :provider_ref,
	failure_reason = :failure_reason, attempts = :attempts, claimed_at = :claimed_at,
	requires_refund = :requires_refund, modified_at = :modified_at, modified_by = :modified_by
	WHERE id = :id`

	queryFailPendingByBooking = `UPDATE payment_attempts SET status = 'failed', failure_reason = $2, claimed_at = NULL,
	modified_at = $3, modified_by = $4 WHERE booking_id = $1 AND status = 'pending'`

	queryListStale = `SELECT ` + attemptColumns + ` FROM payment_attempts
	WHERE status = 'pending' AND (claimed_at IS NULL OR claimed_at <= $1)
	ORDER BY created_at LIMIT $2`
)

type Payment interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Attempt, error)
	GetByKeyForUpdateTx(ctx context.Context, tx *sqlx.Tx, key string) (model.Attempt, error)
	HasPendingTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (bool, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, attempt model.Attempt) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, attempt model.Attempt) error
	FailPendingByBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID, reason, actor string) (int64, error)
	ListStale(ctx context.Context, claimedBefore time.Time, limit int) ([]model.Attempt, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Attempt]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Attempt](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByKeyForUpdateTx locks the attempt for key. A zero Attempt is returned when none exists.
func (r *repositoryImpl) GetByKeyForUpdateTx(ctx context.Context, tx *sqlx.Tx, key string) (model.Attempt, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.GetByKeyForUpdateTx")
	defer scope.End()

	var attempt model.Attempt

	err := tx.GetContext(ctx, &attempt, queryByKeyForUpdate, key)
	if errors.Is(err, sql.ErrNoRows) {
		return attempt, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return attempt, fmt.Errorf("failed to lock payment attempt: %w", err)
	}

	return attempt, nil
}

func (r *repositoryImpl) HasPendingTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.HasPendingTx")
	defer scope.End()

	var exist bool

	if err := tx.GetContext(ctx, &exist, queryHasPending, bookingID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check pending payment attempts: %w", err)
	}

	return exist, nil
}

func (r *repositoryImpl) InsertTx(ctx context.Context, tx *sqlx.Tx, attempt model.Attempt) error {
	err := r.Repository.InsertTx(ctx, tx, attempt)
	if postgres.IsUniqueViolation(err) {
		return model.ErrPaymentInProgress
	}

	return err //nolint:wrapcheck
}

func (r *repositoryImpl) UpdateTx(ctx context.Context, tx *sqlx.Tx, attempt model.Attempt) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.UpdateTx")
	defer scope.End()

	if _, err := tx.NamedExecContext(ctx, queryUpdate, attempt); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update payment attempt: %w", err)
	}

	return nil
}

// FailPendingByBookingTx closes every pending attempt of a booking and returns how many it closed.
func (r *repositoryImpl) FailPendingByBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID, reason, actor string) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.FailPendingByBookingTx")
	defer scope.End()

	result, err := tx.ExecContext(ctx, queryFailPendingByBooking, bookingID, reason, time.Now(), actor)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to fail pending payment attempts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected payment attempts: %w", err)
	}

	return affected, nil
}

// ListStale returns pending attempts that nobody has claimed since claimedBefore, oldest first.
func (r *repositoryImpl) ListStale(ctx context.Context, claimedBefore time.Time, limit int) ([]model.Attempt, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.ListStale")
	defer scope.End()

	var attempts []model.Attempt

	if err := r.db.Read.SelectContext(ctx, &attempts, queryListStale, claimedBefore, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list stale payment attempts: %w", err)
	}

	return attempts, nil
}
