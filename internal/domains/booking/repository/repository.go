package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/booking/model"
	"stayledger/shared"
	"stayledger/shared/constant"
	"stayledger/shared/daterange"
	gDto "stayledger/shared/dto"
	"stayledger/shared/logger"
	gRepo "stayledger/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const bookingColumns = `id, listing_id, guest_id, check_in, check_out, guests, status, nightly_price, subtotal, fees,
	discount, amount, currency, coupon_code, payment_id, cancel_reason, created_at, modified_at, created_by, modified_by`

const (
	queryHasBlockingOverlap = `SELECT EXISTS(SELECT 1 FROM bookings
	WHERE listing_id = $1 AND status = ANY($4) AND check_in < $3 AND check_out > $2)`

	queryListBlocking = `SELECT ` + bookingColumns + ` FROM bookings
	WHERE listing_id = $1 AND status = ANY($4) AND check_in < $3 AND check_out > $2
	ORDER BY check_in`

	queryUpdateStatus = `UPDATE bookings SET status = :status, payment_id = :payment_id, cancel_reason = :cancel_reason,
	modified_at = :modified_at, modified_by = :modified_by
	WHERE id = :id AND status = :from_status`

	queryListExpiredPending = `SELECT ` + bookingColumns + ` FROM bookings b
	WHERE b.status = 'pending' AND b.created_at <= $1
	AND NOT EXISTS (SELECT 1 FROM payment_attempts p WHERE p.booking_id = b.id AND p.status = 'pending')
	ORDER BY b.created_at LIMIT $2`

	queryListFinished = `SELECT ` + bookingColumns + ` FROM bookings
	WHERE status = 'checked_in' AND check_out <= $1
	ORDER BY check_out LIMIT $2`

	queryConstraintPresent = `SELECT EXISTS(SELECT 1 FROM pg_constraint WHERE conname = $1 AND contype = 'x')`
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error)
	HasBlockingOverlapTx(ctx context.Context, tx *sqlx.Tx, listingID string, stay daterange.Range) (bool, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, from string) (bool, error)
	ListBlocking(ctx context.Context, listingID string, window daterange.Range) ([]model.Booking, error)
	ListExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Booking, error)
	ListFinished(ctx context.Context, today time.Time, limit int) ([]model.Booking, error)
	ConstraintPresent(ctx context.Context) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertTx stores a new booking. A clash with another blocking booking of the same listing is
// reported as model.ErrOverlapConflict.
func (r *repositoryImpl) InsertTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	err := r.Repository.InsertTx(ctx, tx, booking)

	switch {
	case err == nil:
		return nil
	case postgres.IsExclusionViolation(err) && postgres.ConstraintName(err) == model.OverlapConstraint:
		return model.ErrOverlapConflict
	case postgres.ErrorCode(err) == constant.PqErrorCodeCheckViolation:
		return daterange.ErrInvalidRange
	default:
		return err //nolint:wrapcheck
	}
}

// GetForUpdateTx locks the booking row. A zero Booking is returned when it does not exist.
func (r *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	return r.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName), gRepo.LockUpdate)
}

func (r *repositoryImpl) HasBlockingOverlapTx(ctx context.Context, tx *sqlx.Tx, listingID string, stay daterange.Range) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasBlockingOverlapTx")
	defer scope.End()

	var exist bool

	err := tx.GetContext(ctx, &exist, queryHasBlockingOverlap, listingID, stay.Start, stay.End, pq.Array(model.BlockingStatuses))
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	return exist, nil
}

// UpdateStatusTx moves the booking from status from to booking.Status, writing payment_id and
// cancel_reason alongside. It returns false when the row was no longer in status from.
func (r *repositoryImpl) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, from string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusTx")
	defer scope.End()

	args := map[string]any{
		"id":            booking.ID,
		"status":        booking.Status,
		"payment_id":    booking.PaymentID,
		"cancel_reason": booking.CancelReason,
		"modified_at":   booking.ModifiedAt,
		"modified_by":   booking.ModifiedBy,
		"from_status":   from,
	}

	result, err := tx.NamedExecContext(ctx, queryUpdateStatus, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read updated booking rows: %w", err)
	}

	return affected == 1, nil
}

// ListBlocking returns the blocking bookings of a listing that share at least one night with window.
func (r *repositoryImpl) ListBlocking(ctx context.Context, listingID string, window daterange.Range) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListBlocking")
	defer scope.End()

	bookings := []model.Booking{}

	err := r.db.Read.SelectContext(ctx, &bookings, queryListBlocking, listingID, window.Start, window.End, pq.Array(model.BlockingStatuses))
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list blocking bookings: %w", err)
	}

	return bookings, nil
}

// ListExpiredPending returns pending bookings created before createdBefore that have no payment in flight.
func (r *repositoryImpl) ListExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListExpiredPending")
	defer scope.End()

	var bookings []model.Booking

	if err := r.db.Read.SelectContext(ctx, &bookings, queryListExpiredPending, createdBefore, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list expired pending bookings: %w", err)
	}

	return bookings, nil
}

func (r *repositoryImpl) ListFinished(ctx context.Context, today time.Time, limit int) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListFinished")
	defer scope.End()

	var bookings []model.Booking

	if err := r.db.Read.SelectContext(ctx, &bookings, queryListFinished, today, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list finished bookings: %w", err)
	}

	return bookings, nil
}

// ConstraintPresent reports whether the overlap exclusion constraint is installed.
func (r *repositoryImpl) ConstraintPresent(ctx context.Context) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ConstraintPresent")
	defer scope.End()

	var exist bool

	if err := r.db.Read.GetContext(ctx, &exist, queryConstraintPresent, model.OverlapConstraint); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to inspect booking constraints: %w", err)
	}

	return exist, nil
}
