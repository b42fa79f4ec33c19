package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/shared/constant"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	defaultTxMaxRetry = 3
	txRetryBaseDelay  = 20 * time.Millisecond
)

// Transactor runs fn inside a single database transaction on the write connection.
// Serialization failures and deadlocks abort the attempt and the whole fn is replayed,
// so fn must not have effects outside the transaction.
type Transactor interface {
	WithTx(ctx context.Context, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error
}

type transactorImpl struct {
	db       *Connection
	otel     otel.Otel
	maxRetry int
}

func NewTransactor(db *Connection, cfg *config.Config, otel otel.Otel) Transactor {
	maxRetry := cfg.DB.Postgres.TxMaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultTxMaxRetry
	}

	return &transactorImpl{
		db:       db,
		otel:     otel,
		maxRetry: maxRetry,
	}
}

func (t *transactorImpl) WithTx(ctx context.Context, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelTxScopeName, constant.OtelTxScopeName+".WithTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("db.isolation", isolation.String())

	return WithRetry(ctx, t.maxRetry, func() error {
		return t.run(ctx, isolation, fn)
	})
}

func (t *transactorImpl) run(ctx context.Context, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	tx, err := t.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	committed = true

	return nil
}

// WithRetry calls fn up to maxAttempts times while it fails with a serialization failure or a
// deadlock. Any other error is returned immediately.
func WithRetry(ctx context.Context, maxAttempts int, fn func() error) error {
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !IsSerializationFailure(err) {
			return err
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("transaction aborted by serialization failure, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction retry interrupted: %w", ctx.Err())
		case <-time.After(txRetryBaseDelay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", maxAttempts, err)
}
