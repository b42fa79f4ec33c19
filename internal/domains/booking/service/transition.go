package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stayledger/internal/domains/booking/lifecycle"
	"stayledger/internal/domains/booking/model"
	listingModel "stayledger/internal/domains/listing/model"
	"stayledger/shared"
	"stayledger/shared/constant"
	"stayledger/shared/failure"

	"github.com/jmoiron/sqlx"
)

// errSkip lets a transition check abandon a booking without reporting an error.
var errSkip = errors.New("skip booking")

type transitionCheck func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error

// transition locks the booking, runs check against the locked row and moves it to status to.
// A booking already in status to is returned with changed=false.
func (s *serviceImpl) transition(ctx context.Context, id, to string, change lifecycle.Change, check transitionCheck) (model.Booking, bool, error) {
	var (
		booking model.Booking
		changed bool
	)

	err := s.transactor.WithTx(ctx, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
		changed = false

		current, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if current.ID == constant.Empty {
			return model.ErrBookingNotFound
		}

		if err = check(ctx, tx, current); err != nil {
			return err
		}

		if current.Status == to {
			booking = current

			return nil
		}

		booking, err = s.lifecycle.TransitionTx(ctx, tx, current, to, change)
		if err != nil {
			return err //nolint:wrapcheck
		}

		changed = true

		return nil
	})

	return booking, changed, err //nolint:wrapcheck
}

// authorizeHost allows the listing's owner and admins.
func (s *serviceImpl) authorizeHost(ctx context.Context, _ *sqlx.Tx, booking model.Booking) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if isAdmin(role) {
		return nil
	}

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(booking.ListingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if listing.ID == constant.Empty || listing.OwnerID != user {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) batchSize() int {
	if s.cfg.Reconciler.BatchSize > 0 {
		return s.cfg.Reconciler.BatchSize
	}

	return defaultBatchSize
}

func isGuestOrAdmin(ctx context.Context, guestID string) bool {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return (user != constant.Empty && user == guestID) || isAdmin(role)
}

func isAdmin(role string) bool {
	return role == constant.RoleAdmin || role == constant.RoleSuperAdmin || role == constant.RoleSystem
}
