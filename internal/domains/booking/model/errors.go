package model

import (
	"net/http"
	"stayledger/shared/failure"
)

var (
	ErrOverlapConflict     = failure.New(http.StatusConflict, failure.KindConflict, "overlap_conflict", "the listing is already booked for these dates")
	ErrBookingNotFound     = failure.New(http.StatusNotFound, failure.KindNotFound, "booking_not_found", "booking not found")
	ErrBookingNotPending   = failure.StateConflict("booking_not_pending", "booking is no longer awaiting payment")
	ErrInvalidTransition   = failure.StateConflict("invalid_transition", "booking cannot move to the requested status")
	ErrBookingStateChanged = failure.StateConflict("booking_state_changed", "booking was modified concurrently")
	ErrStayLength          = failure.Validation("invalid_stay_length", "stay length is outside the listing's policy")
	ErrCheckInTooSoon      = failure.Validation("check_in_too_soon", "check_in is earlier than the booking window allows")
	ErrCheckInNotStarted   = failure.Validation("check_in_not_started", "the stay has not started yet")
	ErrGuestLimit          = failure.Validation("invalid_guest_count", "guest count exceeds the allowed maximum")
	ErrOverlapGuardMissing = failure.InvariantViolation("booking overlap constraint is missing, reservations are disabled")
)
