package model

import "slices"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCompleted},
}

// BlockingStatuses hold dates on a listing. It must match the predicate of OverlapConstraint.
var BlockingStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

func CanTransitionTo(from, to string) bool {
	return slices.Contains(validTransitions[from], to)
}

func IsBlocking(status string) bool {
	return slices.Contains(BlockingStatuses, status)
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
