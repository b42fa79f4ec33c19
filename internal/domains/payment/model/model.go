package model

import (
	"stayledger/shared/model"
	"stayledger/shared/money"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "payment_attempts"
	EntityName = "payment_attempt"

	FieldID             = "id"
	FieldIdempotencyKey = "idempotency_key"
	FieldBookingID      = "booking_id"
)

const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

const (
	ReasonExpired          = "expired"
	ReasonBookingCancelled = "booking_cancelled"
	ReasonDeclinedPrefix   = "declined: "
)

// Attempt is one logical charge, identified by the caller's idempotency key. ClaimedAt is set
// while a worker is talking to the provider on its behalf.
type Attempt struct {
	ID             string          `db:"id"`
	IdempotencyKey string          `db:"idempotency_key"`
	BookingID      string          `db:"booking_id"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	Method         string          `db:"method"`
	Status         string          `db:"status"`
	ProviderRef    string          `db:"provider_ref"`
	FailureReason  string          `db:"failure_reason"`
	Attempts       int             `db:"attempts"`
	ClaimedAt      *time.Time      `db:"claimed_at"`
	RequiresRefund bool            `db:"requires_refund"`
	model.Metadata
}

func (a Attempt) IsFinal() bool {
	return a.Status == StatusSucceeded || a.Status == StatusFailed
}

// Matches reports whether a request for amount in currency is a replay of this attempt.
func (a Attempt) Matches(amount decimal.Decimal, currency string) bool {
	return money.Equal(a.Amount, amount) && a.Currency == money.NormalizeCurrency(currency)
}

// Claimable is true when no worker holds the attempt, or the holder has been silent for staleAfter.
func (a Attempt) Claimable(now time.Time, staleAfter time.Duration) bool {
	return a.ClaimedAt == nil || !now.Before(a.ClaimedAt.Add(staleAfter))
}

// Claim marks the attempt as being processed by the caller.
func (a *Attempt) Claim(now time.Time, actor string) {
	a.ClaimedAt = &now
	a.Attempts++
	a.ModifiedAt = now
	a.ModifiedBy = actor
}
