package dto

import (
	"stayledger/internal/domains/payment/model"
	gDto "stayledger/shared/dto"

	"github.com/shopspring/decimal"
)

type ProcessPaymentRequest struct {
	BookingID      string          `json:"booking_id"      validate:"required,uuid"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,max=255"`
	Amount         decimal.Decimal `json:"amount"          validate:"gte=0"`
	Currency       string          `json:"currency"        validate:"required,currency"`
	Method         string          `json:"method"          validate:"required,max=50"`
}

// PaymentResult is the outcome of a charge. Replayed is set when the result was recorded by an
// earlier request with the same idempotency key.
type PaymentResult struct {
	ID             string          `json:"id"`
	IdempotencyKey string          `json:"idempotency_key"`
	BookingID      string          `json:"booking_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	ProviderRef    string          `json:"provider_ref,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	Attempts       int             `json:"attempts"`
	RequiresRefund bool            `json:"requires_refund"`
	Replayed       bool            `json:"replayed"`
	BookingStatus  string          `json:"booking_status,omitempty"`
	gDto.Metadata
}

func (r *PaymentResult) FromModel(attempt model.Attempt) {
	r.ID = attempt.ID
	r.IdempotencyKey = attempt.IdempotencyKey
	r.BookingID = attempt.BookingID
	r.Amount = attempt.Amount
	r.Currency = attempt.Currency
	r.Method = attempt.Method
	r.Status = attempt.Status
	r.ProviderRef = attempt.ProviderRef
	r.FailureReason = attempt.FailureReason
	r.Attempts = attempt.Attempts
	r.RequiresRefund = attempt.RequiresRefund
	r.Metadata.FromModel(attempt.Metadata)
}

// ResolveSummary counts what one reconciliation pass did with stale pending attempts.
type ResolveSummary struct {
	Scanned    int `json:"scanned"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	Expired    int `json:"expired"`
	Unresolved int `json:"unresolved"`
}
