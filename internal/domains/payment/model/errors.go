package model

import (
	"net/http"
	"stayledger/shared/failure"
)

var (
	ErrAmountMismatch       = failure.New(http.StatusUnprocessableEntity, failure.KindValidation, "amount_mismatch", "amount or currency does not match")
	ErrIdempotencyKeyReused = failure.New(http.StatusUnprocessableEntity, failure.KindValidation, "idempotency_key_reused", "idempotency key was used for another booking")
	ErrPaymentInProgress    = failure.Transient(http.StatusConflict, "payment_in_progress", "a payment for this booking is being processed")
	ErrProviderError        = failure.Transient(http.StatusBadGateway, "provider_error", "payment provider unavailable, retry with the same idempotency key")
	ErrPaymentNotFound      = failure.New(http.StatusNotFound, failure.KindNotFound, "payment_not_found", "payment not found")
)
