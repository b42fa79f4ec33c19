package payment

//go:generate go run go.uber.org/mock/mockgen -source=./provider.go -destination=./mocks/provider_mock.go -package=mocks

import (
	"context"
	"errors"
	"stayledger/config"
	"stayledger/infras/otel"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	ProviderSandbox = "sandbox"
	ProviderHTTP    = "http"
)

const (
	StatusSucceeded = "succeeded"
	StatusDeclined  = "declined"
)

// ErrProviderUnavailable marks a charge whose outcome is unknown. The caller keeps the attempt
// pending and retries with the same idempotency key.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

type ChargeRequest struct {
	IdempotencyKey string          `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference"`
}

type ChargeResult struct {
	Reference     string `json:"id"`
	Status        string `json:"status"`
	DeclineReason string `json:"decline_reason,omitempty"`
}

func (r ChargeResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Provider charges a payment method. A nil error means the outcome is final (succeeded or
// declined); any error means the outcome is unknown.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

func New(cfg *config.Config, otel otel.Otel) Provider {
	switch cfg.Payment.Provider {
	case ProviderHTTP:
		log.Info().Str("url", cfg.Payment.URL).Msg("Using HTTP payment provider")

		return NewHTTP(cfg, otel)
	default:
		log.Warn().Msg("Using sandbox payment provider")

		return NewSandbox()
	}
}
