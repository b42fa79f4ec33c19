package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"stayledger/config"
	"stayledger/infras/otel/mocks"
	"stayledger/infras/payment"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandbox_Charge(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		amount     decimal.Decimal
		wantStatus string
		wantErr    bool
	}{
		{name: "card succeeds", method: "card", amount: decimal.NewFromInt(270), wantStatus: payment.StatusSucceeded},
		{name: "declined card", method: payment.SandboxMethodDeclined, amount: decimal.NewFromInt(270), wantStatus: payment.StatusDeclined},
		{name: "zero amount declined", method: "card", amount: decimal.Zero, wantStatus: payment.StatusDeclined},
		{name: "provider down", method: payment.SandboxMethodDown, amount: decimal.NewFromInt(10), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox := payment.NewSandbox()

			res, err := sandbox.Charge(context.Background(), payment.ChargeRequest{
				IdempotencyKey: "key-" + tt.name,
				Amount:         tt.amount,
				Currency:       "USD",
				Method:         tt.method,
			})

			if tt.wantErr {
				assert.True(t, errors.Is(err, payment.ErrProviderUnavailable))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestSandbox_IdempotentPerKey(t *testing.T) {
	sandbox := payment.NewSandbox()
	req := payment.ChargeRequest{IdempotencyKey: "k1", Amount: decimal.NewFromInt(100), Currency: "USD", Method: "card"}

	first, err := sandbox.Charge(context.Background(), req)
	require.NoError(t, err)

	second, err := sandbox.Charge(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, sandbox.Calls("k1"))
}

func TestSandbox_FlakyRecoversOnRetry(t *testing.T) {
	sandbox := payment.NewSandbox()
	req := payment.ChargeRequest{IdempotencyKey: "k2", Amount: decimal.NewFromInt(100), Currency: "USD", Method: payment.SandboxMethodFlaky}

	_, err := sandbox.Charge(context.Background(), req)
	assert.ErrorIs(t, err, payment.ErrProviderUnavailable)

	res, err := sandbox.Charge(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
}

func newHTTPProvider(url string) payment.Provider {
	cfg := &config.Config{}
	cfg.Payment.Provider = payment.ProviderHTTP
	cfg.Payment.URL = url
	cfg.Payment.APIKey = "secret"
	cfg.Payment.TimeoutSeconds = 2

	return payment.New(cfg, mocks.NewOtel())
}

func TestHTTPProvider_Charge(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
		wantReason string
		wantErr    bool
	}{
		{name: "succeeded", status: http.StatusCreated, body: `{"id":"ch_1","status":"succeeded"}`, wantStatus: payment.StatusSucceeded},
		{name: "declined via 402", status: http.StatusPaymentRequired, body: `{"reason":"insufficient_funds"}`, wantStatus: payment.StatusDeclined, wantReason: "insufficient_funds"},
		{name: "rejected via 400", status: http.StatusBadRequest, body: `{}`, wantStatus: payment.StatusDeclined, wantReason: "rejected_400"},
		{name: "server error is transient", status: http.StatusBadGateway, body: `oops`, wantErr: true},
		{name: "key in flight is transient", status: http.StatusConflict, body: `{}`, wantErr: true},
		{name: "unknown status is transient", status: http.StatusOK, body: `{"id":"ch_2","status":"processing"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotKey, gotAuth string
			var gotBody map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotKey = r.Header.Get("Idempotency-Key")
				gotAuth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&gotBody)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			res, err := newHTTPProvider(server.URL).Charge(context.Background(), payment.ChargeRequest{
				IdempotencyKey: "idem-1",
				Amount:         decimal.RequireFromString("270.00"),
				Currency:       "USD",
				Method:         "card",
				Reference:      "booking-1",
			})

			assert.Equal(t, "idem-1", gotKey)
			assert.Equal(t, "Bearer secret", gotAuth)
			assert.Equal(t, "booking-1", gotBody["reference"])

			if tt.wantErr {
				assert.ErrorIs(t, err, payment.ErrProviderUnavailable)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantReason, res.DeclineReason)
		})
	}
}

func TestHTTPProvider_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newHTTPProvider(url).Charge(context.Background(), payment.ChargeRequest{IdempotencyKey: "k", Amount: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, payment.ErrProviderUnavailable)
}
