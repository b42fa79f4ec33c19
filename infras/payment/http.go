package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/shared/constant"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	chargesPath         = "/charges"
	errorSnippetLimit   = 512
	defaultTimeoutInSec = 10
)

type httpProvider struct {
	client *http.Client
	url    string
	apiKey string
	otel   otel.Otel
}

type declineBody struct {
	Reason string `json:"reason"`
}

func NewHTTP(cfg *config.Config, otel otel.Otel) Provider {
	timeout := cfg.Payment.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutInSec
	}

	return &httpProvider{
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		url:    strings.TrimRight(cfg.Payment.URL, "/"),
		apiKey: cfg.Payment.APIKey,
		otel:   otel,
	}
}

func (p *httpProvider) Charge(ctx context.Context, req ChargeRequest) (res ChargeResult, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".payment.Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.reference", req.Reference)

	body, err := json.Marshal(req)
	if err != nil {
		return res, fmt.Errorf("failed to encode charge request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+chargesPath, bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("failed to build charge request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	request.Header.Set(constant.RequestHeaderIdempotencyKey, req.IdempotencyKey)

	if p.apiKey != "" {
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(request)
	if err != nil {
		log.Error().Err(err).Str("reference", req.Reference).Msg("payment provider request failed")

		return res, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	scope.SetAttribute("http.status_code", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		decline := declineBody{}
		_ = json.NewDecoder(io.LimitReader(resp.Body, errorSnippetLimit)).Decode(&decline)

		if decline.Reason == "" {
			decline.Reason = "declined"
		}

		return ChargeResult{Status: StatusDeclined, DeclineReason: decline.Reason}, nil
	case resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetLimit))

		log.Error().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("payment provider unavailable")

		return res, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetLimit))

		log.Warn().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("payment provider rejected charge")

		return ChargeResult{Status: StatusDeclined, DeclineReason: fmt.Sprintf("rejected_%d", resp.StatusCode)}, nil
	}

	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("%w: undecodable response: %w", ErrProviderUnavailable, err)
	}

	if res.Status != StatusSucceeded && res.Status != StatusDeclined {
		return res, fmt.Errorf("%w: unknown status %q", ErrProviderUnavailable, res.Status)
	}

	return res, nil
}
