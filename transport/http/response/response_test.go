package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"stayledger/shared/failure"
	"stayledger/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "conflict keeps reason",
			err:      fmt.Errorf("reserve: %w", failure.New(http.StatusConflict, failure.KindConflict, "overlap_conflict", "dates are taken")),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"reserve: dates are taken","kind":"conflict","reason":"overlap_conflict"}`,
		},
		{
			name:     "transient is retryable",
			err:      failure.Transient(http.StatusServiceUnavailable, "provider_unavailable", "payment provider unavailable"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error":"payment provider unavailable","kind":"transient","reason":"provider_unavailable","retryable":true}`,
		},
		{
			name:     "unclassified error is hidden",
			err:      errors.New("pq: password authentication failed"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
		{
			name:     "invariant text is kept",
			err:      failure.InvariantViolation("exclusion constraint missing"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"exclusion constraint missing","kind":"invariant","reason":"invariant_violation"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"status": "pending"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"status":"pending"}}`, rec.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message"`)
}
