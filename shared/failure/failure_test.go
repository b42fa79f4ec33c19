package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"stayledger/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantKind   string
		wantReason string
	}{
		{
			name:       "validation",
			err:        failure.Validation("invalid_range", "check_out must be after check_in"),
			wantCode:   http.StatusBadRequest,
			wantKind:   failure.KindValidation,
			wantReason: "invalid_range",
		},
		{
			name:       "state conflict",
			err:        failure.StateConflict("invalid_transition", "booking is cancelled"),
			wantCode:   http.StatusConflict,
			wantKind:   failure.KindState,
			wantReason: "invalid_transition",
		},
		{
			name:       "transient",
			err:        failure.Transient(http.StatusServiceUnavailable, "provider_unavailable", "try again"),
			wantCode:   http.StatusServiceUnavailable,
			wantKind:   failure.KindTransient,
			wantReason: "provider_unavailable",
		},
		{
			name:       "invariant",
			err:        failure.InvariantViolation("constraint missing"),
			wantCode:   http.StatusInternalServerError,
			wantKind:   failure.KindInvariant,
			wantReason: "invariant_violation",
		},
		{
			name:       "not found",
			err:        failure.NotFound("coupon not found"),
			wantCode:   http.StatusNotFound,
			wantKind:   failure.KindNotFound,
			wantReason: "not_found",
		},
		{
			name:     "bad request",
			err:      failure.BadRequestFromString("limit is invalid"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
		},
		{
			name:     "unauthorized",
			err:      failure.Unauthorized("Token has expired"),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "plain error",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)

			assert.Equal(t, tt.wantCode, failure.GetCode(wrapped))
			assert.Equal(t, tt.wantKind, failure.GetKind(wrapped))
			assert.Equal(t, tt.wantReason, failure.GetReason(wrapped))
			assert.Equal(t, tt.wantKind == failure.KindTransient, failure.IsRetryable(wrapped))
		})
	}
}

func TestFailure_Is(t *testing.T) {
	overlap := failure.New(http.StatusConflict, failure.KindConflict, "overlap_conflict", "dates are taken")

	assert.ErrorIs(t, fmt.Errorf("reserve: %w", overlap), failure.New(0, "", "overlap_conflict", "other text"))
	assert.NotErrorIs(t, overlap, failure.New(0, "", "coupon_exhausted", ""))
	assert.NotErrorIs(t, failure.BadRequestFromString("a"), failure.BadRequestFromString("a"))
	assert.NotErrorIs(t, overlap, errors.New("overlap_conflict"))
}

func TestBadRequest(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))

	err := failure.BadRequest(errors.New("unexpected EOF"))
	assert.EqualError(t, err, "unexpected EOF")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestForbiddenErrors(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, failure.ForbiddenError.Code)
	assert.Equal(t, "You don't have the required permissions", failure.ForbiddenError.Error())

	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ResourceRestrictedError))
	assert.ErrorIs(t, fmt.Errorf("cancel: %w", failure.ResourceRestrictedError), failure.ResourceRestrictedError)
}
