package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Sandbox methods that force a specific outcome.
const (
	SandboxMethodDeclined = "card_declined"
	SandboxMethodDown     = "provider_down"
	SandboxMethodFlaky    = "provider_flaky"
)

// Sandbox emulates a remote provider in memory. It is idempotent per key like a real
// provider: the first final outcome recorded for a key is returned for every later call.
type Sandbox struct {
	mu      sync.Mutex
	results map[string]ChargeResult
	calls   map[string]int
}

func NewSandbox() *Sandbox {
	return &Sandbox{
		results: map[string]ChargeResult{},
		calls:   map[string]int{},
	}
}

func (s *Sandbox) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return ChargeResult{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[req.IdempotencyKey]++

	if result, ok := s.results[req.IdempotencyKey]; ok {
		return result, nil
	}

	switch req.Method {
	case SandboxMethodDown:
		return ChargeResult{}, fmt.Errorf("%w: sandbox outage", ErrProviderUnavailable)
	case SandboxMethodFlaky:
		if s.calls[req.IdempotencyKey] == 1 {
			return ChargeResult{}, fmt.Errorf("%w: sandbox timeout", ErrProviderUnavailable)
		}
	}

	result := ChargeResult{
		Reference: "sbx_" + uuid.NewString(),
		Status:    StatusSucceeded,
	}

	if req.Method == SandboxMethodDeclined || !req.Amount.IsPositive() {
		result.Status = StatusDeclined
		result.DeclineReason = "card_declined"
	}

	s.results[req.IdempotencyKey] = result

	return result, nil
}

// Calls returns how many times key was presented.
func (s *Sandbox) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[key]
}
