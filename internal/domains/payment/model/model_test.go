package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stayledger/internal/domains/payment/model"
)

func TestAttempt_Matches(t *testing.T) {
	attempt := model.Attempt{Amount: decimal.RequireFromString("270.00"), Currency: "USD"}

	assert.True(t, attempt.Matches(decimal.RequireFromString("270"), "usd"))
	assert.False(t, attempt.Matches(decimal.RequireFromString("270.01"), "USD"))
	assert.False(t, attempt.Matches(decimal.RequireFromString("270"), "EUR"))
}

func TestAttempt_Claimable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Second)
	old := now.Add(-2 * time.Minute)

	assert.True(t, model.Attempt{}.Claimable(now, time.Minute))
	assert.False(t, model.Attempt{ClaimedAt: &recent}.Claimable(now, time.Minute))
	assert.True(t, model.Attempt{ClaimedAt: &old}.Claimable(now, time.Minute))

	attempt := model.Attempt{Attempts: 1}
	attempt.Claim(now, "system")

	assert.Equal(t, 2, attempt.Attempts)
	assert.Equal(t, now, *attempt.ClaimedAt)
	assert.False(t, attempt.IsFinal())
}
