package money_test

import (
	"stayledger/shared/money"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "10.005", want: "10.01"},
		{input: "10.004", want: "10"},
		{input: "0.125", want: "0.13"},
		{input: "27", want: "27"},
		{input: "33.3333", want: "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := money.Round(decimal.RequireFromString(tt.input))

			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPercent(t *testing.T) {
	got := money.Percent(decimal.NewFromInt(300), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(30)))

	got = money.Percent(decimal.RequireFromString("99.99"), decimal.RequireFromString("12.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("12.50")), "got %s", got)
}

func TestClamp(t *testing.T) {
	limit := decimal.NewFromInt(50)

	assert.True(t, money.Clamp(decimal.NewFromInt(80), limit).Equal(limit))
	assert.True(t, money.Clamp(decimal.NewFromInt(-5), limit).IsZero())
	assert.True(t, money.Clamp(decimal.NewFromInt(20), limit).Equal(decimal.NewFromInt(20)))
}

func TestEqual(t *testing.T) {
	assert.True(t, money.Equal(decimal.RequireFromString("270.00"), decimal.NewFromInt(270)))
	assert.False(t, money.Equal(decimal.RequireFromString("270.01"), decimal.NewFromInt(270)))
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", money.NormalizeCurrency(" usd "))
}
