package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const scale = 2

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// Round rounds d half up to two decimal places. Amounts are never negative so half up and
// half away from zero agree.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Shift(scale).Add(half).Floor().Shift(-scale)
}

// Percent returns percent% of amount, rounded.
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(percent).Div(hundred))
}

// Clamp bounds d to [0, limit].
func Clamp(d, limit decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return decimal.Min(d, limit)
}

// Equal compares two amounts at cent precision.
func Equal(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}

func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
