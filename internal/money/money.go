// Package money wraps shopspring/decimal with the rounding rules the
// e-invoice standard demands: monetary amounts carry at most 2 decimals
// (BR-DEC-09 through BR-DEC-18).
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromFloat creates a decimal from a float
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// FromString parses a decimal from a string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from a string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to 2 decimal places (half away from zero)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Emit formats an amount with exactly 2 decimal digits for the wire
func Emit(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Basis derives a basis amount from a tax amount and a rate percentage:
// amount / rate * 100, rounded to 2 decimals. Returns zero for a zero rate.
func Basis(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return Zero
	}
	hundred := decimal.NewFromInt(100)
	return amount.Div(ratePercent).Mul(hundred).Round(2)
}

// Equal2 reports whether two amounts are equal after rounding to 2 decimals
func Equal2(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
