package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is half a minor currency unit. Stored currency rates are
// rounded, so debit and credit sums are compared within this tolerance.
var BalanceTolerance = decimal.New(5, -3)

// MinorUnits is the number of decimal places amounts are rounded to.
const MinorUnits = 2

// RateUnits is the number of decimal places currency rates are stored with.
const RateUnits = 6

type Currency string

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes an ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code %q", code)
	}
	return Currency(code), nil
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnits)
}

func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateUnits)
}

// IsZero reports whether d is zero once rounded to minor units.
func IsZero(d decimal.Decimal) bool {
	return Round(d).IsZero()
}

// WithinTolerance reports whether |a-b| is not greater than BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// Convert turns an amount in a foreign currency into the local currency.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

// ConvertBack turns a local amount into the foreign currency using rate.
// A zero rate yields zero instead of a division panic.
func ConvertBack(local, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return Round(local.Div(rate))
}

// Sum adds up all amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
