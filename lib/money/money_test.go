package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	assert.NoError(t, err)
	assert.Equal(t, Currency("USD"), c)

	_, err = ParseCurrency("dollar")
	assert.Error(t, err)
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(decimal.RequireFromString("100.004"), decimal.RequireFromString("100")))
	assert.True(t, WithinTolerance(decimal.RequireFromString("100.005"), decimal.RequireFromString("100")))
	assert.False(t, WithinTolerance(decimal.RequireFromString("100.01"), decimal.RequireFromString("100")))
}

func TestConvert(t *testing.T) {
	local := Convert(decimal.RequireFromString("150"), decimal.RequireFromString("3.6543"))
	assert.Equal(t, "548.15", local.StringFixed(2))

	back := ConvertBack(local, decimal.RequireFromString("3.6543"))
	assert.Equal(t, "150.00", back.StringFixed(2))

	assert.True(t, ConvertBack(decimal.NewFromInt(10), decimal.Zero).IsZero())
}

func TestSumAndIsZero(t *testing.T) {
	total := Sum(decimal.NewFromInt(100), decimal.NewFromInt(-5), decimal.RequireFromString("0.001"))
	assert.Equal(t, "95.001", total.String())
	assert.True(t, IsZero(decimal.RequireFromString("0.004")))
	assert.False(t, IsZero(decimal.RequireFromString("0.006")))
}
