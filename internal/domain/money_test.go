package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("10.5")
	require.NoError(t, err)
	assert.Equal(t, "10.50", FormatAmount(d))
}

func TestParseAmount_RoundsHalfUp(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1.00",
		"0.125":  "0.13",
		" 7 ":    "7.00",
		"0.0049": "0.00",
	}
	for in, want := range cases {
		d, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, FormatAmount(d), in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse amount "ten"`)
}

func TestStartingBalance(t *testing.T) {
	amount := decimal.RequireFromString("2.50")
	assert.Equal(t, "250.00", FormatAmount(StartingBalance(amount, 100)))
}
