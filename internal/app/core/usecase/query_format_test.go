package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":             "$0.00",
		"5":             "$5.00",
		"20.5":          "$20.50",
		"999.99":        "$999.99",
		"1000":          "$1,000.00",
		"1500.00":       "$1,500.00",
		"1234567.891":   "$1,234,567.89",
		"-1234.5":       "-$1,234.50",
		"-0.001":        "$0.00",
		"-20.5":         "-$20.50",
		"98765432109.1": "$98,765,432,109.10",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)))
		})
	}
}
