package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatBRL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "zero", input: "0", expected: "R$ 0,00"},
		{name: "small amount", input: "10.5", expected: "R$ 10,50"},
		{name: "thousands grouping", input: "1234.56", expected: "R$ 1.234,56"},
		{name: "large amount", input: "2500000", expected: "R$ 2.500.000,00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatBRL(decimal.RequireFromString(tc.input))
			if got != tc.expected {
				t.Errorf("FormatBRL(%s) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
