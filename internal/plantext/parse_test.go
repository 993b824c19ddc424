package plantext

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValidityDays(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
		ok       bool
	}{
		{"numeric days", 28, 28, true},
		{"float days", float64(84), 84, true},
		{"numeric string", "28", 28, true},
		{"days suffix", "28 days", 28, true},
		{"single day", "1 day", 1, true},
		{"generic month is 30 days", "1 month", 30, true},
		{"two months", "2 months", 60, true},
		{"weeks", "2 weeks", 14, true},
		{"year", "1 year", 365, true},
		{"bill cycle is unknown, not zero", "bill cycle", 0, false},
		{"base plan is unknown, not zero", "base plan", 0, false},
		{"empty string", "", 0, false},
		{"garbage", "whenever", 0, false},
		{"nil", nil, 0, false},
		{"zero", 0, 0, false},
		{"negative", -5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseValidityDays(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

// Parsing an already-numeric value must be a fixed point: feeding the result
// back in changes nothing.
func TestParseValidityDays_IdempotentOnNumbers(t *testing.T) {
	for _, n := range []int{1, 7, 28, 56, 84, 365} {
		first, ok := ParseValidityDays(n)
		assert.True(t, ok)
		second, ok := ParseValidityDays(first)
		assert.True(t, ok)
		assert.Equal(t, first, second)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
		ok       bool
	}{
		{"plain number", float64(399), 399, true},
		{"int", 299, 299, true},
		{"rupee symbol", "₹399", 399, true},
		{"rs prefix", "Rs. 599", 599, true},
		{"plain string", "149", 149, true},
		{"no digits", "free", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseDataGB(t *testing.T) {
	gb, ok := ParseDataGB("2GB/day")
	assert.True(t, ok)
	assert.Equal(t, 2.0, gb)

	gb, ok = ParseDataGB("1.5 GB")
	assert.True(t, ok)
	assert.Equal(t, 1.5, gb)

	gb, ok = ParseDataGB("512MB")
	assert.True(t, ok)
	assert.Equal(t, 0.5, gb)

	gb, ok = ParseDataGB("Unlimited")
	assert.True(t, ok)
	assert.True(t, math.IsInf(gb, 1))

	_, ok = ParseDataGB("No data")
	assert.False(t, ok)

	_, ok = ParseDataGB("")
	assert.False(t, ok)

	gb, ok = ParseDataGB("0GB")
	assert.True(t, ok)
	assert.Equal(t, 0.0, gb)
}

func TestFirstInt(t *testing.T) {
	n, ok := FirstInt("around 500 rupees")
	assert.True(t, ok)
	assert.Equal(t, 500, n)

	_, ok = FirstInt("no numbers here")
	assert.False(t, ok)
}
