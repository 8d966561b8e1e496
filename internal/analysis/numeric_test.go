package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		nf   NumberFormat
		want float64
		ok   bool
	}{
		{"1505", NumberFormat{}, 1505, true},
		{"150,5", NumberFormat{}, 150.5, true},
		{"1.234,56", NumberFormat{}, 1234.56, true},
		{"1,234.56", NumberFormat{}, 1234.56, true},
		{"1 234,5 ₽", NumberFormat{}, 1234.5, true},
		{"12 000", NumberFormat{}, 12000, true},
		{"$99.90", NumberFormat{}, 99.9, true},
		{"45%", NumberFormat{}, 45, true},
		{"1,234", NumberFormat{DecimalSeparator: '.', ThousandsSeparator: ','}, 1234, true},
		{"12,500", NumberFormat{ThousandsSeparator: ','}, 12500, true},
		{"1,234,567", NumberFormat{ThousandsSeparator: ','}, 1234567, true},
		{"1.234.567", NumberFormat{ThousandsSeparator: '.'}, 1234567, true},
		{"1.234,5", NumberFormat{ThousandsSeparator: '.'}, 1234.5, true},
		{"1,234,567", NumberFormat{}, 1234567, true},
		{"1.234.567", NumberFormat{}, 1234567, true},
		{"1,234,567.25", NumberFormat{}, 1234567.25, true},
		{"1 234 567", NumberFormat{}, 1234567, true},
		{"-20", NumberFormat{}, -20, true},
		{"abc", NumberFormat{}, 0, false},
		{"NaN", NumberFormat{}, 0, false},
		{"₽", NumberFormat{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumber(tc.in, tc.nf)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
	}
}

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, "12345", canonicalID(" 12345.0 "))
	assert.Equal(t, "12345", canonicalID("12345.000"))
	assert.Equal(t, "12345.5", canonicalID("12345.5"))
	assert.Equal(t, "12345.", canonicalID("12345."))
	assert.Equal(t, "abc.0", canonicalID("abc.0"))
	assert.Equal(t, "", canonicalID("   "))
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, round2(0.125))
	assert.Equal(t, -0.13, round2(-0.125))
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 0.0, safeDiv(1, 0))
}
