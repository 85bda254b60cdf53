package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/jprocessing/internal/money"
)

func TestNormalizeHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"1.00005", "1.0001"},
		{"1.00004", "1"},
		{"-1.00005", "-1.0001"},
		{"0.123449", "0.1234"},
		{"0.12345", "0.1235"},
	}
	for _, tc := range cases {
		got := money.Normalize(decimal.RequireFromString(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Normalize(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{"1.23456789", "-42.00005", "0", "99999.99995"} {
		once := money.Normalize(decimal.RequireFromString(raw))
		twice := money.Normalize(once)
		if !once.Equal(twice) {
			t.Fatalf("Normalize not idempotent for %s: %s != %s", raw, once, twice)
		}
		if once.Exponent() < -4 {
			t.Fatalf("Normalize(%s) kept %d fractional digits", raw, -once.Exponent())
		}
	}
}

func TestLineTotal(t *testing.T) {
	got := money.LineTotal(decimal.RequireFromString("4.00"), decimal.RequireFromString("2.5"))
	if !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("LineTotal(4.00, 2.5) = %s, want 10.00", got)
	}

	got = money.LineTotal(decimal.RequireFromString("0.105"), decimal.RequireFromString("1"))
	if !got.Equal(decimal.RequireFromString("0.11")) {
		t.Fatalf("LineTotal(0.105, 1) = %s, want 0.11", got)
	}
}
