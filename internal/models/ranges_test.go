package models

import (
	"errors"
	"testing"
)

func TestValidRange(t *testing.T) {
	for _, rng := range HistoryRanges {
		if !ValidRange(rng) {
			t.Errorf("expected %q to be valid", rng)
		}
	}

	for _, rng := range []string{"", "2d", "10y", "max", "1MO"} {
		if ValidRange(rng) {
			t.Errorf("expected %q to be invalid", rng)
		}
	}
}

func TestRangeInterval(t *testing.T) {
	tests := []struct {
		rng      string
		interval string
	}{
		{"1d", "5m"},
		{"5d", "30m"},
		{"1mo", "1d"},
		{"1y", "1d"},
		{"5y", "1wk"},
	}

	for _, tc := range tests {
		t.Run(tc.rng, func(t *testing.T) {
			interval, err := RangeInterval(tc.rng)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if interval != tc.interval {
				t.Errorf("expected %q, got %q", tc.interval, interval)
			}
		})
	}

	if _, err := RangeInterval("forever"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}
