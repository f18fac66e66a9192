package models

import "errors"

// Sentinel errors shared between services and handlers so HTTP status codes
// can be mapped at the call site.
var (
	ErrUnknownTicker   = errors.New("ticker not found")
	ErrProviderFailure = errors.New("market data provider failure")
	ErrAINotConfigured = errors.New("AI provider is not configured")
	ErrInvalidRange    = errors.New("invalid historical range")
	ErrInvalidMode     = errors.New("invalid analysis mode")
)

// HistoryRanges enumerates the selectable historical windows, in the order
// they are offered on the dashboard.
var HistoryRanges = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y"}

// DefaultRange is used when no range is selected.
const DefaultRange = "1mo"

// rangeIntervals maps each range to the bar interval requested from the
// provider. Intraday ranges need intraday bars, everything else is daily.
var rangeIntervals = map[string]string{
	"1d":  "5m",
	"5d":  "30m",
	"1mo": "1d",
	"3mo": "1d",
	"6mo": "1d",
	"1y":  "1d",
	"2y":  "1d",
	"5y":  "1wk",
}

// ValidRange reports whether r is one of the enumerated history ranges.
func ValidRange(r string) bool {
	_, ok := rangeIntervals[r]
	return ok
}

// RangeInterval returns the provider bar interval for the given range.
func RangeInterval(r string) (string, error) {
	interval, ok := rangeIntervals[r]
	if !ok {
		return "", ErrInvalidRange
	}
	return interval, nil
}
