// Package recorder persists fetched quote snapshots for later inspection
// (e.g. charting local price history with external tools). It is optional;
// without a configured database path the noop implementation is used.
package recorder

import "stocktracker/internal/models"

// Recorder receives every quote snapshot fetched from a provider.
type Recorder interface {
	RecordQuote(quote *models.Quote) error
	Close() error
}
