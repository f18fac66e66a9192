package recorder

import "stocktracker/internal/models"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordQuote(_ *models.Quote) error { return nil }
func (n *NoopRecorder) Close() error                      { return nil }
