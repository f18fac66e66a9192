// Package refresher keeps the watchlist symbols warm in the cache on a cron
// schedule, so the dashboard renders instantly for the tickers that matter.
package refresher

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"stocktracker/internal/config"
	"stocktracker/internal/services"
)

type Refresher struct {
	cron    *cron.Cron
	market  *services.MarketDataService
	entries []config.WatchEntry
	ctx     context.Context
}

func New(ctx context.Context, market *services.MarketDataService, entries []config.WatchEntry) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		market:  market,
		entries: entries,
		ctx:     ctx,
	}
}

// Start registers the refresh task and starts the cron loop. With an empty
// watchlist nothing is scheduled.
func (r *Refresher) Start(spec string) error {
	if len(r.entries) == 0 {
		return nil
	}

	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}

	r.cron.Start()
	log.Printf("[INFO] watchlist refresher started: %d symbols, schedule %q", len(r.entries), spec)

	// Warm the cache once at startup
	go r.refresh()
	return nil
}

func (r *Refresher) refresh() {
	r.market.WarmWatchlist(r.ctx, r.entries)
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
