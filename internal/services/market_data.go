package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"stocktracker/internal/config"
	"stocktracker/internal/metrics"
	"stocktracker/internal/models"
	"stocktracker/internal/recorder"
	"stocktracker/pkg/alphavantage"
	"stocktracker/pkg/yahoo"
)

// QuoteProvider is a market data source for current quotes and fundamentals.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
	Name() string
}

// HistoryProvider serves OHLCV series for the enumerated ranges.
type HistoryProvider interface {
	GetHistory(ctx context.Context, symbol, rng string) ([]models.Candle, error)
	Name() string
}

// MarketDataService fetches quotes, history and fundamentals with a cache in
// front and a provider fallback behind.
type MarketDataService struct {
	config     *config.Config
	cache      *CacheService
	recorder   recorder.Recorder
	primary    *yahoo.Client
	fallback   QuoteProvider // nil when Alpha Vantage is not configured
	workerPool chan struct{} // Semaphore for bounded concurrency
}

func NewMarketDataService(cfg *config.Config, cache *CacheService, rec recorder.Recorder) *MarketDataService {
	var fallback QuoteProvider
	if cfg.AlphaVantageKey != "" {
		fallback = alphavantage.NewClient(cfg.AlphaVantageKey)
	}

	return &MarketDataService{
		config:     cfg,
		cache:      cache,
		recorder:   rec,
		primary:    yahoo.NewClient(),
		fallback:   fallback,
		workerPool: make(chan struct{}, cfg.MaxConcurrentFetches),
	}
}

// GetQuote returns the current snapshot for a symbol, from cache when fresh.
func (s *MarketDataService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if cached, found := s.cache.GetQuote(ctx, symbol); found {
		metrics.CacheHit("quote")
		return cached, nil
	}

	// Fan-out: ask both providers, use the first success
	type result struct {
		quote *models.Quote
		err   error
	}

	primaryCh := make(chan result, 1)
	fallbackCh := make(chan result, 1)

	go func() {
		start := time.Now()
		quote, err := s.primary.GetQuote(ctx, symbol)
		metrics.ObserveFetch(s.primary.Name(), "quote", start, err)
		primaryCh <- result{quote, err}
	}()

	go func() {
		if s.fallback == nil {
			fallbackCh <- result{nil, models.ErrProviderFailure}
			return
		}
		start := time.Now()
		quote, err := s.fallback.GetQuote(ctx, symbol)
		metrics.ObserveFetch(s.fallback.Name(), "quote", start, err)
		fallbackCh <- result{quote, err}
	}()

	select {
	case res := <-primaryCh:
		if res.err == nil {
			return s.storeQuote(ctx, symbol, res.quote), nil
		}
		primaryErr := res.err
		res = <-fallbackCh
		if res.err == nil {
			return s.storeQuote(ctx, symbol, res.quote), nil
		}
		// The primary error is authoritative for unknown tickers
		return nil, primaryErr

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *MarketDataService) storeQuote(ctx context.Context, symbol string, quote *models.Quote) *models.Quote {
	s.cache.SetQuote(ctx, symbol, quote)
	if err := s.recorder.RecordQuote(quote); err != nil {
		log.Printf("[WARN] record quote %s: %v", symbol, err)
	}
	return quote
}

// GetHistory returns the OHLCV series for a symbol and range.
func (s *MarketDataService) GetHistory(ctx context.Context, symbol, rng string) ([]models.Candle, error) {
	if !models.ValidRange(rng) {
		return nil, models.ErrInvalidRange
	}

	if cached, found := s.cache.GetHistory(symbol, rng); found {
		metrics.CacheHit("history")
		return cached, nil
	}

	start := time.Now()
	candles, err := s.primary.GetHistory(ctx, symbol, rng)
	metrics.ObserveFetch(s.primary.Name(), "history", start, err)
	if err != nil {
		return nil, err
	}

	s.cache.SetHistory(symbol, rng, candles)
	return candles, nil
}

// GetFundamentals returns company profile metrics, falling back to Alpha
// Vantage when Yahoo has no profile.
func (s *MarketDataService) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if cached, found := s.cache.GetFundamentals(ctx, symbol); found {
		metrics.CacheHit("fundamentals")
		return cached, nil
	}

	start := time.Now()
	fund, err := s.primary.GetFundamentals(ctx, symbol)
	metrics.ObserveFetch(s.primary.Name(), "fundamentals", start, err)
	if err != nil && s.fallback != nil && !errors.Is(err, models.ErrUnknownTicker) {
		start = time.Now()
		var fallbackErr error
		fund, fallbackErr = s.fallback.GetFundamentals(ctx, symbol)
		metrics.ObserveFetch(s.fallback.Name(), "fundamentals", start, fallbackErr)
		if fallbackErr == nil {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	s.cache.SetFundamentals(ctx, symbol, fund)
	return fund, nil
}

// WarmWatchlist pre-fetches quotes and history for the configured watchlist
// using the worker pool. Individual failures are logged, not fatal.
func (s *MarketDataService) WarmWatchlist(ctx context.Context, entries []config.WatchEntry) {
	var wg sync.WaitGroup

	for _, entry := range entries {
		wg.Add(1)

		go func(entry config.WatchEntry) {
			defer wg.Done()

			// Acquire worker slot (bounded concurrency)
			s.workerPool <- struct{}{}
			defer func() { <-s.workerPool }()

			fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()

			if _, err := s.GetQuote(fetchCtx, entry.Symbol); err != nil {
				log.Printf("[WARN] warm quote %s: %v", entry.Symbol, err)
				return
			}
			for _, rng := range entry.Ranges {
				if _, err := s.GetHistory(fetchCtx, entry.Symbol, rng); err != nil {
					log.Printf("[WARN] warm history %s %s: %v", entry.Symbol, rng, err)
				}
			}
		}(entry)
	}

	wg.Wait()
}

// ClearCaches drops every in-memory cache entry.
func (s *MarketDataService) ClearCaches() {
	s.cache.Clear()
}
