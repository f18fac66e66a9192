package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"stocktracker/internal/config"
	"stocktracker/internal/models"
	"stocktracker/internal/recorder"
)

const yahooQuoteFixture = `{
	"chart": {
		"result": [{
			"meta": {
				"regularMarketPrice": 150.25,
				"previousClose": 148.50,
				"regularMarketVolume": 52000000,
				"regularMarketTime": 1700000000
			},
			"timestamp": [],
			"indicators": {"quote": [{}]}
		}],
		"error": null
	}
}`

const yahooHistoryFixture = `{
	"chart": {
		"result": [{
			"meta": {"regularMarketPrice": 104.0},
			"timestamp": [1700000000, 1700086400],
			"indicators": {
				"quote": [{
					"open":   [100.0, 103.0],
					"high":   [101.5, 104.5],
					"low":    [99.0, 102.0],
					"close":  [101.0, 104.0],
					"volume": [1000000, 1200000]
				}]
			}
		}],
		"error": null
	}
}`

func newTestMarketService(t *testing.T, handler http.HandlerFunc) (*MarketDataService, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.MaxConcurrentFetches = 2

	s := NewMarketDataService(cfg, NewCacheService(cfg), recorder.NewNoopRecorder())
	s.primary.ChartURL = srv.URL
	s.primary.SummaryURL = srv.URL
	return s, &hits
}

func TestMarketGetQuote_CachesResult(t *testing.T) {
	s, hits := newTestMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooQuoteFixture))
	})
	ctx := context.Background()

	first, err := s.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Price != 150.25 {
		t.Errorf("expected price 150.25, got %.2f", first.Price)
	}

	second, err := s.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Price != first.Price {
		t.Error("expected cached quote")
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", hits.Load())
	}
}

func TestMarketGetQuote_UnknownTicker(t *testing.T) {
	s, _ := newTestMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := s.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrUnknownTicker) {
		t.Errorf("expected ErrUnknownTicker, got %v", err)
	}
}

func TestMarketGetHistory_InvalidRange(t *testing.T) {
	s, hits := newTestMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooHistoryFixture))
	})

	_, err := s.GetHistory(context.Background(), "AAPL", "forever")
	if !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if hits.Load() != 0 {
		t.Error("invalid range must not reach the provider")
	}
}

func TestMarketGetHistory_CachesPerRange(t *testing.T) {
	s, hits := newTestMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooHistoryFixture))
	})
	ctx := context.Background()

	if _, err := s.GetHistory(ctx, "AAPL", "1mo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetHistory(ctx, "AAPL", "1mo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream fetch for repeated range, got %d", hits.Load())
	}

	if _, err := s.GetHistory(ctx, "AAPL", "6mo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("expected a fresh fetch for a new range, got %d hits", hits.Load())
	}
}

func TestWarmWatchlist(t *testing.T) {
	s, hits := newTestMarketService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") == "1d" {
			w.Write([]byte(yahooQuoteFixture))
			return
		}
		w.Write([]byte(yahooHistoryFixture))
	})

	entries := []config.WatchEntry{
		{Symbol: "AAPL", Ranges: []string{"1mo"}},
		{Symbol: "MSFT", Ranges: []string{"1mo", "6mo"}},
	}

	s.WarmWatchlist(context.Background(), entries)

	// 2 quotes + 3 history fetches
	if hits.Load() != 5 {
		t.Errorf("expected 5 upstream fetches, got %d", hits.Load())
	}

	if _, found := s.cache.GetQuote(context.Background(), "AAPL"); !found {
		t.Error("expected AAPL quote to be warmed")
	}
	if _, found := s.cache.GetHistory("MSFT", "6mo"); !found {
		t.Error("expected MSFT 6mo history to be warmed")
	}
}
