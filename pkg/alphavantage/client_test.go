package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stocktracker/internal/models"
)

const globalQuoteFixture = `{
	"Global Quote": {
		"01. symbol": "AAPL",
		"03. high": "151.0000",
		"04. low": "147.8000",
		"05. price": "150.2500",
		"06. volume": "52000000",
		"09. change": "1.7500",
		"10. change percent": "1.1784%"
	}
}`

const overviewFixture = `{
	"Symbol": "AAPL",
	"Name": "Apple Inc",
	"Sector": "TECHNOLOGY",
	"Industry": "ELECTRONIC COMPUTERS",
	"MarketCapitalization": "2400000000000",
	"PERatio": "28.5",
	"52WeekHigh": "182.94",
	"52WeekLow": "124.17",
	"DividendYield": "0.0055"
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("demo")
	c.BaseURL = srv.URL
	return c
}

func TestGetQuote(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("unexpected function %s", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "demo" {
			t.Errorf("unexpected apikey %s", got)
		}
		w.Write([]byte(globalQuoteFixture))
	})

	quote, err := c.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Price != 150.25 {
		t.Errorf("expected price 150.25, got %.4f", quote.Price)
	}
	if quote.Change != 1.75 {
		t.Errorf("expected change 1.75, got %.4f", quote.Change)
	}
	if quote.Volume != 52000000 {
		t.Errorf("expected volume 52000000, got %d", quote.Volume)
	}
	if quote.Source != "alphavantage" {
		t.Errorf("expected source alphavantage, got %s", quote.Source)
	}
}

func TestGetQuote_UnknownTicker(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Alpha Vantage returns an empty object for unknown symbols.
		w.Write([]byte(`{"Global Quote": {}}`))
	})

	_, err := c.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrUnknownTicker) {
		t.Errorf("expected ErrUnknownTicker, got %v", err)
	}
}

func TestGetQuote_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, models.ErrProviderFailure) {
		t.Errorf("expected ErrProviderFailure, got %v", err)
	}
}

func TestGetFundamentals(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "OVERVIEW" {
			t.Errorf("unexpected function %s", got)
		}
		w.Write([]byte(overviewFixture))
	})

	fund, err := c.GetFundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fund.Company != "Apple Inc" {
		t.Errorf("expected Apple Inc, got %s", fund.Company)
	}
	if fund.MarketCap != 2400000000000 {
		t.Errorf("unexpected market cap %d", fund.MarketCap)
	}
	if fund.Week52High != 182.94 {
		t.Errorf("unexpected 52 week high %.2f", fund.Week52High)
	}
}

func TestGetFundamentals_UnknownTicker(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := c.GetFundamentals(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrUnknownTicker) {
		t.Errorf("expected ErrUnknownTicker, got %v", err)
	}
}
