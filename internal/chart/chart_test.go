package chart

import (
	"math"
	"testing"
	"time"

	"stocktracker/internal/models"
)

func testCandles() []models.Candle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []models.Candle{
		{Time: base, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1_000_000},
		{Time: base.AddDate(0, 0, 1), Open: 104, High: 108, Low: 103, Close: 107, Volume: 1_200_000},
		{Time: base.AddDate(0, 0, 2), Open: 107, High: 110, Low: 106, Close: 110, Volume: 900_000},
	}
}

func TestBuild(t *testing.T) {
	payload := Build("AAPL", "1mo", testCandles())

	if payload.Empty {
		t.Fatal("expected non-empty payload")
	}
	if payload.Symbol != "AAPL" || payload.Range != "1mo" {
		t.Errorf("unexpected symbol/range: %s %s", payload.Symbol, payload.Range)
	}
	if len(payload.Candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(payload.Candles))
	}
	if len(payload.Volume) != 3 {
		t.Fatalf("expected 3 volume points, got %d", len(payload.Volume))
	}

	first := payload.Candles[0]
	if first.Open != 100 || first.High != 105 || first.Low != 99 || first.Close != 104 {
		t.Errorf("first candle mismatch: %+v", first)
	}
	if payload.Volume[1].Value != 1_200_000 {
		t.Errorf("expected volume 1200000, got %d", payload.Volume[1].Value)
	}
	if payload.Candles[0].Time != payload.Volume[0].Time {
		t.Error("candle and volume series must share timestamps")
	}
}

func TestBuild_Summary(t *testing.T) {
	payload := Build("AAPL", "1mo", testCandles())

	s := payload.Summary
	if s == nil {
		t.Fatal("expected period summary")
	}
	if s.Start != 104 || s.End != 110 {
		t.Errorf("expected start 104 end 110, got %.2f %.2f", s.Start, s.End)
	}
	if s.Change != 6 {
		t.Errorf("expected change 6, got %.2f", s.Change)
	}
	wantPct := 6.0 / 104.0 * 100
	if math.Abs(s.ChangePercent-wantPct) > 1e-9 {
		t.Errorf("expected change pct %.4f, got %.4f", wantPct, s.ChangePercent)
	}
}

func TestBuild_EmptySeries(t *testing.T) {
	payload := Build("ZZZZ", "5d", nil)

	if !payload.Empty {
		t.Fatal("expected empty payload")
	}
	if payload.Message == "" {
		t.Error("expected empty-state message")
	}
	if payload.Summary != nil {
		t.Error("empty payload must not carry a summary")
	}
	if payload.Candles == nil || payload.Volume == nil {
		t.Error("series must be empty slices, not nil, for JSON encoding")
	}
}
