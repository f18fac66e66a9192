// Package chart turns a historical OHLCV series into the payload the
// dashboard page renders: a candlestick series, a volume series and a period
// summary. The transform is pure; the only edge case is an empty series.
package chart

import (
	"fmt"

	"stocktracker/internal/models"
)

// CandlePoint is one bar of the candlestick series.
type CandlePoint struct {
	Time  int64   `json:"time"` // unix seconds
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// VolumePoint is one bar of the volume series.
type VolumePoint struct {
	Time  int64 `json:"time"`
	Value int64 `json:"value"`
}

// PeriodSummary describes the price move over the charted window.
type PeriodSummary struct {
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// Payload is the combined price/volume visualization model.
type Payload struct {
	Symbol  string         `json:"symbol"`
	Range   string         `json:"range"`
	Empty   bool           `json:"empty"`
	Message string         `json:"message,omitempty"`
	Candles []CandlePoint  `json:"candles"`
	Volume  []VolumePoint  `json:"volume"`
	Summary *PeriodSummary `json:"summary,omitempty"`
}

// Build converts a series into the chart payload. An empty series yields an
// empty-state payload with a user-facing message.
func Build(symbol, rng string, candles []models.Candle) Payload {
	payload := Payload{
		Symbol:  symbol,
		Range:   rng,
		Candles: make([]CandlePoint, 0, len(candles)),
		Volume:  make([]VolumePoint, 0, len(candles)),
	}

	if len(candles) == 0 {
		payload.Empty = true
		payload.Message = fmt.Sprintf("No chart data available for %s", symbol)
		return payload
	}

	for _, c := range candles {
		ts := c.Time.Unix()
		payload.Candles = append(payload.Candles, CandlePoint{
			Time:  ts,
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
		})
		payload.Volume = append(payload.Volume, VolumePoint{
			Time:  ts,
			Value: c.Volume,
		})
	}

	start := candles[0].Close
	end := candles[len(candles)-1].Close
	summary := &PeriodSummary{
		Start:  start,
		End:    end,
		Change: end - start,
	}
	if start > 0 {
		summary.ChangePercent = (end - start) / start * 100
	}
	payload.Summary = summary

	return payload
}
