package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stocktracker/internal/models"
)

const (
	defaultChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

type Client struct {
	// ChartURL and SummaryURL default to the public Yahoo Finance endpoints
	// and are overridable for tests.
	ChartURL   string
	SummaryURL string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		ChartURL:   defaultChartURL,
		SummaryURL: defaultSummaryURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				PreviousClose        float64 `json:"previousClose"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// fetchChart calls the Yahoo chart API for one symbol/interval/range.
func (c *Client) fetchChart(ctx context.Context, symbol, interval, rng string) (*chartResponse, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s", c.ChartURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo fetch: %v", models.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo read body: %v", models.ErrProviderFailure, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo returned status %d", models.ErrProviderFailure, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: yahoo decode: %v", models.ErrProviderFailure, err)
	}
	if chart.Chart.Error != nil {
		if strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
		}
		return nil, fmt.Errorf("%w: yahoo api error: %s", models.ErrProviderFailure, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
	}

	return &chart, nil
}

// GetQuote returns the current market snapshot for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	chart, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	meta := chart.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	previousClose := meta.PreviousClose
	if previousClose == 0 {
		previousClose = meta.ChartPreviousClose
	}
	if previousClose == 0 {
		// No previous session reported, show a flat change
		previousClose = price
	}

	change := price - previousClose
	changePercent := 0.0
	if previousClose > 0 {
		changePercent = (change / previousClose) * 100
	}

	asOf := time.Now()
	if meta.RegularMarketTime > 0 {
		asOf = time.Unix(meta.RegularMarketTime, 0)
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		DayHigh:       meta.RegularMarketDayHigh,
		DayLow:        meta.RegularMarketDayLow,
		Volume:        meta.RegularMarketVolume,
		AsOf:          asOf,
		Source:        "yahoo",
	}, nil
}

// GetHistory returns the OHLCV series for one of the enumerated ranges,
// ordered by time. Null bars (holidays, halts) are skipped.
func (c *Client) GetHistory(ctx context.Context, symbol, rng string) ([]models.Candle, error) {
	interval, err := models.RangeInterval(rng)
	if err != nil {
		return nil, err
	}

	chart, err := c.fetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no historical data for %s", models.ErrProviderFailure, symbol)
	}

	quote := result.Indicators.Quote[0]
	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		candle := models.Candle{
			Time:  time.Unix(ts, 0),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

// quoteSummary fmt/raw value pairs
type rawValue struct {
	Raw float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string   `json:"longName"`
				ShortName string   `json:"shortName"`
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE       rawValue `json:"trailingPE"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
				AverageVolume    rawValue `json:"averageVolume"`
				DividendYield    rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetFundamentals returns company profile and valuation metrics.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	u := fmt.Sprintf("%s/%s?modules=assetProfile,summaryDetail,price", c.SummaryURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo fetch: %v", models.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo read body: %v", models.ErrProviderFailure, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo returned status %d", models.ErrProviderFailure, resp.StatusCode)
	}

	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("%w: yahoo decode: %v", models.ErrProviderFailure, err)
	}
	if summary.QuoteSummary.Error != nil {
		if strings.EqualFold(summary.QuoteSummary.Error.Code, "Not Found") {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
		}
		return nil, fmt.Errorf("%w: yahoo api error: %s", models.ErrProviderFailure, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
	}

	result := summary.QuoteSummary.Result[0]
	company := result.Price.LongName
	if company == "" {
		company = result.Price.ShortName
	}
	if company == "" {
		company = symbol
	}

	return &models.Fundamentals{
		Symbol:        symbol,
		Company:       company,
		Sector:        result.AssetProfile.Sector,
		Industry:      result.AssetProfile.Industry,
		MarketCap:     int64(result.Price.MarketCap.Raw),
		PERatio:       result.SummaryDetail.TrailingPE.Raw,
		Week52High:    result.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Week52Low:     result.SummaryDetail.FiftyTwoWeekLow.Raw,
		AvgVolume:     int64(result.SummaryDetail.AverageVolume.Raw),
		DividendYield: result.SummaryDetail.DividendYield.Raw,
		FetchedAt:     time.Now(),
	}, nil
}
