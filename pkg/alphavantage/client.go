package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stocktracker/internal/models"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

type Client struct {
	// BaseURL defaults to the public Alpha Vantage endpoint and is
	// overridable for tests.
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "alphavantage" }

func (c *Client) get(ctx context.Context, function, symbol string) ([]byte, error) {
	u := fmt.Sprintf("%s?function=%s&symbol=%s&apikey=%s", c.BaseURL, function, url.QueryEscape(symbol), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: alpha vantage fetch: %v", models.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: alpha vantage returned status %d", models.ErrProviderFailure, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// GetQuote returns the current market snapshot via the GLOBAL_QUOTE function.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	body, err := c.get(ctx, "GLOBAL_QUOTE", symbol)
	if err != nil {
		return nil, err
	}

	var quoteResp globalQuoteResponse
	if err := json.Unmarshal(body, &quoteResp); err != nil {
		return nil, fmt.Errorf("%w: alpha vantage decode: %v", models.ErrProviderFailure, err)
	}

	if quoteResp.GlobalQuote.Symbol == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
	}

	price, _ := strconv.ParseFloat(quoteResp.GlobalQuote.Price, 64)
	change, _ := strconv.ParseFloat(quoteResp.GlobalQuote.Change, 64)
	dayHigh, _ := strconv.ParseFloat(quoteResp.GlobalQuote.High, 64)
	dayLow, _ := strconv.ParseFloat(quoteResp.GlobalQuote.Low, 64)
	volume, _ := strconv.ParseInt(quoteResp.GlobalQuote.Volume, 10, 64)

	changePercent := 0.0
	if price-change > 0 {
		changePercent = (change / (price - change)) * 100
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		DayHigh:       dayHigh,
		DayLow:        dayLow,
		Volume:        volume,
		AsOf:          time.Now(),
		Source:        "alphavantage",
	}, nil
}

type overviewResponse struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	Week52High           string `json:"52WeekHigh"`
	Week52Low            string `json:"52WeekLow"`
	DividendYield        string `json:"DividendYield"`
}

// GetFundamentals returns company profile metrics via the OVERVIEW function.
// Used as the fallback when Yahoo has no profile for the symbol.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	body, err := c.get(ctx, "OVERVIEW", symbol)
	if err != nil {
		return nil, err
	}

	var overview overviewResponse
	if err := json.Unmarshal(body, &overview); err != nil {
		return nil, fmt.Errorf("%w: alpha vantage decode: %v", models.ErrProviderFailure, err)
	}

	if overview.Symbol == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, symbol)
	}

	marketCap, _ := strconv.ParseInt(overview.MarketCapitalization, 10, 64)
	peRatio, _ := strconv.ParseFloat(overview.PERatio, 64)
	week52High, _ := strconv.ParseFloat(overview.Week52High, 64)
	week52Low, _ := strconv.ParseFloat(overview.Week52Low, 64)
	dividendYield, _ := strconv.ParseFloat(overview.DividendYield, 64)

	company := overview.Name
	if company == "" {
		company = symbol
	}

	return &models.Fundamentals{
		Symbol:        symbol,
		Company:       company,
		Sector:        overview.Sector,
		Industry:      overview.Industry,
		MarketCap:     marketCap,
		PERatio:       peRatio,
		Week52High:    week52High,
		Week52Low:     week52Low,
		DividendYield: dividendYield,
		FetchedAt:     time.Now(),
	}, nil
}
