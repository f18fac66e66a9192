package models

import "time"

// Quote represents the current market snapshot for a ticker
type Quote struct {
	Symbol        string    `json:"symbol" firestore:"symbol"`
	Price         float64   `json:"price" firestore:"price"`
	Change        float64   `json:"change" firestore:"change"`
	ChangePercent float64   `json:"changePercent" firestore:"changePercent"`
	DayHigh       float64   `json:"dayHigh" firestore:"dayHigh"`
	DayLow        float64   `json:"dayLow" firestore:"dayLow"`
	Volume        int64     `json:"volume" firestore:"volume"`
	AsOf          time.Time `json:"asOf" firestore:"asOf"`
	Source        string    `json:"source" firestore:"source"` // "yahoo" or "alphavantage"
}

// Candle is a single OHLCV bar of a historical series
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Fundamentals holds descriptive metrics sourced verbatim from the provider.
// Zero values mean the provider did not report the metric.
type Fundamentals struct {
	Symbol        string    `json:"symbol" firestore:"symbol"`
	Company       string    `json:"company" firestore:"company"`
	Sector        string    `json:"sector" firestore:"sector"`
	Industry      string    `json:"industry" firestore:"industry"`
	MarketCap     int64     `json:"marketCap" firestore:"marketCap"`
	PERatio       float64   `json:"peRatio" firestore:"peRatio"`
	Week52High    float64   `json:"week52High" firestore:"week52High"`
	Week52Low     float64   `json:"week52Low" firestore:"week52Low"`
	AvgVolume     int64     `json:"avgVolume" firestore:"avgVolume"`
	DividendYield float64   `json:"dividendYield" firestore:"dividendYield"`
	FetchedAt     time.Time `json:"fetchedAt" firestore:"fetchedAt"`
}

// StockDetail combines the quote and the fundamentals for one ticker.
// Fundamentals may be nil when the provider has no profile for the symbol.
type StockDetail struct {
	Quote        *Quote        `json:"quote"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`
}

// AnalyzeRequest selects one of the canned analysis modes
type AnalyzeRequest struct {
	Mode string `json:"mode"` // "performance", "insights" or "technical"
}

// AnalyzeResponse carries the generated commentary
type AnalyzeResponse struct {
	Symbol      string    `json:"symbol"`
	Mode        string    `json:"mode"`
	Analysis    string    `json:"analysis"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ChatMessage is a single turn in a conversation
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. SessionID is
// optional; when empty a new session is created.
type ChatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
}

// ChatResponse is the reply from the AI chat
type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
