package models

import (
	"time"
)

// QuoteSource identifies which provider produced a price quote.
type QuoteSource string

const (
	SourceGoldAPI     QuoteSource = "goldapi"
	SourceCoinGecko   QuoteSource = "coingecko"
	SourceSynthesized QuoteSource = "synthesized"
)

// PriceQuote is a snapshot of the gold spot price and its 24h movement.
type PriceQuote struct {
	CurrentPrice  float64     `json:"current_price"`
	Currency      string      `json:"currency"`
	Unit          string      `json:"unit"`
	Change24h     float64     `json:"change_24h"`
	ChangePercent float64     `json:"change_percent"`
	High24h       float64     `json:"high_24h"`
	Low24h        float64     `json:"low_24h"`
	LastUpdated   time.Time   `json:"last_updated"`
	Source        QuoteSource `json:"source"`
}

// SearchResult is a news snippet surfaced as supplementary context.
type SearchResult struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// ResponseKind classifies how a chat response was produced.
type ResponseKind string

const (
	KindRuleBased  ResponseKind = "rule_based"
	KindGenerative ResponseKind = "generative"
	KindCached     ResponseKind = "cached"
	KindFallback   ResponseKind = "fallback"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response      string         `json:"response"`
	GoldPriceData *PriceQuote    `json:"gold_price_data,omitempty"`
	Sources       []SearchResult `json:"sources,omitempty"`
	Timestamp     string         `json:"timestamp"`
	ResponseType  ResponseKind   `json:"response_type"`
}

// PurchaseRequest is the body of POST /purchase.
type PurchaseRequest struct {
	UserName        string  `json:"user_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	GoldType        string  `json:"gold_type"`
	Quantity        float64 `json:"quantity"`
	Budget          float64 `json:"budget,omitempty"`
	DeliveryAddress string  `json:"delivery_address"`
}

// PurchaseResponse is the body returned by POST /purchase.
type PurchaseResponse struct {
	PurchaseID    string  `json:"purchase_id"`
	RedirectURL   string  `json:"redirect_url"`
	EstimatedCost float64 `json:"estimated_cost"`
	GoldType      string  `json:"gold_type"`
	Quantity      float64 `json:"quantity"`
	Message       string  `json:"message"`
}

// CacheEntry is a cached chat response.
type CacheEntry struct {
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is the JSON error envelope used by all endpoints.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
