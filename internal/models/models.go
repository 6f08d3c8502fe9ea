// Package models defines the core data types shared across the application.
package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a conversation: a user utterance or the
// assistant's response. History is an append-only ordered sequence
// of turns within a session.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// QuoteInfo is the raw field map returned by the market-data provider
// for a ticker. All fields are optional; formatters apply their own
// per-field defaults.
type QuoteInfo map[string]interface{}

// Float returns the numeric value for key, or def when the field is
// absent or not numeric.
func (q QuoteInfo) Float(key string, def float64) float64 {
	switch v := q[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// String returns the string value for key, or def when absent.
func (q QuoteInfo) String(key, def string) string {
	if v, ok := q[key].(string); ok {
		return v
	}
	return def
}

// Candle represents one period of OHLCV price history.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// NewsItem is one news article about a company.
type NewsItem struct {
	Title       string
	Publisher   string
	PublishTime int64 // unix seconds; 0 when the provider omits it
}
