// Package provider supplies market data from external sources.
package provider

import (
	"context"

	"market-analyst/internal/models"
)

// Provider defines the interface for market-data retrieval.
// An unknown ticker surfaces as a provider error from the backing
// source, never as a validation error here.
type Provider interface {
	// GetQuoteInfo returns the raw field map for a ticker (price,
	// valuation, profitability, company profile fields).
	GetQuoteInfo(ctx context.Context, ticker string) (models.QuoteInfo, error)

	// GetNews returns recent news items for a ticker, newest first.
	GetNews(ctx context.Context, ticker string) ([]models.NewsItem, error)

	// GetHistory returns daily OHLCV candles for the given lookback period.
	GetHistory(ctx context.Context, ticker string, period models.Period) ([]models.Candle, error)
}
