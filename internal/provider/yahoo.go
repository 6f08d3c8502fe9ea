package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	"market-analyst/internal/config"
	apperrors "market-analyst/internal/errors"
	"market-analyst/internal/models"
)

// YahooClient implements Provider against the Yahoo Finance query API.
type YahooClient struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(cfg config.ProviderConfig, logger zerolog.Logger) *YahooClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &YahooClient{
		http: client,
		log:  logger.With().Str("component", "yahoo").Logger(),
	}
}

// chartParams are the query parameters of the v8 chart endpoint.
type chartParams struct {
	Range    string `url:"range"`
	Interval string `url:"interval"`
}

// searchParams are the query parameters of the v1 search endpoint.
type searchParams struct {
	Query       string `url:"q"`
	NewsCount   int    `url:"newsCount"`
	QuotesCount int    `url:"quotesCount"`
}

// summaryParams are the query parameters of the v10 quoteSummary endpoint.
type summaryParams struct {
	Modules string `url:"modules"`
}

// chartResponse is the v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// summaryResponse is the v10 quoteSummary payload. Field values are
// either scalars or {"raw": x, "fmt": "..."} wrappers.
type summaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]interface{} `json:"result"`
		Error  interface{}                         `json:"error"`
	} `json:"quoteSummary"`
}

// searchResponse is the v1 search payload.
type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// summaryModules selects the quoteSummary modules carrying every field
// the report formatters read.
const summaryModules = "price,summaryDetail,financialData,defaultKeyStatistics,assetProfile"

// GetQuoteInfo fetches and flattens the quote summary for a ticker.
func (c *YahooClient) GetQuoteInfo(ctx context.Context, ticker string) (models.QuoteInfo, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	vals, err := query.Values(summaryParams{Modules: summaryModules})
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "quote", err)
	}

	var out summaryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(vals).
		SetResult(&out).
		Get("/v10/finance/quoteSummary/" + ticker)
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "quote", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewProviderError(ticker, "quote",
			fmt.Errorf("status %s", resp.Status()))
	}
	if len(out.QuoteSummary.Result) == 0 {
		return nil, apperrors.NewProviderError(ticker, "quote", apperrors.ErrNoData)
	}

	info := models.QuoteInfo{}
	for _, module := range out.QuoteSummary.Result[0] {
		for field, value := range module {
			if flat := unwrapRaw(value); flat != nil {
				info[field] = flat
			}
		}
	}

	c.log.Debug().Str("ticker", ticker).Int("fields", len(info)).Msg("quote summary fetched")
	return info, nil
}

// unwrapRaw unwraps Yahoo's {"raw": x, "fmt": "..."} value containers,
// passing scalars through untouched.
func unwrapRaw(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	if raw, ok := m["raw"]; ok {
		return raw
	}
	return nil
}

// GetNews fetches recent news items for a ticker.
func (c *YahooClient) GetNews(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	vals, err := query.Values(searchParams{Query: ticker, NewsCount: 10})
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "news", err)
	}

	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(vals).
		SetResult(&out).
		Get("/v1/finance/search")
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "news", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewProviderError(ticker, "news",
			fmt.Errorf("status %s", resp.Status()))
	}

	items := make([]models.NewsItem, 0, len(out.News))
	for _, n := range out.News {
		items = append(items, models.NewsItem{
			Title:       n.Title,
			Publisher:   n.Publisher,
			PublishTime: n.ProviderPublishTime,
		})
	}
	return items, nil
}

// GetHistory fetches daily OHLCV candles for a ticker over a period.
func (c *YahooClient) GetHistory(ctx context.Context, ticker string, period models.Period) ([]models.Candle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	vals, err := query.Values(chartParams{Range: string(period), Interval: "1d"})
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "history", err)
	}

	var out chartResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(vals).
		SetResult(&out).
		Get("/v8/finance/chart/" + ticker)
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "history", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewProviderError(ticker, "history",
			fmt.Errorf("status %s", resp.Status()))
	}
	if len(out.Chart.Result) == 0 {
		return nil, apperrors.NewProviderError(ticker, "history", apperrors.ErrNoData)
	}

	result := out.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		candles = append(candles, models.Candle{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: atInt(quote.Volume, i),
		})
	}

	c.log.Debug().Str("ticker", ticker).Str("period", string(period)).
		Int("candles", len(candles)).Msg("history fetched")
	return candles, nil
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func atInt(vals []int64, i int) int64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}
