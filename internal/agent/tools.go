package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"market-analyst/internal/charts"
	"market-analyst/internal/models"
	"market-analyst/internal/provider"
	"market-analyst/internal/report"
)

// tickerParams is the input schema of the single-ticker tools.
var tickerParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"ticker": {
			"type": "string",
			"description": "Stock ticker symbol (e.g., 'AAPL')"
		}
	},
	"required": ["ticker"]
}`)

// tickersParams is the input schema of the multi-ticker tools.
var tickersParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"tickers": {
			"type": "string",
			"description": "Comma-separated stock ticker symbols (e.g., 'AAPL,MSFT,GOOGL')"
		}
	},
	"required": ["tickers"]
}`)

// NewToolset builds the tool registry binding the provider and chart
// builder to the eight analysis tools.
func NewToolset(p provider.Provider, builder *charts.Builder, logger zerolog.Logger) *Registry {
	t := &toolset{
		provider: p,
		builder:  builder,
		log:      logger.With().Str("component", "tools").Logger(),
	}

	r := NewRegistry()
	r.MustRegister("get_stock_price",
		"Get current stock price and basic information. Input should be a stock ticker symbol (e.g., 'AAPL')",
		tickerParams, t.getStockPrice)
	r.MustRegister("get_stock_fundamentals",
		"Get detailed fundamental analysis including P/E ratios, profitability metrics, growth rates. Input should be a stock ticker.",
		tickerParams, t.getStockFundamentals)
	r.MustRegister("get_company_news",
		"Get recent news articles about a company. Input should be a stock ticker.",
		tickerParams, t.getCompanyNews)
	r.MustRegister("get_company_info",
		"Get company description, sector, industry, and business overview. Input should be a stock ticker.",
		tickerParams, t.getCompanyInfo)
	r.MustRegister("compare_stocks",
		"Compare multiple stocks side by side. Input should be comma-separated tickers (e.g., 'AAPL,MSFT,GOOGL')",
		tickersParams, t.compareStocks)
	r.MustRegister("plot_stock_price",
		"Create a candlestick price chart for a stock. Input: 'TICKER' or 'TICKER,PERIOD' where period is 1d,5d,1mo,3mo,6mo,1y,2y,5y,10y,ytd,max. Example: 'AAPL,1y' for Apple's 1-year chart.",
		tickerParams, t.plotStockPrice)
	r.MustRegister("plot_multiple_stocks",
		"Create a comparison chart showing multiple stocks' performance. Input: comma-separated tickers with optional period at end. Example: 'AAPL,MSFT,GOOGL,6mo' shows 6-month comparison.",
		tickersParams, t.plotMultipleStocks)
	r.MustRegister("plot_volume",
		"Create a trading volume chart for a stock. Input: 'TICKER' or 'TICKER,PERIOD'. Example: 'TSLA,3mo' for Tesla's 3-month volume.",
		tickerParams, t.plotVolume)
	return r
}

// toolset holds the dependencies shared by all tool handlers.
type toolset struct {
	provider provider.Provider
	builder  *charts.Builder
	log      zerolog.Logger
}

// stringParam extracts a required string argument. A missing or empty
// value is a dispatch fault, surfaced to the engine for one retry.
func stringParam(args json.RawMessage, key string) (string, error) {
	var params map[string]interface{}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	v, ok := params[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return strings.TrimSpace(v), nil
}

func (t *toolset) getStockPrice(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	ticker, err := stringParam(args, "ticker")
	if err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(ticker)

	info, err := t.provider.GetQuoteInfo(ctx, ticker)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error fetching price for %s: %v", ticker, err)}, nil
	}
	return &ToolResult{Text: report.Price(ticker, info)}, nil
}

func (t *toolset) getStockFundamentals(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	ticker, err := stringParam(args, "ticker")
	if err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(ticker)

	info, err := t.provider.GetQuoteInfo(ctx, ticker)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error fetching fundamentals for %s: %v", ticker, err)}, nil
	}
	return &ToolResult{Text: report.Fundamentals(ticker, info)}, nil
}

func (t *toolset) getCompanyNews(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	ticker, err := stringParam(args, "ticker")
	if err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(ticker)

	items, err := t.provider.GetNews(ctx, ticker)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error fetching news for %s: %v", ticker, err)}, nil
	}
	return &ToolResult{Text: report.NewsDigest(ticker, items)}, nil
}

func (t *toolset) getCompanyInfo(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	ticker, err := stringParam(args, "ticker")
	if err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(ticker)

	info, err := t.provider.GetQuoteInfo(ctx, ticker)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error fetching company info for %s: %v", ticker, err)}, nil
	}
	text, err := report.CompanyInfo(ticker, info)
	if err != nil {
		// The employee-count grouping fault surfaces as result text,
		// like any other fault at the tool boundary.
		return &ToolResult{Text: fmt.Sprintf("Error fetching company info for %s: %v", ticker, err)}, nil
	}
	return &ToolResult{Text: text}, nil
}

func (t *toolset) compareStocks(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	input, err := stringParam(args, "tickers")
	if err != nil {
		return nil, err
	}

	tickers := splitTickers(input)
	if len(tickers) < report.MinCompareTickers {
		// Validation precedes any provider call.
		return &ToolResult{Text: report.ComparisonValidationMessage}, nil
	}

	data := make(map[string]models.QuoteInfo, len(tickers))
	for _, ticker := range tickers {
		if _, done := data[ticker]; done {
			continue // duplicate column reuses the fetched record
		}
		info, err := t.provider.GetQuoteInfo(ctx, ticker)
		if err != nil {
			return &ToolResult{Text: fmt.Sprintf("Error comparing stocks: %v", err)}, nil
		}
		data[ticker] = info
	}
	return &ToolResult{Text: report.Comparison(tickers, data)}, nil
}

func (t *toolset) plotStockPrice(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	input, err := stringParam(args, "ticker")
	if err != nil {
		return nil, err
	}

	msg, artifact, err := t.builder.PricePlot(ctx, input)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error creating price chart: %v", err)}, nil
	}
	return &ToolResult{Text: msg, Artifact: artifact}, nil
}

func (t *toolset) plotMultipleStocks(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	input, err := stringParam(args, "tickers")
	if err != nil {
		return nil, err
	}

	msg, artifact, err := t.builder.MultiPlot(ctx, input)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error creating comparison chart: %v", err)}, nil
	}
	return &ToolResult{Text: msg, Artifact: artifact}, nil
}

func (t *toolset) plotVolume(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	input, err := stringParam(args, "ticker")
	if err != nil {
		return nil, err
	}

	msg, artifact, err := t.builder.VolumePlot(ctx, input)
	if err != nil {
		return &ToolResult{Text: fmt.Sprintf("Error creating volume chart: %v", err)}, nil
	}
	return &ToolResult{Text: msg, Artifact: artifact}, nil
}

// splitTickers parses a comma-separated ticker list, uppercased, with
// empty elements dropped. Duplicates are preserved.
func splitTickers(input string) []string {
	parts := strings.Split(input, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			tickers = append(tickers, strings.ToUpper(s))
		}
	}
	return tickers
}
