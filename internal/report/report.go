// Package report formats raw provider records into display text.
// Every formatter is a pure function of its inputs.
package report

import (
	"fmt"
	"strings"
	"time"

	"market-analyst/internal/models"
	"market-analyst/pkg/utils"
)

// Price formats the current price report for a ticker.
// Missing numerics default to 0; a zero previous close yields a 0%
// change rather than a division fault.
func Price(ticker string, info models.QuoteInfo) string {
	ticker = strings.ToUpper(ticker)

	current := info.Float("currentPrice", info.Float("regularMarketPrice", 0))
	prevClose := info.Float("previousClose", current)
	change := current - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	return fmt.Sprintf(`
%s (%s)
Current Price: $%.2f
Change: $%+.2f (%+.2f%%)
Market Cap: $%.2fB
52W Range: $%.2f - $%.2f
`,
		info.String("longName", ticker), ticker,
		current,
		change, changePct,
		info.Float("marketCap", 0)/1e9,
		info.Float("fiftyTwoWeekLow", 0), info.Float("fiftyTwoWeekHigh", 0))
}

// Fundamentals formats the fundamental analysis report for a ticker.
// Ratios render as literal "N/A" when absent; margins and growth rates
// default to 0 before the percent conversion.
func Fundamentals(ticker string, info models.QuoteInfo) string {
	ticker = strings.ToUpper(ticker)

	recommendation := strings.ToUpper(info.String("recommendationKey", "N/A"))

	return fmt.Sprintf(`
Fundamental Analysis for %s:

Valuation Metrics:
- P/E Ratio: %s
- Forward P/E: %s
- PEG Ratio: %s
- Price/Book: %s
- Price/Sales: %s

Profitability:
- Profit Margin: %.2f%%
- Operating Margin: %.2f%%
- ROE: %.2f%%
- ROA: %.2f%%

Growth:
- Revenue Growth: %.2f%%
- Earnings Growth: %.2f%%

Financial Health:
- Total Revenue: $%.2fB
- Free Cash Flow: $%.2fB
- Debt/Equity: %s
- Current Ratio: %s

Analyst Info:
- Recommendation: %s
- Target Price: $%s
`,
		ticker,
		numOrNA(info, "trailingPE"),
		numOrNA(info, "forwardPE"),
		numOrNA(info, "pegRatio"),
		numOrNA(info, "priceToBook"),
		numOrNA(info, "priceToSalesTrailing12Months"),
		pct(info, "profitMargins"),
		pct(info, "operatingMargins"),
		pct(info, "returnOnEquity"),
		pct(info, "returnOnAssets"),
		pct(info, "revenueGrowth"),
		pct(info, "earningsGrowth"),
		info.Float("totalRevenue", 0)/1e9,
		info.Float("freeCashflow", 0)/1e9,
		numOrNA(info, "debtToEquity"),
		numOrNA(info, "currentRatio"),
		recommendation,
		numOrNA(info, "targetMeanPrice"))
}

// CompanyInfo formats the company overview for a ticker. The employee
// count must be numeric for thousands grouping; a non-numeric
// placeholder propagates as a formatting fault for the tool boundary
// to report.
func CompanyInfo(ticker string, info models.QuoteInfo) (string, error) {
	ticker = strings.ToUpper(ticker)

	employees, err := formatEmployees(info["fullTimeEmployees"])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
Company Overview for %s:

Name: %s
Sector: %s
Industry: %s
Country: %s
Employees: %s

Business Summary:
%s

Website: %s
`,
		ticker,
		info.String("longName", ticker),
		info.String("sector", "N/A"),
		info.String("industry", "N/A"),
		info.String("country", "N/A"),
		employees,
		info.String("longBusinessSummary", "No description available"),
		info.String("website", "N/A")), nil
}

func formatEmployees(v interface{}) (string, error) {
	switch n := v.(type) {
	case float64:
		return utils.FormatWithCommas(int64(n)), nil
	case int:
		return utils.FormatWithCommas(int64(n)), nil
	case int64:
		return utils.FormatWithCommas(n), nil
	}
	return "", fmt.Errorf("cannot apply thousands grouping to employee count %v", v)
}

// NewsDigest formats the top five news items for a ticker. A zero
// publish time renders as the 1970 epoch date.
func NewsDigest(ticker string, items []models.NewsItem) string {
	ticker = strings.ToUpper(ticker)

	if len(items) == 0 {
		return fmt.Sprintf("No recent news found for %s", ticker)
	}
	if len(items) > 5 {
		items = items[:5]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recent News for %s:\n\n", ticker))
	for i, item := range items {
		published := time.Unix(item.PublishTime, 0)
		publisher := item.Publisher
		if publisher == "" {
			publisher = "Unknown"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, published.Format("2006-01-02"), item.Title))
		sb.WriteString(fmt.Sprintf("   Source: %s\n\n", publisher))
	}
	return sb.String()
}

// comparisonMetric is one row of the comparison table. The formatter
// reports ok=false when the value cannot be rendered, which displays
// as an N/A cell without failing the rest of the table.
type comparisonMetric struct {
	label  string
	key    string
	format func(v interface{}) (string, bool)
}

var comparisonMetrics = []comparisonMetric{
	{"Price", "currentPrice", func(v interface{}) (string, bool) {
		f, ok := asFloat(v)
		return fmt.Sprintf("$%.2f", f), ok
	}},
	{"Market Cap", "marketCap", func(v interface{}) (string, bool) {
		f, ok := asFloat(v)
		return fmt.Sprintf("$%.1fB", f/1e9), ok
	}},
	{"P/E Ratio", "trailingPE", func(v interface{}) (string, bool) {
		f, ok := asFloat(v)
		return fmt.Sprintf("%.2f", f), ok
	}},
	{"Profit Margin", "profitMargins", func(v interface{}) (string, bool) {
		f, ok := asFloat(v)
		return fmt.Sprintf("%.2f%%", f*100), ok
	}},
	{"Revenue Growth", "revenueGrowth", func(v interface{}) (string, bool) {
		f, ok := asFloat(v)
		return fmt.Sprintf("%.2f%%", f*100), ok
	}},
	{"ROE", "returnOnEquity", func(v interface{}) (string, bool) {
		f, ok := asFloat(v)
		return fmt.Sprintf("%.2f%%", f*100), ok
	}},
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// MinCompareTickers is the smallest ticker list Comparison accepts.
const MinCompareTickers = 2

// ComparisonValidationMessage is returned for lists of fewer than two
// tickers; callers must not issue provider calls in that case.
const ComparisonValidationMessage = "Please provide at least 2 tickers separated by commas"

// Comparison formats a side-by-side metric table for two or more
// tickers. Columns follow the caller-supplied order, duplicates
// included; any unrenderable cell shows N/A without affecting the
// rest of its row.
func Comparison(tickers []string, data map[string]models.QuoteInfo) string {
	if len(tickers) < MinCompareTickers {
		return ComparisonValidationMessage
	}

	var sb strings.Builder
	sb.WriteString("Stock Comparison:\n\n")

	sb.WriteString(fmt.Sprintf("%-20s ", "Metric"))
	cells := make([]string, 0, len(tickers))
	for _, t := range tickers {
		cells = append(cells, fmt.Sprintf("%12s", strings.ToUpper(t)))
	}
	sb.WriteString(strings.Join(cells, " "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 20+13*len(tickers)))
	sb.WriteString("\n")

	for _, metric := range comparisonMetrics {
		sb.WriteString(fmt.Sprintf("%-20s ", metric.label))
		for _, t := range tickers {
			cell := "N/A"
			if info, ok := data[strings.ToUpper(t)]; ok {
				if v, present := info[metric.key]; present {
					if formatted, valid := metric.format(v); valid {
						cell = formatted
					}
				}
			}
			sb.WriteString(fmt.Sprintf("%12s ", cell))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
