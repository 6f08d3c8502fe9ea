package models

import "strings"

// Period is a lookback window for historical price queries.
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1M  Period = "1mo"
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// Periods lists every valid period token in display order.
var Periods = []Period{
	Period1D, Period5D, Period1M, Period3M, Period6M,
	Period1Y, Period2Y, Period5Y, Period10Y, PeriodYTD, PeriodMax,
}

// ValidPeriod reports whether s is a recognized period token.
func ValidPeriod(s string) bool {
	for _, p := range Periods {
		if string(p) == s {
			return true
		}
	}
	return false
}

// SplitSymbolsPeriod parses a comma-separated ticker list with an
// optional trailing period token. The trailing element is treated as
// the period only when it matches the period enumeration; anything
// else stays in the ticker list. Tickers are uppercased; empty
// elements are dropped.
func SplitSymbolsPeriod(input string, def Period) ([]string, Period) {
	parts := strings.Split(input, ",")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			trimmed = append(trimmed, s)
		}
	}

	period := def
	if n := len(trimmed); n > 0 && ValidPeriod(strings.ToLower(trimmed[n-1])) {
		period = Period(strings.ToLower(trimmed[n-1]))
		trimmed = trimmed[:n-1]
	}

	symbols := make([]string, 0, len(trimmed))
	for _, t := range trimmed {
		symbols = append(symbols, strings.ToUpper(t))
	}
	return symbols, period
}
