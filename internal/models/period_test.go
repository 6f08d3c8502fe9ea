package models

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestValidPeriod(t *testing.T) {
	for _, p := range Periods {
		if !ValidPeriod(string(p)) {
			t.Errorf("ValidPeriod(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "7mo", "1w", "1Y", "6MO", "year", "max ", "0d"}
	for _, s := range invalid {
		if ValidPeriod(s) {
			t.Errorf("ValidPeriod(%q) = true, want false", s)
		}
	}
}

func TestSplitSymbolsPeriod(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		def        Period
		wantSyms   []string
		wantPeriod Period
	}{
		{
			name:       "single ticker uses default",
			input:      "AAPL",
			def:        Period6M,
			wantSyms:   []string{"AAPL"},
			wantPeriod: Period6M,
		},
		{
			name:       "trailing period token",
			input:      "AAPL,1y",
			def:        Period6M,
			wantSyms:   []string{"AAPL"},
			wantPeriod: Period1Y,
		},
		{
			name:       "period token case insensitive",
			input:      "aapl,1Y",
			def:        Period6M,
			wantSyms:   []string{"AAPL"},
			wantPeriod: Period1Y,
		},
		{
			name:       "invalid trailing token stays a ticker",
			input:      "AAPL,XYZ",
			def:        Period6M,
			wantSyms:   []string{"AAPL", "XYZ"},
			wantPeriod: Period6M,
		},
		{
			name:       "multiple tickers with period",
			input:      "AAPL,MSFT,GOOGL,6mo",
			def:        Period3M,
			wantSyms:   []string{"AAPL", "MSFT", "GOOGL"},
			wantPeriod: Period6M,
		},
		{
			name:       "whitespace and empty elements dropped",
			input:      " aapl , ,msft , 3mo ",
			def:        Period6M,
			wantSyms:   []string{"AAPL", "MSFT"},
			wantPeriod: Period3M,
		},
		{
			name:       "only a period token leaves no tickers",
			input:      "1y",
			def:        Period6M,
			wantSyms:   []string{},
			wantPeriod: Period1Y,
		},
		{
			name:       "empty input",
			input:      "",
			def:        Period6M,
			wantSyms:   []string{},
			wantPeriod: Period6M,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syms, period := SplitSymbolsPeriod(tt.input, tt.def)
			if !reflect.DeepEqual(syms, tt.wantSyms) {
				t.Errorf("symbols = %v, want %v", syms, tt.wantSyms)
			}
			if period != tt.wantPeriod {
				t.Errorf("period = %v, want %v", period, tt.wantPeriod)
			}
		})
	}
}

// Property: for any ticker list, appending a valid period token yields
// that period and leaves the ticker list itself unchanged.
func TestProperty_SplitSymbolsPeriodTrailingToken(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	tickerGen := gen.RegexMatch(`[A-Z]{1,5}`).SuchThat(func(s string) bool {
		// A ticker that collides with a period token would be consumed.
		return !ValidPeriod(strings.ToLower(s))
	})

	properties.Property("trailing period token is consumed, tickers preserved", prop.ForAll(
		func(tickers []string, periodIdx int) bool {
			period := Periods[periodIdx%len(Periods)]
			input := strings.Join(append(append([]string{}, tickers...), string(period)), ",")

			syms, got := SplitSymbolsPeriod(input, Period6M)
			if got != period {
				t.Logf("period = %v, want %v (input %q)", got, period, input)
				return false
			}
			if len(syms) != len(tickers) {
				return false
			}
			for i := range syms {
				if syms[i] != tickers[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(tickerGen),
		gen.IntRange(0, len(Periods)-1),
	))

	properties.Property("symbols are always uppercase", prop.ForAll(
		func(tickers []string) bool {
			input := strings.Join(tickers, ",")
			syms, _ := SplitSymbolsPeriod(input, Period6M)
			for _, s := range syms {
				if s != strings.ToUpper(s) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.RegexMatch(`[a-zA-Z]{1,5}`)),
	))

	properties.TestingRun(t)
}
