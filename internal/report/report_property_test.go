package report

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"market-analyst/internal/models"
)

// Property: for any ticker list of two or more, the comparison table
// has one column per ticker in input order, one row per metric, and a
// divider sized to the column count. Tickers absent from the data map
// render as N/A cells without disturbing the table shape.
func TestProperty_ComparisonTableShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	tickerGen := gen.RegexMatch(`[A-Z]{1,5}`)

	properties.Property("table shape tracks ticker count", prop.ForAll(
		func(tickers []string) bool {
			if len(tickers) < MinCompareTickers {
				return Comparison(tickers, nil) == ComparisonValidationMessage
			}

			data := map[string]models.QuoteInfo{}
			for i, tk := range tickers {
				if i%2 == 0 {
					data[tk] = models.QuoteInfo{"currentPrice": 100.0 + float64(i)}
				}
			}

			got := Comparison(tickers, data)
			lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

			if len(lines) != 4+len(comparisonMetrics) {
				t.Logf("line count %d for %d tickers", len(lines), len(tickers))
				return false
			}

			header := lines[2]
			pos := -1
			for _, tk := range tickers {
				next := strings.Index(header[pos+1:], tk)
				if next < 0 {
					t.Logf("ticker %s missing or out of order in header %q", tk, header)
					return false
				}
				pos += 1 + next
			}

			if lines[3] != strings.Repeat("-", 20+13*len(tickers)) {
				t.Logf("divider width %d for %d tickers", len(lines[3]), len(tickers))
				return false
			}

			// Every metric row carries exactly one cell per ticker.
			for _, line := range lines[4:] {
				if len(line) < 20 {
					return false
				}
				cells := strings.Fields(line[20:])
				if len(cells) != len(tickers) {
					t.Logf("row %q has %d cells, want %d", line, len(cells), len(tickers))
					return false
				}
			}
			return true
		},
		gen.SliceOf(tickerGen),
	))

	properties.TestingRun(t)
}

// Property: missing numeric fields never produce Inf or NaN anywhere
// in the price report.
func TestProperty_PriceReportIsFinite(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("price report stays finite", prop.ForAll(
		func(current, prev float64, includePrev bool) bool {
			info := models.QuoteInfo{"currentPrice": current}
			if includePrev {
				info["previousClose"] = prev
			}
			got := Price("XYZ", info)
			return !strings.Contains(got, "Inf") && !strings.Contains(got, "NaN")
		},
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e6),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
