package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"market-analyst/internal/config"
	apperrors "market-analyst/internal/errors"
	"market-analyst/internal/models"
)

func newTestYahoo(t *testing.T, handler http.Handler) *YahooClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewYahooClient(config.ProviderConfig{
		BaseURL:   server.URL,
		UserAgent: "test",
	}, zerolog.Nop())
}

const summaryBody = `{
	"quoteSummary": {
		"result": [{
			"price": {
				"longName": "Apple Inc.",
				"marketCap": {"raw": 3000000000000, "fmt": "3T"}
			},
			"financialData": {
				"currentPrice": {"raw": 195.5, "fmt": "195.50"},
				"recommendationKey": "buy",
				"numberOfAnalystOpinions": {}
			}
		}],
		"error": null
	}
}`

func TestYahooGetQuoteInfo(t *testing.T) {
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.RawQuery, "modules=") {
			t.Errorf("missing modules param: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(summaryBody))
	}))

	info, err := client.GetQuoteInfo(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetQuoteInfo: %v", err)
	}

	// Raw-wrapped and scalar fields flatten into one record.
	if info.String("longName", "") != "Apple Inc." {
		t.Errorf("longName = %q", info.String("longName", ""))
	}
	if info.Float("currentPrice", 0) != 195.5 {
		t.Errorf("currentPrice = %v", info.Float("currentPrice", 0))
	}
	if info.String("recommendationKey", "") != "buy" {
		t.Errorf("recommendationKey = %q", info.String("recommendationKey", ""))
	}
	// Empty wrapper objects are dropped rather than stored as maps.
	if _, present := info["numberOfAnalystOpinions"]; present {
		t.Error("empty wrapper should be dropped")
	}
}

func TestYahooGetQuoteInfoNoResult(t *testing.T) {
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
	}))

	_, err := client.GetQuoteInfo(context.Background(), "ZZZZ")
	if !apperrors.Is(err, apperrors.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}

	var pe *apperrors.ProviderError
	if !apperrors.As(err, &pe) || pe.Ticker != "ZZZZ" || pe.Op != "quote" {
		t.Errorf("provider error = %+v", pe)
	}
}

func TestYahooGetQuoteInfoHTTPError(t *testing.T) {
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	if _, err := client.GetQuoteInfo(context.Background(), "AAPL"); err == nil {
		t.Error("HTTP errors must propagate")
	}
}

func TestYahooGetNews(t *testing.T) {
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "TSLA" {
			t.Errorf("q = %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"news": [
				{"title": "Tesla expands", "publisher": "Reuters", "providerPublishTime": 1717243200},
				{"title": "No time", "publisher": ""}
			]
		}`))
	}))

	items, err := client.GetNews(context.Background(), "tsla")
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Title != "Tesla expands" || items[0].Publisher != "Reuters" || items[0].PublishTime != 1717243200 {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].PublishTime != 0 {
		t.Errorf("missing publish time should stay 0, got %d", items[1].PublishTime)
	}
}

func TestYahooGetHistory(t *testing.T) {
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("range") != "1y" || q.Get("interval") != "1d" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1717372800, 1717459200],
					"indicators": {
						"quote": [{
							"open": [192.9, 194.64],
							"high": [194.99, 195.32],
							"low": [192.52, 193.03],
							"close": [194.03, 194.35],
							"volume": [50080500, 47471400]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))

	candles, err := client.GetHistory(context.Background(), "aapl", models.Period1Y)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles", len(candles))
	}
	if candles[0].Close != 194.03 || candles[0].Volume != 50080500 {
		t.Errorf("candles[0] = %+v", candles[0])
	}
	if got := candles[0].Date.UTC().Format("2006-01-02"); got != "2024-06-03" {
		t.Errorf("date = %s", got)
	}
}

func TestYahooGetHistoryRaggedArrays(t *testing.T) {
	// Yahoo sometimes returns shorter open/high/low arrays than
	// timestamps; missing positions fill with zero.
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1717372800, 1717459200],
					"indicators": {
						"quote": [{
							"open": [192.9],
							"high": [194.99],
							"low": [192.52],
							"close": [194.03, 194.35],
							"volume": [50080500]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))

	candles, err := client.GetHistory(context.Background(), "AAPL", models.Period6M)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles", len(candles))
	}
	if candles[1].Open != 0 || candles[1].Volume != 0 {
		t.Errorf("ragged positions should zero-fill: %+v", candles[1])
	}
	if candles[1].Close != 194.35 {
		t.Errorf("close = %v", candles[1].Close)
	}
}

func TestYahooGetHistoryNoResult(t *testing.T) {
	client := newTestYahoo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart": {"result": [], "error": "Not Found"}}`))
	}))

	_, err := client.GetHistory(context.Background(), "ZZZZ", models.Period6M)
	if !apperrors.Is(err, apperrors.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}
