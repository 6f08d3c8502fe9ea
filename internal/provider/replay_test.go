package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"market-analyst/internal/models"
)

func testCandles() []models.Candle {
	return []models.Candle{
		{
			Date:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			Open:   192.9, High: 194.99, Low: 192.52, Close: 194.03,
			Volume: 50080500,
		},
		{
			Date:   time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
			Open:   194.64, High: 195.32, Low: 193.03, Close: 194.35,
			Volume: 47471400,
		},
	}
}

func TestReplayHistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "AAPL_6mo.csv"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteCandlesCSV(f, testCandles()); err != nil {
		t.Fatalf("WriteCandlesCSV: %v", err)
	}
	f.Close()

	p := NewReplayProvider(dir)
	got, err := p.GetHistory(context.Background(), "aapl", models.Period6M)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candles, want 2", len(got))
	}
	if !got[0].Date.Equal(testCandles()[0].Date) {
		t.Errorf("date = %v", got[0].Date)
	}
	if got[0].Close != 194.03 || got[1].Volume != 47471400 {
		t.Errorf("candles = %+v", got)
	}
}

func TestReplayHistoryMissingFile(t *testing.T) {
	p := NewReplayProvider(t.TempDir())

	got, err := p.GetHistory(context.Background(), "XYZ", models.Period6M)
	if err != nil {
		t.Fatalf("missing file must mean empty history, got error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candles", len(got))
	}
}

func TestReplayHistoryPeriodSelectsFile(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "AAPL_1y.csv"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteCandlesCSV(f, testCandles()); err != nil {
		t.Fatalf("WriteCandlesCSV: %v", err)
	}
	f.Close()

	p := NewReplayProvider(dir)

	got, err := p.GetHistory(context.Background(), "AAPL", models.Period1Y)
	if err != nil || len(got) != 2 {
		t.Errorf("1y file should be served: %v, %d candles", err, len(got))
	}

	// A different period has no file, so history is empty.
	got, err = p.GetHistory(context.Background(), "AAPL", models.Period3M)
	if err != nil || len(got) != 0 {
		t.Errorf("3mo should be empty: %v, %d candles", err, len(got))
	}
}

func TestReplayQuoteInfo(t *testing.T) {
	dir := t.TempDir()
	quotes := `{"AAPL": {"longName": "Apple Inc.", "currentPrice": 195.5}}`
	if err := os.WriteFile(filepath.Join(dir, "quotes.json"), []byte(quotes), 0644); err != nil {
		t.Fatalf("write quotes: %v", err)
	}

	p := NewReplayProvider(dir)

	info, err := p.GetQuoteInfo(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetQuoteInfo: %v", err)
	}
	if info.String("longName", "") != "Apple Inc." {
		t.Errorf("longName = %q", info.String("longName", ""))
	}
	if info.Float("currentPrice", 0) != 195.5 {
		t.Errorf("currentPrice = %v", info.Float("currentPrice", 0))
	}

	if _, err := p.GetQuoteInfo(context.Background(), "MSFT"); err == nil {
		t.Error("unknown ticker must fail")
	}
}

func TestReplayQuoteInfoNoFile(t *testing.T) {
	p := NewReplayProvider(t.TempDir())
	if _, err := p.GetQuoteInfo(context.Background(), "AAPL"); err == nil {
		t.Error("missing quotes.json must fail")
	}
}

func TestReplayNews(t *testing.T) {
	p := NewReplayProvider(t.TempDir())
	items, err := p.GetNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("offline news should be empty, got %d", len(items))
	}
}
