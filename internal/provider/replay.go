package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "market-analyst/internal/errors"
	"market-analyst/internal/models"
)

// csvCandle is the CSV row layout used for offline history files and
// the data download command.
type csvCandle struct {
	Date   string  `csv:"date"` // 2006-01-02
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

// ReplayProvider serves market data from local files instead of the
// network. History comes from <dir>/<TICKER>_<period>.csv, quote
// fields from an optional <dir>/quotes.json keyed by ticker.
type ReplayProvider struct {
	dir string
}

// NewReplayProvider creates a provider backed by CSV files in dir.
func NewReplayProvider(dir string) *ReplayProvider {
	return &ReplayProvider{dir: dir}
}

// GetQuoteInfo loads quote fields for a ticker from quotes.json.
func (p *ReplayProvider) GetQuoteInfo(ctx context.Context, ticker string) (models.QuoteInfo, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	data, err := os.ReadFile(filepath.Join(p.dir, "quotes.json"))
	if err != nil {
		return nil, apperrors.NewProviderError(ticker, "quote", err)
	}

	var quotes map[string]models.QuoteInfo
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, apperrors.NewProviderError(ticker, "quote", err)
	}

	info, ok := quotes[ticker]
	if !ok {
		return nil, apperrors.NewProviderError(ticker, "quote", apperrors.ErrNoData)
	}
	return info, nil
}

// GetNews always reports no data; offline replay carries no news feed.
func (p *ReplayProvider) GetNews(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	return nil, nil
}

// GetHistory loads candles for a ticker and period from CSV.
func (p *ReplayProvider) GetHistory(ctx context.Context, ticker string, period models.Period) ([]models.Candle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	path := filepath.Join(p.dir, fmt.Sprintf("%s_%s.csv", ticker, period))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no file means empty history, not a fault
		}
		return nil, apperrors.NewProviderError(ticker, "history", err)
	}
	defer f.Close()

	var rows []*csvCandle
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, apperrors.NewProviderError(ticker, "history", err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, apperrors.NewProviderError(ticker, "history",
				fmt.Errorf("bad date %q: %w", r.Date, err))
		}
		candles = append(candles, models.Candle{
			Date:   date,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return candles, nil
}

// WriteCandlesCSV writes candles as CSV to w, in the same layout the
// replay provider reads.
func WriteCandlesCSV(w io.Writer, candles []models.Candle) error {
	rows := make([]*csvCandle, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, &csvCandle{
			Date:   c.Date.Format("2006-01-02"),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return gocsv.Marshal(rows, w)
}
