package charts

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog"

	"market-analyst/internal/models"
	"market-analyst/internal/provider"
	"market-analyst/pkg/utils"
)

// Default lookback periods per chart type.
const (
	DefaultPricePeriod  = models.Period6M
	DefaultMultiPeriod  = models.Period6M
	DefaultVolumePeriod = models.Period3M
)

// Builder creates chart artifacts from provider history.
type Builder struct {
	provider provider.Provider
	log      zerolog.Logger
}

// NewBuilder creates a chart builder backed by the given provider.
func NewBuilder(p provider.Provider, logger zerolog.Logger) *Builder {
	return &Builder{
		provider: p,
		log:      logger.With().Str("component", "charts").Logger(),
	}
}

// PricePlot builds a candlestick chart for one ticker. The input is a
// ticker with an optional trailing period token. Empty history yields
// a message and no artifact.
func (b *Builder) PricePlot(ctx context.Context, input string) (string, *Artifact, error) {
	symbols, period := models.SplitSymbolsPeriod(input, DefaultPricePeriod)
	if len(symbols) == 0 {
		return "", nil, fmt.Errorf("ticker is required")
	}
	ticker := symbols[0]

	hist, err := b.provider.GetHistory(ctx, ticker, period)
	if err != nil {
		return "", nil, err
	}
	if len(hist) == 0 {
		return fmt.Sprintf("No price data found for %s", ticker), nil, nil
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s Stock Price - %s", ticker, period)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Price (USD)", Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
	)

	dates := make([]string, 0, len(hist))
	data := make([]opts.KlineData, 0, len(hist))
	for _, c := range hist {
		dates = append(dates, c.Date.Format("2006-01-02"))
		data = append(data, opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}})
	}
	kline.SetXAxis(dates).AddSeries(ticker, data)

	b.log.Debug().Str("ticker", ticker).Str("period", string(period)).Msg("price chart built")
	return fmt.Sprintf(
			"Created price chart for %s over %s. The chart shows opening, high, low, and closing prices.",
			ticker, period),
		&Artifact{Title: fmt.Sprintf("%s Stock Price - %s", ticker, period), chart: kline},
		nil
}

// MultiPlot builds a normalized performance comparison chart for two
// or more tickers. Each series is normalized to percentage change
// relative to its own first close in the window; tickers with empty
// history are skipped.
func (b *Builder) MultiPlot(ctx context.Context, input string) (string, *Artifact, error) {
	symbols, period := models.SplitSymbolsPeriod(input, DefaultMultiPeriod)
	if len(symbols) < 2 {
		return "Please provide at least 2 tickers", nil, nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Stock Performance Comparison - %s", period)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Return (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
	)

	axisSet := false
	for _, ticker := range symbols {
		hist, err := b.provider.GetHistory(ctx, ticker, period)
		if err != nil {
			return "", nil, err
		}
		if len(hist) == 0 {
			b.log.Debug().Str("ticker", ticker).Msg("empty history, ticker skipped")
			continue
		}

		// Category axis comes from the first ticker with data; each
		// series still normalizes against its own first close.
		if !axisSet {
			dates := make([]string, 0, len(hist))
			for _, c := range hist {
				dates = append(dates, c.Date.Format("2006-01-02"))
			}
			line.SetXAxis(dates)
			axisSet = true
		}

		data := make([]opts.LineData, 0, len(hist))
		for _, v := range NormalizeReturns(hist) {
			data = append(data, opts.LineData{Value: v})
		}
		line.AddSeries(ticker, data)
	}

	return fmt.Sprintf(
			"Created comparison chart for %s over %s. Shows percentage return from start of period.",
			strings.Join(symbols, ", "), period),
		&Artifact{Title: fmt.Sprintf("Stock Performance Comparison - %s", period), chart: line},
		nil
}

// NormalizeReturns converts a close-price series into percentage
// change relative to the series' own first close. A zero first close
// yields an all-zero series.
func NormalizeReturns(hist []models.Candle) []float64 {
	out := make([]float64, len(hist))
	if len(hist) == 0 {
		return out
	}
	base := hist[0].Close
	if base == 0 {
		return out
	}
	for i, c := range hist {
		out[i] = (c.Close/base - 1) * 100
	}
	return out
}

// VolumeColor returns the bar color for a candle: green when the day
// closed at or above its open, red otherwise. The comparison is
// against the same day's open, not the prior close.
func VolumeColor(c models.Candle) string {
	if c.Close < c.Open {
		return "red"
	}
	return "green"
}

// VolumePlot builds a daily trading volume bar chart for one ticker.
func (b *Builder) VolumePlot(ctx context.Context, input string) (string, *Artifact, error) {
	symbols, period := models.SplitSymbolsPeriod(input, DefaultVolumePeriod)
	if len(symbols) == 0 {
		return "", nil, fmt.Errorf("ticker is required")
	}
	ticker := symbols[0]

	hist, err := b.provider.GetHistory(ctx, ticker, period)
	if err != nil {
		return "", nil, err
	}
	if len(hist) == 0 {
		return fmt.Sprintf("No volume data found for %s", ticker), nil, nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s Trading Volume - %s", ticker, period)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
	)

	dates := make([]string, 0, len(hist))
	data := make([]opts.BarData, 0, len(hist))
	var totalVolume float64
	for _, c := range hist {
		dates = append(dates, c.Date.Format("2006-01-02"))
		data = append(data, opts.BarData{
			Value:     c.Volume,
			ItemStyle: &opts.ItemStyle{Color: VolumeColor(c)},
		})
		totalVolume += float64(c.Volume)
	}
	bar.SetXAxis(dates).AddSeries("Volume", data)

	avgVolume := totalVolume / float64(len(hist))
	return fmt.Sprintf(
			"Created volume chart for %s over %s. Average daily volume: %s shares.",
			ticker, period, utils.FormatFloatWithCommas(avgVolume)),
		&Artifact{Title: fmt.Sprintf("%s Trading Volume - %s", ticker, period), chart: bar},
		nil
}
