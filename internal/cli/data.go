package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"market-analyst/internal/models"
	"market-analyst/internal/provider"
	"market-analyst/internal/report"
)

// requestTimeout bounds direct data commands; the agent loop itself
// relies solely on its round cap.
const requestTimeout = 30 * time.Second

// addDataCommands adds the direct market-data commands that bypass
// the agent but share its provider and formatters.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newFundamentalsCmd(app))
	rootCmd.AddCommand(newInfoCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
	rootCmd.AddCommand(newCompareCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "quote <ticker>",
		Short:   "Show the current price report for a ticker",
		Example: `  analyst quote AAPL`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			ticker := strings.ToUpper(args[0])
			info, err := app.Provider.GetQuoteInfo(ctx, ticker)
			if err != nil {
				output.Error("Failed to get quote: %v", err)
				return err
			}
			output.Println(report.Price(ticker, info))
			return nil
		},
	}
}

func newFundamentalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "fundamentals <ticker>",
		Short:   "Show the fundamental analysis report for a ticker",
		Example: `  analyst fundamentals MSFT`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			ticker := strings.ToUpper(args[0])
			info, err := app.Provider.GetQuoteInfo(ctx, ticker)
			if err != nil {
				output.Error("Failed to get fundamentals: %v", err)
				return err
			}
			output.Println(report.Fundamentals(ticker, info))
			return nil
		},
	}
}

func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "info <ticker>",
		Short:   "Show the company overview for a ticker",
		Example: `  analyst info NVDA`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			ticker := strings.ToUpper(args[0])
			info, err := app.Provider.GetQuoteInfo(ctx, ticker)
			if err != nil {
				output.Error("Failed to get company info: %v", err)
				return err
			}
			text, err := report.CompanyInfo(ticker, info)
			if err != nil {
				output.Error("Failed to format company info: %v", err)
				return err
			}
			output.Println(text)
			return nil
		},
	}
}

func newNewsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "news <ticker>",
		Short:   "Show recent news for a ticker",
		Example: `  analyst news TSLA`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			ticker := strings.ToUpper(args[0])
			items, err := app.Provider.GetNews(ctx, ticker)
			if err != nil {
				output.Error("Failed to get news: %v", err)
				return err
			}
			output.Println(report.NewsDigest(ticker, items))
			return nil
		},
	}
}

func newCompareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "compare <tickers>",
		Short:   "Compare two or more tickers side by side",
		Example: `  analyst compare AAPL,MSFT,GOOGL`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			tickers := splitList(args[0])
			if len(tickers) < report.MinCompareTickers {
				output.Warning(report.ComparisonValidationMessage)
				return nil
			}

			data := make(map[string]models.QuoteInfo, len(tickers))
			for _, ticker := range tickers {
				if _, done := data[ticker]; done {
					continue
				}
				info, err := app.Provider.GetQuoteInfo(ctx, ticker)
				if err != nil {
					output.Error("Failed to compare stocks: %v", err)
					return err
				}
				data[ticker] = info
			}
			output.Println(report.Comparison(tickers, data))
			return nil
		},
	}
}

func newDataCmd(app *App) *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Download and export market data",
	}

	downloadCmd := &cobra.Command{
		Use:   "download <ticker> [period]",
		Short: "Download daily price history as CSV",
		Long: `Download daily OHLCV history for a ticker and write it as CSV.

The file layout matches what --offline mode reads back, so downloads can
seed the offline replay data directory.`,
		Example: `  analyst data download AAPL
  analyst data download AAPL 1y --out AAPL_1y.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			ticker := strings.ToUpper(args[0])
			period := models.Period6M
			if len(args) == 2 {
				if !models.ValidPeriod(args[1]) {
					output.Error("Invalid period %q. Valid: 1d,5d,1mo,3mo,6mo,1y,2y,5y,10y,ytd,max", args[1])
					return fmtErr("invalid period %q", args[1])
				}
				period = models.Period(args[1])
			}

			candles, err := app.Provider.GetHistory(ctx, ticker, period)
			if err != nil {
				output.Error("Failed to download history: %v", err)
				return err
			}
			if len(candles) == 0 {
				output.Warning("No price data found for %s", ticker)
				return nil
			}

			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				outPath = ticker + "_" + string(period) + ".csv"
			}
			f, err := os.Create(outPath)
			if err != nil {
				output.Error("Failed to create %s: %v", outPath, err)
				return err
			}
			defer f.Close()

			if err := provider.WriteCandlesCSV(f, candles); err != nil {
				output.Error("Failed to write CSV: %v", err)
				return err
			}
			output.Success("Wrote %d candles to %s", len(candles), outPath)
			return nil
		},
	}
	downloadCmd.Flags().String("out", "", "output file path (default <TICKER>_<period>.csv)")

	dataCmd.AddCommand(downloadCmd)
	return dataCmd
}

// splitList parses a comma-separated uppercase ticker list.
func splitList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
