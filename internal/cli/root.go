package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"market-analyst/internal/agent"
	"market-analyst/internal/charts"
	"market-analyst/internal/config"
	apperrors "market-analyst/internal/errors"
	"market-analyst/internal/logging"
	"market-analyst/internal/provider"
	"market-analyst/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Provider provider.Provider
	Store    store.ConversationStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "analyst",
		Short: "Market Analyst - AI-powered financial analysis CLI",
		Long: `Market Analyst is a conversational financial analysis CLI.

It answers questions about stocks and markets by letting an AI agent call
market-data and charting tools, and it exposes the same data directly
through quote, fundamentals, news, info, and compare commands.

Chart artifacts are saved as interactive HTML files alongside each answer.

Use 'analyst examples' to see common prompts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if offline, _ := cmd.Flags().GetBool("offline"); offline {
				app.Config.Provider.Offline = true
			}

			// Select the data provider once for every command.
			if app.Config.Provider.Offline {
				app.Provider = provider.NewReplayProvider(app.Config.Provider.DataDir)
				app.Logger.Debug().Str("dir", app.Config.Provider.DataDir).Msg("offline replay provider selected")
			} else {
				app.Provider = provider.NewYahooClient(app.Config.Provider, app.Logger)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/market-analyst)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("offline", false, "serve data from local CSV files instead of the network")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newExamplesCmd())
	addChatCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	addSessionCommands(rootCmd, app)

	return rootCmd
}

// openStore lazily opens the SQLite conversation store.
func (app *App) openStore() (store.ConversationStore, error) {
	if app.Store != nil {
		return app.Store, nil
	}
	dbPath := filepath.Join(config.DefaultConfigDir(), "analyst.db")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	app.Store = s
	return s, nil
}

// newLoop builds the turn loop; it fails when no model API key is
// available.
func (app *App) newLoop() (*agent.Loop, error) {
	if !app.Config.HasAPIKey() {
		return nil, apperrors.ErrMissingAPIKey
	}

	engine := agent.NewOpenAIEngine(
		app.Config.Credentials.OpenAI.APIKey,
		app.Config.Agent.Model,
		float32(app.Config.Agent.Temperature),
	)
	builder := charts.NewBuilder(app.Provider, app.Logger)
	registry := agent.NewToolset(app.Provider, builder, app.Logger)
	return agent.NewLoop(engine, registry, app.Logger, app.Config.Agent.MaxToolRounds), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Market Analyst v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Agent")
			output.Printf("  model: %s\n", app.Config.Agent.Model)
			output.Printf("  temperature: %.2f\n", app.Config.Agent.Temperature)
			output.Printf("  max tool rounds: %d\n", app.Config.Agent.MaxToolRounds)
			output.Bold("Provider")
			output.Printf("  base url: %s\n", app.Config.Provider.BaseURL)
			output.Printf("  offline: %v\n", app.Config.Provider.Offline)
			output.Bold("Charts")
			output.Printf("  output dir: %s\n", app.Config.Charts.OutputDir)
			if !app.Config.HasAPIKey() {
				output.Warning("No model API key configured (set OPENAI_API_KEY)")
			}
			return nil
		},
	}
}

func newExamplesCmd() *cobra.Command {
	examples := []string{
		"Analyze Apple's stock fundamentals including P/E ratio, profit margins, and growth metrics",
		"Compare AAPL, MSFT, and GOOGL performance over the last year with a chart",
		"What's the latest news about Tesla (TSLA)?",
		"What is NVIDIA's current stock price?",
		"Show me Tesla's stock price chart for the last 6 months",
		"Tell me about Microsoft - what sector are they in and what do they do?",
		"Show me the trading volume for AMD over the past 3 months",
		"Compare the fundamentals of NVDA and AMD side by side",
	}
	return &cobra.Command{
		Use:   "examples",
		Short: "Show example prompts",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			output.Bold("Example prompts:")
			for i, e := range examples {
				output.Printf("  %d. %s\n", i+1, e)
			}
			output.Println()
			output.Dim(`Try: analyst ask "%s"`, examples[3])
		},
	}
}

// warnMissingKey prints the standard missing-credential warning.
func warnMissingKey(output *Output) {
	output.Warning("OpenAI API key required. Set OPENAI_API_KEY or add it to credentials.yaml.")
}

// fmtErr wraps an error for silent cobra error propagation after the
// Output helper has already shown it.
func fmtErr(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
