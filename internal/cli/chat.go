package cli

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"market-analyst/internal/agent"
	"market-analyst/internal/models"
)

const welcomeBanner = `Market Analyst

I'm an AI-powered financial analyst that can help you with:

- Real-time stock data: current prices, market cap, and key metrics
- Fundamental analysis: P/E ratios, profit margins, growth rates, and more
- Company information: business overview, sector, industry details
- News and updates: latest news articles about companies
- Stock comparisons: side-by-side analysis of multiple stocks
- Interactive charts: price charts, performance comparisons, volume analysis

Disclaimer: this is for educational purposes only and not financial advice.

Type a question, or 'exit' to quit.`

// addChatCommands adds the conversational commands.
func addChatCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newChatCmd(app))
	rootCmd.AddCommand(newAskCmd(app))
}

func newChatCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive analysis session",
		Long: `Start an interactive multi-turn conversation with the financial agent.

History is persisted per session; resume a previous session with --session.`,
		Example: `  analyst chat
  analyst chat --session my-research
  analyst chat --steps`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !ensureAPIKey(app, output) {
				return nil // warning shown; not a crash
			}

			loop, err := app.newLoop()
			if err != nil {
				output.Error("Failed to initialize agent: %v", err)
				return err
			}

			sessionID, _ := cmd.Flags().GetString("session")
			if sessionID == "" {
				sessionID = "session-" + time.Now().Format("20060102-150405")
			}
			showSteps, _ := cmd.Flags().GetBool("steps")

			conversationStore, err := app.openStore()
			if err != nil {
				output.Warning("Session persistence unavailable: %v", err)
				conversationStore = nil
			}

			var history []models.Turn
			if conversationStore != nil {
				if err := conversationStore.CreateSession(cmd.Context(), sessionID); err == nil {
					history, _ = conversationStore.GetTurns(cmd.Context(), sessionID)
				}
			}

			conversation := agent.NewConversation(loop, history)

			output.Bold(welcomeBanner)
			if len(history) > 0 {
				output.Dim("Resumed session %s with %d prior turns.", sessionID, len(history))
			}
			output.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				output.Printf("> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "exit" || text == "quit" {
					break
				}

				result := conversation.Ask(cmd.Context(), text)
				renderResult(output, result, app.Config.Charts.OutputDir, showSteps || app.Config.UI.ShowSteps)
				output.Println()

				if conversationStore != nil {
					if exchange := conversation.LastExchange(); exchange != nil {
						if err := conversationStore.AppendTurns(cmd.Context(), sessionID, exchange); err != nil {
							app.Logger.Warn().Err(err).Msg("failed to persist turns")
						}
					}
				}
			}
			output.Dim("Session saved as %s", sessionID)
			return nil
		},
	}

	cmd.Flags().String("session", "", "session id to create or resume")
	cmd.Flags().Bool("steps", false, "show the tool execution transcript")
	return cmd
}

func newAskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the agent a single question",
		Example: `  analyst ask "What is NVIDIA's current stock price?"
  analyst ask "Compare AAPL and MSFT over the last year with a chart"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !ensureAPIKey(app, output) {
				return nil
			}

			loop, err := app.newLoop()
			if err != nil {
				output.Error("Failed to initialize agent: %v", err)
				return err
			}

			showSteps, _ := cmd.Flags().GetBool("steps")
			conversation := agent.NewConversation(loop, nil)
			result := conversation.Ask(cmd.Context(), args[0])
			renderResult(output, result, app.Config.Charts.OutputDir, showSteps)
			return nil
		},
	}

	cmd.Flags().Bool("steps", false, "show the tool execution transcript")
	return cmd
}

// ensureAPIKey checks for a model API key, prompting interactively as
// a fallback. A missing key blocks turn processing with a warning,
// never a crash.
func ensureAPIKey(app *App, output *Output) bool {
	if app.Config.HasAPIKey() {
		return true
	}

	output.Printf("Enter OpenAI API key (or set OPENAI_API_KEY): ")
	reader := bufio.NewReader(os.Stdin)
	key, _ := reader.ReadString('\n')
	key = strings.TrimSpace(key)
	if key == "" {
		warnMissingKey(output)
		return false
	}
	app.Config.Credentials.OpenAI.APIKey = key
	return true
}

