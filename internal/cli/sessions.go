package cli

import (
	"errors"

	"github.com/spf13/cobra"

	apperrors "market-analyst/internal/errors"
)

// addSessionCommands adds the conversation-session management commands.
func addSessionCommands(rootCmd *cobra.Command, app *App) {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved conversation sessions",
	}
	sessionsCmd.AddCommand(newSessionsListCmd(app))
	sessionsCmd.AddCommand(newSessionsDeleteCmd(app))
	rootCmd.AddCommand(sessionsCmd)
}

func newSessionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			conversationStore, err := app.openStore()
			if err != nil {
				output.Error("Failed to open session store: %v", err)
				return err
			}

			sessions, err := conversationStore.ListSessions(cmd.Context())
			if err != nil {
				output.Error("Failed to list sessions: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(sessions)
			}
			if len(sessions) == 0 {
				output.Dim("No saved sessions. Start one with 'analyst chat'.")
				return nil
			}

			output.Bold("%-28s %-18s %-18s %s", "SESSION", "STARTED", "UPDATED", "TURNS")
			for _, s := range sessions {
				output.Printf("%-28s %-18s %-18s %d\n",
					s.ID,
					s.StartedAt.Format("2006-01-02 15:04"),
					s.UpdatedAt.Format("2006-01-02 15:04"),
					s.Turns,
				)
			}
			return nil
		},
	}
}

func newSessionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <session-id>",
		Short:   "Delete a saved session and its history",
		Example: `  analyst sessions delete session-20240601-101500`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			conversationStore, err := app.openStore()
			if err != nil {
				output.Error("Failed to open session store: %v", err)
				return err
			}

			if err := conversationStore.DeleteSession(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, apperrors.ErrSessionNotFound) {
					output.Warning("No session named %s", args[0])
					return nil
				}
				output.Error("Failed to delete session: %v", err)
				return err
			}
			output.Success("Deleted session %s", args[0])
			return nil
		},
	}
}
