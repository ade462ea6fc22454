package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/homework-tracker/internal/observability"
	"go.uber.org/zap"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the card view",
	Long: `Open the card view directly, skipping the menu.

Cards are drawn from the tasks on disk when the view opens. Press q or esc
to close it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}
		if Viewer == nil {
			return fmt.Errorf("card view not initialized")
		}

		tasks, err := Store.ReadAll()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		recordEvent(observability.Event{
			Type:    observability.EventViewOpened,
			Message: "card view opened",
			Data:    map[string]any{"tasks": len(tasks)},
		})
		if err := (interruptible{Viewer}).View(context.Background(), tasks); err != nil {
			return fmt.Errorf("showing tasks: %w", err)
		}
		recordEvent(observability.Event{Type: observability.EventViewClosed, Message: "card view closed"})
		return nil
	},
}

// recordEvent writes to the shared event log, if any. Failures are logged
// and otherwise ignored.
func recordEvent(event observability.Event) {
	if err := observability.Emit(EventLog, event); err != nil && Logger != nil {
		Logger.Warn("recording event", zap.String("type", event.Type), zap.Error(err))
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
