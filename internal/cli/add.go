package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/homework-tracker/internal/observability"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
)

var (
	addSubject     string
	addDescription string
	addDue         string
	addPriority    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a task without the interactive prompts",
	Long: `Append one task to the task file. Every field is optional and stored
as given; the log timestamp is taken from the local clock.

Examples:
  hwt add --subject Math --description "Chapter 4 problems" \
          --due 2024-05-01 --priority Critical`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		task := models.NewTask(addSubject, addDescription, addDue, models.Priority(addPriority), Now())
		if err := Store.Append(task); err != nil {
			return fmt.Errorf("saving task: %w", err)
		}
		recordEvent(observability.Event{
			Type:    observability.EventTaskAdded,
			Message: "task added",
			Data:    map[string]any{"subject": task.Subject, "priority": string(task.Priority)},
		})

		fmt.Fprintln(cmd.OutOrStdout(), "Task added successfully!")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addSubject, "subject", "", "subject, e.g. Math")
	addCmd.Flags().StringVar(&addDescription, "description", "", "what has to be done")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date ("+models.DueDateLayout+")")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Critical, This Week, Long-term, Extra Credit or Fun Project")
	rootCmd.AddCommand(addCmd)
}
