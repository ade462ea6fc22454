package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
	"gopkg.in/yaml.v3"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored tasks in the terminal",
	Long: `Print every stored task in file order.

Formats:
  table  numbered one-line summaries (default)
  yaml   YAML sequence of tasks
  json   JSON array of tasks`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		tasks, err := Store.ReadAll()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		switch listFormat {
		case "", "table":
			printTaskTable(out, tasks)
			return nil
		case "yaml":
			data, err := yaml.Marshal(tasks)
			if err != nil {
				return fmt.Errorf("formatting tasks as YAML: %w", err)
			}
			fmt.Fprint(out, string(data))
			return nil
		case "json":
			data, err := json.MarshalIndent(tasks, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting tasks as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		default:
			return fmt.Errorf("unsupported format %q (use table, yaml or json)", listFormat)
		}
	},
}

func printTaskTable(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "\nNo tasks available.")
		return
	}
	fmt.Fprintln(w, "\nExisting Homework Tasks:")
	for i, t := range tasks {
		fmt.Fprintf(w, "%d. Subject: %s, Description: %s, Due Date: %s, Priority: %s, Logged: %s\n",
			i+1, t.Subject, t.Description, t.DueDate, t.Priority, t.LoggedAt)
	}
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "output format: table, yaml or json")
	rootCmd.AddCommand(listCmd)
}
