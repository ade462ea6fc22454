// Package cli implements the hwt command line: the interactive menu and the
// non-interactive subcommands built on the same task store.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/homework-tracker/internal/storage"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// storeFile overrides the configured task file for one invocation.
var storeFile string

var rootCmd = &cobra.Command{
	Use:   "hwt",
	Short: "Homework Tracker - log homework and see it as colored cards",
	Long: `Homework Tracker (hwt) keeps homework entries in a plain CSV file and
shows them as cards colored by priority.

Run without arguments for the interactive menu.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if storeFile != "" {
			Store = storage.NewTaskStore(storeFile, Logger)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}
		if Viewer == nil {
			return fmt.Errorf("card view not initialized")
		}

		shell := NewShell(Store, interruptible{Viewer}, cmd.InOrStdin(), cmd.OutOrStdout(),
			WithClock(Now),
			WithEventLog(EventLog),
			WithLogger(Logger),
		)
		return shell.Run(context.Background())
	},
}

// interruptible lets SIGINT close the card view. The handler is installed
// only while the view is open; at a menu prompt an interrupt keeps its
// default behavior and ends the process.
type interruptible struct {
	TaskViewer
}

func (v interruptible) View(ctx context.Context, tasks []models.Task) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return v.TaskViewer.View(ctx, tasks)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hwt %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFile, "file", "", "task file to use instead of the configured one")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
