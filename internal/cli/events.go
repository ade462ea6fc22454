package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/homework-tracker/internal/observability"
)

var (
	eventsSince string
	eventsType  string
	eventsLevel string
	eventsLimit int
	eventsJSON  bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recorded tracker events",
	Long: `Show the newest events from the event log, oldest first.

--type accepts a full event type such as view.opened or a family such as
view. --level accepts INFO or WARN.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized (events may be disabled)")
		}
		if eventsLimit < 0 {
			return fmt.Errorf("--limit must not be negative, got %d", eventsLimit)
		}

		filter := observability.EventFilter{
			Type:  eventsType,
			Level: strings.ToUpper(eventsLevel),
			Limit: eventsLimit,
		}
		switch filter.Level {
		case "", observability.LevelInfo, observability.LevelWarn:
		default:
			return fmt.Errorf("unsupported level %q (use INFO or WARN)", eventsLevel)
		}
		if eventsSince != "" {
			since, err := observability.ParseSince(eventsSince, Now().UTC())
			if err != nil {
				return fmt.Errorf("parsing --since: %w", err)
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading events: %w", err)
		}

		out := cmd.OutOrStdout()
		if eventsJSON {
			if events == nil {
				events = []observability.Event{}
			}
			data, err := json.MarshalIndent(events, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting events as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(events) == 0 {
			fmt.Fprintln(out, "No events recorded.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tLEVEL\tTYPE\tMESSAGE")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Time.UTC().Format(time.RFC3339), e.Level, e.Type, e.Message)
		}
		return w.Flush()
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events newer than this window (e.g. 7d, 24h)")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "event type or family (e.g. view, task.added)")
	eventsCmd.Flags().StringVar(&eventsLevel, "level", "", "INFO or WARN")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "newest events to show (0 for all)")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "output events as JSON")
	rootCmd.AddCommand(eventsCmd)
}
