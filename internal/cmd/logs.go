package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View run logs",
	Long: `View and filter the log file written to logging.dir.

Every run and plan invocation tags its entries with a run ID, so the
output of a single run can be isolated with --run.

Examples:
  # Show the last 50 entries
  triage logs

  # List the runs recorded in the log
  triage logs --runs

  # Show warnings and errors from the last hour
  triage logs --level warn --since 1h`,
	RunE: runLogs,
}

var (
	logsRunID     string
	logsTail      int
	logsLevel     string
	logsSince     string
	logsComponent string
	logsGrep      string
	logsListRuns  bool
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsRunID, "run", "", "only show entries from this run ID")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "only show entries from this component")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "only show entries whose message contains this text")
	logsCmd.Flags().BoolVar(&logsListRuns, "runs", false, "list run IDs instead of entries")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Logging.Dir == "" {
		return errors.New("no log directory configured; set logging.dir to keep logs on disk")
	}

	entries, err := logging.ReadLogs(cfg.Logging.Dir)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	runs := logging.Runs(entries)
	if logsListRuns {
		for _, id := range runs {
			fmt.Fprintln(w, id)
		}
		return nil
	}

	if logsRunID != "" && !slices.Contains(runs, logsRunID) {
		return errors.NewNotFoundError("run", logsRunID)
	}

	filter := logging.LogFilter{
		RunID:           logsRunID,
		Component:       logsComponent,
		MessageContains: logsGrep,
	}
	if logsLevel != "" {
		if !slices.Contains(logging.ValidLevels(), strings.ToUpper(logsLevel)) {
			return fmt.Errorf("invalid level %q; valid levels: %s", logsLevel, strings.Join(logging.ValidLevels(), ", "))
		}
		filter.Level = logsLevel
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.Since = time.Now().Add(-d)
	}

	entries = logging.FilterLogs(entries, filter)
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
		return nil
	}

	painter := styles.Painter{Color: cfg.Output.Color}
	for _, e := range entries {
		printLogEntry(w, painter, e)
	}
	return nil
}

// levelStyle returns the style used for a log level
func levelStyle(level string) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return styles.Muted
	case logging.LevelWarn:
		return styles.WarningMsg
	case logging.LevelError:
		return styles.ErrorMsg
	default:
		return styles.Secondary
	}
}

// printLogEntry formats one entry for the terminal
func printLogEntry(w io.Writer, painter styles.Painter, e logging.LogEntry) {
	var sb strings.Builder

	sb.WriteString(painter.Paint(styles.Muted, "["+e.Timestamp.Format("15:04:05.000")+"]"))
	sb.WriteString(" ")
	sb.WriteString(painter.Paint(levelStyle(e.Level), fmt.Sprintf("%-5s", e.Level)))
	if e.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(painter.Paint(styles.Primary, e.Component))
	}
	sb.WriteString(" ")
	sb.WriteString(e.Message)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(painter.Paint(styles.Muted, fmt.Sprintf("%s=%v", k, e.Attrs[k])))
	}

	fmt.Fprintln(w, sb.String())
}
