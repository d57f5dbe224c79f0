package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/script"
	"github.com/Iron-Ham/triage/internal/watch"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Execute a command script",
	Long: `Execute a command script against a fresh scheduler.

Each line of the script is one command:
  add <id> <urgency> [dep ...]   register a task with its prerequisites
  update <id> <urgency>          change the urgency of an unresolved task
  resolve                        resolve the most urgent ready task
  drain                          resolve until nothing is ready
  status [glob]                  print counts and the ready tasks
  stalled [glob]                 print blocked tasks and dependency cycles

Blank lines and text after '#' are ignored. With --watch the script is
re-run from scratch every time the file is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runWatch bool
	runJSON  bool
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run the script when the file changes")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print results as JSON lines")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	path := args[0]
	stdout := cmd.OutOrStdout()
	jsonOut := runJSON || cfg.Output.Format == "json"

	if !runWatch {
		return executeScript(cmd.Context(), path, cfg, jsonOut, stdout, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A broken script should not end the watch; report it and wait for a fix.
	rerun := func() {
		if err := executeScript(ctx, path, cfg, jsonOut, stdout, logger); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	w, err := watch.New(cfg.Watch.Debounce(), func(string) {
		if !jsonOut {
			fmt.Fprintf(stdout, "\n--- %s changed, re-running\n", path)
		}
		rerun()
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		return err
	}

	rerun()
	if !jsonOut {
		fmt.Fprintf(stdout, "Watching %s (Ctrl+C to stop)\n", path)
	}
	return w.Run(ctx)
}

// executeScript runs the script at path once on a fresh scheduler.
func executeScript(ctx context.Context, path string, cfg *config.Config, jsonOut bool, w io.Writer, logger *logging.Logger) error {
	runID := uuid.NewString()
	runLogger := logger.WithRun(runID)

	bus := event.NewBus(runLogger)
	logRunEvents(bus, runLogger)
	engine := newEngine(cfg, bus, runLogger)

	var out script.Output
	if jsonOut {
		out = script.NewJSONOutput(w)
	} else {
		out = script.NewTextOutput(w, cfg.Output.Color)
	}

	bus.Publish(event.NewRunStartedEvent(runID, path))
	sum, err := script.RunFile(ctx, path, engine, out, runLogger)
	bus.Publish(event.NewRunFinishedEvent(runID, len(sum.Resolved), err))
	return err
}
