package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/plan"
	"github.com/Iron-Ham/triage/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [plan]",
	Short: "Manage tasks interactively",
	Long: `Start an interactive console over a live scheduler.

Type script commands (add, update, resolve, drain, status, stalled) at the
prompt. The console shows the ready queue and recent scheduler activity.
An optional plan file is loaded before the console starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// stderr belongs to the terminal UI; only file logging is allowed here
	logger := logging.NopLogger()
	if cfg.Logging.Dir != "" {
		if logger, err = setupLogger(cmd, cfg); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
	}
	defer func() { _ = logger.Close() }()

	var p *plan.Plan
	if len(args) == 1 {
		if p, err = plan.Load(args[0]); err != nil {
			return err
		}
	}

	bus := event.NewBus(logger)
	engine := newEngine(cfg, bus, logger)
	model := tui.NewModel(engine, bus, tui.Options{
		PreviewSize: cfg.TUI.PreviewSize,
		HistorySize: cfg.TUI.HistorySize,
		Color:       cfg.Output.Color,
	}, logger)

	if p != nil {
		applied := p.Apply(engine)
		logger.Info("plan loaded", "file", args[0], "tasks", len(applied))
	}

	return tui.New(model).Run()
}
