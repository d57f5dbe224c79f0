package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/plan"
	"github.com/Iron-Ham/triage/internal/scheduler"
	"github.com/Iron-Ham/triage/internal/script"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Resolve every task in a plan file",
	Long: `Load a plan file, resolve tasks until nothing is ready, and print the
order in which they were resolved followed by any tasks left stalled.

Plans may be written in YAML (.yaml, .yml), JSON (.json) or HCL (.hcl):

  tasks:
    - id: build
      urgency: 5
    - id: deploy
      urgency: 9
      depends_on: [build]

Use --filter to limit the report to task IDs matching a glob pattern.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

var (
	planJSON   bool
	planFilter string
)

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the report as JSON")
	planCmd.Flags().StringVar(&planFilter, "filter", "", "only report task IDs matching this glob")
}

// planReport is the result of draining a plan.
type planReport struct {
	Order   []scheduler.Resolution  `json:"order"`
	Skipped []plan.Applied          `json:"skipped,omitempty"`
	Stalled []scheduler.StalledTask `json:"stalled"`
	Cycles  [][]string              `json:"cycles"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	filter, err := script.CompileFilter(planFilter)
	if err != nil {
		return err
	}

	path := args[0]
	p, err := plan.Load(path)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runLogger := logger.WithRun(runID)
	bus := event.NewBus(runLogger)
	logRunEvents(bus, runLogger)
	engine := newEngine(cfg, bus, runLogger)

	bus.Publish(event.NewRunStartedEvent(runID, path))
	report := drainPlan(p, engine, filter)
	bus.Publish(event.NewRunFinishedEvent(runID, len(report.Order), nil))

	if planJSON || cfg.Output.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printPlanReport(cmd.OutOrStdout(), report, cfg.Output.Color)
}

// drainPlan applies p to engine and resolves until nothing is ready. Only
// IDs matching filter are reported.
func drainPlan(p *plan.Plan, engine *scheduler.EventScheduler, filter script.Filter) planReport {
	report := planReport{
		Order:   []scheduler.Resolution{},
		Stalled: []scheduler.StalledTask{},
		Cycles:  [][]string{},
	}

	for _, a := range p.Apply(engine) {
		if !a.Result.Applied() && filter.Match(a.ID) {
			report.Skipped = append(report.Skipped, a)
		}
	}
	for {
		res, ok := engine.ResolveNext()
		if !ok {
			break
		}
		if filter.Match(res.ID) {
			report.Order = append(report.Order, res)
		}
	}

	report.Stalled = append(report.Stalled, script.FilterStalled(engine.Stalled(), filter)...)
	report.Cycles = append(report.Cycles, script.FilterCycles(engine.Cycles(), filter)...)
	return report
}

func printPlanReport(w io.Writer, report planReport, color bool) error {
	painter := styles.Painter{Color: color}
	out := script.NewTextOutput(w, color)

	for _, a := range report.Skipped {
		out.Add(script.Command{Op: script.OpAdd, ID: a.ID}, a.Result)
	}

	fmt.Fprintln(w, painter.Paint(styles.Title, "Resolution order"))
	if len(report.Order) == 0 {
		fmt.Fprintln(w, painter.Paint(styles.Muted, "  nothing resolved"))
	}
	for i, res := range report.Order {
		fmt.Fprintf(w, "%3d. %s %s\n", i+1, res.ID, painter.Paint(styles.Muted, fmt.Sprintf("urgency=%d", res.Urgency)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, painter.Paint(styles.Title, "Stalled"))
	out.Stalled(report.Stalled, report.Cycles)
	return out.Err()
}
