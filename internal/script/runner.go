package script

import (
	"context"
	"slices"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/scheduler"
)

// Engine is the scheduler surface a script drives. *scheduler.Scheduler and
// *scheduler.EventScheduler both satisfy it.
type Engine interface {
	Add(id string, urgency int, deps []string) scheduler.AddResult
	Update(id string, urgency int) bool
	ResolveNext() (scheduler.Resolution, bool)
	Status() scheduler.Status
	Ready() []scheduler.TaskInfo
	Stalled() []scheduler.StalledTask
	Cycles() [][]string
}

// Summary describes a finished run.
type Summary struct {
	Commands int      `json:"commands"`
	Resolved []string `json:"resolved"`
}

// Runner executes commands against an Engine and reports to an Output.
type Runner struct {
	engine Engine
	out    Output
	logger *logging.Logger

	resolved []string
}

// NewRunner creates a Runner. A nil logger disables logging.
func NewRunner(engine Engine, out Output, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{
		engine: engine,
		out:    out,
		logger: logger.WithComponent("script"),
	}
}

// Run executes cmds in order. It stops at the first output error or when
// ctx is cancelled between commands.
func (r *Runner) Run(ctx context.Context, cmds []Command) (Summary, error) {
	sum := Summary{}
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return r.summary(sum), err
		}
		if err := r.Exec(cmd); err != nil {
			return r.summary(sum), err
		}
		sum.Commands++
	}
	return r.summary(sum), nil
}

func (r *Runner) summary(sum Summary) Summary {
	sum.Resolved = slices.Clone(r.resolved)
	if sum.Resolved == nil {
		sum.Resolved = []string{}
	}
	return sum
}

// Resolved returns every ID this runner has resolved so far, in order.
func (r *Runner) Resolved() []string {
	return slices.Clone(r.resolved)
}

// Exec executes a single command.
func (r *Runner) Exec(cmd Command) error {
	r.logger.Debug("exec", "line", cmd.Line, "op", string(cmd.Op), "id", cmd.ID)

	switch cmd.Op {
	case OpAdd:
		r.out.Add(cmd, r.engine.Add(cmd.ID, cmd.Urgency, cmd.Deps))

	case OpUpdate:
		r.out.Update(cmd, r.engine.Update(cmd.ID, cmd.Urgency))

	case OpResolve:
		res, ok := r.engine.ResolveNext()
		if ok {
			r.resolved = append(r.resolved, res.ID)
		}
		r.out.Resolve(res, ok)

	case OpDrain:
		for {
			res, ok := r.engine.ResolveNext()
			if !ok {
				break
			}
			r.resolved = append(r.resolved, res.ID)
			r.out.Resolve(res, true)
		}

	case OpStatus:
		filter, err := CompileFilter(cmd.Pattern)
		if err != nil {
			return r.cmdError(cmd, "invalid pattern", err)
		}
		var ready []scheduler.TaskInfo
		for _, t := range r.engine.Ready() {
			if filter.Match(t.ID) {
				ready = append(ready, t)
			}
		}
		r.out.Status(r.engine.Status(), ready)

	case OpStalled:
		filter, err := CompileFilter(cmd.Pattern)
		if err != nil {
			return r.cmdError(cmd, "invalid pattern", err)
		}
		r.out.Stalled(FilterStalled(r.engine.Stalled(), filter), FilterCycles(r.engine.Cycles(), filter))

	default:
		return r.cmdError(cmd, "unknown command", errors.ErrInvalidCommand)
	}

	if err := r.out.Err(); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}

func (r *Runner) cmdError(cmd Command, msg string, cause error) error {
	return errors.NewScriptError(msg, cause).WithLocation("", cmd.Line).WithCommand(cmd.Raw)
}

// FilterStalled keeps the stalled tasks whose ID matches filter.
func FilterStalled(stalled []scheduler.StalledTask, filter Filter) []scheduler.StalledTask {
	var out []scheduler.StalledTask
	for _, t := range stalled {
		if filter.Match(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// FilterCycles keeps the cycles with at least one member matching filter.
func FilterCycles(cycles [][]string, filter Filter) [][]string {
	var out [][]string
	for _, c := range cycles {
		if slices.ContainsFunc(c, filter.Match) {
			out = append(out, c)
		}
	}
	return out
}
