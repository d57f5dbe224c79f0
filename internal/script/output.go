package script

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/triage/internal/scheduler"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

// Output receives the results of executed commands.
type Output interface {
	Add(cmd Command, result scheduler.AddResult)
	Update(cmd Command, applied bool)
	Resolve(res scheduler.Resolution, ok bool)
	Status(st scheduler.Status, ready []scheduler.TaskInfo)
	Stalled(stalled []scheduler.StalledTask, cycles [][]string)

	// Err returns the first write error, if any.
	Err() error
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// TextOutput writes human-readable lines. Resolved IDs are printed bare, one
// per line, so text output of a script is easy to diff.
type TextOutput struct {
	ew      errWriter
	painter styles.Painter
}

// NewTextOutput creates a TextOutput. color enables lipgloss styling.
func NewTextOutput(w io.Writer, color bool) *TextOutput {
	return &TextOutput{ew: errWriter{w: w}, painter: styles.Painter{Color: color}}
}

func (o *TextOutput) Add(cmd Command, result scheduler.AddResult) {
	if result.Applied() {
		return
	}
	o.ew.printf("%s\n", o.painter.Paint(styles.Muted, fmt.Sprintf("skipped add %s (%s)", cmd.ID, result)))
}

func (o *TextOutput) Update(cmd Command, applied bool) {
	if applied {
		return
	}
	o.ew.printf("%s\n", o.painter.Paint(styles.Muted, fmt.Sprintf("skipped update %s", cmd.ID)))
}

func (o *TextOutput) Resolve(res scheduler.Resolution, ok bool) {
	if !ok {
		o.ew.printf("%s\n", o.painter.Paint(styles.Muted, "none"))
		return
	}
	o.ew.printf("%s\n", res.ID)
}

func (o *TextOutput) Status(st scheduler.Status, ready []scheduler.TaskInfo) {
	o.ew.printf("ready=%d blocked=%d resolved=%d placeholders=%d total=%d\n",
		st.Ready, st.Blocked, st.Resolved, st.Placeholders, st.Total)
	for _, t := range ready {
		o.ew.printf("  %s %s %s\n",
			o.painter.Paint(styles.Secondary, styles.StateIcon(string(t.State))),
			t.ID,
			o.painter.Paint(styles.Muted, fmt.Sprintf("urgency=%d", t.Urgency)))
	}
}

func (o *TextOutput) Stalled(stalled []scheduler.StalledTask, cycles [][]string) {
	if len(stalled) == 0 && len(cycles) == 0 {
		o.ew.printf("%s\n", o.painter.Paint(styles.Muted, "no stalled tasks"))
		return
	}
	for _, t := range stalled {
		line := fmt.Sprintf("  %s waiting on %s", t.ID, strings.Join(t.Waiting, ", "))
		if len(t.Missing) > 0 {
			line += o.painter.Paint(styles.Warning, fmt.Sprintf(" (missing: %s)", strings.Join(t.Missing, ", ")))
		}
		o.ew.printf("%s\n", line)
	}
	for _, c := range cycles {
		o.ew.printf("  %s %s\n", o.painter.Paint(styles.ErrorMsg, "cycle:"), strings.Join(c, " -> "))
	}
}

func (o *TextOutput) Err() error { return o.ew.err }

// record is one JSON Lines entry.
type record struct {
	Op        Op                      `json:"op"`
	ID        string                  `json:"id,omitempty"`
	Urgency   *int                    `json:"urgency,omitempty"`
	Result    scheduler.AddResult     `json:"result,omitempty"`
	Applied   *bool                   `json:"applied,omitempty"`
	Resolved  *bool                   `json:"resolved,omitempty"`
	Unblocked []string                `json:"unblocked,omitempty"`
	Status    *scheduler.Status       `json:"status,omitempty"`
	Ready     []scheduler.TaskInfo    `json:"ready,omitempty"`
	Stalled   []scheduler.StalledTask `json:"stalled,omitempty"`
	Cycles    [][]string              `json:"cycles,omitempty"`
}

// JSONOutput writes one JSON object per executed command.
type JSONOutput struct {
	enc *json.Encoder
	err error
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{enc: json.NewEncoder(w)}
}

func (o *JSONOutput) write(r record) {
	if o.err != nil {
		return
	}
	o.err = o.enc.Encode(r)
}

func (o *JSONOutput) Add(cmd Command, result scheduler.AddResult) {
	o.write(record{Op: OpAdd, ID: cmd.ID, Urgency: &cmd.Urgency, Result: result})
}

func (o *JSONOutput) Update(cmd Command, applied bool) {
	o.write(record{Op: OpUpdate, ID: cmd.ID, Urgency: &cmd.Urgency, Applied: &applied})
}

func (o *JSONOutput) Resolve(res scheduler.Resolution, ok bool) {
	r := record{Op: OpResolve, Resolved: &ok}
	if ok {
		r.ID = res.ID
		r.Urgency = &res.Urgency
		r.Unblocked = res.Unblocked
	}
	o.write(r)
}

func (o *JSONOutput) Status(st scheduler.Status, ready []scheduler.TaskInfo) {
	o.write(record{Op: OpStatus, Status: &st, Ready: ready})
}

func (o *JSONOutput) Stalled(stalled []scheduler.StalledTask, cycles [][]string) {
	o.write(record{Op: OpStalled, Stalled: stalled, Cycles: cycles})
}

func (o *JSONOutput) Err() error { return o.err }
