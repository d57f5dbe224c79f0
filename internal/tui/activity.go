package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Iron-Ham/triage/internal/event"
)

// activityLog keeps the most recent scheduler events as display lines.
// It is shared by pointer between model copies.
type activityLog struct {
	mu    sync.Mutex
	lines []string
	limit int
}

func newActivityLog(limit int) *activityLog {
	return &activityLog{limit: limit}
}

// handle is an event.Handler.
func (a *activityLog) handle(e event.Event) {
	line := describeEvent(e)
	if line == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = append(a.lines, line)
	if len(a.lines) > a.limit {
		a.lines = a.lines[len(a.lines)-a.limit:]
	}
}

func (a *activityLog) recent() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

func describeEvent(e event.Event) string {
	switch ev := e.(type) {
	case event.TaskRegisteredEvent:
		if ev.Outcome != "registered" && ev.Outcome != "promoted" {
			return ""
		}
		state := "blocked"
		if ev.Ready {
			state = "ready"
		}
		return fmt.Sprintf("%s %s (%s)", ev.Outcome, ev.TaskID, state)
	case event.TaskUrgencyChangedEvent:
		return fmt.Sprintf("urgency %s %d -> %d", ev.TaskID, ev.OldUrgency, ev.NewUrgency)
	case event.TaskResolvedEvent:
		if len(ev.Unblocked) == 0 {
			return fmt.Sprintf("resolved %s", ev.TaskID)
		}
		return fmt.Sprintf("resolved %s, unblocked %s", ev.TaskID, strings.Join(ev.Unblocked, ", "))
	default:
		return ""
	}
}
