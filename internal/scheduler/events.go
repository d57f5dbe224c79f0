package scheduler

import (
	"sync"

	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
)

// EventScheduler wraps a Scheduler and publishes events to an event bus
// whenever scheduling operations occur. Read-only queries pass through.
type EventScheduler struct {
	*Scheduler

	mu     sync.Mutex
	bus    *event.Bus
	logger *logging.Logger
}

// NewEventScheduler creates an EventScheduler that publishes on the given bus.
// A nil logger disables logging.
func NewEventScheduler(s *Scheduler, bus *event.Bus, logger *logging.Logger) *EventScheduler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &EventScheduler{
		Scheduler: s,
		bus:       bus,
		logger:    logger.WithComponent("scheduler"),
	}
}

// Add registers a task and publishes a TaskRegisteredEvent, followed by a
// QueueDepthChangedEvent when the call changed anything.
func (es *EventScheduler) Add(id string, urgency int, deps []string) AddResult {
	es.mu.Lock()
	defer es.mu.Unlock()

	result := es.Scheduler.Add(id, urgency, deps)
	info, _ := es.Scheduler.Task(id)
	ready := info.State == StateReady

	switch result {
	case AddDuplicate, AddPlaceholderIgnored:
		es.logger.Debug("add ignored", "task_id", id, "outcome", string(result))
	default:
		es.logger.Debug("task registered",
			"task_id", id,
			"urgency", urgency,
			"deps", len(deps),
			"outcome", string(result),
			"ready", ready,
		)
	}

	es.bus.Publish(event.NewTaskRegisteredEvent(id, urgency, deps, string(result), ready))
	if result.Applied() {
		es.publishDepth()
	}
	return result
}

// Update changes a task's urgency and publishes a TaskUrgencyChangedEvent
// when it succeeds.
func (es *EventScheduler) Update(id string, urgency int) bool {
	es.mu.Lock()
	defer es.mu.Unlock()

	before, _ := es.Scheduler.Task(id)
	if !es.Scheduler.Update(id, urgency) {
		es.logger.Debug("update ignored", "task_id", id, "urgency", urgency)
		return false
	}

	es.logger.Debug("urgency changed", "task_id", id, "old", before.Urgency, "new", urgency)
	es.bus.Publish(event.NewTaskUrgencyChangedEvent(id, before.Urgency, urgency))
	return true
}

// Resolve resolves the most urgent ready task. See ResolveNext.
func (es *EventScheduler) Resolve() (string, bool) {
	res, ok := es.ResolveNext()
	return res.ID, ok
}

// ResolveNext resolves the most urgent ready task and publishes a
// TaskResolvedEvent, one TaskUnblockedEvent per released dependent, and a
// QueueDepthChangedEvent.
func (es *EventScheduler) ResolveNext() (Resolution, bool) {
	es.mu.Lock()
	defer es.mu.Unlock()

	res, ok := es.Scheduler.ResolveNext()
	if !ok {
		return res, false
	}

	es.logger.Info("task resolved", "task_id", res.ID, "urgency", res.Urgency, "unblocked", len(res.Unblocked))
	es.bus.Publish(event.NewTaskResolvedEvent(res.ID, res.Urgency, res.Unblocked))
	for _, id := range res.Unblocked {
		es.bus.Publish(event.NewTaskUnblockedEvent(id, res.ID))
	}
	es.publishDepth()
	return res, true
}

// Drain resolves tasks until none is ready, publishing events for each.
func (es *EventScheduler) Drain() []string {
	var ids []string
	for {
		id, ok := es.Resolve()
		if !ok {
			return ids
		}
		ids = append(ids, id)
	}
}

// publishDepth publishes the current counts. Caller must hold es.mu.
func (es *EventScheduler) publishDepth() {
	st := es.Scheduler.Status()
	es.bus.Publish(event.NewQueueDepthChangedEvent(st.Ready, st.Blocked, st.Resolved, st.Placeholders, st.Total))
}
