package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier, e.g. "task.resolved".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeTaskRegistered     = "task.registered"
	TypeTaskUrgencyChanged = "task.urgency_changed"
	TypeTaskResolved       = "task.resolved"
	TypeTaskUnblocked      = "task.unblocked"
	TypeQueueDepthChanged  = "queue.depth_changed"
	TypeRunStarted         = "run.started"
	TypeRunFinished        = "run.finished"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// -----------------------------------------------------------------------------
// Task Events
// -----------------------------------------------------------------------------

// TaskRegisteredEvent is emitted after an add call, including ignored ones.
type TaskRegisteredEvent struct {
	baseEvent
	TaskID       string
	Urgency      int
	Dependencies []string
	Outcome      string // "registered", "promoted", "duplicate", "placeholder_ignored"
	Ready        bool   // Whether the task went straight into the ready queue
}

// NewTaskRegisteredEvent creates a TaskRegisteredEvent.
func NewTaskRegisteredEvent(taskID string, urgency int, deps []string, outcome string, ready bool) TaskRegisteredEvent {
	return TaskRegisteredEvent{
		baseEvent:    newBaseEvent(TypeTaskRegistered),
		TaskID:       taskID,
		Urgency:      urgency,
		Dependencies: deps,
		Outcome:      outcome,
		Ready:        ready,
	}
}

// TaskUrgencyChangedEvent is emitted when an update call changes a task.
type TaskUrgencyChangedEvent struct {
	baseEvent
	TaskID     string
	OldUrgency int
	NewUrgency int
}

// NewTaskUrgencyChangedEvent creates a TaskUrgencyChangedEvent.
func NewTaskUrgencyChangedEvent(taskID string, oldUrgency, newUrgency int) TaskUrgencyChangedEvent {
	return TaskUrgencyChangedEvent{
		baseEvent:  newBaseEvent(TypeTaskUrgencyChanged),
		TaskID:     taskID,
		OldUrgency: oldUrgency,
		NewUrgency: newUrgency,
	}
}

// TaskResolvedEvent is emitted when a task is popped from the ready queue.
type TaskResolvedEvent struct {
	baseEvent
	TaskID    string
	Urgency   int
	Unblocked []string // Dependents that became ready as a result
}

// NewTaskResolvedEvent creates a TaskResolvedEvent.
func NewTaskResolvedEvent(taskID string, urgency int, unblocked []string) TaskResolvedEvent {
	return TaskResolvedEvent{
		baseEvent: newBaseEvent(TypeTaskResolved),
		TaskID:    taskID,
		Urgency:   urgency,
		Unblocked: unblocked,
	}
}

// TaskUnblockedEvent is emitted for each dependent whose last prerequisite
// was resolved.
type TaskUnblockedEvent struct {
	baseEvent
	TaskID     string
	ResolvedBy string
}

// NewTaskUnblockedEvent creates a TaskUnblockedEvent.
func NewTaskUnblockedEvent(taskID, resolvedBy string) TaskUnblockedEvent {
	return TaskUnblockedEvent{
		baseEvent:  newBaseEvent(TypeTaskUnblocked),
		TaskID:     taskID,
		ResolvedBy: resolvedBy,
	}
}

// QueueDepthChangedEvent carries scheduler counts after a mutation.
type QueueDepthChangedEvent struct {
	baseEvent
	Ready        int
	Blocked      int
	Resolved     int
	Placeholders int
	Total        int
}

// NewQueueDepthChangedEvent creates a QueueDepthChangedEvent.
func NewQueueDepthChangedEvent(ready, blocked, resolved, placeholders, total int) QueueDepthChangedEvent {
	return QueueDepthChangedEvent{
		baseEvent:    newBaseEvent(TypeQueueDepthChanged),
		Ready:        ready,
		Blocked:      blocked,
		Resolved:     resolved,
		Placeholders: placeholders,
		Total:        total,
	}
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// RunStartedEvent is emitted when a script or plan run begins.
type RunStartedEvent struct {
	baseEvent
	RunID  string
	Source string // Path of the script or plan file
}

// NewRunStartedEvent creates a RunStartedEvent.
func NewRunStartedEvent(runID, source string) RunStartedEvent {
	return RunStartedEvent{
		baseEvent: newBaseEvent(TypeRunStarted),
		RunID:     runID,
		Source:    source,
	}
}

// RunFinishedEvent is emitted when a run ends, successfully or not.
type RunFinishedEvent struct {
	baseEvent
	RunID    string
	Resolved int
	Err      error
}

// NewRunFinishedEvent creates a RunFinishedEvent.
func NewRunFinishedEvent(runID string, resolved int, err error) RunFinishedEvent {
	return RunFinishedEvent{
		baseEvent: newBaseEvent(TypeRunFinished),
		RunID:     runID,
		Resolved:  resolved,
		Err:       err,
	}
}
