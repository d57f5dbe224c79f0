// Package event provides a synchronous pub-sub bus and the event types
// emitted by the scheduler and by script runs.
//
// Observers such as loggers, the interactive console or tests subscribe to
// events instead of polling the scheduler.
//
// # Event Types
//
//   - [TaskRegisteredEvent]: an add call completed (including ignored ones)
//   - [TaskUrgencyChangedEvent]: an update changed a task's urgency
//   - [TaskResolvedEvent]: a task was popped from the ready queue
//   - [TaskUnblockedEvent]: a dependent's last prerequisite resolved
//   - [QueueDepthChangedEvent]: counts after any mutation
//   - [RunStartedEvent], [RunFinishedEvent]: script or plan run lifecycle
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers are called synchronously on the
// publishing goroutine; a panicking handler is logged and does not prevent
// delivery to the remaining handlers.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypeTaskResolved, func(e event.Event) {
//	    resolved := e.(event.TaskResolvedEvent)
//	    fmt.Println(resolved.TaskID)
//	})
package event
