// Package scheduler provides a dependency-aware priority scheduler.
//
// A [Scheduler] tracks named tasks, each with a mutable urgency and a list of
// prerequisite tasks, and repeatedly hands out the most urgent task whose
// prerequisites have all been resolved. Ties on urgency go to the task that
// was registered first.
//
// Three structures are kept consistent across every operation:
//
//   - an identifier index mapping task IDs to task records
//   - the dependency graph, stored as per-task dependents lists plus an
//     unresolved-prerequisite counter that is decremented as prerequisites
//     resolve
//   - an indexed binary max-heap of ready tasks in which every record knows
//     its own slot, so urgency changes re-heapify in place in O(log n)
//
// Tasks named only as someone else's dependency become placeholders. They
// are never queued and, unless [WithPlaceholderPromotion] is set, a later
// Add for the same ID is ignored. Dependency cycles are not rejected; the
// tasks involved simply never become ready. [Scheduler.Stalled] and
// [Scheduler.Cycles] report such tasks on demand.
//
// All methods are safe for concurrent use: each public operation holds a
// single mutex covering the index, the graph and the heap.
//
// Usage:
//
//	s := scheduler.New()
//	s.Add("fetch", 5, nil)
//	s.Add("build", 1, []string{"fetch"})
//
//	for {
//	    id, ok := s.Resolve()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(id)
//	}
package scheduler
