package scheduler

import (
	"sync"
)

// Scheduler hands out the most urgent task whose prerequisites are resolved.
// All methods are safe for concurrent use via an internal mutex.
type Scheduler struct {
	mu        sync.Mutex
	index     *taskIndex
	queue     readyQueue
	nextOrder int64

	promotePlaceholders bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPlaceholderPromotion lets Add upgrade a placeholder in place instead
// of ignoring it. Without it, a task first named as a dependency can never
// be registered and never becomes ready.
func WithPlaceholderPromotion() Option {
	return func(s *Scheduler) {
		s.promotePlaceholders = true
	}
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{index: newTaskIndex()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a task with the given urgency and prerequisites.
//
// If id already has a record, registered or placeholder, the call changes
// nothing and reports why. Otherwise the task gets the next registration
// order, every unknown prerequisite becomes a placeholder, prerequisites
// that are already resolved do not count against it, and the task enters
// the ready queue if nothing is left to wait for.
//
// A prerequisite listed twice counts twice; it is released twice when it
// resolves.
func (s *Scheduler) Add(id string, urgency int, deps []string) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.index.Lookup(id); ok {
		if existing.state != StatePlaceholder {
			return AddDuplicate
		}
		if !s.promotePlaceholders {
			return AddPlaceholderIgnored
		}
		s.register(existing, urgency, deps)
		return AddPromoted
	}

	t := &task{id: id, index: notQueued}
	// Index before wiring dependencies so a self-dependency finds this record.
	s.index.Insert(id, t)
	s.register(t, urgency, deps)
	return AddRegistered
}

// register turns t into a registered task. The caller must hold s.mu.
func (s *Scheduler) register(t *task, urgency int, deps []string) {
	t.urgency = urgency
	t.order = s.nextOrder
	s.nextOrder++
	t.state = StateBlocked
	t.dependencies = append([]string(nil), deps...)
	t.unresolved = len(deps)

	for _, depID := range deps {
		dep, ok := s.index.Lookup(depID)
		if !ok {
			dep = newPlaceholder(depID)
			s.index.Insert(depID, dep)
		}
		dep.dependents = append(dep.dependents, t)
		if dep.state.IsTerminal() {
			t.unresolved--
		}
	}

	if t.unresolved == 0 {
		s.enqueue(t)
	}
}

// enqueue moves a blocked task into the ready queue. The caller must hold s.mu.
func (s *Scheduler) enqueue(t *task) {
	t.state = StateReady
	s.queue.Insert(t)
}

// Update sets the urgency of a known, unresolved task and reports whether
// it did. Queued tasks are re-heapified in place. Placeholders accept the
// new urgency even though they are never queued.
func (s *Scheduler) Update(id string, urgency int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.index.Lookup(id)
	if !ok || t.state.IsTerminal() {
		return false
	}

	t.urgency = urgency
	if t.state == StateReady {
		s.queue.Reheapify(t)
	}
	return true
}

// Resolve pops the most urgent ready task, marks it resolved, releases its
// dependents and returns its ID. It returns false when no task is ready.
func (s *Scheduler) Resolve() (string, bool) {
	res, ok := s.ResolveNext()
	return res.ID, ok
}

// ResolveNext is Resolve that also reports which dependents became ready.
func (s *Scheduler) ResolveNext() (Resolution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.IsEmpty() {
		return Resolution{}, false
	}

	t := s.queue.ExtractMax()
	t.state = StateResolved

	res := Resolution{ID: t.id, Urgency: t.urgency}
	for _, dependent := range t.dependents {
		dependent.unresolved--
		if dependent.unresolved == 0 && dependent.state == StateBlocked {
			s.enqueue(dependent)
			res.Unblocked = append(res.Unblocked, dependent.id)
		}
	}
	return res, true
}

// Drain resolves tasks until none is ready and returns their IDs in
// resolution order.
func (s *Scheduler) Drain() []string {
	var ids []string
	for {
		id, ok := s.Resolve()
		if !ok {
			return ids
		}
		ids = append(ids, id)
	}
}
