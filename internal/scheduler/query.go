package scheduler

import (
	"slices"
	"strings"
)

// Task returns a snapshot of the record for id.
func (s *Scheduler) Task(id string) (TaskInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.index.Lookup(id)
	if !ok {
		return TaskInfo{}, false
	}
	return t.info(), true
}

// Len returns the number of records, placeholders included.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Len()
}

// Peek returns the task the next Resolve would return, without resolving it.
func (s *Scheduler) Peek() (TaskInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.queue.Peek()
	if !ok {
		return TaskInfo{}, false
	}
	return t.info(), true
}

// Ready returns the ready tasks in the order Resolve would return them if
// nothing changed in between.
func (s *Scheduler) Ready() []TaskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued := s.queue.Snapshot()
	out := make([]TaskInfo, len(queued))
	for i, t := range queued {
		out[i] = t.info()
	}
	return out
}

// Status returns a snapshot of the current counts.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Status
	st.Total = s.index.Len()
	s.index.Each(func(t *task) {
		switch t.state {
		case StatePlaceholder:
			st.Placeholders++
		case StateBlocked:
			st.Blocked++
		case StateReady:
			st.Ready++
		case StateResolved:
			st.Resolved++
		}
	})
	return st
}

// Stalled returns every registered task that is neither ready nor resolved,
// in registration order, with the prerequisites it is still waiting on.
// Tasks waiting on a cycle or on a placeholder show up here permanently.
func (s *Scheduler) Stalled() []StalledTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blocked []*task
	s.index.Each(func(t *task) {
		if t.state == StateBlocked {
			blocked = append(blocked, t)
		}
	})
	slices.SortFunc(blocked, func(a, b *task) int {
		return int(a.order - b.order)
	})

	out := make([]StalledTask, 0, len(blocked))
	for _, t := range blocked {
		st := StalledTask{TaskInfo: t.info(), Waiting: []string{}}
		for _, depID := range t.dependencies {
			dep, _ := s.index.Lookup(depID)
			if dep.state.IsTerminal() {
				continue
			}
			st.Waiting = append(st.Waiting, depID)
			if dep.state == StatePlaceholder {
				st.Missing = append(st.Missing, depID)
			}
		}
		out = append(out, st)
	}
	return out
}

// Cycles returns the dependency cycles among unresolved tasks found by a
// depth-first search. Each cycle starts and ends with the same ID and reads
// as "depends on" from left to right. Cycles are reported once, rotated to
// start at their lexicographically smallest member, and sorted.
func (s *Scheduler) Cycles() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	parent := make(map[string]string)
	seen := make(map[string]bool)
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		t, _ := s.index.Lookup(id)
		for _, next := range t.dependencies {
			dep, ok := s.index.Lookup(next)
			if !ok || dep.state.IsTerminal() {
				continue
			}
			switch color[next] {
			case gray:
				cycle := []string{next}
				for cur := id; cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, next)
				slices.Reverse(cycle)
				cycle = canonicalCycle(cycle)
				if key := strings.Join(cycle, "\x00"); !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			case white:
				parent[next] = id
				visit(next)
			}
		}
		color[id] = black
	}

	var ids []string
	s.index.Each(func(t *task) {
		if !t.state.IsTerminal() {
			ids = append(ids, t.id)
		}
	})
	slices.Sort(ids)

	for _, id := range ids {
		if color[id] == white {
			visit(id)
		}
	}

	slices.SortFunc(cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return cycles
}

// canonicalCycle rotates a closed path so it starts at its smallest ID.
func canonicalCycle(cycle []string) []string {
	body := cycle[:len(cycle)-1]
	start := 0
	for i, id := range body {
		if id < body[start] {
			start = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, body[start:]...)
	out = append(out, body[:start]...)
	return append(out, out[0])
}
