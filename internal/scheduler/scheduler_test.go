package scheduler

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"testing"
)

// checkInvariants verifies that index, graph and queue agree with each other.
func checkInvariants(t *testing.T, s *Scheduler) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	checkHeap(t, &s.queue)

	s.index.Each(func(rec *task) {
		if rec.state == StatePlaceholder {
			if s.queue.Contains(rec) {
				t.Errorf("placeholder %q is queued", rec.id)
			}
			return
		}

		unresolved := 0
		for _, depID := range rec.dependencies {
			dep, ok := s.index.Lookup(depID)
			if !ok {
				t.Errorf("task %q depends on %q which has no record", rec.id, depID)
				continue
			}
			if dep.state != StateResolved {
				unresolved++
			}
			if !slices.Contains(dep.dependents, rec) {
				t.Errorf("task %q missing from dependents of %q", rec.id, depID)
			}
		}
		if rec.state != StateResolved && rec.unresolved != unresolved {
			t.Errorf("task %q unresolved = %d, want %d", rec.id, rec.unresolved, unresolved)
		}

		wantQueued := rec.state != StateResolved && rec.unresolved == 0
		if got := s.queue.Contains(rec); got != wantQueued {
			t.Errorf("task %q queued = %v, want %v (state %s)", rec.id, got, wantQueued, rec.state)
		}
		if (rec.state == StateReady) != wantQueued {
			t.Errorf("task %q state = %s but queued = %v", rec.id, rec.state, wantQueued)
		}
		if !wantQueued && rec.index != notQueued {
			t.Errorf("task %q index = %d outside the queue", rec.id, rec.index)
		}
	})
}

func TestScheduler_Scenarios(t *testing.T) {
	t.Run("dependency frees lower urgency task", func(t *testing.T) {
		s := New()
		s.Add("A", 5, nil)
		s.Add("B", 10, nil)
		s.Add("C", 1, []string{"A"})

		for _, want := range []string{"B", "A", "C"} {
			got, ok := s.Resolve()
			if !ok || got != want {
				t.Fatalf("Resolve() = %q, %v; want %q", got, ok, want)
			}
			checkInvariants(t, s)
		}
		if got, ok := s.Resolve(); ok {
			t.Errorf("Resolve() = %q, want no task ready", got)
		}
	})

	t.Run("tie then update", func(t *testing.T) {
		s := New()
		s.Add("X", 1, nil)
		s.Add("Y", 1, nil)

		if got, _ := s.Resolve(); got != "X" {
			t.Fatalf("Resolve() = %q, want X", got)
		}
		if !s.Update("Y", 5) {
			t.Fatal("Update(Y) = false, want true")
		}
		if got, _ := s.Resolve(); got != "Y" {
			t.Fatalf("Resolve() = %q, want Y", got)
		}
		checkInvariants(t, s)
	})
}

func TestScheduler_IndependentTasksOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New()

	type entry struct {
		id      string
		urgency int
		order   int
	}
	var entries []entry
	for i := 0; i < 200; i++ {
		e := entry{id: fmt.Sprintf("t%03d", i), urgency: rng.Intn(10), order: i}
		entries = append(entries, e)
		s.Add(e.id, e.urgency, nil)
	}
	checkInvariants(t, s)

	slices.SortStableFunc(entries, func(a, b entry) int {
		return b.urgency - a.urgency
	})

	got := s.Drain()
	if len(got) != len(entries) {
		t.Fatalf("resolved %d tasks, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if got[i] != e.id {
			t.Fatalf("resolution %d = %q, want %q", i, got[i], e.id)
		}
	}
}

func TestScheduler_DependenciesResolveFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New()

	deps := make(map[string][]string)
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("t%03d", i)
		var d []string
		// Only earlier tasks, so the graph is acyclic and fully resolvable.
		for j := 0; j < i && len(d) < 3; j++ {
			if rng.Intn(10) == 0 {
				d = append(d, fmt.Sprintf("t%03d", j))
			}
		}
		deps[id] = d
		s.Add(id, rng.Intn(100), d)
	}

	resolvedAt := make(map[string]int)
	for i := 0; ; i++ {
		id, ok := s.Resolve()
		if !ok {
			break
		}
		for _, dep := range deps[id] {
			if _, done := resolvedAt[dep]; !done {
				t.Fatalf("%q resolved before its dependency %q", id, dep)
			}
		}
		resolvedAt[id] = i
		if i%10 == 0 {
			checkInvariants(t, s)
		}
	}
	if len(resolvedAt) != 100 {
		t.Errorf("resolved %d tasks, want 100", len(resolvedAt))
	}
}

func TestScheduler_UpdateRaisesToFront(t *testing.T) {
	s := New()
	for i := 0; i < 20; i++ {
		s.Add(fmt.Sprintf("t%02d", i), 50+i, nil)
	}

	s.Update("t03", 1000)
	checkInvariants(t, s)

	if got, _ := s.Resolve(); got != "t03" {
		t.Errorf("Resolve() = %q, want t03", got)
	}
}

func TestScheduler_UpdateLowers(t *testing.T) {
	s := New()
	s.Add("a", 10, nil)
	s.Add("b", 5, nil)

	s.Update("a", 1)
	checkInvariants(t, s)

	if got := s.Drain(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Drain() = %v, want [b a]", got)
	}
}

func TestScheduler_Update(t *testing.T) {
	s := New()
	s.Add("done", 1, nil)
	s.Resolve()
	s.Add("blocked", 1, []string{"missing"})

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "unknown", id: "nope", want: false},
		{name: "resolved", id: "done", want: false},
		{name: "blocked", id: "blocked", want: true},
		{name: "placeholder", id: "missing", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Update(tt.id, 42); got != tt.want {
				t.Errorf("Update(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	if info, _ := s.Task("done"); info.Urgency != 1 {
		t.Errorf("resolved task urgency = %d, want 1", info.Urgency)
	}
	if info, _ := s.Task("missing"); info.Urgency != 42 || info.State != StatePlaceholder {
		t.Errorf("placeholder = %+v, want urgency 42 and still a placeholder", info)
	}
	if _, ok := s.Task("nope"); ok {
		t.Error("Update created a record for an unknown id")
	}
	checkInvariants(t, s)
}

func TestScheduler_AddDuplicate(t *testing.T) {
	s := New()
	s.Add("a", 3, []string{"x"})
	s.Add("b", 3, nil)

	if got := s.Add("a", 99, nil); got != AddDuplicate {
		t.Errorf("Add(a) again = %q, want %q", got, AddDuplicate)
	}

	info, _ := s.Task("a")
	if info.Urgency != 3 {
		t.Errorf("urgency = %d, want 3", info.Urgency)
	}
	if !slices.Equal(info.Dependencies, []string{"x"}) {
		t.Errorf("dependencies = %v, want [x]", info.Dependencies)
	}
	if info.State != StateBlocked {
		t.Errorf("state = %s, want blocked", info.State)
	}

	s.mu.Lock()
	a, _ := s.index.Lookup("a")
	b, _ := s.index.Lookup("b")
	s.mu.Unlock()
	if a.order >= b.order {
		t.Errorf("order of a = %d, b = %d; duplicate add moved a", a.order, b.order)
	}
	checkInvariants(t, s)
}

func TestScheduler_Placeholders(t *testing.T) {
	s := New()
	s.Add("app", 5, []string{"lib"})

	info, ok := s.Task("lib")
	if !ok {
		t.Fatal("dependency did not get a placeholder record")
	}
	if info.State != StatePlaceholder || info.Urgency != 0 {
		t.Errorf("placeholder = %+v, want state placeholder, urgency 0", info)
	}

	if got := s.Add("lib", 9, nil); got != AddPlaceholderIgnored {
		t.Errorf("Add(lib) = %q, want %q", got, AddPlaceholderIgnored)
	}
	if got, ok := s.Resolve(); ok {
		t.Errorf("Resolve() = %q, want nothing ready", got)
	}
	if info, _ := s.Task("lib"); info.State != StatePlaceholder {
		t.Errorf("lib state = %s, want placeholder", info.State)
	}
	checkInvariants(t, s)
}

func TestScheduler_PlaceholderPromotion(t *testing.T) {
	s := New(WithPlaceholderPromotion())
	s.Add("first", 1, nil)
	s.Add("app", 5, []string{"lib"})

	if got := s.Add("lib", 9, nil); got != AddPromoted {
		t.Fatalf("Add(lib) = %q, want %q", got, AddPromoted)
	}
	checkInvariants(t, s)

	if got := s.Drain(); !slices.Equal(got, []string{"lib", "app", "first"}) {
		t.Errorf("Drain() = %v, want [lib app first]", got)
	}

	if got := s.Add("lib", 1, nil); got != AddDuplicate {
		t.Errorf("Add(lib) after resolve = %q, want %q", got, AddDuplicate)
	}
}

func TestScheduler_AlreadyResolvedDependency(t *testing.T) {
	s := New()
	s.Add("base", 1, nil)
	s.Resolve()

	s.Add("top", 1, []string{"base"})

	info, _ := s.Task("top")
	if info.State != StateReady || info.Unresolved != 0 {
		t.Errorf("top = %+v, want ready with 0 unresolved", info)
	}
	if base, _ := s.Task("base"); !slices.Contains(base.Dependents, "top") {
		t.Errorf("base dependents = %v, want to include top", base.Dependents)
	}
	checkInvariants(t, s)
}

func TestScheduler_DuplicateDependencyCountsTwice(t *testing.T) {
	s := New()
	s.Add("a", 1, nil)
	s.Add("b", 1, []string{"a", "a"})

	if info, _ := s.Task("b"); info.Unresolved != 2 {
		t.Errorf("unresolved = %d, want 2", info.Unresolved)
	}

	res, _ := s.ResolveNext()
	if !slices.Equal(res.Unblocked, []string{"b"}) {
		t.Errorf("Unblocked = %v, want [b]", res.Unblocked)
	}
	checkInvariants(t, s)
}

func TestScheduler_SelfDependencyNeverReady(t *testing.T) {
	s := New()
	s.Add("loop", 10, []string{"loop"})

	if got, ok := s.Resolve(); ok {
		t.Errorf("Resolve() = %q, want nothing ready", got)
	}
	if info, _ := s.Task("loop"); info.State != StateBlocked {
		t.Errorf("state = %s, want blocked", info.State)
	}
	checkInvariants(t, s)
}

func TestScheduler_ResolveNextUnblockedOrder(t *testing.T) {
	s := New()
	s.Add("root", 1, nil)
	s.Add("z", 1, []string{"root"})
	s.Add("other", 1, nil)
	s.Add("y", 1, []string{"root", "other"})
	s.Add("x", 1, []string{"root"})

	res, ok := s.ResolveNext()
	if !ok || res.ID != "root" {
		t.Fatalf("ResolveNext() = %+v, %v; want root", res, ok)
	}
	if !slices.Equal(res.Unblocked, []string{"z", "x"}) {
		t.Errorf("Unblocked = %v, want [z x]", res.Unblocked)
	}
	checkInvariants(t, s)
}

func TestScheduler_ResolveEmpty(t *testing.T) {
	s := New()
	if id, ok := s.Resolve(); ok || id != "" {
		t.Errorf("Resolve() on empty = %q, %v; want \"\", false", id, ok)
	}
	if got := s.Drain(); len(got) != 0 {
		t.Errorf("Drain() on empty = %v, want none", got)
	}

	s.Add("a", 1, []string{"b"})
	s.Add("b", 1, []string{"a"})
	if id, ok := s.Resolve(); ok {
		t.Errorf("Resolve() with all blocked = %q, want no task ready", id)
	}
}

func TestScheduler_RandomOperations(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		promote bool
	}{
		{name: "placeholders ignored", promote: false},
		{name: "placeholders promoted", opts: []Option{WithPlaceholderPromotion()}, promote: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			s := New(tt.opts...)

			ids := make([]string, 40)
			for i := range ids {
				ids[i] = fmt.Sprintf("t%02d", i)
			}

			for step := 0; step < 500; step++ {
				switch rng.Intn(3) {
				case 0:
					var deps []string
					for n := rng.Intn(3); n > 0; n-- {
						deps = append(deps, ids[rng.Intn(len(ids))])
					}
					id := ids[rng.Intn(len(ids))]
					before, known := s.Task(id)
					got := s.Add(id, rng.Intn(20), deps)

					if known && before.State == StatePlaceholder {
						want := AddPlaceholderIgnored
						if tt.promote {
							want = AddPromoted
						}
						if got != want {
							t.Fatalf("step %d: Add(%s) on placeholder = %q, want %q", step, id, got, want)
						}
						after, _ := s.Task(id)
						if !tt.promote && after.State != StatePlaceholder {
							t.Fatalf("step %d: ignored add changed %s to %s", step, id, after.State)
						}
					}
				case 1:
					s.Update(ids[rng.Intn(len(ids))], rng.Intn(20))
				case 2:
					if id, ok := s.Resolve(); ok {
						if info, _ := s.Task(id); !info.State.IsTerminal() {
							t.Fatalf("step %d: resolved %s is %s", step, id, info.State)
						}
					}
				}
				if step%25 == 0 {
					checkInvariants(t, s)
				}
			}
			checkInvariants(t, s)
		})
	}
}

func TestScheduler_Concurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				s.Add(id, i, nil)
				s.Update(id, i+1)
				s.Resolve()
			}
		}()
	}
	wg.Wait()

	s.Drain()
	if st := s.Status(); st.Resolved != 200 {
		t.Errorf("resolved = %d, want 200", st.Resolved)
	}
	checkInvariants(t, s)
}
