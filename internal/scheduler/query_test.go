package scheduler

import (
	"slices"
	"testing"
)

func TestScheduler_Status(t *testing.T) {
	s := New()
	s.Add("a", 1, nil)
	s.Add("b", 2, []string{"a"})
	s.Add("c", 3, []string{"ghost"})
	s.Add("d", 4, nil)
	s.Resolve() // d

	want := Status{Total: 5, Placeholders: 1, Blocked: 2, Ready: 1, Resolved: 1}
	if got := s.Status(); got != want {
		t.Errorf("Status() = %+v, want %+v", got, want)
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
}

func TestScheduler_ReadyAndPeek(t *testing.T) {
	s := New()
	s.Add("low", 1, nil)
	s.Add("high", 9, nil)
	s.Add("mid", 5, nil)
	s.Add("held", 100, []string{"low"})

	var ids []string
	for _, info := range s.Ready() {
		ids = append(ids, info.ID)
	}
	if !slices.Equal(ids, []string{"high", "mid", "low"}) {
		t.Errorf("Ready() = %v, want [high mid low]", ids)
	}

	top, ok := s.Peek()
	if !ok || top.ID != "high" {
		t.Errorf("Peek() = %+v, %v; want high", top, ok)
	}
	if s.Status().Ready != 3 {
		t.Error("Peek must not remove the task")
	}

	if _, ok := New().Peek(); ok {
		t.Error("Peek() on empty scheduler should report false")
	}
}

func TestScheduler_TaskReturnsCopy(t *testing.T) {
	s := New()
	s.Add("a", 1, []string{"b"})

	info, _ := s.Task("a")
	info.Dependencies[0] = "mutated"

	again, _ := s.Task("a")
	if again.Dependencies[0] != "b" {
		t.Error("mutating a TaskInfo changed the scheduler record")
	}
}

func TestScheduler_Stalled(t *testing.T) {
	s := New()
	s.Add("base", 1, nil)
	s.Add("waits-base", 1, []string{"base"})
	s.Add("waits-ghost", 1, []string{"base", "ghost"})
	s.Add("p", 1, []string{"q"})
	s.Add("q", 1, []string{"p"})
	s.Add("free", 1, nil)

	s.Resolve() // base
	s.Resolve() // waits-base
	s.Resolve() // free

	stalled := s.Stalled()
	var ids []string
	for _, st := range stalled {
		ids = append(ids, st.ID)
	}
	if !slices.Equal(ids, []string{"waits-ghost", "p"}) {
		t.Fatalf("Stalled() ids = %v, want [waits-ghost p]", ids)
	}
	// q was a placeholder when p was added, so it stays one.

	ghost := stalled[0]
	if !slices.Equal(ghost.Waiting, []string{"ghost"}) {
		t.Errorf("waiting = %v, want [ghost]", ghost.Waiting)
	}
	if !slices.Equal(ghost.Missing, []string{"ghost"}) {
		t.Errorf("missing = %v, want [ghost]", ghost.Missing)
	}
}

func TestScheduler_Cycles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Scheduler)
		want  [][]string
	}{
		{
			name: "no cycles",
			setup: func(s *Scheduler) {
				s.Add("a", 1, nil)
				s.Add("b", 1, []string{"a"})
			},
			want: nil,
		},
		{
			name: "self loop",
			setup: func(s *Scheduler) {
				s.Add("self", 1, []string{"self"})
			},
			want: [][]string{{"self", "self"}},
		},
		{
			name: "three node cycle",
			setup: func(s *Scheduler) {
				s.Add("c", 1, []string{"a"})
				s.Add("b", 1, []string{"c"})
				s.Add("a", 1, []string{"b"})
			},
			want: nil, // a is a placeholder once c lists it, so the loop never closes
		},
		{
			name: "promoted three node cycle",
			setup: func(s *Scheduler) {
				s.promotePlaceholders = true
				s.Add("c", 1, []string{"a"})
				s.Add("b", 1, []string{"c"})
				s.Add("a", 1, []string{"b"})
			},
			want: [][]string{{"a", "b", "c", "a"}},
		},
		{
			name: "resolved tasks break cycles",
			setup: func(s *Scheduler) {
				s.promotePlaceholders = true
				s.Add("x", 1, []string{"y"})
				s.Add("y", 1, nil)
				s.Resolve()
			},
			want: nil,
		},
		{
			name: "two disjoint cycles",
			setup: func(s *Scheduler) {
				s.promotePlaceholders = true
				s.Add("q", 1, []string{"p"})
				s.Add("p", 1, []string{"q"})
				s.Add("n", 1, []string{"m"})
				s.Add("m", 1, []string{"n"})
			},
			want: [][]string{{"m", "n", "m"}, {"p", "q", "p"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.setup(s)

			got := s.Cycles()
			if !slices.EqualFunc(got, tt.want, slices.Equal[[]string]) {
				t.Errorf("Cycles() = %v, want %v", got, tt.want)
			}
		})
	}
}
