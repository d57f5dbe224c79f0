package scheduler

import (
	"container/heap"
	"slices"

	"github.com/Iron-Ham/triage/internal/errors"
)

// taskHeap implements heap.Interface as a max-heap on task priority.
// Swap keeps every task's index pointing at its slot.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool { return higherPriority(h[i], h[j]) }

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = notQueued
	*h = old[:n-1]
	return t
}

// readyQueue is the indexed priority queue of tasks whose prerequisites are
// all resolved.
type readyQueue struct {
	items taskHeap
}

// Insert adds t and sifts it up. O(log n).
func (q *readyQueue) Insert(t *task) {
	heap.Push(&q.items, t)
}

// ExtractMax removes and returns the highest-priority task. O(log n).
// Calling it on an empty queue is a programming error and panics with
// errors.ErrEmptyQueue.
func (q *readyQueue) ExtractMax() *task {
	if len(q.items) == 0 {
		panic(errors.ErrEmptyQueue)
	}
	return heap.Pop(&q.items).(*task)
}

// Reheapify restores heap order after t's urgency changed. It is a no-op
// for tasks not in this queue or whose priority did not move. O(log n).
func (q *readyQueue) Reheapify(t *task) {
	if !q.Contains(t) {
		return
	}
	heap.Fix(&q.items, t.index)
}

// Contains reports whether t currently occupies a slot in the queue.
func (q *readyQueue) Contains(t *task) bool {
	return t.index >= 0 && t.index < len(q.items) && q.items[t.index] == t
}

// Peek returns the highest-priority task without removing it.
func (q *readyQueue) Peek() (*task, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// Len returns the number of queued tasks.
func (q *readyQueue) Len() int { return len(q.items) }

// IsEmpty reports whether no task is queued.
func (q *readyQueue) IsEmpty() bool { return len(q.items) == 0 }

// Snapshot returns the queued tasks in resolution order without touching
// the heap. O(n log n).
func (q *readyQueue) Snapshot() []*task {
	out := slices.Clone([]*task(q.items))
	slices.SortFunc(out, func(a, b *task) int {
		switch {
		case higherPriority(a, b):
			return -1
		case higherPriority(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}
