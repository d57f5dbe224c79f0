package scheduler

// TaskState is the lifecycle state of a task record.
type TaskState string

const (
	// StatePlaceholder marks a record created only because another task
	// listed it as a dependency.
	StatePlaceholder TaskState = "placeholder"

	// StateBlocked marks a registered task with unresolved prerequisites.
	StateBlocked TaskState = "blocked"

	// StateReady marks a registered task sitting in the ready queue.
	StateReady TaskState = "ready"

	// StateResolved marks a task returned by Resolve. It is terminal.
	StateResolved TaskState = "resolved"
)

// String returns the string representation of the state.
func (s TaskState) String() string {
	return string(s)
}

// IsTerminal returns true if this state can never change again.
func (s TaskState) IsTerminal() bool {
	return s == StateResolved
}

// notQueued is the heap index of a task outside the ready queue.
const notQueued = -1

// task is the record kept for every identifier the scheduler has seen.
type task struct {
	id      string
	urgency int

	// order is the registration sequence number used to break urgency ties.
	// Placeholders have no meaningful order and are never compared.
	order int64

	state        TaskState
	dependencies []string
	dependents   []*task

	// unresolved counts listed prerequisites that are not yet resolved.
	unresolved int

	// index is the task's slot in the ready queue, or notQueued.
	index int
}

func newPlaceholder(id string) *task {
	return &task{
		id:    id,
		order: -1,
		state: StatePlaceholder,
		index: notQueued,
	}
}

// higherPriority reports whether a should be resolved before b.
func higherPriority(a, b *task) bool {
	if a.urgency != b.urgency {
		return a.urgency > b.urgency
	}
	return a.order < b.order
}

// TaskInfo is a read-only snapshot of a task record.
type TaskInfo struct {
	ID           string    `json:"id"`
	Urgency      int       `json:"urgency"`
	State        TaskState `json:"state"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Dependents   []string  `json:"dependents,omitempty"`
	Unresolved   int       `json:"unresolved"`
}

func (t *task) info() TaskInfo {
	info := TaskInfo{
		ID:         t.id,
		Urgency:    t.urgency,
		State:      t.state,
		Unresolved: t.unresolved,
	}
	if len(t.dependencies) > 0 {
		info.Dependencies = append([]string(nil), t.dependencies...)
	}
	if len(t.dependents) > 0 {
		info.Dependents = make([]string, len(t.dependents))
		for i, d := range t.dependents {
			info.Dependents[i] = d.id
		}
	}
	return info
}

// AddResult describes what an Add call did.
type AddResult string

const (
	// AddRegistered means a new task record was created.
	AddRegistered AddResult = "registered"

	// AddPromoted means an existing placeholder was upgraded in place.
	AddPromoted AddResult = "promoted"

	// AddDuplicate means the ID was already registered; nothing changed.
	AddDuplicate AddResult = "duplicate"

	// AddPlaceholderIgnored means the ID exists only as a placeholder and
	// promotion is disabled; nothing changed.
	AddPlaceholderIgnored AddResult = "placeholder_ignored"
)

// Applied reports whether the Add call changed scheduler state.
func (r AddResult) Applied() bool {
	return r == AddRegistered || r == AddPromoted
}

// Resolution is the outcome of resolving one task.
type Resolution struct {
	ID      string `json:"id"`
	Urgency int    `json:"urgency"`

	// Unblocked lists dependents that entered the ready queue because of
	// this resolution, in the order they were registered as dependents.
	Unblocked []string `json:"unblocked,omitempty"`
}

// Status is a snapshot of the scheduler's counts.
type Status struct {
	Total        int `json:"total"`
	Placeholders int `json:"placeholders"`
	Blocked      int `json:"blocked"`
	Ready        int `json:"ready"`
	Resolved     int `json:"resolved"`
}

// StalledTask describes a registered task that is neither ready nor
// resolved, along with what it is waiting on.
type StalledTask struct {
	TaskInfo

	// Waiting lists unresolved prerequisites, in dependency-list order.
	Waiting []string `json:"waiting"`

	// Missing is the subset of Waiting that exists only as placeholders and
	// so can never resolve without promotion.
	Missing []string `json:"missing,omitempty"`
}
