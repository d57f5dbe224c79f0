package scheduler

// taskIndex maps task identifiers to their records. Identifiers are
// case-sensitive and stored verbatim.
type taskIndex struct {
	tasks map[string]*task
}

func newTaskIndex() *taskIndex {
	return &taskIndex{tasks: make(map[string]*task)}
}

// Lookup returns the record for id, if any.
func (x *taskIndex) Lookup(id string) (*task, bool) {
	t, ok := x.tasks[id]
	return t, ok
}

// Insert associates id with t. It is a no-op when id is already present;
// callers check Exists first.
func (x *taskIndex) Insert(id string, t *task) {
	if _, ok := x.tasks[id]; ok {
		return
	}
	x.tasks[id] = t
}

// Exists reports whether id has a record.
func (x *taskIndex) Exists(id string) bool {
	_, ok := x.tasks[id]
	return ok
}

// Len returns the number of records.
func (x *taskIndex) Len() int {
	return len(x.tasks)
}

// Each calls fn for every record in unspecified order.
func (x *taskIndex) Each(fn func(*task)) {
	for _, t := range x.tasks {
		fn(t)
	}
}
