package tasks

// PendingKind identifies what a pending deletion will remove
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingTask
	PendingClearCompleted
)

// Pending is the deletion awaiting confirmation
type Pending struct {
	Kind   PendingKind
	TaskID int64 // set when Kind is PendingTask
}

// Gate holds at most one deletion until it is confirmed or cancelled. A new
// request replaces whatever was pending.
type Gate struct {
	store   *Store
	pending Pending
}

// NewGate creates a confirmation gate in front of store
func NewGate(store *Store) *Gate {
	return &Gate{store: store}
}

// RequestDelete asks to delete one task. Unknown ids are ignored.
func (g *Gate) RequestDelete(id int64) {
	if _, ok := g.store.Get(id); !ok {
		return
	}
	g.pending = Pending{Kind: PendingTask, TaskID: id}
}

// RequestClearCompleted asks to remove every completed task. Nothing is
// requested when there are no completed tasks.
func (g *Gate) RequestClearCompleted() {
	if g.store.CompletedCount() == 0 {
		return
	}
	g.pending = Pending{Kind: PendingClearCompleted}
}

// Pending returns the request awaiting confirmation
func (g *Gate) Pending() Pending {
	return g.pending
}

// Active reports whether a deletion is awaiting confirmation
func (g *Gate) Active() bool {
	return g.pending.Kind != PendingNone
}

// Confirm executes the pending deletion and clears the slot. It returns the
// number of tasks removed.
func (g *Gate) Confirm() int {
	p := g.pending
	g.pending = Pending{}

	switch p.Kind {
	case PendingTask:
		if g.store.remove(p.TaskID) {
			return 1
		}
	case PendingClearCompleted:
		return g.store.clearCompleted()
	}
	return 0
}

// Cancel clears the slot without touching the store
func (g *Gate) Cancel() {
	g.pending = Pending{}
}
