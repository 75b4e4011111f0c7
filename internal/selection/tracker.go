// Package selection tracks which rows of a displayed list are selected.
//
// The tracker is keyed by models.PersonID, never by display position, so it
// stays valid while rows are re-sorted. Callers must Clear it when the list
// changes structurally (rows added or removed) so no stale keys survive.
package selection

import (
	"slices"
	"sync"

	"github.com/mmynk/debitum/internal/models"
)

// State classifies a selection by its size.
type State int

const (
	Empty    State = iota // nothing selected
	Single                // exactly one row selected
	Multiple              // two or more rows selected
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return "unknown"
	}
}

// StateFor returns the state for a selection of the given size.
func StateFor(size int) State {
	switch {
	case size <= 0:
		return Empty
	case size == 1:
		return Single
	default:
		return Multiple
	}
}

// Change is delivered to observers after every mutating call.
type Change struct {
	Size  int
	State State
}

// Actions are the contextual actions a renderer should offer.
type Actions struct {
	Add    bool
	Edit   bool
	Delete bool
}

// ActionsFor maps a selection size to the visible actions:
// nothing selected offers add only, one row offers edit and delete,
// several rows offer bulk delete only.
func ActionsFor(size int) Actions {
	switch StateFor(size) {
	case Empty:
		return Actions{Add: true}
	case Single:
		return Actions{Edit: true, Delete: true}
	default:
		return Actions{Delete: true}
	}
}

// Tracker is a set of selected keys with change notification.
// It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	keys      map[models.PersonID]struct{}
	observers map[int]func(Change)
	nextObs   int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		keys:      make(map[models.PersonID]struct{}),
		observers: make(map[int]func(Change)),
	}
}

// Observe registers fn to be called after every mutating operation.
// The returned func removes the observer.
func (t *Tracker) Observe(fn func(Change)) (cancel func()) {
	t.mu.Lock()
	id := t.nextObs
	t.nextObs++
	t.observers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.observers, id)
		t.mu.Unlock()
	}
}

// Select adds key. Selecting an already selected key changes nothing.
func (t *Tracker) Select(key models.PersonID) {
	t.mutate(func() { t.keys[key] = struct{}{} })
}

// Deselect removes key if present.
func (t *Tracker) Deselect(key models.PersonID) {
	t.mutate(func() { delete(t.keys, key) })
}

// Toggle flips the membership of key.
func (t *Tracker) Toggle(key models.PersonID) {
	t.mutate(func() {
		if _, ok := t.keys[key]; ok {
			delete(t.keys, key)
		} else {
			t.keys[key] = struct{}{}
		}
	})
}

// Clear empties the selection.
func (t *Tracker) Clear() {
	t.mutate(func() { clear(t.keys) })
}

// IsSelected reports whether key is selected.
func (t *Tracker) IsSelected(key models.PersonID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.keys[key]
	return ok
}

// Size returns the number of selected keys.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keys)
}

// State returns the current classification.
func (t *Tracker) State() State {
	return StateFor(t.Size())
}

// Keys returns the selected keys in sorted order.
func (t *Tracker) Keys() []models.PersonID {
	return t.Snapshot()
}

// Snapshot returns an independent, sorted copy of the selected keys.
// Bulk actions iterate the snapshot, never the live set.
func (t *Tracker) Snapshot() []models.PersonID {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]models.PersonID, 0, len(t.keys))
	for k := range t.keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (t *Tracker) mutate(fn func()) {
	t.mu.Lock()
	fn()
	change := Change{Size: len(t.keys), State: StateFor(len(t.keys))}
	observers := make([]func(Change), 0, len(t.observers))
	for _, obs := range t.observers {
		observers = append(observers, obs)
	}
	t.mu.Unlock()

	for _, obs := range observers {
		obs(change)
	}
}
