// Package personlist is the presentation model of the person list screen.
//
// A Model consumes ledger snapshots from a Collaborator, aggregates them
// into a calculator.Summary, keeps a selection.Tracker in step with the
// displayed rows and hands a View to the renderer whenever either changes.
package personlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/models"
	"github.com/mmynk/debitum/internal/selection"
)

// ErrNotSingleSelection is returned by EditSelected unless exactly one row
// is selected.
var ErrNotSingleSelection = errors.New("edit requires exactly one selected person")

// Collaborator is the persistence side of the list screen. Implemented by
// ledger.Book in-process and by client.Remote over the network.
type Collaborator interface {
	// Snapshots returns the current person list and every later one.
	// The channel closes when ctx is done.
	Snapshots(ctx context.Context) (<-chan []models.PersonWithTransactions, error)
	Person(ctx context.Context, id models.PersonID) (*models.Person, error)
	AddPerson(ctx context.Context, name string) (*models.Person, error)
	RenamePerson(ctx context.Context, id models.PersonID, name string) (*models.Person, error)
	DeletePerson(ctx context.Context, id models.PersonID) error
	AddTransaction(ctx context.Context, tx *models.Transaction) error
}

// View is everything a renderer needs to draw the screen.
type View struct {
	Summary  calculator.Summary
	Selected []models.PersonID
	State    selection.State
	Actions  selection.Actions
}

// IsSelected reports whether the row with id is selected in this view.
func (v View) IsSelected(id models.PersonID) bool {
	for _, k := range v.Selected {
		if k == id {
			return true
		}
	}
	return false
}

// Model drives the person list screen.
type Model struct {
	collab  Collaborator
	tracker *selection.Tracker
	render  func(View)
	logger  *slog.Logger

	// selMu orders row checks and tracker changes against Apply so a
	// selected key always belongs to a displayed row.
	selMu sync.Mutex

	mu        sync.Mutex
	summary   calculator.Summary
	displayed map[models.PersonID]struct{}
	loaded    bool
}

// New creates a Model. render is called with a fresh View after every
// snapshot and every selection change; it must not call back into the Model
// synchronously.
func New(collab Collaborator, render func(View), logger *slog.Logger) *Model {
	if render == nil {
		render = func(View) {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		collab:    collab,
		tracker:   selection.NewTracker(),
		render:    render,
		logger:    logger,
		displayed: make(map[models.PersonID]struct{}),
	}
	m.tracker.Observe(func(selection.Change) { m.publish() })
	return m
}

// Run consumes snapshots until ctx is done or the stream ends.
func (m *Model) Run(ctx context.Context) error {
	snapshots, err := m.collab.Snapshots(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to person list: %w", err)
	}
	for snap := range snapshots {
		m.Apply(snap)
	}
	return ctx.Err()
}

// Apply displays a snapshot. When the set of persons differs from the one
// on screen the selection is cleared; balance-only updates keep it.
func (m *Model) Apply(snap []models.PersonWithTransactions) {
	summary := calculator.Summarize(snap)
	ids := make(map[models.PersonID]struct{}, len(summary.Rows))
	for _, row := range summary.Rows {
		ids[row.Person.ID] = struct{}{}
	}

	m.selMu.Lock()
	defer m.selMu.Unlock()

	m.mu.Lock()
	structural := m.loaded && !sameKeys(m.displayed, ids)
	m.summary = summary
	m.displayed = ids
	m.loaded = true
	m.mu.Unlock()

	if structural {
		m.logger.Debug("Person list changed, clearing selection", "rows", len(ids))
		m.tracker.Clear() // publishes through the observer
		return
	}
	m.publish()
}

// View returns the current view.
func (m *Model) View() View {
	m.mu.Lock()
	summary := m.summary
	m.mu.Unlock()

	keys := m.tracker.Snapshot()
	return View{
		Summary:  summary,
		Selected: keys,
		State:    selection.StateFor(len(keys)),
		Actions:  selection.ActionsFor(len(keys)),
	}
}

// Select marks a displayed row as selected.
func (m *Model) Select(id models.PersonID) error {
	m.selMu.Lock()
	defer m.selMu.Unlock()

	if !m.isDisplayed(id) {
		return fmt.Errorf("select %s: %w", id, models.ErrNotFound)
	}
	m.tracker.Select(id)
	return nil
}

// Deselect unmarks a displayed row.
func (m *Model) Deselect(id models.PersonID) error {
	m.selMu.Lock()
	defer m.selMu.Unlock()

	if !m.isDisplayed(id) {
		return fmt.Errorf("deselect %s: %w", id, models.ErrNotFound)
	}
	m.tracker.Deselect(id)
	return nil
}

// Toggle flips the selection of a displayed row.
func (m *Model) Toggle(id models.PersonID) error {
	m.selMu.Lock()
	defer m.selMu.Unlock()

	if !m.isDisplayed(id) {
		return fmt.Errorf("toggle %s: %w", id, models.ErrNotFound)
	}
	m.tracker.Toggle(id)
	return nil
}

// ClearSelection deselects every row.
func (m *Model) ClearSelection() {
	m.tracker.Clear()
}

// Add creates a person. Validation errors are returned untouched so the
// caller can keep the user's input and show the message.
func (m *Model) Add(ctx context.Context, name string) (*models.Person, error) {
	person, err := m.collab.AddPerson(ctx, name)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Person added", "person_id", person.ID, "name", person.Name)
	return person, nil
}

// AddTransaction records a transaction against a displayed row.
func (m *Model) AddTransaction(ctx context.Context, tx *models.Transaction) error {
	if !m.isDisplayed(tx.PersonID) {
		return fmt.Errorf("add transaction for %s: %w", tx.PersonID, models.ErrNotFound)
	}
	return m.collab.AddTransaction(ctx, tx)
}

// EditSelected renames the single selected person. If the person vanished
// in the meantime the edit is abandoned and ErrNotFound returned.
func (m *Model) EditSelected(ctx context.Context, name string) (*models.Person, error) {
	keys := m.tracker.Snapshot()
	if len(keys) != 1 {
		return nil, ErrNotSingleSelection
	}
	id := keys[0]

	if _, err := m.collab.Person(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			m.logger.Warn("Selected person no longer exists, aborting edit", "person_id", id)
		}
		return nil, err
	}

	m.tracker.Clear()
	return m.collab.RenamePerson(ctx, id, name)
}

// DeleteSelected deletes every selected person, one call per key of a
// snapshot taken before the first delete, then clears the selection.
// It returns the number of persons deleted. Keys that vanished meanwhile
// are skipped; any other failure stops the loop.
func (m *Model) DeleteSelected(ctx context.Context) (int, error) {
	keys := m.tracker.Snapshot()
	defer m.tracker.Clear()

	deleted := 0
	for _, id := range keys {
		err := m.collab.DeletePerson(ctx, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, models.ErrNotFound):
			m.logger.Warn("Selected person already deleted", "person_id", id)
		default:
			return deleted, fmt.Errorf("delete %s: %w", id, err)
		}
	}
	m.logger.Info("Deleted selected persons", "count", deleted)
	return deleted, nil
}

func (m *Model) isDisplayed(id models.PersonID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.displayed[id]
	return ok
}

func (m *Model) publish() {
	m.render(m.View())
}

func sameKeys(a, b map[models.PersonID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
