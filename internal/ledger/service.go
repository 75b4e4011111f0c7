// Package ledger implements the owner-scoped ledger operations: validated
// person and transaction writes, and push-based snapshots of each owner's
// person list.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/debitum/internal/events"
	"github.com/mmynk/debitum/internal/models"
	"github.com/mmynk/debitum/internal/storage"
	"github.com/mmynk/debitum/internal/stream"
)

// Snapshot is one emission of an owner's person list.
type Snapshot = []models.PersonWithTransactions

// Service validates and applies ledger changes and republishes a fresh
// snapshot to the owner's subscribers after every successful write.
type Service struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	feeds map[string]*feed
}

// feed serializes reloads for one owner so an older snapshot is never
// published after a newer one.
type feed struct {
	reload sync.Mutex
	b      *stream.Broadcaster[Snapshot]
}

// DeleteResult reports the outcome of a bulk delete.
type DeleteResult struct {
	Deleted []models.PersonID
	Skipped []models.PersonID // already gone when their delete was issued
}

// NewService creates a Service. A nil publisher discards events.
func NewService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		feeds:     make(map[string]*feed),
	}
}

// List returns the owner's current person list.
func (s *Service) List(ctx context.Context, ownerID string) (Snapshot, error) {
	list, err := s.store.ListPersonsWithTransactions(ctx, ownerID)
	if err != nil {
		return nil, models.WrapAccess("list persons", err)
	}
	return list, nil
}

// Watch returns a channel that receives the owner's person list now and
// again after every change. The channel closes when ctx is done.
func (s *Service) Watch(ctx context.Context, ownerID string) (<-chan Snapshot, error) {
	f := s.feed(ownerID)
	if _, ok := f.b.Latest(); !ok {
		if err := s.refresh(ctx, ownerID); err != nil {
			return nil, err
		}
	}
	return f.b.Subscribe(ctx), nil
}

// GetPerson fetches a person by ID.
func (s *Service) GetPerson(ctx context.Context, ownerID string, id models.PersonID) (*models.Person, error) {
	person, err := s.store.GetPerson(ctx, ownerID, id)
	if err != nil {
		return nil, models.WrapAccess("get person", err)
	}
	return person, nil
}

// AddPerson validates name and inserts a new person unless the owner
// already has one with that name. Nothing is written on validation failure.
func (s *Service) AddPerson(ctx context.Context, ownerID, name string) (*models.Person, error) {
	name, err := models.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	person := &models.Person{OwnerID: ownerID, Name: name}
	if err := s.store.InsertPersonIfAbsent(ctx, person); err != nil {
		return nil, models.WrapAccess("add person", err)
	}

	s.logger.InfoContext(ctx, "Person added", "owner_id", ownerID, "person_id", person.ID)
	s.changed(ctx, ownerID, withPerson(events.New(events.PersonCreated, ownerID), person))
	return person, nil
}

// RenamePerson validates name and renames the person. Renaming a person to
// its current name succeeds without a change.
func (s *Service) RenamePerson(ctx context.Context, ownerID string, id models.PersonID, name string) (*models.Person, error) {
	name, err := models.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	if err := s.store.RenamePerson(ctx, ownerID, id, name); err != nil {
		return nil, models.WrapAccess("rename person", err)
	}

	person, err := s.store.GetPerson(ctx, ownerID, id)
	if err != nil {
		return nil, models.WrapAccess("get person", err)
	}

	s.logger.InfoContext(ctx, "Person renamed", "owner_id", ownerID, "person_id", id)
	s.changed(ctx, ownerID, withPerson(events.New(events.PersonRenamed, ownerID), person))
	return person, nil
}

// DeletePerson deletes a person and its transactions.
func (s *Service) DeletePerson(ctx context.Context, ownerID string, id models.PersonID) error {
	if err := s.deletePerson(ctx, ownerID, id); err != nil {
		return err
	}
	s.refreshLogged(ctx, ownerID)
	return nil
}

// DeletePersons issues one delete per key of an already snapshotted
// selection, in order. Keys that are already gone are skipped; any other
// failure stops the loop and is returned with the partial result.
func (s *Service) DeletePersons(ctx context.Context, ownerID string, ids []models.PersonID) (DeleteResult, error) {
	var result DeleteResult
	defer func() {
		if len(result.Deleted) > 0 {
			s.refreshLogged(ctx, ownerID)
		}
	}()

	for _, id := range ids {
		err := s.deletePerson(ctx, ownerID, id)
		switch {
		case err == nil:
			result.Deleted = append(result.Deleted, id)
		case errors.Is(err, models.ErrNotFound):
			s.logger.WarnContext(ctx, "Person already deleted", "owner_id", ownerID, "person_id", id)
			result.Skipped = append(result.Skipped, id)
		default:
			return result, err
		}
	}
	return result, nil
}

func (s *Service) deletePerson(ctx context.Context, ownerID string, id models.PersonID) error {
	if err := s.store.DeletePerson(ctx, ownerID, id); err != nil {
		return models.WrapAccess("delete person", err)
	}

	s.logger.InfoContext(ctx, "Person deleted", "owner_id", ownerID, "person_id", id)
	event := events.New(events.PersonDeleted, ownerID)
	event.PersonID = id.String()
	s.emit(ctx, event)
	return nil
}

// AddTransaction records a transaction against one of the owner's persons.
func (s *Service) AddTransaction(ctx context.Context, ownerID string, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateTransaction(ctx, ownerID, tx); err != nil {
		return models.WrapAccess("add transaction", err)
	}

	s.logger.InfoContext(ctx, "Transaction added",
		"owner_id", ownerID,
		"person_id", tx.PersonID,
		"transaction_id", tx.ID,
	)
	event := events.New(events.TransactionCreated, ownerID)
	event.PersonID = tx.PersonID.String()
	event.TransactionID = tx.ID
	event.Amount = tx.Amount
	s.changed(ctx, ownerID, event)
	return nil
}

// ListTransactions returns a person's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, ownerID string, personID models.PersonID) ([]models.Transaction, error) {
	if _, err := s.GetPerson(ctx, ownerID, personID); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, ownerID, personID)
	if err != nil {
		return nil, models.WrapAccess("list transactions", err)
	}
	return txs, nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteTransaction(ctx, ownerID, id); err != nil {
		return models.WrapAccess("delete transaction", err)
	}

	s.logger.InfoContext(ctx, "Transaction deleted", "owner_id", ownerID, "transaction_id", id)
	event := events.New(events.TransactionDeleted, ownerID)
	event.TransactionID = id
	s.changed(ctx, ownerID, event)
	return nil
}

// changed runs the post-commit side effects of a write.
func (s *Service) changed(ctx context.Context, ownerID string, event events.Event) {
	s.emit(ctx, event)
	s.refreshLogged(ctx, ownerID)
}

// emit publishes event. The write is already committed, so failures are
// only logged.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event", "type", event.Type, "error", err)
	}
}

func (s *Service) feed(ownerID string) *feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[ownerID]
	if !ok {
		f = &feed{b: stream.New[Snapshot]()}
		s.feeds[ownerID] = f
	}
	return f
}

// refresh reloads the owner's list and publishes it.
func (s *Service) refresh(ctx context.Context, ownerID string) error {
	f := s.feed(ownerID)
	f.reload.Lock()
	defer f.reload.Unlock()

	list, err := s.List(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	f.b.Publish(list)
	return nil
}

func (s *Service) refreshLogged(ctx context.Context, ownerID string) {
	// Skip the reload when nobody has ever watched this owner.
	s.mu.Lock()
	_, watched := s.feeds[ownerID]
	s.mu.Unlock()
	if !watched {
		return
	}
	if err := s.refresh(context.WithoutCancel(ctx), ownerID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish snapshot", "owner_id", ownerID, "error", err)
	}
}

func withPerson(event events.Event, person *models.Person) events.Event {
	event.PersonID = person.ID.String()
	event.Name = person.Name
	return event
}
