package ledger

import (
	"context"

	"github.com/mmynk/debitum/internal/models"
)

// Book is the ledger of a single owner. It binds the owner ID so that
// in-process callers (the terminal model, tests) need not pass it around.
type Book struct {
	svc     *Service
	ownerID string
}

// Book returns the owner-bound view of the service.
func (s *Service) Book(ownerID string) *Book {
	return &Book{svc: s, ownerID: ownerID}
}

// OwnerID returns the bound owner.
func (b *Book) OwnerID() string { return b.ownerID }

func (b *Book) Snapshots(ctx context.Context) (<-chan Snapshot, error) {
	return b.svc.Watch(ctx, b.ownerID)
}

func (b *Book) Person(ctx context.Context, id models.PersonID) (*models.Person, error) {
	return b.svc.GetPerson(ctx, b.ownerID, id)
}

func (b *Book) AddPerson(ctx context.Context, name string) (*models.Person, error) {
	return b.svc.AddPerson(ctx, b.ownerID, name)
}

func (b *Book) RenamePerson(ctx context.Context, id models.PersonID, name string) (*models.Person, error) {
	return b.svc.RenamePerson(ctx, b.ownerID, id, name)
}

func (b *Book) DeletePerson(ctx context.Context, id models.PersonID) error {
	return b.svc.DeletePerson(ctx, b.ownerID, id)
}

func (b *Book) AddTransaction(ctx context.Context, tx *models.Transaction) error {
	return b.svc.AddTransaction(ctx, b.ownerID, tx)
}

// Transactions lists a person's transactions, newest first.
func (b *Book) Transactions(ctx context.Context, id models.PersonID) ([]models.Transaction, error) {
	return b.svc.ListTransactions(ctx, b.ownerID, id)
}
