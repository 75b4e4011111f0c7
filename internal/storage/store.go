// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/debitum/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups of absent rows return models.ErrNotFound. Name conflicts return
// models.ErrDuplicateName. Every other error is an infrastructure failure.
type Store interface {
	PersonStore
	TransactionStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// PersonStore persists the persons of each owner's ledger.
type PersonStore interface {
	// ListPersonsWithTransactions returns every person of the owner joined
	// with their transactions, ordered by name.
	ListPersonsWithTransactions(ctx context.Context, ownerID string) ([]models.PersonWithTransactions, error)

	// PersonExists reports whether the owner has a person with exactly this name.
	PersonExists(ctx context.Context, ownerID, name string) (bool, error)

	// GetPerson retrieves a person by ID.
	GetPerson(ctx context.Context, ownerID string, id models.PersonID) (*models.Person, error)

	// InsertPersonIfAbsent inserts the person unless the owner already has
	// one with the same name, as a single atomic operation.
	// The person.ID and CreatedAt fields are populated by the store.
	InsertPersonIfAbsent(ctx context.Context, person *models.Person) error

	// RenamePerson changes a person's name unless another person of the
	// same owner already uses it.
	RenamePerson(ctx context.Context, ownerID string, id models.PersonID, name string) error

	// DeletePerson removes a person and, by cascade, its transactions.
	DeletePerson(ctx context.Context, ownerID string, id models.PersonID) error
}

// TransactionStore persists the transactions recorded against persons.
type TransactionStore interface {
	// CreateTransaction persists a transaction for a person of the owner.
	// The tx.ID field is populated by the store.
	CreateTransaction(ctx context.Context, ownerID string, tx *models.Transaction) error

	// ListTransactions returns a person's transactions, newest first.
	ListTransactions(ctx context.Context, ownerID string, personID models.PersonID) ([]models.Transaction, error)

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, ownerID, id string) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
