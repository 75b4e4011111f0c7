package models

import "strings"

// PersonID is the stable key of a person. It doubles as the row key of the
// person list, so selection state stores PersonIDs rather than positions.
type PersonID string

// String implements fmt.Stringer.
func (id PersonID) String() string {
	return string(id)
}

// Person is a counterparty the user tracks debts with.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	// Assigned by the store on creation.
	ID PersonID

	// OwnerID is the user whose ledger this person belongs to.
	OwnerID string

	// Name is the display name. Unique per owner, case-sensitive.
	Name string

	// CreatedAt is the Unix timestamp when the person was added.
	CreatedAt int64
}

// NormalizeName trims surrounding whitespace from a submitted name.
// Returns ErrEmptyName if nothing is left.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// PersonWithTransactions joins a person to its transactions.
// It is rebuilt on every read and never persisted.
type PersonWithTransactions struct {
	Person       Person
	Transactions []Transaction
}
