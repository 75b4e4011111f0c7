package models

// Transaction is a single debt event recorded against one person.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// PersonID is the person this transaction belongs to.
	PersonID PersonID

	// Description is an optional free-text note (e.g. "Concert tickets").
	Description string

	// Amount is the signed money amount in cents.
	// Positive = the person owes the user, negative = the user owes the person.
	Amount int64

	// Quantity is the number of items this transaction represents
	// (e.g. lending "3 books" is 3). Zero for purely monetary transactions.
	Quantity int64

	// Timestamp is the Unix timestamp of the event.
	Timestamp int64
}

// Validate reports ErrEmptyTransaction when the transaction records
// neither money nor items.
func (t *Transaction) Validate() error {
	if t.Amount == 0 && t.Quantity == 0 {
		return ErrEmptyTransaction
	}
	return nil
}
