package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/debitum/internal/models"
)

// CreateTransaction persists a new transaction. The insert only happens if
// the person exists and belongs to the owner.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, ownerID string, tx *models.Transaction) error {
	id := tx.ID
	if id == "" {
		id = uuid.New().String()
	}
	timestamp := tx.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, person_id, description, amount, quantity, timestamp)
		 SELECT ?, ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM persons WHERE id = ? AND owner_id = ?)`,
		id, tx.PersonID, tx.Description, tx.Amount, tx.Quantity, timestamp,
		tx.PersonID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check inserted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %s: %w", tx.PersonID, models.ErrNotFound)
	}

	tx.ID = id
	tx.Timestamp = timestamp
	return nil
}

// ListTransactions retrieves all transactions of a person, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, ownerID string, personID models.PersonID) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.person_id, t.description, t.amount, t.quantity, t.timestamp
		 FROM transactions t
		 JOIN persons p ON p.id = t.person_id
		 WHERE p.owner_id = ? AND t.person_id = ?
		 ORDER BY t.timestamp DESC, t.id`,
		ownerID, personID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.PersonID, &tx.Description, &tx.Amount, &tx.Quantity, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions
		 WHERE id = ? AND person_id IN (SELECT id FROM persons WHERE owner_id = ?)`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	return nil
}
