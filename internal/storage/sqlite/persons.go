package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/debitum/internal/models"
)

// ListPersonsWithTransactions returns the owner's persons with their
// transactions in a single statement, so the snapshot is consistent.
func (s *SQLiteStore) ListPersonsWithTransactions(ctx context.Context, ownerID string) ([]models.PersonWithTransactions, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.owner_id, p.name, p.created_at,
		       t.id, t.description, t.amount, t.quantity, t.timestamp
		FROM persons p
		LEFT JOIN transactions t ON t.person_id = p.id
		WHERE p.owner_id = ?
		ORDER BY p.name, t.timestamp, t.id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var result []models.PersonWithTransactions
	for rows.Next() {
		var (
			person      models.Person
			txID        sql.NullString
			description sql.NullString
			amount      sql.NullInt64
			quantity    sql.NullInt64
			timestamp   sql.NullInt64
		)
		if err := rows.Scan(&person.ID, &person.OwnerID, &person.Name, &person.CreatedAt,
			&txID, &description, &amount, &quantity, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}

		// Rows arrive grouped by person because of the ORDER BY.
		if n := len(result); n == 0 || result[n-1].Person.ID != person.ID {
			result = append(result, models.PersonWithTransactions{Person: person})
		}
		if txID.Valid {
			last := &result[len(result)-1]
			last.Transactions = append(last.Transactions, models.Transaction{
				ID:          txID.String,
				PersonID:    person.ID,
				Description: description.String,
				Amount:      amount.Int64,
				Quantity:    quantity.Int64,
				Timestamp:   timestamp.Int64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return result, nil
}

// PersonExists reports whether the owner already has a person with this name.
func (s *SQLiteStore) PersonExists(ctx context.Context, ownerID, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM persons WHERE owner_id = ? AND name = ?)",
		ownerID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check person existence: %w", err)
	}
	return exists, nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, ownerID string, id models.PersonID) (*models.Person, error) {
	person := &models.Person{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, created_at FROM persons WHERE id = ? AND owner_id = ?",
		id, ownerID,
	).Scan(&person.ID, &person.OwnerID, &person.Name, &person.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// InsertPersonIfAbsent inserts the person in one statement that is a no-op
// when the name is taken, so there is no window between check and insert.
func (s *SQLiteStore) InsertPersonIfAbsent(ctx context.Context, person *models.Person) error {
	id := person.ID
	if id == "" {
		id = models.PersonID(uuid.New().String())
	}
	createdAt := person.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner_id, name) DO NOTHING`,
		id, person.OwnerID, person.Name, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check inserted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %q: %w", person.Name, models.ErrDuplicateName)
	}

	person.ID = id
	person.CreatedAt = createdAt
	return nil
}

// RenamePerson updates the name only if no other person of the owner has it.
func (s *SQLiteStore) RenamePerson(ctx context.Context, ownerID string, id models.PersonID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE persons SET name = ?
		 WHERE id = ? AND owner_id = ?
		   AND NOT EXISTS (SELECT 1 FROM persons WHERE owner_id = ? AND name = ? AND id != ?)`,
		name, id, ownerID, ownerID, name, id,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("person %q: %w", name, models.ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("failed to rename person: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either the person is gone or the name is taken.
	if _, err := s.GetPerson(ctx, ownerID, id); err != nil {
		return err
	}
	return fmt.Errorf("person %q: %w", name, models.ErrDuplicateName)
}

// DeletePerson removes a person. Its transactions go with it via
// ON DELETE CASCADE.
func (s *SQLiteStore) DeletePerson(ctx context.Context, ownerID string, id models.PersonID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM persons WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %s: %w", id, models.ErrNotFound)
	}
	return nil
}
