package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mmynk/debitum/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustAddPerson(t *testing.T, store *SQLiteStore, owner, name string) *models.Person {
	t.Helper()

	p := &models.Person{OwnerID: owner, Name: name}
	if err := store.InsertPersonIfAbsent(context.Background(), p); err != nil {
		t.Fatalf("InsertPersonIfAbsent(%q) failed: %v", name, err)
	}
	return p
}

func TestPersons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("InsertPersonIfAbsent generates ID and timestamp", func(t *testing.T) {
		p := mustAddPerson(t, store, "owner-1", "Alice")
		if p.ID == "" {
			t.Error("Expected person ID to be generated")
		}
		if p.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("InsertPersonIfAbsent rejects duplicate name", func(t *testing.T) {
		dup := &models.Person{OwnerID: "owner-1", Name: "Alice"}
		err := store.InsertPersonIfAbsent(ctx, dup)
		if !errors.Is(err, models.ErrDuplicateName) {
			t.Fatalf("Expected ErrDuplicateName, got %v", err)
		}
		if dup.ID != "" {
			t.Errorf("Expected no ID on rejected insert, got %s", dup.ID)
		}

		list, err := store.ListPersonsWithTransactions(ctx, "owner-1")
		if err != nil {
			t.Fatalf("ListPersonsWithTransactions failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("Expected 1 person after rejected insert, got %d", len(list))
		}
	})

	t.Run("names are case-sensitive and scoped per owner", func(t *testing.T) {
		mustAddPerson(t, store, "owner-1", "alice")
		mustAddPerson(t, store, "owner-2", "Alice")
	})

	t.Run("PersonExists", func(t *testing.T) {
		exists, err := store.PersonExists(ctx, "owner-1", "Alice")
		if err != nil {
			t.Fatalf("PersonExists failed: %v", err)
		}
		if !exists {
			t.Error("Expected Alice to exist")
		}

		exists, err = store.PersonExists(ctx, "owner-1", "Nobody")
		if err != nil {
			t.Fatalf("PersonExists failed: %v", err)
		}
		if exists {
			t.Error("Expected Nobody not to exist")
		}
	})

	t.Run("GetPerson returns ErrNotFound for other owner", func(t *testing.T) {
		p := mustAddPerson(t, store, "owner-1", "Carol")
		if _, err := store.GetPerson(ctx, "owner-2", p.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		got, err := store.GetPerson(ctx, "owner-1", p.ID)
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if got.Name != "Carol" {
			t.Errorf("Name mismatch: got %s, want Carol", got.Name)
		}
	})
}

func TestRenamePerson(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustAddPerson(t, store, "owner", "Alice")
	mustAddPerson(t, store, "owner", "Bob")

	tests := []struct {
		name    string
		id      models.PersonID
		newName string
		wantErr error
	}{
		{"rename to free name", alice.ID, "Alicia", nil},
		{"rename to own name", alice.ID, "Alicia", nil},
		{"rename to taken name", alice.ID, "Bob", models.ErrDuplicateName},
		{"rename missing person", "missing", "Zed", models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.RenamePerson(ctx, "owner", tt.id, tt.newName)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("RenamePerson failed: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	got, err := store.GetPerson(ctx, "owner", alice.ID)
	if err != nil {
		t.Fatalf("GetPerson failed: %v", err)
	}
	if got.Name != "Alicia" {
		t.Errorf("Expected name Alicia, got %s", got.Name)
	}
}

func TestTransactionsAndCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustAddPerson(t, store, "owner", "Alice")
	bob := mustAddPerson(t, store, "owner", "Bob")
	mustAddPerson(t, store, "owner", "Carol")

	for _, tx := range []*models.Transaction{
		{PersonID: alice.ID, Amount: 500, Timestamp: 1},
		{PersonID: alice.ID, Amount: 200, Timestamp: 2},
		{PersonID: bob.ID, Amount: -300, Quantity: 2, Description: "two books", Timestamp: 3},
	} {
		if err := store.CreateTransaction(ctx, "owner", tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if tx.ID == "" {
			t.Error("Expected transaction ID to be generated")
		}
	}

	t.Run("CreateTransaction for foreign person", func(t *testing.T) {
		err := store.CreateTransaction(ctx, "intruder", &models.Transaction{PersonID: alice.ID, Amount: 1})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListPersonsWithTransactions joins and orders", func(t *testing.T) {
		list, err := store.ListPersonsWithTransactions(ctx, "owner")
		if err != nil {
			t.Fatalf("ListPersonsWithTransactions failed: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("Expected 3 persons, got %d", len(list))
		}

		wantNames := []string{"Alice", "Bob", "Carol"}
		wantTx := []int{2, 1, 0}
		for i, pwt := range list {
			if pwt.Person.Name != wantNames[i] {
				t.Errorf("Person %d: got %s, want %s", i, pwt.Person.Name, wantNames[i])
			}
			if len(pwt.Transactions) != wantTx[i] {
				t.Errorf("%s: got %d transactions, want %d", pwt.Person.Name, len(pwt.Transactions), wantTx[i])
			}
		}
		if list[1].Transactions[0].Quantity != 2 {
			t.Errorf("Expected Bob's quantity 2, got %d", list[1].Transactions[0].Quantity)
		}
	})

	t.Run("ListTransactions newest first", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, "owner", alice.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 2 || txs[0].Amount != 200 {
			t.Errorf("Unexpected transactions: %+v", txs)
		}
	})

	t.Run("DeletePerson cascades", func(t *testing.T) {
		if err := store.DeletePerson(ctx, "owner", alice.ID); err != nil {
			t.Fatalf("DeletePerson failed: %v", err)
		}
		txs, err := store.ListTransactions(ctx, "owner", alice.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("Expected cascade to remove transactions, got %d", len(txs))
		}
		if err := store.DeletePerson(ctx, "owner", alice.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteTransaction", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, "owner", bob.ID)
		if err != nil || len(txs) != 1 {
			t.Fatalf("ListTransactions: %v (%d)", err, len(txs))
		}
		if err := store.DeleteTransaction(ctx, "intruder", txs[0].ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign owner, got %v", err)
		}
		if err := store.DeleteTransaction(ctx, "owner", txs[0].ID); err != nil {
			t.Errorf("DeleteTransaction failed: %v", err)
		}
	})
}

func TestInsertPersonIfAbsent_Concurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		inserted  int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.InsertPersonIfAbsent(ctx, &models.Person{OwnerID: "owner", Name: "Alice"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, models.ErrDuplicateName):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if inserted != 1 {
		t.Errorf("Expected exactly 1 insert, got %d", inserted)
	}
	if inserted+conflicts != workers {
		t.Errorf("Expected %d outcomes, got %d", workers, inserted+conflicts)
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash")); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName for taken email, got %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, user.ID)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
