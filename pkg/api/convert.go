package api

import (
	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/models"
)

// FromPerson converts a model person.
func FromPerson(p *models.Person) *Person {
	return &Person{ID: p.ID.String(), Name: p.Name, CreatedAt: p.CreatedAt}
}

// Model converts back to a model person.
func (p *Person) Model() models.Person {
	if p == nil {
		return models.Person{}
	}
	return models.Person{ID: models.PersonID(p.ID), Name: p.Name, CreatedAt: p.CreatedAt}
}

// FromTransaction converts a model transaction.
func FromTransaction(tx *models.Transaction) *Transaction {
	return &Transaction{
		ID:          tx.ID,
		PersonID:    tx.PersonID.String(),
		Description: tx.Description,
		Amount:      tx.Amount,
		Quantity:    tx.Quantity,
		Timestamp:   tx.Timestamp,
	}
}

// FromTransactions converts a slice of model transactions.
func FromTransactions(txs []models.Transaction) []*Transaction {
	out := make([]*Transaction, len(txs))
	for i := range txs {
		out[i] = FromTransaction(&txs[i])
	}
	return out
}

// Model converts back to a model transaction.
func (tx *Transaction) Model() models.Transaction {
	if tx == nil {
		return models.Transaction{}
	}
	return models.Transaction{
		ID:          tx.ID,
		PersonID:    models.PersonID(tx.PersonID),
		Description: tx.Description,
		Amount:      tx.Amount,
		Quantity:    tx.Quantity,
		Timestamp:   tx.Timestamp,
	}
}

// FromUser converts a model user, leaving out the password hash.
func FromUser(u *models.User) *User {
	return &User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

// NewBalance formats amount with f.
func NewBalance(f *calculator.Formatter, amount int64) *Balance {
	formatted := f.Format(amount)
	return &Balance{
		Amount:    amount,
		Text:      formatted.Text,
		Treatment: Treatment(formatted.Treatment.String()),
	}
}

// NewPersonList aggregates a snapshot and formats its balances.
func NewPersonList(f *calculator.Formatter, snap []models.PersonWithTransactions) *PersonList {
	summary := calculator.Summarize(snap)
	list := &PersonList{
		Rows:       make([]*PersonRow, len(summary.Rows)),
		Total:      NewBalance(f, summary.Total),
		TotalItems: summary.TotalItems,
	}
	for i, row := range summary.Rows {
		list.Rows[i] = &PersonRow{
			Person:       FromPerson(&row.Person),
			Balance:      NewBalance(f, row.Balance),
			Items:        row.Items,
			Transactions: FromTransactions(snap[i].Transactions),
		}
	}
	return list
}

// Snapshot converts the list back into the model's snapshot form.
func (l *PersonList) Snapshot() []models.PersonWithTransactions {
	if l == nil {
		return nil
	}
	out := make([]models.PersonWithTransactions, len(l.Rows))
	for i, row := range l.Rows {
		pwt := models.PersonWithTransactions{
			Person:       row.Person.Model(),
			Transactions: make([]models.Transaction, len(row.Transactions)),
		}
		for j, tx := range row.Transactions {
			pwt.Transactions[j] = tx.Model()
		}
		out[i] = pwt
	}
	return out
}
