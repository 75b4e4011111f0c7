package calculator

import "github.com/mmynk/debitum/internal/models"

// PersonSummary is one row of the person list: a person with its running
// balance and item count.
type PersonSummary struct {
	Person  models.Person
	Balance int64 // Positive = person owes the user, Negative = user owes the person
	Items   int64 // Sum of transaction quantities
}

// Summary is the aggregated view of a ledger snapshot.
type Summary struct {
	Rows       []PersonSummary
	Total      int64
	TotalItems int64
}

// Sum returns the sum of all transaction amounts across all people.
// An empty or nil list sums to 0.
func Sum(list []models.PersonWithTransactions) int64 {
	var total int64
	for _, pwt := range list {
		total += PersonBalance(pwt)
	}
	return total
}

// ItemCount returns the sum of transaction quantities across all people.
// This counts items represented by transactions, not transaction rows:
// a transaction of "3 books" contributes 3.
func ItemCount(list []models.PersonWithTransactions) int64 {
	var total int64
	for _, pwt := range list {
		total += PersonItems(pwt)
	}
	return total
}

// PersonBalance returns the sum of one person's transaction amounts.
func PersonBalance(pwt models.PersonWithTransactions) int64 {
	var balance int64
	for _, tx := range pwt.Transactions {
		balance += tx.Amount
	}
	return balance
}

// PersonItems returns the sum of one person's transaction quantities.
func PersonItems(pwt models.PersonWithTransactions) int64 {
	var items int64
	for _, tx := range pwt.Transactions {
		items += tx.Quantity
	}
	return items
}

// Summarize computes per-person rows and overall totals in one pass.
// Rows keep the input order. Total always equals the sum of row balances.
func Summarize(list []models.PersonWithTransactions) Summary {
	summary := Summary{Rows: make([]PersonSummary, 0, len(list))}
	for _, pwt := range list {
		row := PersonSummary{
			Person:  pwt.Person,
			Balance: PersonBalance(pwt),
			Items:   PersonItems(pwt),
		}
		summary.Total += row.Balance
		summary.TotalItems += row.Items
		summary.Rows = append(summary.Rows, row)
	}
	return summary
}
