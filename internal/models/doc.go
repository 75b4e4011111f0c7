// Package models defines the core domain models for Debitum.
//
// # Models
//
//   - Person: a named counterparty the user tracks debts with
//   - Transaction: one debt event against a person (money and/or items)
//   - PersonWithTransactions: read-only join used for aggregation and display
//   - User: the account that owns a ledger
//
// # Conventions
//
// 1. **Minor units**: money amounts are int64 cents, never floats
// 2. **Sign**: a positive amount means the person owes the user, a negative
//    amount means the user owes the person
// 3. **Typed keys**: PersonID identifies a row everywhere, including selection;
//    display positions are never used as identity
// 4. **Owner scoping**: every person belongs to exactly one user's ledger and
//    name uniqueness is enforced per owner
package models
