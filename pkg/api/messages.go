// Package api defines the messages exchanged by the Debitum services.
//
// Messages are plain structs carried as JSON by Codec; the Connect
// bindings live in package apiconnect.
package api

// Person is a counterparty in the owner's ledger.
type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Transaction is one debt event. Amount is in cents; positive means the
// person owes the user.
type Transaction struct {
	ID          string `json:"id"`
	PersonID    string `json:"person_id"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount"`
	Quantity    int64  `json:"quantity,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// Treatment names the display treatment of a balance.
type Treatment string

const (
	TreatmentOwedToUser Treatment = "owed_to_user"
	TreatmentOwedByUser Treatment = "owed_by_user"
)

// Balance is an amount with its formatted text and display treatment.
type Balance struct {
	Amount    int64     `json:"amount"`
	Text      string    `json:"text"`
	Treatment Treatment `json:"treatment"`
}

// PersonRow is one row of the person list.
type PersonRow struct {
	Person       *Person        `json:"person"`
	Balance      *Balance       `json:"balance"`
	Items        int64          `json:"items"`
	Transactions []*Transaction `json:"transactions"`
}

// PersonList is an aggregated snapshot of the owner's ledger.
type PersonList struct {
	Rows       []*PersonRow `json:"rows"`
	Total      *Balance     `json:"total"`
	TotalItems int64        `json:"total_items"`
}

// LedgerService messages

type AddPersonRequest struct {
	Name string `json:"name"`
}

type AddPersonResponse struct {
	Person *Person `json:"person"`
}

type RenamePersonRequest struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
}

type RenamePersonResponse struct {
	Person *Person `json:"person"`
}

type GetPersonRequest struct {
	PersonID string `json:"person_id"`
}

type GetPersonResponse struct {
	Person *Person `json:"person"`
}

type DeletePersonsRequest struct {
	PersonIDs []string `json:"person_ids"`
}

type DeletePersonsResponse struct {
	DeletedIDs []string `json:"deleted_ids"`
	SkippedIDs []string `json:"skipped_ids,omitempty"`
}

type ListPersonsRequest struct{}

type ListPersonsResponse struct {
	List *PersonList `json:"list"`
}

type WatchPersonsRequest struct{}

type WatchPersonsResponse struct {
	List *PersonList `json:"list"`
}

type AddTransactionRequest struct {
	Transaction *Transaction `json:"transaction"`
}

type AddTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	PersonID string `json:"person_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct{}

// AuthService messages

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
