// Package client talks to a Debitum server. Remote satisfies
// personlist.Collaborator so the terminal model runs the same way against a
// server as it does in-process.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/debitum/internal/middleware"
	"github.com/mmynk/debitum/internal/models"
	"github.com/mmynk/debitum/pkg/api"
	"github.com/mmynk/debitum/pkg/api/apiconnect"
)

// ErrNotLoggedIn is returned by ledger calls made before Login or Register.
var ErrNotLoggedIn = errors.New("not logged in")

// Remote is a ledger collaborator backed by the Connect API.
type Remote struct {
	ledger apiconnect.LedgerServiceClient
	auth   apiconnect.AuthServiceClient
	logger *slog.Logger

	mu    sync.RWMutex
	token string
	user  *api.User
}

// New creates a Remote for the server at baseURL.
func New(httpClient connect.HTTPClient, baseURL string, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Remote{logger: logger}
	bearer := connect.WithInterceptors(middleware.BearerToken(r.currentToken))
	r.ledger = apiconnect.NewLedgerServiceClient(httpClient, baseURL, bearer)
	r.auth = apiconnect.NewAuthServiceClient(httpClient, baseURL, bearer)
	return r
}

// Login authenticates and keeps the session token for later calls.
func (r *Remote) Login(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := r.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	r.setSession(resp.Msg.Token, resp.Msg.User)
	return resp.Msg.User, nil
}

// Register creates an account and keeps the session token for later calls.
func (r *Remote) Register(ctx context.Context, email, displayName, password string) (*api.User, error) {
	resp, err := r.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	}))
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	r.setSession(resp.Msg.Token, resp.Msg.User)
	return resp.Msg.User, nil
}

// User returns the logged-in user, or nil.
func (r *Remote) User() *api.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.user
}

// Snapshots streams the person list until ctx is done or the server ends
// the stream. A stream failure is logged and closes the channel.
func (r *Remote) Snapshots(ctx context.Context) (<-chan []models.PersonWithTransactions, error) {
	if err := r.requireSession(); err != nil {
		return nil, err
	}

	stream, err := r.ledger.WatchPersons(ctx, connect.NewRequest(&api.WatchPersonsRequest{}))
	if err != nil {
		return nil, fromConnect("watch persons", err)
	}

	out := make(chan []models.PersonWithTransactions)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Receive() {
			select {
			case out <- stream.Msg().List.Snapshot():
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("Person list stream failed", "error", fromConnect("watch persons", err))
		}
	}()
	return out, nil
}

// Person fetches a person by ID.
func (r *Remote) Person(ctx context.Context, id models.PersonID) (*models.Person, error) {
	if err := r.requireSession(); err != nil {
		return nil, err
	}
	resp, err := r.ledger.GetPerson(ctx, connect.NewRequest(&api.GetPersonRequest{PersonID: id.String()}))
	if err != nil {
		return nil, fromConnect("get person", err)
	}
	p := resp.Msg.Person.Model()
	return &p, nil
}

// AddPerson creates a person. Blank names are rejected without a round trip.
func (r *Remote) AddPerson(ctx context.Context, name string) (*models.Person, error) {
	name, err := models.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := r.requireSession(); err != nil {
		return nil, err
	}
	resp, err := r.ledger.AddPerson(ctx, connect.NewRequest(&api.AddPersonRequest{Name: name}))
	if err != nil {
		return nil, fromConnect("add person", err)
	}
	p := resp.Msg.Person.Model()
	return &p, nil
}

// RenamePerson renames a person.
func (r *Remote) RenamePerson(ctx context.Context, id models.PersonID, name string) (*models.Person, error) {
	name, err := models.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := r.requireSession(); err != nil {
		return nil, err
	}
	resp, err := r.ledger.RenamePerson(ctx, connect.NewRequest(&api.RenamePersonRequest{
		PersonID: id.String(),
		Name:     name,
	}))
	if err != nil {
		return nil, fromConnect("rename person", err)
	}
	p := resp.Msg.Person.Model()
	return &p, nil
}

// DeletePerson deletes one person. A person that is already gone yields
// models.ErrNotFound.
func (r *Remote) DeletePerson(ctx context.Context, id models.PersonID) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	resp, err := r.ledger.DeletePersons(ctx, connect.NewRequest(&api.DeletePersonsRequest{
		PersonIDs: []string{id.String()},
	}))
	if err != nil {
		return fromConnect("delete person", err)
	}
	if len(resp.Msg.DeletedIDs) == 0 {
		return fmt.Errorf("delete person %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddTransaction records a transaction and fills in its ID and timestamp.
func (r *Remote) AddTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := r.requireSession(); err != nil {
		return err
	}
	resp, err := r.ledger.AddTransaction(ctx, connect.NewRequest(&api.AddTransactionRequest{
		Transaction: api.FromTransaction(tx),
	}))
	if err != nil {
		return fromConnect("add transaction", err)
	}
	*tx = resp.Msg.Transaction.Model()
	return nil
}

// Transactions lists a person's transactions, newest first.
func (r *Remote) Transactions(ctx context.Context, id models.PersonID) ([]models.Transaction, error) {
	if err := r.requireSession(); err != nil {
		return nil, err
	}
	resp, err := r.ledger.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{PersonID: id.String()}))
	if err != nil {
		return nil, fromConnect("list transactions", err)
	}
	txs := make([]models.Transaction, len(resp.Msg.Transactions))
	for i, tx := range resp.Msg.Transactions {
		txs[i] = tx.Model()
	}
	return txs, nil
}

func (r *Remote) currentToken() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

func (r *Remote) setSession(token string, user *api.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	r.user = user
}

func (r *Remote) requireSession() error {
	if r.currentToken() == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// fromConnect turns an RPC failure back into the model's error vocabulary.
// Anything that is not a domain outcome is a data access failure.
func fromConnect(op string, err error) error {
	switch connect.CodeOf(err) {
	case connect.CodeNotFound:
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case connect.CodeAlreadyExists:
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateName)
	case connect.CodeInvalidArgument:
		var connectErr *connect.Error
		if !errors.As(err, &connectErr) {
			return fmt.Errorf("%s: %w", op, err)
		}
		msg := connectErr.Message()
		switch {
		case strings.Contains(msg, models.ErrEmptyTransaction.Error()):
			return fmt.Errorf("%s: %w", op, models.ErrEmptyTransaction)
		case strings.Contains(msg, models.ErrEmptyName.Error()):
			return fmt.Errorf("%s: %w", op, models.ErrEmptyName)
		}
		return fmt.Errorf("%s: %s", op, msg)
	default:
		return &models.AccessError{Op: op, Err: err}
	}
}
