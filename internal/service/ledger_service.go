package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/ledger"
	"github.com/mmynk/debitum/internal/models"
	"github.com/mmynk/debitum/pkg/api"
	"github.com/mmynk/debitum/pkg/api/apiconnect"
)

var errMissingTransaction = errors.New("transaction is required")

// LedgerService implements the Connect LedgerService on top of ledger.Service.
// Every call operates on the ledger of the authenticated user.
type LedgerService struct {
	ledger    *ledger.Service
	formatter *calculator.Formatter
	logger    *slog.Logger
}

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. formatter renders the balance
// text of list responses.
func NewLedgerService(svc *ledger.Service, formatter *calculator.Formatter, logger *slog.Logger) *LedgerService {
	return &LedgerService{ledger: svc, formatter: formatter, logger: logger}
}

// AddPerson adds a person to the caller's ledger.
func (s *LedgerService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddPerson request received", "owner_id", owner)

	person, err := s.ledger.AddPerson(ctx, owner, req.Msg.Name)
	if err != nil {
		s.logger.Warn("AddPerson failed", "owner_id", owner, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AddPersonResponse{Person: api.FromPerson(person)}), nil
}

// RenamePerson changes a person's name.
func (s *LedgerService) RenamePerson(ctx context.Context, req *connect.Request[api.RenamePersonRequest]) (*connect.Response[api.RenamePersonResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("RenamePerson request received", "owner_id", owner, "person_id", req.Msg.PersonID)

	person, err := s.ledger.RenamePerson(ctx, owner, models.PersonID(req.Msg.PersonID), req.Msg.Name)
	if err != nil {
		s.logger.Warn("RenamePerson failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.RenamePersonResponse{Person: api.FromPerson(person)}), nil
}

// GetPerson retrieves a person by ID.
func (s *LedgerService) GetPerson(ctx context.Context, req *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	person, err := s.ledger.GetPerson(ctx, owner, models.PersonID(req.Msg.PersonID))
	if err != nil {
		s.logger.Warn("GetPerson failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetPersonResponse{Person: api.FromPerson(person)}), nil
}

// DeletePersons deletes the given persons one by one. IDs that no longer
// exist are reported as skipped rather than failing the call.
func (s *LedgerService) DeletePersons(ctx context.Context, req *connect.Request[api.DeletePersonsRequest]) (*connect.Response[api.DeletePersonsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeletePersons request received", "owner_id", owner, "count", len(req.Msg.PersonIDs))

	ids := make([]models.PersonID, len(req.Msg.PersonIDs))
	for i, id := range req.Msg.PersonIDs {
		ids[i] = models.PersonID(id)
	}

	result, err := s.ledger.DeletePersons(ctx, owner, ids)
	if err != nil {
		s.logger.Error("DeletePersons failed", "owner_id", owner, "deleted", len(result.Deleted), "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeletePersonsResponse{
		DeletedIDs: personIDStrings(result.Deleted),
		SkippedIDs: personIDStrings(result.Skipped),
	}), nil
}

// ListPersons returns the caller's aggregated person list.
func (s *LedgerService) ListPersons(ctx context.Context, req *connect.Request[api.ListPersonsRequest]) (*connect.Response[api.ListPersonsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.ledger.List(ctx, owner)
	if err != nil {
		s.logger.Error("ListPersons failed", "owner_id", owner, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("ListPersons successful", "owner_id", owner, "count", len(snap))
	return connect.NewResponse(&api.ListPersonsResponse{List: api.NewPersonList(s.formatter, snap)}), nil
}

// WatchPersons streams the caller's aggregated person list: once right
// away, then after every change, until the client goes away.
func (s *LedgerService) WatchPersons(ctx context.Context, req *connect.Request[api.WatchPersonsRequest], stream *connect.ServerStream[api.WatchPersonsResponse]) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("WatchPersons stream opened", "owner_id", owner)

	snapshots, err := s.ledger.Watch(ctx, owner)
	if err != nil {
		s.logger.Error("WatchPersons failed", "owner_id", owner, "error", err)
		return connectError(err)
	}

	for snap := range snapshots {
		if err := stream.Send(&api.WatchPersonsResponse{List: api.NewPersonList(s.formatter, snap)}); err != nil {
			s.logger.Info("WatchPersons stream closed", "owner_id", owner, "error", err)
			return err
		}
	}

	s.logger.Info("WatchPersons stream closed", "owner_id", owner)
	return nil
}

// AddTransaction records a transaction against a person.
func (s *LedgerService) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Transaction == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingTransaction)
	}
	s.logger.Info("AddTransaction request received",
		"owner_id", owner,
		"person_id", req.Msg.Transaction.PersonID,
		"amount", req.Msg.Transaction.Amount,
	)

	tx := req.Msg.Transaction.Model()
	tx.ID = "" // assigned by the store
	if err := s.ledger.AddTransaction(ctx, owner, &tx); err != nil {
		s.logger.Warn("AddTransaction failed", "person_id", tx.PersonID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AddTransactionResponse{Transaction: api.FromTransaction(&tx)}), nil
}

// ListTransactions returns a person's transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.ledger.ListTransactions(ctx, owner, models.PersonID(req.Msg.PersonID))
	if err != nil {
		s.logger.Warn("ListTransactions failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: api.FromTransactions(txs)}), nil
}

// DeleteTransaction removes a transaction.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteTransaction request received", "owner_id", owner, "transaction_id", req.Msg.TransactionID)

	if err := s.ledger.DeleteTransaction(ctx, owner, req.Msg.TransactionID); err != nil {
		s.logger.Warn("DeleteTransaction failed", "transaction_id", req.Msg.TransactionID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

func personIDStrings(ids []models.PersonID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
