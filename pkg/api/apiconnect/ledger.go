// Package apiconnect binds the api messages to Connect handlers and
// clients. Every handler and client is configured with api.Codec.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/debitum/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "debitum.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in
// LedgerService. They are used as the HTTP paths of the procedures and as
// the procedure label in logs and metrics.
const (
	LedgerServiceAddPersonProcedure         = "/debitum.v1.LedgerService/AddPerson"
	LedgerServiceRenamePersonProcedure      = "/debitum.v1.LedgerService/RenamePerson"
	LedgerServiceGetPersonProcedure         = "/debitum.v1.LedgerService/GetPerson"
	LedgerServiceDeletePersonsProcedure     = "/debitum.v1.LedgerService/DeletePersons"
	LedgerServiceListPersonsProcedure       = "/debitum.v1.LedgerService/ListPersons"
	LedgerServiceWatchPersonsProcedure      = "/debitum.v1.LedgerService/WatchPersons"
	LedgerServiceAddTransactionProcedure    = "/debitum.v1.LedgerService/AddTransaction"
	LedgerServiceListTransactionsProcedure  = "/debitum.v1.LedgerService/ListTransactions"
	LedgerServiceDeleteTransactionProcedure = "/debitum.v1.LedgerService/DeleteTransaction"
)

// LedgerServiceClient is a client for the debitum.v1.LedgerService service.
type LedgerServiceClient interface {
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error)
	RenamePerson(context.Context, *connect.Request[api.RenamePersonRequest]) (*connect.Response[api.RenamePersonResponse], error)
	GetPerson(context.Context, *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error)
	DeletePersons(context.Context, *connect.Request[api.DeletePersonsRequest]) (*connect.Response[api.DeletePersonsResponse], error)
	ListPersons(context.Context, *connect.Request[api.ListPersonsRequest]) (*connect.Response[api.ListPersonsResponse], error)
	WatchPersons(context.Context, *connect.Request[api.WatchPersonsRequest]) (*connect.ServerStreamForClient[api.WatchPersonsResponse], error)
	AddTransaction(context.Context, *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewLedgerServiceClient constructs a client for the
// debitum.v1.LedgerService service. The URL supplied should be the base URL
// of the server (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &ledgerServiceClient{
		addPerson: connect.NewClient[api.AddPersonRequest, api.AddPersonResponse](
			httpClient, baseURL+LedgerServiceAddPersonProcedure, opts...),
		renamePerson: connect.NewClient[api.RenamePersonRequest, api.RenamePersonResponse](
			httpClient, baseURL+LedgerServiceRenamePersonProcedure, opts...),
		getPerson: connect.NewClient[api.GetPersonRequest, api.GetPersonResponse](
			httpClient, baseURL+LedgerServiceGetPersonProcedure, opts...),
		deletePersons: connect.NewClient[api.DeletePersonsRequest, api.DeletePersonsResponse](
			httpClient, baseURL+LedgerServiceDeletePersonsProcedure, opts...),
		listPersons: connect.NewClient[api.ListPersonsRequest, api.ListPersonsResponse](
			httpClient, baseURL+LedgerServiceListPersonsProcedure, opts...),
		watchPersons: connect.NewClient[api.WatchPersonsRequest, api.WatchPersonsResponse](
			httpClient, baseURL+LedgerServiceWatchPersonsProcedure, opts...),
		addTransaction: connect.NewClient[api.AddTransactionRequest, api.AddTransactionResponse](
			httpClient, baseURL+LedgerServiceAddTransactionProcedure, opts...),
		listTransactions: connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](
			httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](
			httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
	}
}

// ledgerServiceClient implements LedgerServiceClient.
type ledgerServiceClient struct {
	addPerson         *connect.Client[api.AddPersonRequest, api.AddPersonResponse]
	renamePerson      *connect.Client[api.RenamePersonRequest, api.RenamePersonResponse]
	getPerson         *connect.Client[api.GetPersonRequest, api.GetPersonResponse]
	deletePersons     *connect.Client[api.DeletePersonsRequest, api.DeletePersonsResponse]
	listPersons       *connect.Client[api.ListPersonsRequest, api.ListPersonsResponse]
	watchPersons      *connect.Client[api.WatchPersonsRequest, api.WatchPersonsResponse]
	addTransaction    *connect.Client[api.AddTransactionRequest, api.AddTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
}

func (c *ledgerServiceClient) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RenamePerson(ctx context.Context, req *connect.Request[api.RenamePersonRequest]) (*connect.Response[api.RenamePersonResponse], error) {
	return c.renamePerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPerson(ctx context.Context, req *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error) {
	return c.getPerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePersons(ctx context.Context, req *connect.Request[api.DeletePersonsRequest]) (*connect.Response[api.DeletePersonsResponse], error) {
	return c.deletePersons.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPersons(ctx context.Context, req *connect.Request[api.ListPersonsRequest]) (*connect.Response[api.ListPersonsResponse], error) {
	return c.listPersons.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) WatchPersons(ctx context.Context, req *connect.Request[api.WatchPersonsRequest]) (*connect.ServerStreamForClient[api.WatchPersonsResponse], error) {
	return c.watchPersons.CallServerStream(ctx, req)
}

func (c *ledgerServiceClient) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the debitum.v1.LedgerService
// service.
type LedgerServiceHandler interface {
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error)
	RenamePerson(context.Context, *connect.Request[api.RenamePersonRequest]) (*connect.Response[api.RenamePersonResponse], error)
	GetPerson(context.Context, *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error)
	DeletePersons(context.Context, *connect.Request[api.DeletePersonsRequest]) (*connect.Response[api.DeletePersonsResponse], error)
	ListPersons(context.Context, *connect.Request[api.ListPersonsRequest]) (*connect.Response[api.ListPersonsResponse], error)
	WatchPersons(context.Context, *connect.Request[api.WatchPersonsRequest], *connect.ServerStream[api.WatchPersonsResponse]) error
	AddTransaction(context.Context, *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	addPersonHandler := connect.NewUnaryHandler(LedgerServiceAddPersonProcedure, svc.AddPerson, opts...)
	renamePersonHandler := connect.NewUnaryHandler(LedgerServiceRenamePersonProcedure, svc.RenamePerson, opts...)
	getPersonHandler := connect.NewUnaryHandler(LedgerServiceGetPersonProcedure, svc.GetPerson, opts...)
	deletePersonsHandler := connect.NewUnaryHandler(LedgerServiceDeletePersonsProcedure, svc.DeletePersons, opts...)
	listPersonsHandler := connect.NewUnaryHandler(LedgerServiceListPersonsProcedure, svc.ListPersons, opts...)
	watchPersonsHandler := connect.NewServerStreamHandler(LedgerServiceWatchPersonsProcedure, svc.WatchPersons, opts...)
	addTransactionHandler := connect.NewUnaryHandler(LedgerServiceAddTransactionProcedure, svc.AddTransaction, opts...)
	listTransactionsHandler := connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	deleteTransactionHandler := connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	return "/debitum.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceAddPersonProcedure:
			addPersonHandler.ServeHTTP(w, r)
		case LedgerServiceRenamePersonProcedure:
			renamePersonHandler.ServeHTTP(w, r)
		case LedgerServiceGetPersonProcedure:
			getPersonHandler.ServeHTTP(w, r)
		case LedgerServiceDeletePersonsProcedure:
			deletePersonsHandler.ServeHTTP(w, r)
		case LedgerServiceListPersonsProcedure:
			listPersonsHandler.ServeHTTP(w, r)
		case LedgerServiceWatchPersonsProcedure:
			watchPersonsHandler.ServeHTTP(w, r)
		case LedgerServiceAddTransactionProcedure:
			addTransactionHandler.ServeHTTP(w, r)
		case LedgerServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case LedgerServiceDeleteTransactionProcedure:
			deleteTransactionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
