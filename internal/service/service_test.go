package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/mmynk/debitum/internal/auth"
	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/ledger"
	"github.com/mmynk/debitum/internal/middleware"
	"github.com/mmynk/debitum/internal/storage/sqlite"
	"github.com/mmynk/debitum/pkg/api"
	"github.com/mmynk/debitum/pkg/api/apiconnect"
)

type testServer struct {
	url  string
	auth apiconnect.AuthServiceClient
}

// setupTestServer starts both services behind the real auth interceptor on
// a temp SQLite database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, PublicAuthProcedures...),
	)

	ledgerSvc := NewLedgerService(
		ledger.NewService(store, nil, logger),
		calculator.NewFormatter(language.English),
		logger,
	)
	authSvc := NewAuthService(authenticator, jwtManager, logger)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(ledgerSvc, interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		url:  server.URL,
		auth: apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// register signs up a user and returns a ledger client acting as that user.
func (s *testServer) register(t *testing.T, email string) apiconnect.LedgerServiceClient {
	t.Helper()

	resp, err := s.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: email,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token := resp.Msg.Token
	return apiconnect.NewLedgerServiceClient(http.DefaultClient, s.url,
		connect.WithInterceptors(middleware.BearerToken(func() string { return token })),
	)
}

func (s *testServer) anonymous() apiconnect.LedgerServiceClient {
	return apiconnect.NewLedgerServiceClient(http.DefaultClient, s.url)
}
