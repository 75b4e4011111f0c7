package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/mmynk/debitum/internal/auth"
	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/ledger"
	"github.com/mmynk/debitum/internal/middleware"
	"github.com/mmynk/debitum/internal/models"
	"github.com/mmynk/debitum/internal/personlist"
	"github.com/mmynk/debitum/internal/service"
	"github.com/mmynk/debitum/internal/storage/sqlite"
	"github.com/mmynk/debitum/pkg/api/apiconnect"
)

var _ personlist.Collaborator = (*Remote)(nil)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupRemote starts a server and returns a Remote registered as a new user.
func setupRemote(t *testing.T) *Remote {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager, service.PublicAuthProcedures...))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(service.NewLedgerService(
		ledger.NewService(store, nil, discard()),
		calculator.NewFormatter(language.English),
		discard(),
	), interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(
		auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		jwtManager,
		discard(),
	), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	r := New(server.Client(), server.URL, discard())
	_, err = r.Register(context.Background(), "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	return r
}

func TestRemote_RequiresLogin(t *testing.T) {
	r := New(http.DefaultClient, "http://127.0.0.1:1", discard())

	_, err := r.Person(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = r.AddPerson(context.Background(), " ")
	assert.ErrorIs(t, err, models.ErrEmptyName, "validation runs before the session check")
}

func TestRemote_LoginFailure(t *testing.T) {
	r := setupRemote(t)

	_, err := r.Login(context.Background(), "alice@example.com", "wrong-password")
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	user, err := r.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, user, r.User())
}

func TestRemote_MapsDomainErrors(t *testing.T) {
	r := setupRemote(t)
	ctx := context.Background()

	bob, err := r.AddPerson(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", bob.Name)

	_, err = r.AddPerson(ctx, "Bob")
	assert.ErrorIs(t, err, models.ErrDuplicateName)

	_, err = r.Person(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = r.RenamePerson(ctx, "missing", "Zed")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = r.AddTransaction(ctx, &models.Transaction{PersonID: "missing", Amount: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, r.DeletePerson(ctx, bob.ID))
	assert.ErrorIs(t, r.DeletePerson(ctx, bob.ID), models.ErrNotFound)
}

func TestRemote_Transactions(t *testing.T) {
	r := setupRemote(t)
	ctx := context.Background()

	bob, err := r.AddPerson(ctx, "Bob")
	require.NoError(t, err)

	tx := &models.Transaction{PersonID: bob.ID, Amount: -250, Description: "Pizza"}
	require.NoError(t, r.AddTransaction(ctx, tx))
	assert.NotEmpty(t, tx.ID)

	txs, err := r.Transactions(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, *tx, txs[0])
}

func TestRemote_UnreachableServerIsAccessError(t *testing.T) {
	r := New(http.DefaultClient, "http://127.0.0.1:1", discard())
	r.setSession("token", nil)

	_, err := r.Person(context.Background(), "p1")
	var accessErr *models.AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "get person", accessErr.Op)
}

func TestFromConnect(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", connect.NewError(connect.CodeNotFound, models.ErrNotFound), models.ErrNotFound},
		{"duplicate", connect.NewError(connect.CodeAlreadyExists, models.ErrDuplicateName), models.ErrDuplicateName},
		{"empty name", connect.NewError(connect.CodeInvalidArgument, models.ErrEmptyName), models.ErrEmptyName},
		{"empty transaction", connect.NewError(connect.CodeInvalidArgument, models.ErrEmptyTransaction), models.ErrEmptyTransaction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, fromConnect("op", tt.err), tt.want)
		})
	}

	var accessErr *models.AccessError
	assert.ErrorAs(t, fromConnect("op", connect.NewError(connect.CodeUnavailable, errors.New("down"))), &accessErr)

	other := fromConnect("op", connect.NewError(connect.CodeInvalidArgument, errors.New("transaction is required")))
	assert.NotErrorIs(t, other, models.ErrEmptyName)
	assert.NotErrorIs(t, other, models.ErrEmptyTransaction)
	assert.False(t, errors.As(other, &accessErr))
	assert.Equal(t, "op: transaction is required", other.Error())
}

// The list screen model runs unchanged against the server.
func TestRemote_DrivesPersonList(t *testing.T) {
	r := setupRemote(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		last personlist.View
	)
	m := personlist.New(r, func(v personlist.View) {
		mu.Lock()
		last = v
		mu.Unlock()
	}, discard())
	view := func() personlist.View {
		mu.Lock()
		defer mu.Unlock()
		return last
	}

	go m.Run(ctx)

	bob, err := m.Add(ctx, "Bob")
	require.NoError(t, err)
	carol, err := m.Add(ctx, "Carol")
	require.NoError(t, err)
	require.NoError(t, r.AddTransaction(ctx, &models.Transaction{PersonID: bob.ID, Amount: 400}))

	require.Eventually(t, func() bool {
		v := view()
		return len(v.Summary.Rows) == 2 && v.Summary.Total == 400
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, m.Select(bob.ID))
	require.NoError(t, m.Select(carol.ID))

	n, err := m.DeleteSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Eventually(t, func() bool {
		return len(view().Summary.Rows) == 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Empty(t, view().Selected)
}
