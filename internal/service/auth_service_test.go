package service

import (
	"context"
	"net/http"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/debitum/internal/middleware"
	"github.com/mmynk/debitum/pkg/api"
	"github.com/mmynk/debitum/pkg/api/apiconnect"
)

func TestRegister(t *testing.T) {
	s := setupTestServer(t)

	resp, err := s.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Msg.Token == "" {
		t.Error("expected token")
	}
	if resp.Msg.User.ID == "" || resp.Msg.User.DisplayName != "Alice" {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}

	tests := []struct {
		name     string
		req      *api.RegisterRequest
		wantCode connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "alice@example.com", DisplayName: "A", Password: "password123"}, connect.CodeAlreadyExists},
		{"weak password", &api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "short"}, connect.CodeInvalidArgument},
		{"missing email", &api.RegisterRequest{DisplayName: "Bob", Password: "password123"}, connect.CodeInvalidArgument},
		{"missing display name", &api.RegisterRequest{Email: "bob@example.com", Password: "password123"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Register(context.Background(), connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.wantCode {
				t.Errorf("expected %v, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	s := setupTestServer(t)
	s.register(t, "alice@example.com")

	resp, err := s.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.Token == "" {
		t.Error("expected token")
	}

	_, err = s.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated, got %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	s := setupTestServer(t)

	reg, err := s.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = s.auth.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated without token, got %v", err)
	}

	token := reg.Msg.Token
	authed := apiconnect.NewAuthServiceClient(http.DefaultClient, s.url,
		connect.WithInterceptors(middleware.BearerToken(func() string { return token })),
	)
	resp, err := authed.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.DisplayName != "Alice" || resp.Msg.User.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}
}
