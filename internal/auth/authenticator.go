package auth

import (
	"context"

	"github.com/mmynk/debitum/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The service layer only sees this interface, so the credential type can
// change without touching it.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// User fetches an account by ID, e.g. the subject of a validated token.
	User(ctx context.Context, id string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
