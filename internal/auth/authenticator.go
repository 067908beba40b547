package auth

import (
	"context"

	"github.com/gastosfacil/backend/internal/models"
)

// Authenticator verifies who a user is.
// Implementations can swap password login for other methods without
// touching the HTTP handlers.
type Authenticator interface {
	// Register creates a new account from an email, display name and credential.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the user owning the email if the credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential meets the implementation's rules.
	ValidateCredential(credential string) error
}

// UserLookup resolves a verified user ID to the stored account.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
