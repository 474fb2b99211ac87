package ports

import (
	"context"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// RegisterInput is the single explicit input shape for registration.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Location string
	Address  string
}

// CredentialService validates credentials against the identity collection and
// owns the session lifecycle.
type CredentialService interface {
	// Register creates a citizen identity and establishes a session
	// immediately. The returned session is sanitized.
	Register(ctx context.Context, in RegisterInput) (*domain.Session, error)
	// Login authenticates an email/password pair. Unknown email and wrong
	// password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	// Logout discards the session behind the given bearer token. Never fails
	// on an already-cleared or malformed token.
	Logout(ctx context.Context, token string) error
	// Resolve verifies a bearer token, loads its session, and revalidates
	// that the identity still exists. Any failure yields ErrUnauthenticated.
	Resolve(ctx context.Context, token string) (*domain.User, error)
	// UpdateProfile applies a partial profile update for the identity behind
	// the given token and refreshes the persisted session copy.
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*domain.User, error)
}
