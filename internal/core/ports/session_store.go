package ports

import (
	"context"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// SessionStore owns the server-side session records. No other component
// writes them.
type SessionStore interface {
	// Persist writes the session record atomically: identity and token land
	// together or not at all.
	Persist(ctx context.Context, s *domain.Session) error
	// Load returns the session for id, or ok=false when absent. A corrupt
	// record is treated as absent and removed, not surfaced as an error.
	Load(ctx context.Context, id string) (*domain.Session, bool, error)
	// Clear removes the session record. Idempotent.
	Clear(ctx context.Context, id string) error
}
