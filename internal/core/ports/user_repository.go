package ports

import (
	"context"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields for a PATCH-style update.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Location *string
	Address  *string
}

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	// FindByEmail looks up an identity by normalized (lowercased) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
}
