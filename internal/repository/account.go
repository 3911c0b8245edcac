package repository

import (
	"context"

	"github.com/campwire/community-core/internal/domain"
)

// UpdateProfileInput carries the mutable account fields. Nil means "leave as is".
type UpdateProfileInput struct {
	DisplayName  *string
	PasswordHash *string
}

type AccountRepository interface {
	// Create persists a new account. Returns domain.ErrEmailTaken when the
	// email is already registered (case-insensitive).
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.Account, error)
}
