package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/utafrali/SupplierGo/internal/domain"
)

// UserRepository persists credential-store users.
type UserRepository interface {
	// Create inserts a new user. A duplicate normalized email yields
	// errors.ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByNormalizedEmail retrieves a user by upper-cased email.
	GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error)

	// UpdateLockout stores the user's failed-attempt count and lockout end.
	UpdateLockout(ctx context.Context, user *domain.User) error
}

// ClaimRepository persists user claims.
type ClaimRepository interface {
	// ListByUserID returns the user's claims in insertion order.
	ListByUserID(ctx context.Context, userID string) ([]domain.Claim, error)

	// Add attaches a claim to a user. A claim type the user already holds
	// yields errors.ErrAlreadyExists.
	Add(ctx context.Context, userID string, claim domain.Claim) error
}

// RoleRepository reads user roles. Roles are provisioned outside this
// service.
type RoleRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]string, error)
}

// SupplierRepository persists suppliers. Mutations report the number of
// affected rows rather than treating zero as an error.
type SupplierRepository interface {
	List(ctx context.Context) ([]*domain.Supplier, error)

	// GetByID returns errors.ErrNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)

	Create(ctx context.Context, s *domain.Supplier) (int64, error)

	// Replace overwrites every column of the row with s.ID().
	Replace(ctx context.Context, s *domain.Supplier) (int64, error)

	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
