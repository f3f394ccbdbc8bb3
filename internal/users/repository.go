package users

import (
	"context"

	"github.com/google/uuid"
)

// ListFilters narrows the user listing.
type ListFilters struct {
	// CreatedBy limits results to accounts provisioned by this user, plus
	// the user's own account. Nil means no creator scoping.
	CreatedBy *uuid.UUID
	Search    string
}

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	ListIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
