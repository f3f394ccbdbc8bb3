package roles

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id uuid.UUID) (Role, error)
	Create(ctx context.Context, name, description string) (Role, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
