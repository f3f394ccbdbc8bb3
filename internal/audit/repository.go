package audit

import (
	"context"

	"github.com/google/uuid"
)

// QueryFilters narrow the audit timeline. Zero values mean "no filter".
type QueryFilters struct {
	// ActorEmail matches case-insensitively on a substring of the actor's
	// email address.
	ActorEmail string
	// Action matches an action kind exactly (case-insensitive).
	Action string
	// Resource matches a resource type name exactly.
	Resource string
	Limit    int
	Offset   int
}

// Scope restricts visibility: superusers see everything, everyone else sees
// their own records plus records of users they created.
type Scope struct {
	All       bool
	ActorID   uuid.UUID
	CreatedBy []uuid.UUID
}

// Repository reads the immutable audit trail. There is deliberately no
// update or delete surface.
type Repository interface {
	InsertStore
	List(ctx context.Context, scope Scope, filters QueryFilters) ([]Record, error)
	Count(ctx context.Context, scope Scope, filters QueryFilters) (int, error)
}
