package rbac

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// ErrNotFound indicates that the requested grant does not exist.
var ErrNotFound = errors.New("rbac: not found")

// ErrDuplicateGrant indicates the (role, resource, permission) tuple already
// exists.
var ErrDuplicateGrant = errors.New("rbac: grant already exists")

// Repository defines persistence operations for capability grants.
type Repository interface {
	GrantExists(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) (bool, error)
	ListGrants(ctx context.Context, roleID *uuid.UUID) ([]Grant, error)
	AddGrant(ctx context.Context, grant Grant) error
	RemoveGrant(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) (int64, error)
}

// Service evaluates the authorization gate and administers grants.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Authorize reports whether the actor may exercise the permission on the
// resource type. It is a pure predicate over current grant state: the
// superuser flag is the only unconditional bypass, an actor without a role
// is denied, and every lookup problem (unknown resource, unknown permission,
// store error) denies rather than escaping the gate.
func (s *Service) Authorize(ctx context.Context, actor *shared.Actor, resource Resource, permission Permission) bool {
	if actor == nil {
		return false
	}
	if actor.IsSuperuser {
		return true
	}
	if actor.RoleID == nil {
		return false
	}
	if !KnownResource(resource) || !KnownPermission(permission) {
		if s.logger != nil {
			s.logger.Warn("authorize: unregistered capability",
				slog.String("resource", string(resource)),
				slog.String("permission", string(permission)))
		}
		return false
	}
	ok, err := s.repo.GrantExists(ctx, *actor.RoleID, resource, permission)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("authorize: grant lookup", slog.Any("error", err))
		}
		return false
	}
	return ok
}

// ListGrants returns grants, optionally filtered by role.
func (s *Service) ListGrants(ctx context.Context, roleID *uuid.UUID) ([]Grant, error) {
	return s.repo.ListGrants(ctx, roleID)
}

// AddGrant registers a capability grant after validating it against the
// static catalog.
func (s *Service) AddGrant(ctx context.Context, grant Grant) error {
	if !KnownResource(grant.Resource) {
		return errors.New("rbac: unknown resource type")
	}
	if !KnownPermission(grant.Permission) {
		return errors.New("rbac: unknown permission kind")
	}
	return s.repo.AddGrant(ctx, grant)
}

// RemoveGrant deletes a grant tuple. Returns ErrNotFound when nothing was
// removed.
func (s *Service) RemoveGrant(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) error {
	removed, err := s.repo.RemoveGrant(ctx, roleID, resource, permission)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
