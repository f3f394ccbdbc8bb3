package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type grantKey struct {
	roleID     uuid.UUID
	resource   Resource
	permission Permission
}

type memoryGrantRepo struct {
	grants    map[grantKey]Grant
	lookupErr error
}

func newMemoryGrantRepo() *memoryGrantRepo {
	return &memoryGrantRepo{grants: make(map[grantKey]Grant)}
}

func (r *memoryGrantRepo) GrantExists(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	_, ok := r.grants[grantKey{roleID, resource, permission}]
	return ok, nil
}

func (r *memoryGrantRepo) ListGrants(ctx context.Context, roleID *uuid.UUID) ([]Grant, error) {
	var out []Grant
	for _, g := range r.grants {
		if roleID == nil || g.RoleID == *roleID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memoryGrantRepo) AddGrant(ctx context.Context, grant Grant) error {
	key := grantKey{grant.RoleID, grant.Resource, grant.Permission}
	if _, ok := r.grants[key]; ok {
		return ErrDuplicateGrant
	}
	r.grants[key] = grant
	return nil
}

func (r *memoryGrantRepo) RemoveGrant(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) (int64, error) {
	key := grantKey{roleID, resource, permission}
	if _, ok := r.grants[key]; !ok {
		return 0, nil
	}
	delete(r.grants, key)
	return 1, nil
}

func actorWithRole(roleID uuid.UUID) *shared.Actor {
	return &shared.Actor{ID: uuid.New(), Email: "clerk@example.com", RoleID: &roleID}
}

func TestAuthorizeDeniesWithoutGrant(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)
	roleID := uuid.New()

	require.False(t, svc.Authorize(context.Background(), actorWithRole(roleID), ResourceBooking, PermissionCreate))
}

func TestAuthorizeAllowsGrantedCapability(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)
	roleID := uuid.New()
	require.NoError(t, repo.AddGrant(context.Background(), Grant{RoleID: roleID, Resource: ResourceBooking, Permission: PermissionCreate}))

	actor := actorWithRole(roleID)
	require.True(t, svc.Authorize(context.Background(), actor, ResourceBooking, PermissionCreate))
	require.False(t, svc.Authorize(context.Background(), actor, ResourceBooking, PermissionDelete))
	require.False(t, svc.Authorize(context.Background(), actor, ResourceOrder, PermissionCreate))
}

func TestAuthorizeSuperuserBypassesGrants(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)

	super := &shared.Actor{ID: uuid.New(), Email: "root@example.com", IsSuperuser: true}
	for _, resource := range Resources() {
		require.True(t, svc.Authorize(context.Background(), super, resource, PermissionDelete))
	}
}

func TestAuthorizeDeniesActorWithoutRole(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)

	actor := &shared.Actor{ID: uuid.New(), Email: "guest@example.com"}
	require.False(t, svc.Authorize(context.Background(), actor, ResourceRoom, PermissionRead))
	require.False(t, svc.Authorize(context.Background(), nil, ResourceRoom, PermissionRead))
}

func TestAuthorizeFailsClosed(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)
	roleID := uuid.New()
	actor := actorWithRole(roleID)

	// Unregistered resource and permission kinds deny instead of erroring.
	require.False(t, svc.Authorize(context.Background(), actor, Resource("spa"), PermissionRead))
	require.False(t, svc.Authorize(context.Background(), actor, ResourceRoom, Permission("approve")))

	// A failing grant lookup also denies.
	repo.lookupErr = errors.New("store unavailable")
	require.False(t, svc.Authorize(context.Background(), actor, ResourceRoom, PermissionRead))
}

func TestMethodPermissionMapping(t *testing.T) {
	require.Equal(t, PermissionCreate, PermissionForMethod("POST"))
	require.Equal(t, PermissionUpdate, PermissionForMethod("PUT"))
	require.Equal(t, PermissionUpdate, PermissionForMethod("PATCH"))
	require.Equal(t, PermissionDelete, PermissionForMethod("DELETE"))
	require.Equal(t, PermissionRead, PermissionForMethod("GET"))
	require.Equal(t, PermissionRead, PermissionForMethod("OPTIONS"))
}

func TestAddGrantValidatesCatalog(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)
	roleID := uuid.New()

	err := svc.AddGrant(context.Background(), Grant{RoleID: roleID, Resource: "spa", Permission: PermissionRead})
	require.Error(t, err)

	err = svc.AddGrant(context.Background(), Grant{RoleID: roleID, Resource: ResourceRoom, Permission: PermissionRead})
	require.NoError(t, err)
	require.ErrorIs(t, svc.AddGrant(context.Background(), Grant{RoleID: roleID, Resource: ResourceRoom, Permission: PermissionRead}), ErrDuplicateGrant)
}

func TestRemoveGrant(t *testing.T) {
	repo := newMemoryGrantRepo()
	svc := NewService(repo, nil)
	roleID := uuid.New()
	require.NoError(t, repo.AddGrant(context.Background(), Grant{RoleID: roleID, Resource: ResourceRoom, Permission: PermissionRead}))

	require.NoError(t, svc.RemoveGrant(context.Background(), roleID, ResourceRoom, PermissionRead))
	require.ErrorIs(t, svc.RemoveGrant(context.Background(), roleID, ResourceRoom, PermissionRead), ErrNotFound)
}
