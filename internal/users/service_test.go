package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type memoryUserRepo struct {
	users map[uuid.UUID]User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]User)}
}

func (r *memoryUserRepo) List(ctx context.Context, filters ListFilters) ([]User, error) {
	var out []User
	for _, u := range r.users {
		if filters.CreatedBy != nil {
			if u.ID != *filters.CreatedBy && (u.CreatedBy == nil || *u.CreatedBy != *filters.CreatedBy) {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUserRepo) Get(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, httpx.ErrNotFound
}

func (r *memoryUserRepo) ListIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, u := range r.users {
		if u.CreatedBy != nil && *u.CreatedBy == creatorID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *memoryUserRepo) Create(ctx context.Context, user User) (User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return User{}, httpx.ErrConflict
		}
	}
	user.ID = uuid.New()
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user User) (User, error) {
	current, ok := r.users[user.ID]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	if user.PasswordHash == "" {
		user.PasswordHash = current.PasswordHash
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type noopStore struct{}

func (noopStore) Insert(ctx context.Context, record audit.Record) error { return nil }

func newTestService() (*Service, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	return NewService(repo, audit.NewRecorder(noopStore{}, nil, nil)), repo
}

func actorCtx(actor *shared.Actor) context.Context {
	return shared.ContextWithActor(context.Background(), actor)
}

func TestCreateHashesPasswordAndLinksCreator(t *testing.T) {
	svc, repo := newTestService()
	creator := &shared.Actor{ID: uuid.New(), Email: "admin@example.com", IsSuperuser: true}

	user, err := svc.Create(actorCtx(creator), CreateInput{
		Email:    "clerk@example.com",
		FullName: "Front Desk Clerk",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.NotNil(t, user.CreatedBy)
	require.Equal(t, creator.ID, *user.CreatedBy)

	stored := repo.users[user.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("sup3rsecret")))
}

func TestCreateSuperuserRequiresSuperuser(t *testing.T) {
	svc, _ := newTestService()
	regular := &shared.Actor{ID: uuid.New(), Email: "clerk@example.com"}

	_, err := svc.Create(actorCtx(regular), CreateInput{
		Email:       "evil@example.com",
		FullName:    "Privilege Seeker",
		Password:    "sup3rsecret",
		IsSuperuser: true,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestListScopesToCreatedAccounts(t *testing.T) {
	svc, repo := newTestService()
	manager := uuid.New()
	other := uuid.New()
	repo.users[manager] = User{ID: manager, Email: "manager@example.com"}
	clerkID := uuid.New()
	repo.users[clerkID] = User{ID: clerkID, Email: "clerk@example.com", CreatedBy: &manager}
	strangerID := uuid.New()
	repo.users[strangerID] = User{ID: strangerID, Email: "stranger@example.com", CreatedBy: &other}

	visible, err := svc.List(context.Background(), &shared.Actor{ID: manager}, "")
	require.NoError(t, err)
	require.Len(t, visible, 2)

	all, err := svc.List(context.Background(), &shared.Actor{ID: manager, IsSuperuser: true}, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	svc, repo := newTestService()
	creator := &shared.Actor{ID: uuid.New(), IsSuperuser: true}
	user, err := svc.Create(actorCtx(creator), CreateInput{
		Email:    "clerk@example.com",
		FullName: "Front Desk Clerk",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	originalHash := repo.users[user.ID].PasswordHash

	_, err = svc.Update(actorCtx(creator), user.ID, UpdateInput{
		Email:    "clerk@example.com",
		FullName: "Senior Clerk",
		IsActive: true,
	})
	require.NoError(t, err)
	require.Equal(t, originalHash, repo.users[user.ID].PasswordHash)
}

func TestDeleteRejectsOwnAccount(t *testing.T) {
	svc, repo := newTestService()
	self := uuid.New()
	repo.users[self] = User{ID: self, Email: "self@example.com"}

	err := svc.Delete(actorCtx(&shared.Actor{ID: self}), self)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
	require.Contains(t, repo.users, self)
}
