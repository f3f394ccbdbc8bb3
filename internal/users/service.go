package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// CreateInput carries the fields needed to provision an account.
type CreateInput struct {
	Email       string
	FullName    string
	Password    string
	RoleID      *uuid.UUID
	IsSuperuser bool
	StaffID     *uuid.UUID
}

// UpdateInput carries mutable account fields. Password is optional; empty
// keeps the current hash.
type UpdateInput struct {
	Email    string
	FullName string
	Password string
	RoleID   *uuid.UUID
	IsActive bool
	StaffID  *uuid.UUID
}

// Service handles user account business logic.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns accounts visible to the actor: superusers see everyone,
// other actors see themselves and the accounts they provisioned.
func (s *Service) List(ctx context.Context, actor *shared.Actor, search string) ([]User, error) {
	filters := ListFilters{Search: search}
	if actor != nil && !actor.IsSuperuser {
		id := actor.ID
		filters.CreatedBy = &id
	}
	return s.repo.List(ctx, filters)
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.Get(ctx, id)
}

// FindByEmail returns the account with the given email.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// ListIDsByCreator satisfies the audit visibility lookup.
func (s *Service) ListIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListIDsByCreator(ctx, creatorID)
}

// Create provisions an account. The creator is taken from context so the
// ownership chain matches the audit trail.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	if input.IsSuperuser {
		actor := shared.ActorFromContext(ctx)
		if actor == nil || !actor.IsSuperuser {
			return User{}, fmt.Errorf("%w: only superusers may grant superuser", httpx.ErrForbidden)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		RoleID:       input.RoleID,
		IsSuperuser:  input.IsSuperuser,
		IsActive:     true,
		StaffID:      input.StaffID,
	}
	if actor := shared.ActorFromContext(ctx); actor != nil {
		id := actor.ID
		user.CreatedBy = &id
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

// Update modifies an account and records old and new state.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (User, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	user := before
	user.Email = input.Email
	user.FullName = input.FullName
	user.RoleID = input.RoleID
	user.IsActive = input.IsActive
	user.StaffID = input.StaffID
	user.PasswordHash = ""
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return User{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

// Delete removes an account and records the deleted state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor := shared.ActorFromContext(ctx); actor != nil && actor.ID == id {
		return fmt.Errorf("%w: cannot delete own account", httpx.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}
