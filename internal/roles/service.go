package roles

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// Service handles role business logic.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get returns a single role.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Role, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a role and records the change.
func (s *Service) Create(ctx context.Context, name, description string) (Role, error) {
	role, err := s.repo.Create(ctx, name, description)
	if err != nil {
		return Role{}, err
	}
	s.recorder.Created(ctx, role)
	return role, nil
}

// Update renames a role and records old and new state.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, description string) (Role, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	role, err := s.repo.Update(ctx, id, name, description)
	if err != nil {
		return Role{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), role)
	return role, nil
}

// Delete removes a role and records the deleted state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}
