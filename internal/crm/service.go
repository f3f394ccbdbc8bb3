package crm

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Service handles customer business logic.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	if c.LoyaltyPoints < 0 {
		return Customer{}, fmt.Errorf("%w: loyalty points cannot be negative", httpx.ErrValidation)
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Customer{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, c Customer) (Customer, error) {
	if c.LoyaltyPoints < 0 {
		return Customer{}, fmt.Errorf("%w: loyalty points cannot be negative", httpx.ErrValidation)
	}
	before, err := s.repo.Get(ctx, c.ID)
	if err != nil {
		return Customer{}, err
	}
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return Customer{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

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
