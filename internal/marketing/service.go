package marketing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Service handles marketing business logic.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// --- campaigns ---

func (s *Service) ListCampaigns(ctx context.Context, status CampaignStatus) ([]Campaign, error) {
	if status != "" && !status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	return s.repo.ListCampaigns(ctx, status)
}

func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

func (s *Service) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	if c.Status == "" {
		c.Status = CampaignDraft
	}
	if err := validateCampaign(c); err != nil {
		return Campaign{}, err
	}
	created, err := s.repo.CreateCampaign(ctx, c)
	if err != nil {
		return Campaign{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	if err := validateCampaign(c); err != nil {
		return Campaign{}, err
	}
	before, err := s.repo.GetCampaign(ctx, c.ID)
	if err != nil {
		return Campaign{}, err
	}
	updated, err := s.repo.UpdateCampaign(ctx, c)
	if err != nil {
		return Campaign{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

func validateCampaign(c Campaign) error {
	if !c.Status.Known() {
		return fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, c.Status)
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: end date cannot precede start date", httpx.ErrValidation)
	}
	if c.Budget.IsNegative() {
		return fmt.Errorf("%w: budget cannot be negative", httpx.ErrValidation)
	}
	return nil
}

// --- promotions ---

func (s *Service) ListPromotions(ctx context.Context, activeOnly bool) ([]Promotion, error) {
	return s.repo.ListPromotions(ctx, activeOnly)
}

func (s *Service) GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error) {
	return s.repo.GetPromotion(ctx, id)
}

func (s *Service) CreatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return Promotion{}, err
	}
	created, err := s.repo.CreatePromotion(ctx, p)
	if err != nil {
		return Promotion{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return Promotion{}, err
	}
	before, err := s.repo.GetPromotion(ctx, p.ID)
	if err != nil {
		return Promotion{}, err
	}
	updated, err := s.repo.UpdatePromotion(ctx, p)
	if err != nil {
		return Promotion{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetPromotion(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

func validatePromotion(p Promotion) error {
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date cannot precede start date", httpx.ErrValidation)
	}
	return nil
}
