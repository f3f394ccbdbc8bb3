package laundry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Service handles laundry business logic.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// --- offerings ---

func (s *Service) ListOfferings(ctx context.Context) ([]Offering, error) {
	return s.repo.ListOfferings(ctx)
}

func (s *Service) GetOffering(ctx context.Context, id uuid.UUID) (Offering, error) {
	return s.repo.GetOffering(ctx, id)
}

func (s *Service) CreateOffering(ctx context.Context, o Offering) (Offering, error) {
	if err := validateOffering(o); err != nil {
		return Offering{}, err
	}
	created, err := s.repo.CreateOffering(ctx, o)
	if err != nil {
		return Offering{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateOffering(ctx context.Context, o Offering) (Offering, error) {
	if err := validateOffering(o); err != nil {
		return Offering{}, err
	}
	before, err := s.repo.GetOffering(ctx, o.ID)
	if err != nil {
		return Offering{}, err
	}
	updated, err := s.repo.UpdateOffering(ctx, o)
	if err != nil {
		return Offering{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetOffering(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOffering(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

func validateOffering(o Offering) error {
	if !o.RateType.Known() {
		return fmt.Errorf("%w: unknown rate type %q", httpx.ErrValidation, o.RateType)
	}
	if !o.Rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", httpx.ErrValidation)
	}
	if o.EstimatedMinutes < 0 {
		return fmt.Errorf("%w: estimated minutes cannot be negative", httpx.ErrValidation)
	}
	return nil
}

// --- orders ---

func (s *Service) ListOrders(ctx context.Context, roomID *uuid.UUID, status OrderStatus) ([]Order, error) {
	if status != "" && !status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	return s.repo.ListOrders(ctx, roomID, status)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// CreateOrder prices the order against its offering and stores it in the
// received state.
func (s *Service) CreateOrder(ctx context.Context, o Order) (Order, error) {
	offering, err := s.repo.GetOffering(ctx, o.OfferingID)
	if err != nil {
		return Order{}, err
	}
	if err := ComputeTotal(offering, &o); err != nil {
		return Order{}, err
	}
	o.Status = OrderReceived
	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return Order{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

// UpdateOrder replaces the order contents and reprices it. Status moves only
// through UpdateStatus.
func (s *Service) UpdateOrder(ctx context.Context, o Order) (Order, error) {
	before, err := s.repo.GetOrder(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	if before.Status == OrderDelivered {
		return Order{}, fmt.Errorf("%w: delivered orders cannot change", httpx.ErrConflict)
	}
	offering, err := s.repo.GetOffering(ctx, o.OfferingID)
	if err != nil {
		return Order{}, err
	}
	if err := ComputeTotal(offering, &o); err != nil {
		return Order{}, err
	}
	updated, err := s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return Order{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error) {
	if !status.Known() {
		return Order{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	before, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if before.Status == status {
		return before, nil
	}
	if !before.Status.CanAdvanceTo(status) {
		return Order{}, fmt.Errorf("%w: cannot move order from %s to %s", httpx.ErrConflict, before.Status, status)
	}
	updated, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return Order{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}
