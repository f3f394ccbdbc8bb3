package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// Service handles review business logic.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

func (s *Service) List(ctx context.Context, kind Kind, targetID *uuid.UUID) ([]Review, error) {
	if kind != "" && !kind.Known() {
		return nil, fmt.Errorf("%w: unknown review kind %q", httpx.ErrValidation, kind)
	}
	return s.repo.List(ctx, kind, targetID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Review, error) {
	return s.repo.Get(ctx, id)
}

// Create records a review attributed to the request actor when one is
// present.
func (s *Service) Create(ctx context.Context, rv Review) (Review, error) {
	if err := validateReview(rv); err != nil {
		return Review{}, err
	}
	if actor := shared.ActorFromContext(ctx); actor != nil {
		id := actor.ID
		rv.UserID = &id
	}
	created, err := s.repo.Create(ctx, rv)
	if err != nil {
		return Review{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

// Update changes the rating and comment. Kind and target are fixed at
// creation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, rating int, comment string) (Review, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if rating < 1 || rating > 5 {
		return Review{}, fmt.Errorf("%w: rating must be between 1 and 5", httpx.ErrValidation)
	}
	updated, err := s.repo.Update(ctx, Review{ID: id, Rating: rating, Comment: comment})
	if err != nil {
		return Review{}, err
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

// Summarize returns the count and average rating for one target.
func (s *Service) Summarize(ctx context.Context, kind Kind, targetID uuid.UUID) (Summary, error) {
	if !kind.Known() {
		return Summary{}, fmt.Errorf("%w: unknown review kind %q", httpx.ErrValidation, kind)
	}
	return s.repo.Summarize(ctx, kind, targetID)
}

func validateReview(rv Review) error {
	if !rv.Kind.Known() {
		return fmt.Errorf("%w: unknown review kind %q", httpx.ErrValidation, rv.Kind)
	}
	if rv.TargetID == uuid.Nil {
		return fmt.Errorf("%w: target id is required", httpx.ErrValidation)
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", httpx.ErrValidation)
	}
	return nil
}
