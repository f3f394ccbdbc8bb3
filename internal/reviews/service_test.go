package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type memoryReviewRepo struct {
	reviews map[uuid.UUID]Review
}

func newMemoryReviewRepo() *memoryReviewRepo {
	return &memoryReviewRepo{reviews: make(map[uuid.UUID]Review)}
}

func (r *memoryReviewRepo) List(ctx context.Context, kind Kind, targetID *uuid.UUID) ([]Review, error) {
	var out []Review
	for _, rv := range r.reviews {
		if kind != "" && rv.Kind != kind {
			continue
		}
		if targetID != nil && rv.TargetID != *targetID {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}
func (r *memoryReviewRepo) Get(ctx context.Context, id uuid.UUID) (Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return Review{}, httpx.ErrNotFound
	}
	return rv, nil
}
func (r *memoryReviewRepo) Create(ctx context.Context, rv Review) (Review, error) {
	rv.ID = uuid.New()
	r.reviews[rv.ID] = rv
	return rv, nil
}
func (r *memoryReviewRepo) Update(ctx context.Context, rv Review) (Review, error) {
	existing, ok := r.reviews[rv.ID]
	if !ok {
		return Review{}, httpx.ErrNotFound
	}
	existing.Rating = rv.Rating
	existing.Comment = rv.Comment
	r.reviews[rv.ID] = existing
	return existing, nil
}
func (r *memoryReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.reviews, id)
	return nil
}
func (r *memoryReviewRepo) Summarize(ctx context.Context, kind Kind, targetID uuid.UUID) (Summary, error) {
	s := Summary{Kind: kind, TargetID: targetID}
	total := 0
	for _, rv := range r.reviews {
		if rv.Kind == kind && rv.TargetID == targetID {
			s.Count++
			total += rv.Rating
		}
	}
	if s.Count > 0 {
		s.Average = float64(total) / float64(s.Count)
	}
	return s, nil
}

type nullStore struct{}

func (nullStore) Insert(ctx context.Context, record audit.Record) error { return nil }

func newReviewService() (*Service, *memoryReviewRepo) {
	repo := newMemoryReviewRepo()
	return NewService(repo, audit.NewRecorder(nullStore{}, nil, nil)), repo
}

func TestCreateReviewAttributesActor(t *testing.T) {
	svc, _ := newReviewService()
	actor := &shared.Actor{ID: uuid.New(), Email: "guest@example.com"}
	ctx := shared.ContextWithActor(context.Background(), actor)

	rv, err := svc.Create(ctx, Review{Kind: KindHotel, TargetID: uuid.New(), Rating: 4, Comment: "Great stay"})
	require.NoError(t, err)
	require.NotNil(t, rv.UserID)
	require.Equal(t, actor.ID, *rv.UserID)
}

func TestCreateReviewWithoutActorStaysAnonymous(t *testing.T) {
	svc, _ := newReviewService()

	rv, err := svc.Create(context.Background(), Review{Kind: KindMenuItem, TargetID: uuid.New(), Rating: 5})
	require.NoError(t, err)
	require.Nil(t, rv.UserID)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	svc, _ := newReviewService()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), Review{Kind: KindHotel, TargetID: uuid.New(), Rating: rating})
		require.Error(t, err)
		require.True(t, errors.Is(err, httpx.ErrValidation))
	}
}

func TestCreateReviewRejectsUnknownKind(t *testing.T) {
	svc, _ := newReviewService()

	_, err := svc.Create(context.Background(), Review{Kind: Kind("parking"), TargetID: uuid.New(), Rating: 3})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestSummarizeAveragesRatings(t *testing.T) {
	svc, repo := newReviewService()
	target := uuid.New()
	for _, rating := range []int{5, 4, 3} {
		rv := Review{ID: uuid.New(), Kind: KindHotel, TargetID: target, Rating: rating}
		repo.reviews[rv.ID] = rv
	}
	other := Review{ID: uuid.New(), Kind: KindHotel, TargetID: uuid.New(), Rating: 1}
	repo.reviews[other.ID] = other

	s, err := svc.Summarize(context.Background(), KindHotel, target)
	require.NoError(t, err)
	require.Equal(t, 3, s.Count)
	require.InDelta(t, 4.0, s.Average, 0.001)
}

func TestUpdateReviewKeepsKindAndTarget(t *testing.T) {
	svc, repo := newReviewService()
	target := uuid.New()
	rv := Review{ID: uuid.New(), Kind: KindLaundry, TargetID: target, Rating: 2, Comment: "slow"}
	repo.reviews[rv.ID] = rv

	updated, err := svc.Update(context.Background(), rv.ID, 4, "better the second time")
	require.NoError(t, err)
	require.Equal(t, KindLaundry, updated.Kind)
	require.Equal(t, target, updated.TargetID)
	require.Equal(t, 4, updated.Rating)
}
