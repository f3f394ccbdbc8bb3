package marketing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

type memoryMarketingRepo struct {
	campaigns  map[uuid.UUID]Campaign
	promotions map[uuid.UUID]Promotion
}

func newMemoryMarketingRepo() *memoryMarketingRepo {
	return &memoryMarketingRepo{
		campaigns:  make(map[uuid.UUID]Campaign),
		promotions: make(map[uuid.UUID]Promotion),
	}
}

func (r *memoryMarketingRepo) ListCampaigns(ctx context.Context, status CampaignStatus) ([]Campaign, error) {
	var out []Campaign
	for _, c := range r.campaigns {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
func (r *memoryMarketingRepo) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return Campaign{}, httpx.ErrNotFound
	}
	return c, nil
}
func (r *memoryMarketingRepo) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	c.ID = uuid.New()
	r.campaigns[c.ID] = c
	return c, nil
}
func (r *memoryMarketingRepo) UpdateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	r.campaigns[c.ID] = c
	return c, nil
}
func (r *memoryMarketingRepo) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	delete(r.campaigns, id)
	return nil
}

func (r *memoryMarketingRepo) ListPromotions(ctx context.Context, activeOnly bool) ([]Promotion, error) {
	var out []Promotion
	for _, p := range r.promotions {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
func (r *memoryMarketingRepo) GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error) {
	p, ok := r.promotions[id]
	if !ok {
		return Promotion{}, httpx.ErrNotFound
	}
	return p, nil
}
func (r *memoryMarketingRepo) CreatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	p.ID = uuid.New()
	r.promotions[p.ID] = p
	return p, nil
}
func (r *memoryMarketingRepo) UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	r.promotions[p.ID] = p
	return p, nil
}
func (r *memoryMarketingRepo) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	delete(r.promotions, id)
	return nil
}

type nullStore struct{}

func (nullStore) Insert(ctx context.Context, record audit.Record) error { return nil }

func newMarketingService() (*Service, *memoryMarketingRepo) {
	repo := newMemoryMarketingRepo()
	return NewService(repo, audit.NewRecorder(nullStore{}, nil, nil)), repo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateCampaignDefaultsToDraft(t *testing.T) {
	svc, _ := newMarketingService()

	c, err := svc.CreateCampaign(context.Background(), Campaign{
		Name: "Monsoon getaway", StartDate: day(2026, 6, 1), EndDate: day(2026, 8, 31),
		Budget: decimal.RequireFromString("50000.00"),
	})
	require.NoError(t, err)
	require.Equal(t, CampaignDraft, c.Status)
}

func TestCreateCampaignRejectsInvertedDates(t *testing.T) {
	svc, _ := newMarketingService()

	_, err := svc.CreateCampaign(context.Background(), Campaign{
		Name: "Backwards", StartDate: day(2026, 8, 31), EndDate: day(2026, 6, 1),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateCampaignRejectsNegativeBudget(t *testing.T) {
	svc, _ := newMarketingService()

	_, err := svc.CreateCampaign(context.Background(), Campaign{
		Name: "Underwater", StartDate: day(2026, 6, 1), EndDate: day(2026, 6, 30),
		Budget: decimal.RequireFromString("-1.00"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateCampaignRejectsUnknownStatus(t *testing.T) {
	svc, _ := newMarketingService()

	_, err := svc.CreateCampaign(context.Background(), Campaign{
		Name: "Typo", StartDate: day(2026, 6, 1), EndDate: day(2026, 6, 30),
		Status: CampaignStatus("running"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestPromotionLiveWindow(t *testing.T) {
	p := Promotion{StartDate: day(2026, 7, 1), EndDate: day(2026, 7, 31), IsActive: true}

	require.True(t, p.Live(day(2026, 7, 1)))
	require.True(t, p.Live(day(2026, 7, 31)))
	require.False(t, p.Live(day(2026, 6, 30)))
	require.False(t, p.Live(day(2026, 8, 1)))

	p.IsActive = false
	require.False(t, p.Live(day(2026, 7, 15)))
}

func TestCreatePromotionRejectsInvertedDates(t *testing.T) {
	svc, _ := newMarketingService()

	_, err := svc.CreatePromotion(context.Background(), Promotion{
		Title: "Backwards", Content: "x", StartDate: day(2026, 7, 31), EndDate: day(2026, 7, 1),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}
