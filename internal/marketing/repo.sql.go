package marketing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// RepositoryPort defines data access for campaigns and promotions.
type RepositoryPort interface {
	ListCampaigns(ctx context.Context, status CampaignStatus) ([]Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error)
	CreateCampaign(ctx context.Context, c Campaign) (Campaign, error)
	UpdateCampaign(ctx context.Context, c Campaign) (Campaign, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID) error

	ListPromotions(ctx context.Context, activeOnly bool) ([]Promotion, error)
	GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error)
	CreatePromotion(ctx context.Context, p Promotion) (Promotion, error)
	UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error)
	DeletePromotion(ctx context.Context, id uuid.UUID) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const campaignColumns = `id, name, description, start_date, end_date, budget, status, results, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	var status string
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate,
		&c.Budget, &status, &c.Results, &c.CreatedAt, &c.UpdatedAt)
	c.Status = CampaignStatus(status)
	return c, err
}

func (r *Repository) ListCampaigns(ctx context.Context, status CampaignStatus) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	var args []any
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	query += ` ORDER BY start_date DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *Repository) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (id, name, description, start_date, end_date, budget, status, results, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.StartDate, c.EndDate, c.Budget, string(c.Status), c.Results).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) UpdateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET name = $2, description = $3, start_date = $4, end_date = $5, budget = $6, status = $7, results = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Description, c.StartDate, c.EndDate, c.Budget, string(c.Status), c.Results).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *Repository) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const promotionColumns = `id, title, content, image_url, start_date, end_date, is_active, created_at, updated_at`

func scanPromotion(row pgx.Row) (Promotion, error) {
	var p Promotion
	var imageURL *string
	err := row.Scan(&p.ID, &p.Title, &p.Content, &imageURL, &p.StartDate, &p.EndDate,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if imageURL != nil {
		p.Image = &audit.FileRef{URL: *imageURL}
	}
	return p, err
}

func (r *Repository) ListPromotions(ctx context.Context, activeOnly bool) ([]Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY start_date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error) {
	p, err := scanPromotion(r.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Promotion{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *Repository) CreatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	var imageURL *string
	if p.Image != nil && p.Image.URL != "" {
		imageURL = &p.Image.URL
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO promotions (id, title, content, image_url, start_date, end_date, is_active, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		p.Title, p.Content, imageURL, p.StartDate, p.EndDate, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	var imageURL *string
	if p.Image != nil && p.Image.URL != "" {
		imageURL = &p.Image.URL
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE promotions SET title = $2, content = $3, image_url = $4, start_date = $5, end_date = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Content, imageURL, p.StartDate, p.EndDate, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Promotion{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *Repository) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
