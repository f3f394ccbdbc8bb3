package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// RepositoryPort defines data access for reviews.
type RepositoryPort interface {
	List(ctx context.Context, kind Kind, targetID *uuid.UUID) ([]Review, error)
	Get(ctx context.Context, id uuid.UUID) (Review, error)
	Create(ctx context.Context, rv Review) (Review, error)
	Update(ctx context.Context, rv Review) (Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summarize(ctx context.Context, kind Kind, targetID uuid.UUID) (Summary, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const reviewColumns = `id, user_id, kind, target_id, rating, comment, created_at`

func scanReview(row pgx.Row) (Review, error) {
	var rv Review
	var kind string
	err := row.Scan(&rv.ID, &rv.UserID, &kind, &rv.TargetID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	rv.Kind = Kind(kind)
	return rv, err
}

func (r *Repository) List(ctx context.Context, kind Kind, targetID *uuid.UUID) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE 1=1`
	var args []any
	if kind != "" {
		args = append(args, string(kind))
		query += fmt.Sprintf(` AND kind = $%d`, len(args))
	}
	if targetID != nil {
		args = append(args, *targetID)
		query += fmt.Sprintf(` AND target_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, httpx.ErrNotFound
	}
	return rv, err
}

func (r *Repository) Create(ctx context.Context, rv Review) (Review, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, user_id, kind, target_id, rating, comment, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`,
		rv.UserID, string(rv.Kind), rv.TargetID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt)
	return rv, err
}

func (r *Repository) Update(ctx context.Context, rv Review) (Review, error) {
	var kind string
	err := r.pool.QueryRow(ctx, `
		UPDATE reviews SET rating = $2, comment = $3
		WHERE id = $1
		RETURNING user_id, kind, target_id, created_at`,
		rv.ID, rv.Rating, rv.Comment).
		Scan(&rv.UserID, &kind, &rv.TargetID, &rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, httpx.ErrNotFound
	}
	rv.Kind = Kind(kind)
	return rv, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *Repository) Summarize(ctx context.Context, kind Kind, targetID uuid.UUID) (Summary, error) {
	s := Summary{Kind: kind, TargetID: targetID}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews WHERE kind = $1 AND target_id = $2`,
		string(kind), targetID).
		Scan(&s.Count, &s.Average)
	return s, err
}

var _ RepositoryPort = (*Repository)(nil)
