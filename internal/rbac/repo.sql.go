package rbac

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed grant repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) GrantExists(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM role_grants
			WHERE role_id = $1 AND resource = $2 AND permission = $3
		)`, roleID, string(resource), string(permission)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepository) ListGrants(ctx context.Context, roleID *uuid.UUID) ([]Grant, error) {
	query := `
		SELECT role_id, resource, permission, created_at
		FROM role_grants`
	args := []any{}
	if roleID != nil {
		query += ` WHERE role_id = $1`
		args = append(args, *roleID)
	}
	query += ` ORDER BY resource, permission`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		var resource, permission string
		if err := rows.Scan(&g.RoleID, &resource, &permission, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Resource = Resource(resource)
		g.Permission = Permission(permission)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *PGRepository) AddGrant(ctx context.Context, grant Grant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO role_grants (role_id, resource, permission, created_at)
		VALUES ($1, $2, $3, NOW())`,
		grant.RoleID, string(grant.Resource), string(grant.Permission))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGrant
		}
		return err
	}
	return nil
}

func (r *PGRepository) RemoveGrant(ctx context.Context, roleID uuid.UUID, resource Resource, permission Permission) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM role_grants
		WHERE role_id = $1 AND resource = $2 AND permission = $3`,
		roleID, string(resource), string(permission))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
