package users

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

const userColumns = `id, email, full_name, password_hash, role_id, is_superuser, is_active, created_by, staff_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.RoleID,
		&u.IsSuperuser, &u.IsActive, &u.CreatedBy, &u.StaffID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List returns users, optionally scoped to a creator and a case-insensitive
// email/name search.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var (
		clauses []string
		args    []any
	)
	if filters.CreatedBy != nil {
		args = append(args, *filters.CreatedBy)
		clauses = append(clauses, `(created_by = $1 OR id = $1)`)
	}
	if filters.Search != "" {
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, `(LOWER(email) LIKE $`+n+` OR LOWER(full_name) LIKE $`+n+`)`)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Get fetches a user by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return u, err
}

// FindByEmail fetches a user by email for authentication.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return u, err
}

// ListIDsByCreator returns IDs of users provisioned by the given creator.
func (r *Repository) ListIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE created_by = $1`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a new user account.
func (r *Repository) Create(ctx context.Context, user User) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, role_id, is_superuser, is_active, created_by, staff_id, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING `+userColumns,
		user.Email, user.FullName, user.PasswordHash, user.RoleID,
		user.IsSuperuser, user.IsActive, user.CreatedBy, user.StaffID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, httpx.ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

// Update persists mutable account fields. The password hash is written only
// when non-empty.
func (r *Repository) Update(ctx context.Context, user User) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			email = $2,
			full_name = $3,
			password_hash = COALESCE(NULLIF($4, ''), password_hash),
			role_id = $5,
			is_active = $6,
			staff_id = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Email, user.FullName, user.PasswordHash,
		user.RoleID, user.IsActive, user.StaffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, httpx.ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

// Delete removes a user account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
