package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository on PostgreSQL. audit_logs is
// insert-only; nothing here issues UPDATE or DELETE.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL audit repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Insert(ctx context.Context, record Record) error {
	oldJSON, err := marshalSnapshot(record.OldData)
	if err != nil {
		return fmt.Errorf("audit: marshal old snapshot: %w", err)
	}
	newJSON, err := marshalSnapshot(record.NewData)
	if err != nil {
		return fmt.Errorf("audit: marshal new snapshot: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, resource, resource_id, details, old_data, new_data, ip_address, user_agent, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NOW())`,
		record.ActorID, string(record.Action), record.Resource, record.ResourceID,
		record.Details, oldJSON, newJSON, record.IP, record.UserAgent)
	return err
}

func (r *PGRepository) List(ctx context.Context, scope Scope, filters QueryFilters) ([]Record, error) {
	where, args := buildWhere(scope, filters)
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filters.Offset)
	query := fmt.Sprintf(`
		SELECT a.id, a.actor_id, COALESCE(u.email, ''), a.action, a.resource, a.resource_id,
		       a.details, a.old_data, a.new_data, COALESCE(a.ip_address, ''), COALESCE(a.user_agent, ''), a.created_at
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.actor_id
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var action string
		var oldJSON, newJSON []byte
		var ts pgtype.Timestamptz
		if err := rows.Scan(&rec.ID, &rec.ActorID, &rec.ActorEmail, &action, &rec.Resource, &rec.ResourceID,
			&rec.Details, &oldJSON, &newJSON, &rec.IP, &rec.UserAgent, &ts); err != nil {
			return nil, err
		}
		rec.Action = ActionKind(action)
		if ts.Valid {
			rec.Timestamp = ts.Time
		}
		if len(oldJSON) > 0 {
			_ = json.Unmarshal(oldJSON, &rec.OldData)
		}
		if len(newJSON) > 0 {
			_ = json.Unmarshal(newJSON, &rec.NewData)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PGRepository) Count(ctx context.Context, scope Scope, filters QueryFilters) (int, error) {
	where, args := buildWhere(scope, filters)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.actor_id
		%s`, where)
	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildWhere(scope Scope, filters QueryFilters) (string, []any) {
	var conditions []string
	var args []any

	if !scope.All {
		args = append(args, scope.ActorID)
		placeholders := []string{fmt.Sprintf("$%d", len(args))}
		for _, id := range scope.CreatedBy {
			args = append(args, id)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conditions = append(conditions, fmt.Sprintf("a.actor_id IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filters.ActorEmail != "" {
		args = append(args, "%"+strings.ToLower(filters.ActorEmail)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(u.email) LIKE $%d", len(args)))
	}
	if filters.Action != "" {
		args = append(args, strings.ToLower(filters.Action))
		conditions = append(conditions, fmt.Sprintf("LOWER(a.action) = $%d", len(args)))
	}
	if filters.Resource != "" {
		args = append(args, filters.Resource)
		conditions = append(conditions, fmt.Sprintf("a.resource = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func marshalSnapshot(snap Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, nil
	}
	return json.Marshal(snap)
}
