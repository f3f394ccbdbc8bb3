package laundry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const offeringColumns = `id, name, description, rate, rate_type, estimated_minutes, created_at, updated_at`

func scanOffering(row pgx.Row) (Offering, error) {
	var o Offering
	var rateType string
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Rate, &rateType, &o.EstimatedMinutes, &o.CreatedAt, &o.UpdatedAt)
	o.RateType = RateType(rateType)
	return o, err
}

func (r *Repository) ListOfferings(ctx context.Context) ([]Offering, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+offeringColumns+` FROM laundry_services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Offering
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) GetOffering(ctx context.Context, id uuid.UUID) (Offering, error) {
	o, err := scanOffering(r.pool.QueryRow(ctx, `SELECT `+offeringColumns+` FROM laundry_services WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Offering{}, httpx.ErrNotFound
	}
	return o, err
}

func (r *Repository) CreateOffering(ctx context.Context, o Offering) (Offering, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO laundry_services (id, name, description, rate, rate_type, estimated_minutes, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		o.Name, o.Description, o.Rate, string(o.RateType), o.EstimatedMinutes).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *Repository) UpdateOffering(ctx context.Context, o Offering) (Offering, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE laundry_services SET name = $2, description = $3, rate = $4, rate_type = $5, estimated_minutes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		o.ID, o.Name, o.Description, o.Rate, string(o.RateType), o.EstimatedMinutes).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offering{}, httpx.ErrNotFound
	}
	return o, err
}

func (r *Repository) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM laundry_services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const orderColumns = `id, room_id, service_id, items_description, weight, quantity, total_price, status, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.RoomID, &o.OfferingID, &o.ItemsDescription, &o.Weight, &o.Quantity,
		&o.TotalPrice, &status, &o.CreatedAt, &o.UpdatedAt)
	o.Status = OrderStatus(status)
	return o, err
}

func (r *Repository) ListOrders(ctx context.Context, roomID *uuid.UUID, status OrderStatus) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM laundry_orders WHERE 1=1`
	var args []any
	if roomID != nil {
		args = append(args, *roomID)
		query += fmt.Sprintf(` AND room_id = $%d`, len(args))
	}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM laundry_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	return o, err
}

func (r *Repository) CreateOrder(ctx context.Context, o Order) (Order, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO laundry_orders (id, room_id, service_id, items_description, weight, quantity, total_price, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		o.RoomID, o.OfferingID, o.ItemsDescription, o.Weight, o.Quantity, o.TotalPrice, string(o.Status)).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *Repository) UpdateOrder(ctx context.Context, o Order) (Order, error) {
	var status string
	err := r.pool.QueryRow(ctx, `
		UPDATE laundry_orders SET room_id = $2, service_id = $3, items_description = $4, weight = $5, quantity = $6, total_price = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING status, created_at, updated_at`,
		o.ID, o.RoomID, o.OfferingID, o.ItemsDescription, o.Weight, o.Quantity, o.TotalPrice).
		Scan(&status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	o.Status = OrderStatus(status)
	return o, err
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE laundry_orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	return o, err
}

func (r *Repository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM laundry_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
