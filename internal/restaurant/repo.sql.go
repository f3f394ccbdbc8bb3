package restaurant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/db"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

const codeAttempts = 5

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- menu categories ---

func (r *Repository) ListMenuCategories(ctx context.Context, hotelID uuid.UUID) ([]MenuCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hotel_id, name, description, created_at, updated_at
		FROM menu_categories WHERE hotel_id = $1 ORDER BY name`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MenuCategory
	for rows.Next() {
		var c MenuCategory
		if err := rows.Scan(&c.ID, &c.HotelID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetMenuCategory(ctx context.Context, id uuid.UUID) (MenuCategory, error) {
	var c MenuCategory
	err := r.pool.QueryRow(ctx, `
		SELECT id, hotel_id, name, description, created_at, updated_at
		FROM menu_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.HotelID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuCategory{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *Repository) CreateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO menu_categories (id, hotel_id, name, description, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		c.HotelID, c.Name, c.Description).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return MenuCategory{}, fmt.Errorf("%w: category name already exists in hotel", httpx.ErrConflict)
	}
	return c, err
}

func (r *Repository) UpdateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE menu_categories SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING hotel_id, created_at, updated_at`,
		c.ID, c.Name, c.Description).
		Scan(&c.HotelID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuCategory{}, httpx.ErrNotFound
	}
	if isUniqueViolation(err) {
		return MenuCategory{}, fmt.Errorf("%w: category name already exists in hotel", httpx.ErrConflict)
	}
	return c, err
}

func (r *Repository) DeleteMenuCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- menu items ---

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	var imageURL *string
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &imageURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if imageURL != nil {
		m.Image = &audit.FileRef{URL: *imageURL}
	}
	return m, err
}

func (r *Repository) ListMenuItems(ctx context.Context, categoryID uuid.UUID) ([]MenuItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, name, description, price, image_url, is_available, created_at, updated_at
		FROM menu_items WHERE category_id = $1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	m, err := scanMenuItem(r.pool.QueryRow(ctx, `
		SELECT id, category_id, name, description, price, image_url, is_available, created_at, updated_at
		FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuItem{}, httpx.ErrNotFound
	}
	return m, err
}

func (r *Repository) CreateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	var imageURL *string
	if m.Image != nil && m.Image.URL != "" {
		imageURL = &m.Image.URL
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO menu_items (id, category_id, name, description, price, image_url, is_available, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		m.CategoryID, m.Name, m.Description, m.Price, imageURL, m.IsAvailable).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return MenuItem{}, httpx.ErrConflict
	}
	return m, err
}

func (r *Repository) UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	var imageURL *string
	if m.Image != nil && m.Image.URL != "" {
		imageURL = &m.Image.URL
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE menu_items SET name = $2, description = $3, price = $4, image_url = $5, is_available = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING category_id, created_at, updated_at`,
		m.ID, m.Name, m.Description, m.Price, imageURL, m.IsAvailable).
		Scan(&m.CategoryID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuItem{}, httpx.ErrNotFound
	}
	return m, err
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- tables ---

func (r *Repository) ListTables(ctx context.Context, hotelID uuid.UUID) ([]Table, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hotel_id, code, capacity, status, created_at, updated_at
		FROM tables WHERE hotel_id = $1 ORDER BY code`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Table
	for rows.Next() {
		var t Table
		var status string
		if err := rows.Scan(&t.ID, &t.HotelID, &t.Code, &t.Capacity, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Status = TableStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) GetTable(ctx context.Context, id uuid.UUID) (Table, error) {
	var t Table
	var status string
	err := r.pool.QueryRow(ctx, `
		SELECT id, hotel_id, code, capacity, status, created_at, updated_at
		FROM tables WHERE id = $1`, id).
		Scan(&t.ID, &t.HotelID, &t.Code, &t.Capacity, &status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Table{}, httpx.ErrNotFound
	}
	t.Status = TableStatus(status)
	return t, err
}

// CreateTable allocates the table code from its own sequence namespace,
// with the same bounded retry as order codes.
func (r *Repository) CreateTable(ctx context.Context, t Table) (Table, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for attempt := 0; attempt < codeAttempts; attempt++ {
			seq, err := db.NextSequence(ctx, tx, "table")
			if err != nil {
				return err
			}
			t.Code = fmt.Sprintf("TBL-%04d", seq)
			err = tx.QueryRow(ctx, `
				INSERT INTO tables (id, hotel_id, code, capacity, status, created_at, updated_at)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
				RETURNING id, created_at, updated_at`,
				t.HotelID, t.Code, t.Capacity, string(t.Status)).
				Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
			if err == nil {
				return nil
			}
			if !isUniqueViolation(err) {
				return err
			}
		}
		return fmt.Errorf("table code allocation exhausted after %d attempts", codeAttempts)
	})
	if err != nil {
		return Table{}, err
	}
	return t, nil
}

func (r *Repository) UpdateTable(ctx context.Context, t Table) (Table, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE tables SET capacity = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING hotel_id, code, created_at, updated_at`,
		t.ID, t.Capacity, string(t.Status)).
		Scan(&t.HotelID, &t.Code, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Table{}, httpx.ErrNotFound
	}
	return t, err
}

func (r *Repository) DeleteTable(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- reservations ---

const reservationColumns = `id, table_id, customer_id, date, time_slot, party_size, status, created_at, updated_at`

func scanReservation(row pgx.Row) (Reservation, error) {
	var res Reservation
	var status string
	err := row.Scan(&res.ID, &res.TableID, &res.CustomerID, &res.Date, &res.TimeSlot,
		&res.PartySize, &status, &res.CreatedAt, &res.UpdatedAt)
	res.Status = ReservationStatus(status)
	return res, err
}

func (r *Repository) ListReservations(ctx context.Context, tableID *uuid.UUID, date *time.Time) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM table_reservations WHERE 1=1`
	var args []any
	if tableID != nil {
		args = append(args, *tableID)
		query += fmt.Sprintf(` AND table_id = $%d`, len(args))
	}
	if date != nil {
		args = append(args, *date)
		query += fmt.Sprintf(` AND date = $%d`, len(args))
	}
	query += ` ORDER BY date DESC, time_slot`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repository) GetReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	res, err := scanReservation(r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM table_reservations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, httpx.ErrNotFound
	}
	return res, err
}

// SlotTaken is the exact-slot collision test: same table, same date, same
// time slot, blocking status.
func (r *Repository) SlotTaken(ctx context.Context, tableID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	return slotTaken(ctx, r.pool, tableID, date, slot, excludeID)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func slotTaken(ctx context.Context, q querier, tableID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM table_reservations
			WHERE table_id = $1
			  AND date = $2
			  AND time_slot = $3
			  AND status IN ('pending', 'confirmed', 'seated')
			  AND ($4::uuid IS NULL OR id <> $4)
		)`, tableID, date, slot, excludeID).Scan(&exists)
	return exists, err
}

// CreateReservation runs the slot collision check in the same transaction
// as the insert.
func (r *Repository) CreateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		taken, err := slotTaken(ctx, tx, res.TableID, res.Date, res.TimeSlot, nil)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: table is already reserved for this slot", httpx.ErrConflict)
		}
		return tx.QueryRow(ctx, `
			INSERT INTO table_reservations (id, table_id, customer_id, date, time_slot, party_size, status, created_at, updated_at)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			res.TableID, res.CustomerID, res.Date, res.TimeSlot, res.PartySize, string(res.Status)).
			Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	})
	if err != nil {
		return Reservation{}, err
	}
	return res, nil
}

func (r *Repository) UpdateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if res.Status.Blocking() {
			taken, err := slotTaken(ctx, tx, res.TableID, res.Date, res.TimeSlot, &res.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: table is already reserved for this slot", httpx.ErrConflict)
			}
		}
		err := tx.QueryRow(ctx, `
			UPDATE table_reservations SET table_id = $2, date = $3, time_slot = $4, party_size = $5, status = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING customer_id, created_at, updated_at`,
			res.ID, res.TableID, res.Date, res.TimeSlot, res.PartySize, string(res.Status)).
			Scan(&res.CustomerID, &res.CreatedAt, &res.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.ErrNotFound
		}
		return err
	})
	if err != nil {
		return Reservation{}, err
	}
	return res, nil
}

// --- orders ---

const orderColumns = `id, code, table_id, customer_id, status, total_quantity, subtotal, cgst, sgst, discount_rule_id, discount, grand_total, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.Code, &o.TableID, &o.CustomerID, &status, &o.TotalQuantity,
		&o.Subtotal, &o.CGST, &o.SGST, &o.DiscountRuleID, &o.Discount, &o.GrandTotal,
		&o.CreatedAt, &o.UpdatedAt)
	o.Status = OrderStatus(status)
	return o, err
}

func (r *Repository) loadItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, menu_item_id, name, price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY name`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) ListOrders(ctx context.Context, filters OrderFilters) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM restaurant_orders WHERE 1=1`
	var args []any
	if filters.TableID != nil {
		args = append(args, *filters.TableID)
		query += fmt.Sprintf(` AND table_id = $%d`, len(args))
	}
	if filters.CustomerID != nil {
		args = append(args, *filters.CustomerID)
		query += fmt.Sprintf(` AND customer_id = $%d`, len(args))
	}
	if filters.Status != "" {
		args = append(args, string(filters.Status))
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
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM restaurant_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.loadItems(ctx, id)
	return o, err
}

// CreateOrder allocates the order code, inserts the order with its already
// computed totals, and writes the line items, all in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, o Order) (Order, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		inserted := false
		for attempt := 0; attempt < codeAttempts; attempt++ {
			seq, err := db.NextSequence(ctx, tx, "order")
			if err != nil {
				return err
			}
			o.Code = fmt.Sprintf("ORD-%06d", seq)
			err = tx.QueryRow(ctx, `
				INSERT INTO restaurant_orders (id, code, table_id, customer_id, status, total_quantity, subtotal, cgst, sgst, discount_rule_id, discount, grand_total, created_at, updated_at)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
				RETURNING id, created_at, updated_at`,
				o.Code, o.TableID, o.CustomerID, string(o.Status), o.TotalQuantity,
				o.Subtotal, o.CGST, o.SGST, o.DiscountRuleID, o.Discount, o.GrandTotal).
				Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
			if err == nil {
				inserted = true
				break
			}
			if !isUniqueViolation(err) {
				return err
			}
		}
		if !inserted {
			return fmt.Errorf("order code allocation exhausted after %d attempts", codeAttempts)
		}
		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID
			if err := tx.QueryRow(ctx, `
				INSERT INTO order_items (id, order_id, menu_item_id, name, price, quantity)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
				RETURNING id`,
				o.ID, item.MenuItemID, item.Name, item.Price, item.Quantity).
				Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE restaurant_orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.loadItems(ctx, id)
	return o, err
}

// ReplaceOrderItems swaps the line-item set and writes the freshly computed
// totals in the same transaction, keeping derived state consistent with the
// items that produced it.
func (r *Repository) ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []OrderItem, totals Totals) (Order, error) {
	var o Order
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return err
		}
		for i := range items {
			item := &items[i]
			item.OrderID = orderID
			if err := tx.QueryRow(ctx, `
				INSERT INTO order_items (id, order_id, menu_item_id, name, price, quantity)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
				RETURNING id`,
				orderID, item.MenuItemID, item.Name, item.Price, item.Quantity).
				Scan(&item.ID); err != nil {
				return err
			}
		}
		var ruleID *uuid.UUID
		if totals.DiscountRule != nil {
			id := totals.DiscountRule.ID
			ruleID = &id
		}
		var status string
		err := tx.QueryRow(ctx, `
			UPDATE restaurant_orders SET total_quantity = $2, subtotal = $3, cgst = $4, sgst = $5, discount_rule_id = $6, discount = $7, grand_total = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING `+orderColumns,
			orderID, totals.TotalQuantity, totals.Subtotal, totals.CGST, totals.SGST,
			ruleID, totals.Discount, totals.GrandTotal).
			Scan(&o.ID, &o.Code, &o.TableID, &o.CustomerID, &status, &o.TotalQuantity,
				&o.Subtotal, &o.CGST, &o.SGST, &o.DiscountRuleID, &o.Discount, &o.GrandTotal,
				&o.CreatedAt, &o.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.ErrNotFound
		}
		o.Status = OrderStatus(status)
		return err
	})
	if err != nil {
		return Order{}, err
	}
	o.Items = items
	return o, nil
}

// --- discount rules ---

const ruleColumns = `id, name, min_amount, max_amount, percentage, is_active, created_at, updated_at`

func scanRule(row pgx.Row) (DiscountRule, error) {
	var rule DiscountRule
	err := row.Scan(&rule.ID, &rule.Name, &rule.MinAmount, &rule.MaxAmount,
		&rule.Percentage, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt)
	return rule, err
}

func (r *Repository) ListDiscountRules(ctx context.Context, activeOnly bool) ([]DiscountRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM discount_rules`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY min_amount`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DiscountRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *Repository) GetDiscountRule(ctx context.Context, id uuid.UUID) (DiscountRule, error) {
	rule, err := scanRule(r.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM discount_rules WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return DiscountRule{}, httpx.ErrNotFound
	}
	return rule, err
}

func (r *Repository) CreateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO discount_rules (id, name, min_amount, max_amount, percentage, is_active, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		rule.Name, rule.MinAmount, rule.MaxAmount, rule.Percentage, rule.IsActive).
		Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if isUniqueViolation(err) {
		return DiscountRule{}, httpx.ErrConflict
	}
	return rule, err
}

func (r *Repository) UpdateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE discount_rules SET name = $2, min_amount = $3, max_amount = $4, percentage = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		rule.ID, rule.Name, rule.MinAmount, rule.MaxAmount, rule.Percentage, rule.IsActive).
		Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DiscountRule{}, httpx.ErrNotFound
	}
	return rule, err
}

func (r *Repository) DeleteDiscountRule(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM discount_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
