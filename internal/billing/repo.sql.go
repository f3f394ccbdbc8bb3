package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

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

const invoiceColumns = `id, booking_id, customer_id, invoice_date, due_date, total_amount, tax, discount, final_amount, status, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var i Invoice
	var status string
	err := row.Scan(&i.ID, &i.BookingID, &i.CustomerID, &i.InvoiceDate, &i.DueDate,
		&i.TotalAmount, &i.Tax, &i.Discount, &i.FinalAmount, &status, &i.CreatedAt, &i.UpdatedAt)
	i.Status = InvoiceStatus(status)
	return i, err
}

func (r *Repository) ListInvoices(ctx context.Context, customerID *uuid.UUID, status InvoiceStatus) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	var args []any
	if customerID != nil {
		args = append(args, *customerID)
		query += fmt.Sprintf(` AND customer_id = $%d`, len(args))
	}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY invoice_date DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *Repository) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	i, err := scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, httpx.ErrNotFound
	}
	return i, err
}

func (r *Repository) CreateInvoice(ctx context.Context, i Invoice) (Invoice, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (id, booking_id, customer_id, invoice_date, due_date, total_amount, tax, discount, final_amount, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		i.BookingID, i.CustomerID, i.InvoiceDate, i.DueDate,
		i.TotalAmount, i.Tax, i.Discount, i.FinalAmount, string(i.Status)).
		Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *Repository) UpdateInvoice(ctx context.Context, i Invoice) (Invoice, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE invoices SET due_date = $2, tax = $3, discount = $4, final_amount = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING booking_id, customer_id, invoice_date, total_amount, created_at, updated_at`,
		i.ID, i.DueDate, i.Tax, i.Discount, i.FinalAmount, string(i.Status)).
		Scan(&i.BookingID, &i.CustomerID, &i.InvoiceDate, &i.TotalAmount, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, httpx.ErrNotFound
	}
	return i, err
}

func (r *Repository) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, method, amount, reference_number, paid_at
		FROM payments WHERE invoice_id = $1 ORDER BY paid_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		var method string
		if err := rows.Scan(&p.ID, &p.InvoiceID, &method, &p.Amount, &p.ReferenceNumber, &p.PaidAt); err != nil {
			return nil, err
		}
		p.Method = PaymentMethod(method)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) CreatePayment(ctx context.Context, p Payment) (Payment, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payments (id, invoice_id, method, amount, reference_number, paid_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW())
		RETURNING id, paid_at`,
		p.InvoiceID, string(p.Method), p.Amount, p.ReferenceNumber).
		Scan(&p.ID, &p.PaidAt)
	return p, err
}

func (r *Repository) SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`, invoiceID).
		Scan(&sum)
	return sum, err
}

var _ RepositoryPort = (*Repository)(nil)
