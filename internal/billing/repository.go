package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepositoryPort defines data access for invoices and payments.
type RepositoryPort interface {
	ListInvoices(ctx context.Context, customerID *uuid.UUID, status InvoiceStatus) ([]Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error)
	CreateInvoice(ctx context.Context, i Invoice) (Invoice, error)
	UpdateInvoice(ctx context.Context, i Invoice) (Invoice, error)

	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	CreatePayment(ctx context.Context, p Payment) (Payment, error)
	SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}
