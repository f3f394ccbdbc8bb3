// Package billing derives invoices from bookings and tracks payments
// against them. Invoice status is a pure function of payment coverage.
package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// InvoiceStatus is derived from payment coverage, except cancelled which is
// an explicit input.
type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "unpaid"
	InvoicePartial   InvoiceStatus = "partial"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayCard         PaymentMethod = "card"
	PayUPI          PaymentMethod = "upi"
	PayBankTransfer PaymentMethod = "bank_transfer"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCard, PayUPI, PayBankTransfer:
		return true
	}
	return false
}

var amountPrinter = message.NewPrinter(language.English)

// Invoice bills a booking. TotalAmount is nights × room rate at issue time;
// FinalAmount = total + tax − discount.
type Invoice struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	CustomerID  uuid.UUID
	InvoiceDate time.Time
	DueDate     *time.Time
	TotalAmount decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	FinalAmount decimal.Decimal
	Status      InvoiceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i Invoice) AuditResource() string { return "invoice" }
func (i Invoice) AuditID() string       { return i.ID.String() }

// DisplayString renders the billed amount with grouping separators for
// audit timelines.
func (i Invoice) DisplayString() string {
	f, _ := i.FinalAmount.Float64()
	return amountPrinter.Sprintf("Invoice for %.2f", f)
}

func (i Invoice) AuditSnapshot() audit.Snapshot {
	var due any
	if i.DueDate != nil {
		due = i.DueDate.Format("2006-01-02")
	}
	return audit.Fields(map[string]any{
		"id":           i.ID,
		"booking_id":   i.BookingID,
		"customer_id":  i.CustomerID,
		"invoice_date": i.InvoiceDate.Format("2006-01-02"),
		"due_date":     due,
		"total_amount": i.TotalAmount.StringFixed(2),
		"tax":          i.Tax.StringFixed(2),
		"discount":     i.Discount.StringFixed(2),
		"final_amount": i.FinalAmount.StringFixed(2),
		"status":       string(i.Status),
	})
}

// Payment is one settlement against an invoice.
type Payment struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	Method          PaymentMethod
	Amount          decimal.Decimal
	ReferenceNumber string
	PaidAt          time.Time
}

func (p Payment) AuditResource() string { return "payment" }
func (p Payment) AuditID() string       { return p.ID.String() }

func (p Payment) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":               p.ID,
		"invoice_id":       p.InvoiceID,
		"method":           string(p.Method),
		"amount":           p.Amount.StringFixed(2),
		"reference_number": p.ReferenceNumber,
	})
}

// DeriveStatus maps payment coverage onto the invoice status. Cancelled
// invoices keep their status regardless of payments.
func DeriveStatus(i Invoice, paid decimal.Decimal) InvoiceStatus {
	if i.Status == InvoiceCancelled {
		return InvoiceCancelled
	}
	switch {
	case paid.GreaterThanOrEqual(i.FinalAmount) && i.FinalAmount.IsPositive():
		return InvoicePaid
	case paid.IsPositive():
		return InvoicePartial
	default:
		return InvoiceUnpaid
	}
}
