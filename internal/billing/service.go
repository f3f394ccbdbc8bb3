package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/hotel"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// StayLookup resolves the booking and room rate an invoice is derived from.
// The hotel service satisfies it.
type StayLookup interface {
	GetBooking(ctx context.Context, id uuid.UUID) (hotel.Booking, error)
	GetRoom(ctx context.Context, id uuid.UUID) (hotel.Room, error)
}

// Service handles billing business logic.
type Service struct {
	repo     RepositoryPort
	stays    StayLookup
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, stays StayLookup, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, stays: stays, recorder: recorder, now: time.Now}
}

func (s *Service) ListInvoices(ctx context.Context, customerID *uuid.UUID, status InvoiceStatus) ([]Invoice, error) {
	return s.repo.ListInvoices(ctx, customerID, status)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// InvoiceInput carries the adjustable parts of an invoice; the amounts come
// from the booking.
type InvoiceInput struct {
	BookingID uuid.UUID
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	DueDate   *time.Time
}

// CreateInvoice derives the billed amounts from the booking: total is
// nights × the room's current rate, final adds tax and subtracts discount.
func (s *Service) CreateInvoice(ctx context.Context, in InvoiceInput) (Invoice, error) {
	if in.Tax.IsNegative() || in.Discount.IsNegative() {
		return Invoice{}, fmt.Errorf("%w: tax and discount cannot be negative", httpx.ErrValidation)
	}
	booking, err := s.stays.GetBooking(ctx, in.BookingID)
	if err != nil {
		return Invoice{}, err
	}
	if !booking.Live() {
		return Invoice{}, fmt.Errorf("%w: cannot invoice a cancelled booking", httpx.ErrValidation)
	}
	room, err := s.stays.GetRoom(ctx, booking.RoomID)
	if err != nil {
		return Invoice{}, err
	}

	total := room.RatePerNight.Mul(decimal.NewFromInt(int64(booking.Nights()))).Round(2)
	final := total.Add(in.Tax).Sub(in.Discount).Round(2)
	if final.IsNegative() {
		return Invoice{}, fmt.Errorf("%w: discount exceeds the billed amount", httpx.ErrValidation)
	}

	invoice := Invoice{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		InvoiceDate: s.now(),
		DueDate:     in.DueDate,
		TotalAmount: total,
		Tax:         in.Tax,
		Discount:    in.Discount,
		FinalAmount: final,
		Status:      InvoiceUnpaid,
	}
	created, err := s.repo.CreateInvoice(ctx, invoice)
	if err != nil {
		return Invoice{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

// CancelInvoice marks an invoice cancelled. Paid invoices stay paid.
func (s *Service) CancelInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	before, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if before.Status == InvoicePaid {
		return Invoice{}, fmt.Errorf("%w: paid invoices cannot be cancelled", httpx.ErrConflict)
	}
	if before.Status == InvoiceCancelled {
		return before, nil
	}
	cancelled := before
	cancelled.Status = InvoiceCancelled
	updated, err := s.repo.UpdateInvoice(ctx, cancelled)
	if err != nil {
		return Invoice{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error) {
	return s.repo.ListPayments(ctx, invoiceID)
}

// RecordPayment persists a payment and re-derives the invoice status from
// total coverage.
func (s *Service) RecordPayment(ctx context.Context, p Payment) (Payment, Invoice, error) {
	if !ValidMethod(p.Method) {
		return Payment{}, Invoice{}, fmt.Errorf("%w: unknown payment method", httpx.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return Payment{}, Invoice{}, fmt.Errorf("%w: payment amount must be positive", httpx.ErrValidation)
	}
	before, err := s.repo.GetInvoice(ctx, p.InvoiceID)
	if err != nil {
		return Payment{}, Invoice{}, err
	}
	if before.Status == InvoiceCancelled {
		return Payment{}, Invoice{}, fmt.Errorf("%w: invoice is cancelled", httpx.ErrConflict)
	}
	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return Payment{}, Invoice{}, err
	}
	s.recorder.Created(ctx, created)

	paid, err := s.repo.SumPayments(ctx, p.InvoiceID)
	if err != nil {
		return Payment{}, Invoice{}, err
	}
	status := DeriveStatus(before, paid)
	invoice := before
	if status != before.Status {
		invoice.Status = status
		invoice, err = s.repo.UpdateInvoice(ctx, invoice)
		if err != nil {
			return Payment{}, Invoice{}, err
		}
		s.recorder.Updated(ctx, before.AuditSnapshot(), invoice)
	}
	return created, invoice, nil
}
