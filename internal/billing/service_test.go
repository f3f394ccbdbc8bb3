package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/hotel"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type memoryBillingRepo struct {
	invoices map[uuid.UUID]Invoice
	payments map[uuid.UUID][]Payment
}

func newMemoryBillingRepo() *memoryBillingRepo {
	return &memoryBillingRepo{
		invoices: make(map[uuid.UUID]Invoice),
		payments: make(map[uuid.UUID][]Payment),
	}
}

func (r *memoryBillingRepo) ListInvoices(ctx context.Context, customerID *uuid.UUID, status InvoiceStatus) ([]Invoice, error) {
	return nil, nil
}
func (r *memoryBillingRepo) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	i, ok := r.invoices[id]
	if !ok {
		return Invoice{}, httpx.ErrNotFound
	}
	return i, nil
}
func (r *memoryBillingRepo) CreateInvoice(ctx context.Context, i Invoice) (Invoice, error) {
	i.ID = uuid.New()
	r.invoices[i.ID] = i
	return i, nil
}
func (r *memoryBillingRepo) UpdateInvoice(ctx context.Context, i Invoice) (Invoice, error) {
	r.invoices[i.ID] = i
	return i, nil
}
func (r *memoryBillingRepo) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error) {
	return r.payments[invoiceID], nil
}
func (r *memoryBillingRepo) CreatePayment(ctx context.Context, p Payment) (Payment, error) {
	p.ID = uuid.New()
	r.payments[p.InvoiceID] = append(r.payments[p.InvoiceID], p)
	return p, nil
}
func (r *memoryBillingRepo) SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments[invoiceID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

type stubStays struct {
	bookings map[uuid.UUID]hotel.Booking
	rooms    map[uuid.UUID]hotel.Room
}

func (s *stubStays) GetBooking(ctx context.Context, id uuid.UUID) (hotel.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return hotel.Booking{}, httpx.ErrNotFound
	}
	return b, nil
}
func (s *stubStays) GetRoom(ctx context.Context, id uuid.UUID) (hotel.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return hotel.Room{}, httpx.ErrNotFound
	}
	return room, nil
}

type nullStore struct{}

func (nullStore) Insert(ctx context.Context, record audit.Record) error { return nil }

func newBillingService() (*Service, *memoryBillingRepo, *stubStays) {
	repo := newMemoryBillingRepo()
	stays := &stubStays{bookings: make(map[uuid.UUID]hotel.Booking), rooms: make(map[uuid.UUID]hotel.Room)}
	return NewService(repo, stays, audit.NewRecorder(nullStore{}, nil, nil)), repo, stays
}

func billingCtx() context.Context {
	return shared.ContextWithActor(context.Background(), &shared.Actor{ID: uuid.New(), Email: "cashier@example.com"})
}

func seedStay(stays *stubStays, nights int, rate string) hotel.Booking {
	room := hotel.Room{ID: uuid.New(), RatePerNight: decimal.RequireFromString(rate)}
	stays.rooms[room.ID] = room
	checkIn := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	b := hotel.Booking{
		ID: uuid.New(), RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, nights),
		Status: hotel.BookingCheckedOut,
	}
	stays.bookings[b.ID] = b
	return b
}

func TestCreateInvoiceDerivesAmountsFromBooking(t *testing.T) {
	svc, _, stays := newBillingService()
	b := seedStay(stays, 3, "1500.00")

	i, err := svc.CreateInvoice(billingCtx(), InvoiceInput{
		BookingID: b.ID,
		Tax:       decimal.RequireFromString("225.00"),
		Discount:  decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	require.Equal(t, "4500.00", i.TotalAmount.StringFixed(2))
	require.Equal(t, "4625.00", i.FinalAmount.StringFixed(2))
	require.Equal(t, InvoiceUnpaid, i.Status)
	require.Equal(t, b.CustomerID, i.CustomerID)
}

func TestCreateInvoiceRejectsCancelledBooking(t *testing.T) {
	svc, _, stays := newBillingService()
	b := seedStay(stays, 2, "1000.00")
	b.Status = hotel.BookingCancelled
	stays.bookings[b.ID] = b

	_, err := svc.CreateInvoice(billingCtx(), InvoiceInput{BookingID: b.ID})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestPaymentCoverageDrivesInvoiceStatus(t *testing.T) {
	svc, _, stays := newBillingService()
	b := seedStay(stays, 2, "1000.00")
	ctx := billingCtx()

	i, err := svc.CreateInvoice(ctx, InvoiceInput{BookingID: b.ID})
	require.NoError(t, err)
	require.Equal(t, "2000.00", i.FinalAmount.StringFixed(2))

	_, inv, err := svc.RecordPayment(ctx, Payment{
		InvoiceID: i.ID, Method: PayCash, Amount: decimal.RequireFromString("500.00"),
	})
	require.NoError(t, err)
	require.Equal(t, InvoicePartial, inv.Status)

	_, inv, err = svc.RecordPayment(ctx, Payment{
		InvoiceID: i.ID, Method: PayUPI, Amount: decimal.RequireFromString("1500.00"),
	})
	require.NoError(t, err)
	require.Equal(t, InvoicePaid, inv.Status)
}

func TestRecordPaymentRejectsCancelledInvoice(t *testing.T) {
	svc, _, stays := newBillingService()
	b := seedStay(stays, 1, "900.00")
	ctx := billingCtx()

	i, err := svc.CreateInvoice(ctx, InvoiceInput{BookingID: b.ID})
	require.NoError(t, err)
	_, err = svc.CancelInvoice(ctx, i.ID)
	require.NoError(t, err)

	_, _, err = svc.RecordPayment(ctx, Payment{
		InvoiceID: i.ID, Method: PayCard, Amount: decimal.RequireFromString("900.00"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestRecordPaymentValidatesMethodAndAmount(t *testing.T) {
	svc, _, stays := newBillingService()
	b := seedStay(stays, 1, "900.00")
	ctx := billingCtx()

	i, err := svc.CreateInvoice(ctx, InvoiceInput{BookingID: b.ID})
	require.NoError(t, err)

	_, _, err = svc.RecordPayment(ctx, Payment{InvoiceID: i.ID, Method: "cheque", Amount: decimal.RequireFromString("10.00")})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, _, err = svc.RecordPayment(ctx, Payment{InvoiceID: i.ID, Method: PayCash, Amount: decimal.Zero})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}
