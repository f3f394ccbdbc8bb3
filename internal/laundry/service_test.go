package laundry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

type memoryLaundryRepo struct {
	offerings map[uuid.UUID]Offering
	orders    map[uuid.UUID]Order
}

func newMemoryLaundryRepo() *memoryLaundryRepo {
	return &memoryLaundryRepo{
		offerings: make(map[uuid.UUID]Offering),
		orders:    make(map[uuid.UUID]Order),
	}
}

func (r *memoryLaundryRepo) ListOfferings(ctx context.Context) ([]Offering, error) { return nil, nil }
func (r *memoryLaundryRepo) GetOffering(ctx context.Context, id uuid.UUID) (Offering, error) {
	o, ok := r.offerings[id]
	if !ok {
		return Offering{}, httpx.ErrNotFound
	}
	return o, nil
}
func (r *memoryLaundryRepo) CreateOffering(ctx context.Context, o Offering) (Offering, error) {
	o.ID = uuid.New()
	r.offerings[o.ID] = o
	return o, nil
}
func (r *memoryLaundryRepo) UpdateOffering(ctx context.Context, o Offering) (Offering, error) {
	r.offerings[o.ID] = o
	return o, nil
}
func (r *memoryLaundryRepo) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	delete(r.offerings, id)
	return nil
}

func (r *memoryLaundryRepo) ListOrders(ctx context.Context, roomID *uuid.UUID, status OrderStatus) ([]Order, error) {
	return nil, nil
}
func (r *memoryLaundryRepo) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}
func (r *memoryLaundryRepo) CreateOrder(ctx context.Context, o Order) (Order, error) {
	o.ID = uuid.New()
	r.orders[o.ID] = o
	return o, nil
}
func (r *memoryLaundryRepo) UpdateOrder(ctx context.Context, o Order) (Order, error) {
	existing, ok := r.orders[o.ID]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	o.Status = existing.Status
	r.orders[o.ID] = o
	return o, nil
}
func (r *memoryLaundryRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return o, nil
}
func (r *memoryLaundryRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

type nullStore struct{}

func (nullStore) Insert(ctx context.Context, record audit.Record) error { return nil }

func newLaundryService() (*Service, *memoryLaundryRepo) {
	repo := newMemoryLaundryRepo()
	return NewService(repo, audit.NewRecorder(nullStore{}, nil, nil)), repo
}

func seedOffering(repo *memoryLaundryRepo, rateType RateType, rate string) Offering {
	o := Offering{ID: uuid.New(), Name: "Wash and fold", Rate: decimal.RequireFromString(rate), RateType: rateType}
	repo.offerings[o.ID] = o
	return o
}

func intptr(n int) *int { return &n }

func decptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateOrderPricesPerKg(t *testing.T) {
	svc, repo := newLaundryService()
	off := seedOffering(repo, RatePerKg, "80.00")

	order, err := svc.CreateOrder(context.Background(), Order{
		OfferingID: off.ID, ItemsDescription: "3 shirts, 2 trousers", Weight: decptr("2.50"),
	})
	require.NoError(t, err)
	require.Equal(t, "200.00", order.TotalPrice.StringFixed(2))
	require.Equal(t, OrderReceived, order.Status)
}

func TestCreateOrderPricesPerPiece(t *testing.T) {
	svc, repo := newLaundryService()
	off := seedOffering(repo, RatePerPiece, "35.00")

	order, err := svc.CreateOrder(context.Background(), Order{
		OfferingID: off.ID, ItemsDescription: "bed linen", Quantity: intptr(4),
	})
	require.NoError(t, err)
	require.Equal(t, "140.00", order.TotalPrice.StringFixed(2))
	require.Nil(t, order.Weight)
}

func TestCreateOrderRequiresMeasureForRateType(t *testing.T) {
	svc, repo := newLaundryService()
	perKg := seedOffering(repo, RatePerKg, "80.00")

	_, err := svc.CreateOrder(context.Background(), Order{
		OfferingID: perKg.ID, ItemsDescription: "towels", Quantity: intptr(3),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))

	perPiece := seedOffering(repo, RatePerPiece, "35.00")
	_, err = svc.CreateOrder(context.Background(), Order{
		OfferingID: perPiece.ID, ItemsDescription: "towels", Weight: decptr("1.20"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestUpdateOrderReprices(t *testing.T) {
	svc, repo := newLaundryService()
	off := seedOffering(repo, RatePerKg, "80.00")

	order, err := svc.CreateOrder(context.Background(), Order{
		OfferingID: off.ID, ItemsDescription: "jackets", Weight: decptr("1.00"),
	})
	require.NoError(t, err)

	order.Weight = decptr("3.00")
	updated, err := svc.UpdateOrder(context.Background(), order)
	require.NoError(t, err)
	require.Equal(t, "240.00", updated.TotalPrice.StringFixed(2))
}

func TestOrderStatusOnlyMovesForward(t *testing.T) {
	svc, repo := newLaundryService()
	off := seedOffering(repo, RatePerPiece, "35.00")

	order, err := svc.CreateOrder(context.Background(), Order{
		OfferingID: off.ID, ItemsDescription: "suits", Quantity: intptr(2),
	})
	require.NoError(t, err)

	ready, err := svc.UpdateStatus(context.Background(), order.ID, OrderReady)
	require.NoError(t, err)
	require.Equal(t, OrderReady, ready.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, OrderWashing)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestDeliveredOrderIsImmutable(t *testing.T) {
	svc, repo := newLaundryService()
	off := seedOffering(repo, RatePerPiece, "35.00")

	order, err := svc.CreateOrder(context.Background(), Order{
		OfferingID: off.ID, ItemsDescription: "curtains", Quantity: intptr(1),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, OrderDelivered)
	require.NoError(t, err)

	order.Quantity = intptr(2)
	_, err = svc.UpdateOrder(context.Background(), order)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}
