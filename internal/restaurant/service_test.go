package restaurant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// memoryRestaurantRepo implements RepositoryPort with the same collision and
// code semantics as the SQL repository.
type memoryRestaurantRepo struct {
	categories   map[uuid.UUID]MenuCategory
	menuItems    map[uuid.UUID]MenuItem
	tables       map[uuid.UUID]Table
	reservations map[uuid.UUID]Reservation
	orders       map[uuid.UUID]Order
	rules        map[uuid.UUID]DiscountRule
	tableSeq     int64
	orderSeq     int64
}

func newMemoryRestaurantRepo() *memoryRestaurantRepo {
	return &memoryRestaurantRepo{
		categories:   make(map[uuid.UUID]MenuCategory),
		menuItems:    make(map[uuid.UUID]MenuItem),
		tables:       make(map[uuid.UUID]Table),
		reservations: make(map[uuid.UUID]Reservation),
		orders:       make(map[uuid.UUID]Order),
		rules:        make(map[uuid.UUID]DiscountRule),
	}
}

func (r *memoryRestaurantRepo) ListMenuCategories(ctx context.Context, hotelID uuid.UUID) ([]MenuCategory, error) {
	return nil, nil
}
func (r *memoryRestaurantRepo) GetMenuCategory(ctx context.Context, id uuid.UUID) (MenuCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return MenuCategory{}, httpx.ErrNotFound
	}
	return c, nil
}
func (r *memoryRestaurantRepo) CreateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error) {
	c.ID = uuid.New()
	r.categories[c.ID] = c
	return c, nil
}
func (r *memoryRestaurantRepo) UpdateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error) {
	r.categories[c.ID] = c
	return c, nil
}
func (r *memoryRestaurantRepo) DeleteMenuCategory(ctx context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *memoryRestaurantRepo) ListMenuItems(ctx context.Context, categoryID uuid.UUID) ([]MenuItem, error) {
	return nil, nil
}
func (r *memoryRestaurantRepo) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	m, ok := r.menuItems[id]
	if !ok {
		return MenuItem{}, httpx.ErrNotFound
	}
	return m, nil
}
func (r *memoryRestaurantRepo) CreateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	m.ID = uuid.New()
	r.menuItems[m.ID] = m
	return m, nil
}
func (r *memoryRestaurantRepo) UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	r.menuItems[m.ID] = m
	return m, nil
}
func (r *memoryRestaurantRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	delete(r.menuItems, id)
	return nil
}

func (r *memoryRestaurantRepo) ListTables(ctx context.Context, hotelID uuid.UUID) ([]Table, error) {
	return nil, nil
}
func (r *memoryRestaurantRepo) GetTable(ctx context.Context, id uuid.UUID) (Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return Table{}, httpx.ErrNotFound
	}
	return t, nil
}
func (r *memoryRestaurantRepo) CreateTable(ctx context.Context, t Table) (Table, error) {
	r.tableSeq++
	t.ID = uuid.New()
	t.Code = fmt.Sprintf("TBL-%04d", r.tableSeq)
	r.tables[t.ID] = t
	return t, nil
}
func (r *memoryRestaurantRepo) UpdateTable(ctx context.Context, t Table) (Table, error) {
	current, ok := r.tables[t.ID]
	if !ok {
		return Table{}, httpx.ErrNotFound
	}
	t.Code = current.Code
	r.tables[t.ID] = t
	return t, nil
}
func (r *memoryRestaurantRepo) DeleteTable(ctx context.Context, id uuid.UUID) error {
	delete(r.tables, id)
	return nil
}

func (r *memoryRestaurantRepo) ListReservations(ctx context.Context, tableID *uuid.UUID, date *time.Time) ([]Reservation, error) {
	return nil, nil
}
func (r *memoryRestaurantRepo) GetReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return Reservation{}, httpx.ErrNotFound
	}
	return res, nil
}
func (r *memoryRestaurantRepo) SlotTaken(ctx context.Context, tableID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	for _, res := range r.reservations {
		if res.TableID != tableID || !res.Date.Equal(date) || res.TimeSlot != slot || !res.Status.Blocking() {
			continue
		}
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}
func (r *memoryRestaurantRepo) CreateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	taken, _ := r.SlotTaken(ctx, res.TableID, res.Date, res.TimeSlot, nil)
	if taken {
		return Reservation{}, fmt.Errorf("%w: table is already reserved for this slot", httpx.ErrConflict)
	}
	res.ID = uuid.New()
	r.reservations[res.ID] = res
	return res, nil
}
func (r *memoryRestaurantRepo) UpdateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	if _, ok := r.reservations[res.ID]; !ok {
		return Reservation{}, httpx.ErrNotFound
	}
	if res.Status.Blocking() {
		taken, _ := r.SlotTaken(ctx, res.TableID, res.Date, res.TimeSlot, &res.ID)
		if taken {
			return Reservation{}, fmt.Errorf("%w: table is already reserved for this slot", httpx.ErrConflict)
		}
	}
	r.reservations[res.ID] = res
	return res, nil
}

func (r *memoryRestaurantRepo) ListOrders(ctx context.Context, filters OrderFilters) ([]Order, error) {
	return nil, nil
}
func (r *memoryRestaurantRepo) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}
func (r *memoryRestaurantRepo) CreateOrder(ctx context.Context, o Order) (Order, error) {
	r.orderSeq++
	o.ID = uuid.New()
	o.Code = fmt.Sprintf("ORD-%06d", r.orderSeq)
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return o, nil
}
func (r *memoryRestaurantRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return o, nil
}
func (r *memoryRestaurantRepo) ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []OrderItem, totals Totals) (Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = orderID
	}
	o.Items = items
	totals.Apply(&o)
	r.orders[orderID] = o
	return o, nil
}

func (r *memoryRestaurantRepo) ListDiscountRules(ctx context.Context, activeOnly bool) ([]DiscountRule, error) {
	var out []DiscountRule
	for _, rule := range r.rules {
		if activeOnly && !rule.IsActive {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}
func (r *memoryRestaurantRepo) GetDiscountRule(ctx context.Context, id uuid.UUID) (DiscountRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return DiscountRule{}, httpx.ErrNotFound
	}
	return rule, nil
}
func (r *memoryRestaurantRepo) CreateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error) {
	rule.ID = uuid.New()
	r.rules[rule.ID] = rule
	return rule, nil
}
func (r *memoryRestaurantRepo) UpdateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error) {
	r.rules[rule.ID] = rule
	return rule, nil
}
func (r *memoryRestaurantRepo) DeleteDiscountRule(ctx context.Context, id uuid.UUID) error {
	delete(r.rules, id)
	return nil
}

type recordStore struct {
	records []audit.Record
}

func (s *recordStore) Insert(ctx context.Context, record audit.Record) error {
	s.records = append(s.records, record)
	return nil
}

func newRestaurantService() (*Service, *memoryRestaurantRepo, *recordStore) {
	repo := newMemoryRestaurantRepo()
	store := &recordStore{}
	return NewService(repo, audit.NewRecorder(store, nil, nil)), repo, store
}

func staffCtx() context.Context {
	return shared.ContextWithActor(context.Background(), &shared.Actor{ID: uuid.New(), Email: "waiter@example.com"})
}

func seedMenuItem(repo *memoryRestaurantRepo, name, price string) MenuItem {
	m := MenuItem{ID: uuid.New(), CategoryID: uuid.New(), Name: name, Price: money(price), IsAvailable: true}
	repo.menuItems[m.ID] = m
	return m
}

func seedTable(repo *memoryRestaurantRepo) Table {
	t := Table{ID: uuid.New(), HotelID: uuid.New(), Code: "TBL-0001", Capacity: 4, Status: TableAvailable}
	repo.tables[t.ID] = t
	return t
}

func july(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateOrderComputesTotalsAndCode(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	dal := seedMenuItem(repo, "Dal Makhani", "100.00")
	naan := seedMenuItem(repo, "Garlic Naan", "50.00")

	o, err := svc.CreateOrder(staffCtx(), Order{}, []OrderItemInput{
		{MenuItemID: dal.ID, Quantity: 2},
		{MenuItemID: naan.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "ORD-000001", o.Code)
	require.Equal(t, OrderPending, o.Status)
	require.Equal(t, 3, o.TotalQuantity)
	require.Equal(t, "250.00", o.Subtotal.StringFixed(2))
	require.Equal(t, "6.25", o.CGST.StringFixed(2))
	require.Equal(t, "6.25", o.SGST.StringFixed(2))
	require.Equal(t, "262.50", o.GrandTotal.StringFixed(2))

	second, err := svc.CreateOrder(staffCtx(), Order{}, []OrderItemInput{
		{MenuItemID: naan.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "ORD-000002", second.Code)
}

func TestCreateOrderCapturesPriceAtOrderTime(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	dal := seedMenuItem(repo, "Dal Makhani", "100.00")
	ctx := staffCtx()

	o, err := svc.CreateOrder(ctx, Order{}, []OrderItemInput{{MenuItemID: dal.ID, Quantity: 1}})
	require.NoError(t, err)

	// A later menu price change must not rewrite the existing order line.
	dal.Price = money("150.00")
	repo.menuItems[dal.ID] = dal

	got, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "100.00", got.Items[0].Price.StringFixed(2))
	require.Equal(t, "100.00", got.Subtotal.StringFixed(2))
}

func TestCreateOrderRejectsUnavailableItem(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	m := seedMenuItem(repo, "Seasonal Special", "80.00")
	m.IsAvailable = false
	repo.menuItems[m.ID] = m

	_, err := svc.CreateOrder(staffCtx(), Order{}, []OrderItemInput{{MenuItemID: m.ID, Quantity: 1}})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestReplaceItemsRecomputesTotalsAndDiscount(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	dal := seedMenuItem(repo, "Dal Makhani", "100.00")
	repo.rules[uuid.New()] = DiscountRule{ID: uuid.New(), Name: "big spender", MinAmount: money("300.00"), Percentage: money("10"), IsActive: true}
	ctx := staffCtx()

	o, err := svc.CreateOrder(ctx, Order{}, []OrderItemInput{{MenuItemID: dal.ID, Quantity: 1}})
	require.NoError(t, err)
	require.Nil(t, o.DiscountRuleID)
	require.Equal(t, "0.00", o.Discount.StringFixed(2))

	// Crossing the rule threshold on the replaced item set applies it.
	updated, err := svc.ReplaceItems(ctx, o.ID, []OrderItemInput{{MenuItemID: dal.ID, Quantity: 4}})
	require.NoError(t, err)
	require.Equal(t, "400.00", updated.Subtotal.StringFixed(2))
	require.NotNil(t, updated.DiscountRuleID)
	require.Equal(t, "40.00", updated.Discount.StringFixed(2))
	require.Equal(t, "10.00", updated.CGST.StringFixed(2))
	require.Equal(t, "380.00", updated.GrandTotal.StringFixed(2))
}

func TestPaidOrdersAreImmutable(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	dal := seedMenuItem(repo, "Dal Makhani", "100.00")
	ctx := staffCtx()

	o, err := svc.CreateOrder(ctx, Order{}, []OrderItemInput{{MenuItemID: dal.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(ctx, o.ID, OrderPaid)
	require.NoError(t, err)

	_, err = svc.ReplaceItems(ctx, o.ID, []OrderItemInput{{MenuItemID: dal.ID, Quantity: 2}})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))

	_, err = svc.UpdateOrderStatus(ctx, o.ID, OrderPending)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestReservationSlotCollision(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	table := seedTable(repo)
	ctx := staffCtx()

	_, err := svc.CreateReservation(ctx, Reservation{
		TableID: table.ID, CustomerID: uuid.New(), Date: july(10), TimeSlot: "19:00", PartySize: 2,
	})
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, Reservation{
		TableID: table.ID, CustomerID: uuid.New(), Date: july(10), TimeSlot: "19:00", PartySize: 4,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))

	// A different slot on the same day is fine.
	_, err = svc.CreateReservation(ctx, Reservation{
		TableID: table.ID, CustomerID: uuid.New(), Date: july(10), TimeSlot: "21:00", PartySize: 4,
	})
	require.NoError(t, err)
}

func TestCancelledReservationFreesSlot(t *testing.T) {
	svc, repo, _ := newRestaurantService()
	table := seedTable(repo)
	ctx := staffCtx()

	res, err := svc.CreateReservation(ctx, Reservation{
		TableID: table.ID, CustomerID: uuid.New(), Date: july(10), TimeSlot: "19:00", PartySize: 2,
	})
	require.NoError(t, err)

	_, err = svc.CancelReservation(ctx, res.ID)
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, Reservation{
		TableID: table.ID, CustomerID: uuid.New(), Date: july(10), TimeSlot: "19:00", PartySize: 2,
	})
	require.NoError(t, err)
}

func TestOrderMutationsAreAudited(t *testing.T) {
	svc, repo, store := newRestaurantService()
	dal := seedMenuItem(repo, "Dal Makhani", "100.00")
	ctx := staffCtx()

	o, err := svc.CreateOrder(ctx, Order{}, []OrderItemInput{{MenuItemID: dal.ID, Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	require.Equal(t, audit.ActionCreate, store.records[0].Action)
	require.Equal(t, "restaurant_order", store.records[0].Resource)
	require.Equal(t, o.Code, store.records[0].NewData["code"])

	_, err = svc.UpdateOrderStatus(ctx, o.ID, OrderServed)
	require.NoError(t, err)
	require.Len(t, store.records, 2)
	require.Equal(t, string(OrderPending), store.records[1].OldData["status"])
	require.Equal(t, string(OrderServed), store.records[1].NewData["status"])
}
