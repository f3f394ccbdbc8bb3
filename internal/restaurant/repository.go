package restaurant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderFilters narrows order listings.
type OrderFilters struct {
	TableID    *uuid.UUID
	CustomerID *uuid.UUID
	Status     OrderStatus
}

// RepositoryPort defines data access for the restaurant module. Order and
// reservation creation run their collision checks inside the transaction
// that performs the insert.
type RepositoryPort interface {
	ListMenuCategories(ctx context.Context, hotelID uuid.UUID) ([]MenuCategory, error)
	GetMenuCategory(ctx context.Context, id uuid.UUID) (MenuCategory, error)
	CreateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error)
	UpdateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error)
	DeleteMenuCategory(ctx context.Context, id uuid.UUID) error

	ListMenuItems(ctx context.Context, categoryID uuid.UUID) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error)
	CreateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error)
	UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error

	ListTables(ctx context.Context, hotelID uuid.UUID) ([]Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (Table, error)
	CreateTable(ctx context.Context, t Table) (Table, error)
	UpdateTable(ctx context.Context, t Table) (Table, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error

	ListReservations(ctx context.Context, tableID *uuid.UUID, date *time.Time) ([]Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (Reservation, error)
	CreateReservation(ctx context.Context, res Reservation) (Reservation, error)
	UpdateReservation(ctx context.Context, res Reservation) (Reservation, error)
	SlotTaken(ctx context.Context, tableID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)

	ListOrders(ctx context.Context, filters OrderFilters) ([]Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (Order, error)
	CreateOrder(ctx context.Context, o Order) (Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error)
	ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []OrderItem, totals Totals) (Order, error)

	ListDiscountRules(ctx context.Context, activeOnly bool) ([]DiscountRule, error)
	GetDiscountRule(ctx context.Context, id uuid.UUID) (DiscountRule, error)
	CreateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error)
	UpdateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error)
	DeleteDiscountRule(ctx context.Context, id uuid.UUID) error
}
