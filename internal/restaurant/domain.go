// Package restaurant covers the dining side: menus, tables, reservations,
// and orders with the deterministic totals computation.
package restaurant

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// OrderStatus is the kitchen-facing order lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderServed    OrderStatus = "served"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// TableStatus tracks floor state.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableReserved  TableStatus = "reserved"
	TableOccupied  TableStatus = "occupied"
)

// ReservationStatus is the reservation lifecycle. Cancelled and completed
// reservations release their slot.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Blocking reports whether the reservation still occupies its slot.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationPending || s == ReservationConfirmed || s == ReservationSeated
}

// MenuCategory groups menu items per hotel; name is unique per hotel.
type MenuCategory struct {
	ID          uuid.UUID
	HotelID     uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c MenuCategory) AuditResource() string { return "menu_category" }
func (c MenuCategory) AuditID() string       { return c.ID.String() }
func (c MenuCategory) DisplayString() string { return c.Name }

func (c MenuCategory) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          c.ID,
		"hotel_id":    c.HotelID,
		"name":        c.Name,
		"description": c.Description,
	})
}

// MenuItem is an orderable dish with an optional image.
type MenuItem struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Image       *audit.FileRef
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m MenuItem) AuditResource() string { return "menu_item" }
func (m MenuItem) AuditID() string       { return m.ID.String() }
func (m MenuItem) DisplayString() string { return m.Name }

func (m MenuItem) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":           m.ID,
		"category_id":  m.CategoryID,
		"name":         m.Name,
		"description":  m.Description,
		"price":        m.Price.StringFixed(2),
		"image":        m.Image,
		"is_available": m.IsAvailable,
	})
}

// Table is a dining table; Code is assigned from the table sequence.
type Table struct {
	ID        uuid.UUID
	HotelID   uuid.UUID
	Code      string
	Capacity  int
	Status    TableStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Table) AuditResource() string { return "table" }
func (t Table) AuditID() string       { return t.ID.String() }
func (t Table) DisplayString() string { return "Table " + t.Code }

func (t Table) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":       t.ID,
		"hotel_id": t.HotelID,
		"code":     t.Code,
		"capacity": t.Capacity,
		"status":   string(t.Status),
	})
}

// Reservation holds a table for an exact (date, time slot) point. Slot
// collision is exact-match, not interval overlap: reservations are
// point-in-time, unlike room bookings.
type Reservation struct {
	ID         uuid.UUID
	TableID    uuid.UUID
	CustomerID uuid.UUID
	Date       time.Time
	TimeSlot   string
	PartySize  int
	Status     ReservationStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r Reservation) AuditResource() string { return "table_reservation" }
func (r Reservation) AuditID() string       { return r.ID.String() }

func (r Reservation) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          r.ID,
		"table_id":    r.TableID,
		"customer_id": r.CustomerID,
		"date":        r.Date.Format("2006-01-02"),
		"time_slot":   r.TimeSlot,
		"party_size":  r.PartySize,
		"status":      string(r.Status),
	})
}

// OrderItem is one line of an order. Price is captured at order time so
// later menu edits do not rewrite history.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Price      decimal.Decimal
	Quantity   int
}

// Order carries the derived totals owned by the computation engine. They
// are recomputed in full from the line items on every change, never
// patched incrementally.
type Order struct {
	ID             uuid.UUID
	Code           string
	TableID        *uuid.UUID
	CustomerID     *uuid.UUID
	Status         OrderStatus
	Items          []OrderItem
	TotalQuantity  int
	Subtotal       decimal.Decimal
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	DiscountRuleID *uuid.UUID
	Discount       decimal.Decimal
	GrandTotal     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (o Order) AuditResource() string { return "restaurant_order" }
func (o Order) AuditID() string       { return o.ID.String() }
func (o Order) DisplayString() string { return o.Code }

func (o Order) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":               o.ID,
		"code":             o.Code,
		"table_id":         o.TableID,
		"customer_id":      o.CustomerID,
		"status":           string(o.Status),
		"total_quantity":   o.TotalQuantity,
		"subtotal":         o.Subtotal.StringFixed(2),
		"cgst":             o.CGST.StringFixed(2),
		"sgst":             o.SGST.StringFixed(2),
		"discount_rule_id": o.DiscountRuleID,
		"discount":         o.Discount.StringFixed(2),
		"grand_total":      o.GrandTotal.StringFixed(2),
	})
}

// DiscountRule applies when `is_active AND min <= subtotal AND
// (max is null OR subtotal <= max)`. When several rules match, the one with
// the highest MinAmount wins.
type DiscountRule struct {
	ID         uuid.UUID
	Name       string
	MinAmount  decimal.Decimal
	MaxAmount  *decimal.Decimal
	Percentage decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Admits reports whether the rule's bounds admit the subtotal.
func (r DiscountRule) Admits(subtotal decimal.Decimal) bool {
	if !r.IsActive {
		return false
	}
	if subtotal.LessThan(r.MinAmount) {
		return false
	}
	if r.MaxAmount != nil && subtotal.GreaterThan(*r.MaxAmount) {
		return false
	}
	return true
}

func (r DiscountRule) AuditResource() string { return "discount_rule" }
func (r DiscountRule) AuditID() string       { return r.ID.String() }
func (r DiscountRule) DisplayString() string { return r.Name }

func (r DiscountRule) AuditSnapshot() audit.Snapshot {
	var maxAmount any
	if r.MaxAmount != nil {
		maxAmount = r.MaxAmount.StringFixed(2)
	}
	return audit.Fields(map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"min_amount": r.MinAmount.StringFixed(2),
		"max_amount": maxAmount,
		"percentage": r.Percentage.String(),
		"is_active":  r.IsActive,
	})
}
