package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Service handles restaurant module business logic. Order totals are owned
// here: any change to an order's line items triggers a full recomputation
// against the active discount rules.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// --- menu categories ---

func (s *Service) ListMenuCategories(ctx context.Context, hotelID uuid.UUID) ([]MenuCategory, error) {
	return s.repo.ListMenuCategories(ctx, hotelID)
}

func (s *Service) GetMenuCategory(ctx context.Context, id uuid.UUID) (MenuCategory, error) {
	return s.repo.GetMenuCategory(ctx, id)
}

func (s *Service) CreateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error) {
	created, err := s.repo.CreateMenuCategory(ctx, c)
	if err != nil {
		return MenuCategory{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateMenuCategory(ctx context.Context, c MenuCategory) (MenuCategory, error) {
	before, err := s.repo.GetMenuCategory(ctx, c.ID)
	if err != nil {
		return MenuCategory{}, err
	}
	updated, err := s.repo.UpdateMenuCategory(ctx, c)
	if err != nil {
		return MenuCategory{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteMenuCategory(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetMenuCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMenuCategory(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- menu items ---

func (s *Service) ListMenuItems(ctx context.Context, categoryID uuid.UUID) ([]MenuItem, error) {
	return s.repo.ListMenuItems(ctx, categoryID)
}

func (s *Service) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *Service) CreateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	if m.Price.IsNegative() {
		return MenuItem{}, fmt.Errorf("%w: price cannot be negative", httpx.ErrValidation)
	}
	if _, err := s.repo.GetMenuCategory(ctx, m.CategoryID); err != nil {
		return MenuItem{}, err
	}
	created, err := s.repo.CreateMenuItem(ctx, m)
	if err != nil {
		return MenuItem{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	if m.Price.IsNegative() {
		return MenuItem{}, fmt.Errorf("%w: price cannot be negative", httpx.ErrValidation)
	}
	before, err := s.repo.GetMenuItem(ctx, m.ID)
	if err != nil {
		return MenuItem{}, err
	}
	updated, err := s.repo.UpdateMenuItem(ctx, m)
	if err != nil {
		return MenuItem{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- tables ---

func (s *Service) ListTables(ctx context.Context, hotelID uuid.UUID) ([]Table, error) {
	return s.repo.ListTables(ctx, hotelID)
}

func (s *Service) GetTable(ctx context.Context, id uuid.UUID) (Table, error) {
	return s.repo.GetTable(ctx, id)
}

func (s *Service) CreateTable(ctx context.Context, t Table) (Table, error) {
	if t.Capacity <= 0 {
		return Table{}, fmt.Errorf("%w: capacity must be positive", httpx.ErrValidation)
	}
	if t.Status == "" {
		t.Status = TableAvailable
	}
	created, err := s.repo.CreateTable(ctx, t)
	if err != nil {
		return Table{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateTable(ctx context.Context, t Table) (Table, error) {
	if t.Capacity <= 0 {
		return Table{}, fmt.Errorf("%w: capacity must be positive", httpx.ErrValidation)
	}
	before, err := s.repo.GetTable(ctx, t.ID)
	if err != nil {
		return Table{}, err
	}
	updated, err := s.repo.UpdateTable(ctx, t)
	if err != nil {
		return Table{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteTable(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTable(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- reservations ---

func (s *Service) ListReservations(ctx context.Context, tableID *uuid.UUID, date *time.Time) ([]Reservation, error) {
	return s.repo.ListReservations(ctx, tableID, date)
}

func (s *Service) GetReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

// CheckSlot is the validation-time collision probe. The authoritative check
// still runs inside the create/update transaction.
func (s *Service) CheckSlot(ctx context.Context, tableID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	if slot == "" {
		return false, fmt.Errorf("%w: time slot is required", httpx.ErrValidation)
	}
	taken, err := s.repo.SlotTaken(ctx, tableID, date, slot, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *Service) CreateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	if err := validateReservation(res); err != nil {
		return Reservation{}, err
	}
	if _, err := s.repo.GetTable(ctx, res.TableID); err != nil {
		return Reservation{}, err
	}
	if res.Status == "" {
		res.Status = ReservationPending
	}
	created, err := s.repo.CreateReservation(ctx, res)
	if err != nil {
		return Reservation{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	if err := validateReservation(res); err != nil {
		return Reservation{}, err
	}
	before, err := s.repo.GetReservation(ctx, res.ID)
	if err != nil {
		return Reservation{}, err
	}
	updated, err := s.repo.UpdateReservation(ctx, res)
	if err != nil {
		return Reservation{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

// CancelReservation moves a reservation to cancelled, releasing its slot.
func (s *Service) CancelReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	before, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if before.Status == ReservationCancelled {
		return before, nil
	}
	cancelled := before
	cancelled.Status = ReservationCancelled
	updated, err := s.repo.UpdateReservation(ctx, cancelled)
	if err != nil {
		return Reservation{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func validateReservation(res Reservation) error {
	if res.TimeSlot == "" {
		return fmt.Errorf("%w: time slot is required", httpx.ErrValidation)
	}
	if res.PartySize <= 0 {
		return fmt.Errorf("%w: party size must be positive", httpx.ErrValidation)
	}
	return nil
}

// --- orders ---

func (s *Service) ListOrders(ctx context.Context, filters OrderFilters) ([]Order, error) {
	return s.repo.ListOrders(ctx, filters)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// OrderItemInput names a menu item and quantity. The item's current name and
// price are captured onto the order line at resolution time.
type OrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

func (s *Service) resolveItems(ctx context.Context, inputs []OrderItemInput) ([]OrderItem, error) {
	items := make([]OrderItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
		}
		menuItem, err := s.repo.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: %s is not available", httpx.ErrValidation, menuItem.Name)
		}
		items = append(items, OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   in.Quantity,
		})
	}
	return items, nil
}

// CreateOrder resolves the line items against the menu, computes totals
// against the active discount rules, and persists the order.
func (s *Service) CreateOrder(ctx context.Context, o Order, inputs []OrderItemInput) (Order, error) {
	if len(inputs) == 0 {
		return Order{}, fmt.Errorf("%w: order needs at least one item", httpx.ErrValidation)
	}
	items, err := s.resolveItems(ctx, inputs)
	if err != nil {
		return Order{}, err
	}
	rules, err := s.repo.ListDiscountRules(ctx, true)
	if err != nil {
		return Order{}, err
	}
	o.Items = items
	ComputeTotals(items, rules).Apply(&o)
	if o.Status == "" {
		o.Status = OrderPending
	}
	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return Order{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

// ReplaceItems swaps an order's line items and recomputes all totals from
// the new set. Paid and cancelled orders are immutable.
func (s *Service) ReplaceItems(ctx context.Context, orderID uuid.UUID, inputs []OrderItemInput) (Order, error) {
	if len(inputs) == 0 {
		return Order{}, fmt.Errorf("%w: order needs at least one item", httpx.ErrValidation)
	}
	before, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if before.Status == OrderPaid || before.Status == OrderCancelled {
		return Order{}, fmt.Errorf("%w: %s orders cannot be modified", httpx.ErrConflict, before.Status)
	}
	items, err := s.resolveItems(ctx, inputs)
	if err != nil {
		return Order{}, err
	}
	rules, err := s.repo.ListDiscountRules(ctx, true)
	if err != nil {
		return Order{}, err
	}
	totals := ComputeTotals(items, rules)
	updated, err := s.repo.ReplaceOrderItems(ctx, orderID, items, totals)
	if err != nil {
		return Order{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error) {
	before, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if before.Status == status {
		return before, nil
	}
	if before.Status == OrderPaid || before.Status == OrderCancelled {
		return Order{}, fmt.Errorf("%w: %s orders cannot change status", httpx.ErrConflict, before.Status)
	}
	updated, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return Order{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

// --- discount rules ---

func (s *Service) ListDiscountRules(ctx context.Context, activeOnly bool) ([]DiscountRule, error) {
	return s.repo.ListDiscountRules(ctx, activeOnly)
}

func (s *Service) GetDiscountRule(ctx context.Context, id uuid.UUID) (DiscountRule, error) {
	return s.repo.GetDiscountRule(ctx, id)
}

func (s *Service) CreateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error) {
	if err := validateRule(rule); err != nil {
		return DiscountRule{}, err
	}
	created, err := s.repo.CreateDiscountRule(ctx, rule)
	if err != nil {
		return DiscountRule{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateDiscountRule(ctx context.Context, rule DiscountRule) (DiscountRule, error) {
	if err := validateRule(rule); err != nil {
		return DiscountRule{}, err
	}
	before, err := s.repo.GetDiscountRule(ctx, rule.ID)
	if err != nil {
		return DiscountRule{}, err
	}
	updated, err := s.repo.UpdateDiscountRule(ctx, rule)
	if err != nil {
		return DiscountRule{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteDiscountRule(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetDiscountRule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDiscountRule(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

func validateRule(rule DiscountRule) error {
	if rule.MinAmount.IsNegative() {
		return fmt.Errorf("%w: minimum amount cannot be negative", httpx.ErrValidation)
	}
	if rule.MaxAmount != nil && rule.MaxAmount.LessThan(rule.MinAmount) {
		return fmt.Errorf("%w: maximum amount cannot be below minimum", httpx.ErrValidation)
	}
	if rule.Percentage.IsNegative() || rule.Percentage.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: percentage must be between 0 and 100", httpx.ErrValidation)
	}
	return nil
}
