package restaurant

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages restaurant module endpoints. Route groups are mounted
// separately so the router can wrap each with its own resource guard.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountMenuCategories registers menu category routes.
func (h *Handler) MountMenuCategories(r chi.Router) {
	r.Get("/", h.listMenuCategories)
	r.Post("/", h.createMenuCategory)
	r.Get("/{id}", h.getMenuCategory)
	r.Put("/{id}", h.updateMenuCategory)
	r.Delete("/{id}", h.deleteMenuCategory)
}

// MountMenuItems registers menu item routes.
func (h *Handler) MountMenuItems(r chi.Router) {
	r.Get("/", h.listMenuItems)
	r.Post("/", h.createMenuItem)
	r.Get("/{id}", h.getMenuItem)
	r.Put("/{id}", h.updateMenuItem)
	r.Delete("/{id}", h.deleteMenuItem)
}

// MountTables registers dining table routes.
func (h *Handler) MountTables(r chi.Router) {
	r.Get("/", h.listTables)
	r.Post("/", h.createTable)
	r.Get("/{id}", h.getTable)
	r.Put("/{id}", h.updateTable)
	r.Delete("/{id}", h.deleteTable)
}

// MountReservations registers table reservation routes.
func (h *Handler) MountReservations(r chi.Router) {
	r.Get("/", h.listReservations)
	r.Post("/", h.createReservation)
	r.Get("/availability", h.slotAvailability)
	r.Get("/{id}", h.getReservation)
	r.Put("/{id}", h.updateReservation)
	r.Post("/{id}/cancel", h.cancelReservation)
}

// MountOrders registers order routes.
func (h *Handler) MountOrders(r chi.Router) {
	r.Get("/", h.listOrders)
	r.Post("/", h.createOrder)
	r.Get("/{id}", h.getOrder)
	r.Put("/{id}/items", h.replaceItems)
	r.Post("/{id}/status", h.updateOrderStatus)
}

// MountDiscountRules registers discount rule routes.
func (h *Handler) MountDiscountRules(r chi.Router) {
	r.Get("/", h.listDiscountRules)
	r.Post("/", h.createDiscountRule)
	r.Get("/{id}", h.getDiscountRule)
	r.Put("/{id}", h.updateDiscountRule)
	r.Delete("/{id}", h.deleteDiscountRule)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// --- menu categories ---

type menuCategoryForm struct {
	HotelID     uuid.UUID `json:"hotel_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2,max=64"`
	Description string    `json:"description" validate:"max=255"`
}

type menuCategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	HotelID     uuid.UUID `json:"hotel_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

func toMenuCategoryResponse(c MenuCategory) menuCategoryResponse {
	return menuCategoryResponse{ID: c.ID, HotelID: c.HotelID, Name: c.Name, Description: c.Description}
}

func (h *Handler) listMenuCategories(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(r.URL.Query().Get("hotel_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "hotel_id is required")
		return
	}
	categories, err := h.service.ListMenuCategories(r.Context(), hotelID)
	if err != nil {
		h.logger.Error("list menu categories", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]menuCategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toMenuCategoryResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getMenuCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	c, err := h.service.GetMenuCategory(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMenuCategoryResponse(c))
}

func (h *Handler) createMenuCategory(w http.ResponseWriter, r *http.Request) {
	var form menuCategoryForm
	if !h.decode(w, r, &form) {
		return
	}
	c, err := h.service.CreateMenuCategory(r.Context(), MenuCategory{
		HotelID: form.HotelID, Name: form.Name, Description: form.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toMenuCategoryResponse(c))
}

func (h *Handler) updateMenuCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form menuCategoryForm
	if !h.decode(w, r, &form) {
		return
	}
	c, err := h.service.UpdateMenuCategory(r.Context(), MenuCategory{
		ID: id, Name: form.Name, Description: form.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMenuCategoryResponse(c))
}

func (h *Handler) deleteMenuCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteMenuCategory(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- menu items ---

type menuItemForm struct {
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	Name        string          `json:"name" validate:"required,min=2,max=128"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	IsAvailable *bool           `json:"is_available"`
}

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsAvailable bool      `json:"is_available"`
}

func toMenuItemResponse(m MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID: m.ID, CategoryID: m.CategoryID, Name: m.Name, Description: m.Description,
		Price: m.Price.StringFixed(2), IsAvailable: m.IsAvailable,
	}
	if m.Image != nil {
		resp.ImageURL = m.Image.URL
	}
	return resp
}

func menuItemFromForm(form menuItemForm) MenuItem {
	m := MenuItem{
		CategoryID:  form.CategoryID,
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		IsAvailable: form.IsAvailable == nil || *form.IsAvailable,
	}
	if form.ImageURL != "" {
		m.Image = &audit.FileRef{URL: form.ImageURL}
	}
	return m
}

func (h *Handler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(r.URL.Query().Get("category_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "category_id is required")
		return
	}
	items, err := h.service.ListMenuItems(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("list menu items", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]menuItemResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemResponse(m))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	m, err := h.service.GetMenuItem(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMenuItemResponse(m))
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var form menuItemForm
	if !h.decode(w, r, &form) {
		return
	}
	m, err := h.service.CreateMenuItem(r.Context(), menuItemFromForm(form))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toMenuItemResponse(m))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form menuItemForm
	if !h.decode(w, r, &form) {
		return
	}
	m := menuItemFromForm(form)
	m.ID = id
	updated, err := h.service.UpdateMenuItem(r.Context(), m)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMenuItemResponse(updated))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteMenuItem(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- tables ---

type tableForm struct {
	HotelID  uuid.UUID `json:"hotel_id" validate:"required"`
	Capacity int       `json:"capacity" validate:"required,min=1"`
	Status   string    `json:"status" validate:"omitempty,oneof=available reserved occupied"`
}

type tableResponse struct {
	ID       uuid.UUID `json:"id"`
	HotelID  uuid.UUID `json:"hotel_id"`
	Code     string    `json:"code"`
	Capacity int       `json:"capacity"`
	Status   string    `json:"status"`
}

func toTableResponse(t Table) tableResponse {
	return tableResponse{ID: t.ID, HotelID: t.HotelID, Code: t.Code, Capacity: t.Capacity, Status: string(t.Status)}
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(r.URL.Query().Get("hotel_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "hotel_id is required")
		return
	}
	tables, err := h.service.ListTables(r.Context(), hotelID)
	if err != nil {
		h.logger.Error("list tables", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]tableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, toTableResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	t, err := h.service.GetTable(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTableResponse(t))
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var form tableForm
	if !h.decode(w, r, &form) {
		return
	}
	t, err := h.service.CreateTable(r.Context(), Table{
		HotelID: form.HotelID, Capacity: form.Capacity, Status: TableStatus(form.Status),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTableResponse(t))
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form tableForm
	if !h.decode(w, r, &form) {
		return
	}
	t, err := h.service.UpdateTable(r.Context(), Table{
		ID: id, Capacity: form.Capacity, Status: TableStatus(form.Status),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTableResponse(t))
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteTable(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- reservations ---

type reservationForm struct {
	TableID    uuid.UUID `json:"table_id" validate:"required"`
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Date       string    `json:"date" validate:"required"`
	TimeSlot   string    `json:"time_slot" validate:"required,max=32"`
	PartySize  int       `json:"party_size" validate:"required,min=1"`
	Status     string    `json:"status" validate:"omitempty,oneof=pending confirmed seated completed cancelled"`
}

type reservationResponse struct {
	ID         uuid.UUID `json:"id"`
	TableID    uuid.UUID `json:"table_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Date       string    `json:"date"`
	TimeSlot   string    `json:"time_slot"`
	PartySize  int       `json:"party_size"`
	Status     string    `json:"status"`
}

func toReservationResponse(res Reservation) reservationResponse {
	return reservationResponse{
		ID: res.ID, TableID: res.TableID, CustomerID: res.CustomerID,
		Date: res.Date.Format(dateLayout), TimeSlot: res.TimeSlot,
		PartySize: res.PartySize, Status: string(res.Status),
	}
}

func (h *Handler) reservationFromForm(w http.ResponseWriter, form reservationForm) (Reservation, bool) {
	date, err := time.Parse(dateLayout, form.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return Reservation{}, false
	}
	return Reservation{
		TableID:    form.TableID,
		CustomerID: form.CustomerID,
		Date:       date,
		TimeSlot:   form.TimeSlot,
		PartySize:  form.PartySize,
		Status:     ReservationStatus(form.Status),
	}, true
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var tableID *uuid.UUID
	if raw := q.Get("table_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid table_id")
			return
		}
		tableID = &id
	}
	var date *time.Time
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		date = &d
	}
	reservations, err := h.service.ListReservations(r.Context(), tableID, date)
	if err != nil {
		h.logger.Error("list reservations", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]reservationResponse, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, toReservationResponse(res))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) slotAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tableID, err := uuid.Parse(q.Get("table_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "table_id is required")
		return
	}
	date, err := time.Parse(dateLayout, q.Get("date"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	available, err := h.service.CheckSlot(r.Context(), tableID, date, q.Get("time_slot"), nil)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *Handler) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	res, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	var form reservationForm
	if !h.decode(w, r, &form) {
		return
	}
	res, ok := h.reservationFromForm(w, form)
	if !ok {
		return
	}
	created, err := h.service.CreateReservation(r.Context(), res)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toReservationResponse(created))
}

func (h *Handler) updateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form reservationForm
	if !h.decode(w, r, &form) {
		return
	}
	res, ok2 := h.reservationFromForm(w, form)
	if !ok2 {
		return
	}
	res.ID = id
	updated, err := h.service.UpdateReservation(r.Context(), res)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservationResponse(updated))
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	res, err := h.service.CancelReservation(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservationResponse(res))
}

// --- orders ---

type orderItemForm struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
}

type orderForm struct {
	TableID    *uuid.UUID      `json:"table_id"`
	CustomerID *uuid.UUID      `json:"customer_id"`
	Items      []orderItemForm `json:"items" validate:"required,min=1,dive"`
}

type orderItemsForm struct {
	Items []orderItemForm `json:"items" validate:"required,min=1,dive"`
}

type orderStatusForm struct {
	Status string `json:"status" validate:"required,oneof=pending preparing served paid cancelled"`
}

type orderItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	Quantity   int       `json:"quantity"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Code           string              `json:"code"`
	TableID        *uuid.UUID          `json:"table_id,omitempty"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	Status         string              `json:"status"`
	Items          []orderItemResponse `json:"items"`
	TotalQuantity  int                 `json:"total_quantity"`
	Subtotal       string              `json:"subtotal"`
	CGST           string              `json:"cgst"`
	SGST           string              `json:"sgst"`
	DiscountRuleID *uuid.UUID          `json:"discount_rule_id,omitempty"`
	Discount       string              `json:"discount"`
	GrandTotal     string              `json:"grand_total"`
}

func toOrderResponse(o Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ID: item.ID, MenuItemID: item.MenuItemID, Name: item.Name,
			Price: item.Price.StringFixed(2), Quantity: item.Quantity,
		})
	}
	return orderResponse{
		ID: o.ID, Code: o.Code, TableID: o.TableID, CustomerID: o.CustomerID,
		Status: string(o.Status), Items: items, TotalQuantity: o.TotalQuantity,
		Subtotal: o.Subtotal.StringFixed(2), CGST: o.CGST.StringFixed(2), SGST: o.SGST.StringFixed(2),
		DiscountRuleID: o.DiscountRuleID, Discount: o.Discount.StringFixed(2),
		GrandTotal: o.GrandTotal.StringFixed(2),
	}
}

func toItemInputs(forms []orderItemForm) []OrderItemInput {
	inputs := make([]OrderItemInput, 0, len(forms))
	for _, f := range forms {
		inputs = append(inputs, OrderItemInput{MenuItemID: f.MenuItemID, Quantity: f.Quantity})
	}
	return inputs
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var filters OrderFilters
	q := r.URL.Query()
	if raw := q.Get("table_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid table_id")
			return
		}
		filters.TableID = &id
	}
	if raw := q.Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer_id")
			return
		}
		filters.CustomerID = &id
	}
	filters.Status = OrderStatus(q.Get("status"))

	orders, err := h.service.ListOrders(r.Context(), filters)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var form orderForm
	if !h.decode(w, r, &form) {
		return
	}
	o, err := h.service.CreateOrder(r.Context(), Order{
		TableID: form.TableID, CustomerID: form.CustomerID,
	}, toItemInputs(form.Items))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) replaceItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form orderItemsForm
	if !h.decode(w, r, &form) {
		return
	}
	o, err := h.service.ReplaceItems(r.Context(), id, toItemInputs(form.Items))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form orderStatusForm
	if !h.decode(w, r, &form) {
		return
	}
	o, err := h.service.UpdateOrderStatus(r.Context(), id, OrderStatus(form.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(o))
}

// --- discount rules ---

type discountRuleForm struct {
	Name       string           `json:"name" validate:"required,min=2,max=64"`
	MinAmount  decimal.Decimal  `json:"min_amount"`
	MaxAmount  *decimal.Decimal `json:"max_amount"`
	Percentage decimal.Decimal  `json:"percentage"`
	IsActive   *bool            `json:"is_active"`
}

type discountRuleResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	MinAmount  string    `json:"min_amount"`
	MaxAmount  *string   `json:"max_amount,omitempty"`
	Percentage string    `json:"percentage"`
	IsActive   bool      `json:"is_active"`
}

func toDiscountRuleResponse(rule DiscountRule) discountRuleResponse {
	resp := discountRuleResponse{
		ID: rule.ID, Name: rule.Name, MinAmount: rule.MinAmount.StringFixed(2),
		Percentage: rule.Percentage.String(), IsActive: rule.IsActive,
	}
	if rule.MaxAmount != nil {
		s := rule.MaxAmount.StringFixed(2)
		resp.MaxAmount = &s
	}
	return resp
}

func ruleFromForm(form discountRuleForm) DiscountRule {
	return DiscountRule{
		Name:       form.Name,
		MinAmount:  form.MinAmount,
		MaxAmount:  form.MaxAmount,
		Percentage: form.Percentage,
		IsActive:   form.IsActive == nil || *form.IsActive,
	}
}

func (h *Handler) listDiscountRules(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	rules, err := h.service.ListDiscountRules(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("list discount rules", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]discountRuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toDiscountRuleResponse(rule))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getDiscountRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	rule, err := h.service.GetDiscountRule(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDiscountRuleResponse(rule))
}

func (h *Handler) createDiscountRule(w http.ResponseWriter, r *http.Request) {
	var form discountRuleForm
	if !h.decode(w, r, &form) {
		return
	}
	rule, err := h.service.CreateDiscountRule(r.Context(), ruleFromForm(form))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toDiscountRuleResponse(rule))
}

func (h *Handler) updateDiscountRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form discountRuleForm
	if !h.decode(w, r, &form) {
		return
	}
	rule := ruleFromForm(form)
	rule.ID = id
	updated, err := h.service.UpdateDiscountRule(r.Context(), rule)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDiscountRuleResponse(updated))
}

func (h *Handler) deleteDiscountRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteDiscountRule(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := httpx.DecodeJSON(r, form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}
