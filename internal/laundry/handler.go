package laundry

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Handler manages laundry endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountServices registers service catalog routes.
func (h *Handler) MountServices(r chi.Router) {
	r.Get("/", h.listOfferings)
	r.Post("/", h.createOffering)
	r.Get("/{id}", h.getOffering)
	r.Put("/{id}", h.updateOffering)
	r.Delete("/{id}", h.deleteOffering)
}

// MountOrders registers order routes.
func (h *Handler) MountOrders(r chi.Router) {
	r.Get("/", h.listOrders)
	r.Post("/", h.createOrder)
	r.Get("/{id}", h.getOrder)
	r.Put("/{id}", h.updateOrder)
	r.Post("/{id}/status", h.updateOrderStatus)
	r.Delete("/{id}", h.deleteOrder)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// --- offerings ---

type offeringForm struct {
	Name             string          `json:"name" validate:"required,min=2,max=100"`
	Description      string          `json:"description" validate:"max=500"`
	Rate             decimal.Decimal `json:"rate"`
	RateType         string          `json:"rate_type" validate:"required,oneof=per_kg per_piece"`
	EstimatedMinutes int             `json:"estimated_minutes" validate:"min=0"`
}

type offeringResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Rate             decimal.Decimal `json:"rate"`
	RateType         string          `json:"rate_type"`
	EstimatedMinutes int             `json:"estimated_minutes"`
}

func toOfferingResponse(o Offering) offeringResponse {
	return offeringResponse{
		ID: o.ID, Name: o.Name, Description: o.Description,
		Rate: o.Rate, RateType: string(o.RateType), EstimatedMinutes: o.EstimatedMinutes,
	}
}

func (h *Handler) listOfferings(w http.ResponseWriter, r *http.Request) {
	offerings, err := h.service.ListOfferings(r.Context())
	if err != nil {
		h.logger.Error("list laundry services", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]offeringResponse, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, toOfferingResponse(o))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getOffering(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	o, err := h.service.GetOffering(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOfferingResponse(o))
}

func (h *Handler) createOffering(w http.ResponseWriter, r *http.Request) {
	var form offeringForm
	if !h.decode(w, r, &form) {
		return
	}
	o, err := h.service.CreateOffering(r.Context(), Offering{
		Name: form.Name, Description: form.Description,
		Rate: form.Rate, RateType: RateType(form.RateType), EstimatedMinutes: form.EstimatedMinutes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toOfferingResponse(o))
}

func (h *Handler) updateOffering(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form offeringForm
	if !h.decode(w, r, &form) {
		return
	}
	o, err := h.service.UpdateOffering(r.Context(), Offering{
		ID: id, Name: form.Name, Description: form.Description,
		Rate: form.Rate, RateType: RateType(form.RateType), EstimatedMinutes: form.EstimatedMinutes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOfferingResponse(o))
}

func (h *Handler) deleteOffering(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteOffering(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- orders ---

type orderForm struct {
	RoomID           *uuid.UUID       `json:"room_id"`
	ServiceID        uuid.UUID        `json:"service_id" validate:"required"`
	ItemsDescription string           `json:"items_description" validate:"required,max=1000"`
	Weight           *decimal.Decimal `json:"weight"`
	Quantity         *int             `json:"quantity"`
}

type orderResponse struct {
	ID               uuid.UUID        `json:"id"`
	RoomID           *uuid.UUID       `json:"room_id,omitempty"`
	ServiceID        uuid.UUID        `json:"service_id"`
	ItemsDescription string           `json:"items_description"`
	Weight           *decimal.Decimal `json:"weight,omitempty"`
	Quantity         *int             `json:"quantity,omitempty"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	Status           string           `json:"status"`
}

func toOrderResponse(o Order) orderResponse {
	return orderResponse{
		ID: o.ID, RoomID: o.RoomID, ServiceID: o.OfferingID,
		ItemsDescription: o.ItemsDescription, Weight: o.Weight, Quantity: o.Quantity,
		TotalPrice: o.TotalPrice, Status: string(o.Status),
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var roomID *uuid.UUID
	if raw := r.URL.Query().Get("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid room_id")
			return
		}
		roomID = &id
	}
	orders, err := h.service.ListOrders(r.Context(), roomID, OrderStatus(r.URL.Query().Get("status")))
	if err != nil {
		httpx.RespondError(w, err)
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
		RoomID: form.RoomID, OfferingID: form.ServiceID,
		ItemsDescription: form.ItemsDescription, Weight: form.Weight, Quantity: form.Quantity,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form orderForm
	if !h.decode(w, r, &form) {
		return
	}
	o, err := h.service.UpdateOrder(r.Context(), Order{
		ID: id, RoomID: form.RoomID, OfferingID: form.ServiceID,
		ItemsDescription: form.ItemsDescription, Weight: form.Weight, Quantity: form.Quantity,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(o))
}

type orderStatusForm struct {
	Status string `json:"status" validate:"required,oneof=received washing ready delivered"`
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
	o, err := h.service.UpdateStatus(r.Context(), id, OrderStatus(form.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
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
