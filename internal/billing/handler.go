package billing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages billing endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountInvoices registers invoice routes.
func (h *Handler) MountInvoices(r chi.Router) {
	r.Get("/", h.listInvoices)
	r.Post("/", h.createInvoice)
	r.Get("/{id}", h.getInvoice)
	r.Post("/{id}/cancel", h.cancelInvoice)
}

// MountPayments registers payment routes under their invoice. They carry
// their own resource gate, separate from the invoice one.
func (h *Handler) MountPayments(r chi.Router) {
	r.Get("/{id}/payments", h.listPayments)
	r.Post("/{id}/payments", h.recordPayment)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

type invoiceForm struct {
	BookingID uuid.UUID       `json:"booking_id" validate:"required"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	DueDate   string          `json:"due_date"`
}

type invoiceResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	InvoiceDate string    `json:"invoice_date"`
	DueDate     *string   `json:"due_date,omitempty"`
	TotalAmount string    `json:"total_amount"`
	Tax         string    `json:"tax"`
	Discount    string    `json:"discount"`
	FinalAmount string    `json:"final_amount"`
	Status      string    `json:"status"`
}

func toInvoiceResponse(i Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID: i.ID, BookingID: i.BookingID, CustomerID: i.CustomerID,
		InvoiceDate: i.InvoiceDate.Format(dateLayout),
		TotalAmount: i.TotalAmount.StringFixed(2),
		Tax:         i.Tax.StringFixed(2),
		Discount:    i.Discount.StringFixed(2),
		FinalAmount: i.FinalAmount.StringFixed(2),
		Status:      string(i.Status),
	}
	if i.DueDate != nil {
		s := i.DueDate.Format(dateLayout)
		resp.DueDate = &s
	}
	return resp
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var customerID *uuid.UUID
	if raw := q.Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer_id")
			return
		}
		customerID = &id
	}
	invoices, err := h.service.ListInvoices(r.Context(), customerID, InvoiceStatus(q.Get("status")))
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]invoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, toInvoiceResponse(i))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	i, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInvoiceResponse(i))
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var form invoiceForm
	if !h.decode(w, r, &form) {
		return
	}
	in := InvoiceInput{BookingID: form.BookingID, Tax: form.Tax, Discount: form.Discount}
	if form.DueDate != "" {
		d, err := time.Parse(dateLayout, form.DueDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "due_date must be YYYY-MM-DD")
			return
		}
		in.DueDate = &d
	}
	i, err := h.service.CreateInvoice(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toInvoiceResponse(i))
}

func (h *Handler) cancelInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	i, err := h.service.CancelInvoice(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInvoiceResponse(i))
}

type paymentForm struct {
	Method          string          `json:"method" validate:"required,oneof=cash card upi bank_transfer"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"reference_number" validate:"max=100"`
}

type paymentResponse struct {
	ID              uuid.UUID `json:"id"`
	InvoiceID       uuid.UUID `json:"invoice_id"`
	Method          string    `json:"method"`
	Amount          string    `json:"amount"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	InvoiceStatus   string    `json:"invoice_status"`
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	payments, err := h.service.ListPayments(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	type item struct {
		ID              uuid.UUID `json:"id"`
		Method          string    `json:"method"`
		Amount          string    `json:"amount"`
		ReferenceNumber string    `json:"reference_number,omitempty"`
	}
	out := make([]item, 0, len(payments))
	for _, p := range payments {
		out = append(out, item{ID: p.ID, Method: string(p.Method), Amount: p.Amount.StringFixed(2), ReferenceNumber: p.ReferenceNumber})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form paymentForm
	if !h.decode(w, r, &form) {
		return
	}
	payment, invoice, err := h.service.RecordPayment(r.Context(), Payment{
		InvoiceID: id, Method: PaymentMethod(form.Method),
		Amount: form.Amount, ReferenceNumber: form.ReferenceNumber,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, paymentResponse{
		ID: payment.ID, InvoiceID: payment.InvoiceID, Method: string(payment.Method),
		Amount: payment.Amount.StringFixed(2), ReferenceNumber: payment.ReferenceNumber,
		InvoiceStatus: string(invoice.Status),
	})
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
