package marketing

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

// Handler manages campaign and promotion endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountCampaigns registers campaign routes.
func (h *Handler) MountCampaigns(r chi.Router) {
	r.Get("/", h.listCampaigns)
	r.Post("/", h.createCampaign)
	r.Get("/{id}", h.getCampaign)
	r.Put("/{id}", h.updateCampaign)
	r.Delete("/{id}", h.deleteCampaign)
}

// MountPromotions registers promotion routes.
func (h *Handler) MountPromotions(r chi.Router) {
	r.Get("/", h.listPromotions)
	r.Post("/", h.createPromotion)
	r.Get("/{id}", h.getPromotion)
	r.Put("/{id}", h.updatePromotion)
	r.Delete("/{id}", h.deletePromotion)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// --- campaigns ---

type campaignForm struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	StartDate   string          `json:"start_date" validate:"required"`
	EndDate     string          `json:"end_date" validate:"required"`
	Budget      decimal.Decimal `json:"budget"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft active completed paused"`
	Results     string          `json:"results" validate:"max=4000"`
}

type campaignResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Budget      decimal.Decimal `json:"budget"`
	Status      string          `json:"status"`
	Results     string          `json:"results,omitempty"`
}

func toCampaignResponse(c Campaign) campaignResponse {
	return campaignResponse{
		ID: c.ID, Name: c.Name, Description: c.Description,
		StartDate: c.StartDate.Format(dateLayout), EndDate: c.EndDate.Format(dateLayout),
		Budget: c.Budget, Status: string(c.Status), Results: c.Results,
	}
}

func (h *Handler) campaignFromForm(w http.ResponseWriter, form campaignForm) (Campaign, bool) {
	start, err := time.Parse(dateLayout, form.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid start_date")
		return Campaign{}, false
	}
	end, err := time.Parse(dateLayout, form.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid end_date")
		return Campaign{}, false
	}
	return Campaign{
		Name: form.Name, Description: form.Description,
		StartDate: start, EndDate: end, Budget: form.Budget,
		Status: CampaignStatus(form.Status), Results: form.Results,
	}, true
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.ListCampaigns(r.Context(), CampaignStatus(r.URL.Query().Get("status")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	c, err := h.service.GetCampaign(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var form campaignForm
	if !h.decode(w, r, &form) {
		return
	}
	c, ok := h.campaignFromForm(w, form)
	if !ok {
		return
	}
	created, err := h.service.CreateCampaign(r.Context(), c)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCampaignResponse(created))
}

func (h *Handler) updateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form campaignForm
	if !h.decode(w, r, &form) {
		return
	}
	c, ok := h.campaignFromForm(w, form)
	if !ok {
		return
	}
	c.ID = id
	updated, err := h.service.UpdateCampaign(r.Context(), c)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCampaignResponse(updated))
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteCampaign(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- promotions ---

type promotionForm struct {
	Title     string  `json:"title" validate:"required,min=2,max=255"`
	Content   string  `json:"content" validate:"required,max=4000"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	IsActive  bool    `json:"is_active"`
}

type promotionResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url,omitempty"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

func toPromotionResponse(p Promotion) promotionResponse {
	resp := promotionResponse{
		ID: p.ID, Title: p.Title, Content: p.Content,
		StartDate: p.StartDate.Format(dateLayout), EndDate: p.EndDate.Format(dateLayout),
		IsActive: p.IsActive,
	}
	if p.Image != nil {
		resp.ImageURL = &p.Image.URL
	}
	return resp
}

func (h *Handler) promotionFromForm(w http.ResponseWriter, form promotionForm) (Promotion, bool) {
	start, err := time.Parse(dateLayout, form.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid start_date")
		return Promotion{}, false
	}
	end, err := time.Parse(dateLayout, form.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid end_date")
		return Promotion{}, false
	}
	p := Promotion{
		Title: form.Title, Content: form.Content,
		StartDate: start, EndDate: end, IsActive: form.IsActive,
	}
	if form.ImageURL != nil && *form.ImageURL != "" {
		p.Image = &audit.FileRef{URL: *form.ImageURL}
	}
	return p, true
}

func (h *Handler) listPromotions(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	promotions, err := h.service.ListPromotions(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("list promotions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]promotionResponse, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, toPromotionResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	p, err := h.service.GetPromotion(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPromotionResponse(p))
}

func (h *Handler) createPromotion(w http.ResponseWriter, r *http.Request) {
	var form promotionForm
	if !h.decode(w, r, &form) {
		return
	}
	p, ok := h.promotionFromForm(w, form)
	if !ok {
		return
	}
	created, err := h.service.CreatePromotion(r.Context(), p)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPromotionResponse(created))
}

func (h *Handler) updatePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form promotionForm
	if !h.decode(w, r, &form) {
		return
	}
	p, ok := h.promotionFromForm(w, form)
	if !ok {
		return
	}
	p.ID = id
	updated, err := h.service.UpdatePromotion(r.Context(), p)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPromotionResponse(updated))
}

func (h *Handler) deletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeletePromotion(r.Context(), id); err != nil {
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
