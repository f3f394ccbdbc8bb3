package reviews

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Handler manages review endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// Mount registers review routes.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type reviewForm struct {
	Kind     string    `json:"kind" validate:"required,oneof=hotel menu_item laundry room_service spa other"`
	TargetID uuid.UUID `json:"target_id" validate:"required"`
	Rating   int       `json:"rating" validate:"required,min=1,max=5"`
	Comment  string    `json:"comment" validate:"max=2000"`
}

type reviewUpdateForm struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewResponse struct {
	ID       uuid.UUID  `json:"id"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	Kind     string     `json:"kind"`
	TargetID uuid.UUID  `json:"target_id"`
	Rating   int        `json:"rating"`
	Comment  string     `json:"comment,omitempty"`
}

func toReviewResponse(rv Review) reviewResponse {
	return reviewResponse{
		ID: rv.ID, UserID: rv.UserID, Kind: string(rv.Kind),
		TargetID: rv.TargetID, Rating: rv.Rating, Comment: rv.Comment,
	}
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var targetID *uuid.UUID
	if raw := r.URL.Query().Get("target_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid target_id")
			return
		}
		targetID = &id
	}
	out, err := h.service.List(r.Context(), Kind(r.URL.Query().Get("kind")), targetID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	resp := make([]reviewResponse, 0, len(out))
	for _, rv := range out {
		resp = append(resp, toReviewResponse(rv))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.URL.Query().Get("target_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid target_id")
		return
	}
	s, err := h.service.Summarize(r.Context(), Kind(r.URL.Query().Get("kind")), targetID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"kind": string(s.Kind), "target_id": s.TargetID,
		"count": s.Count, "average": s.Average,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	rv, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReviewResponse(rv))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form reviewForm
	if !h.decode(w, r, &form) {
		return
	}
	rv, err := h.service.Create(r.Context(), Review{
		Kind: Kind(form.Kind), TargetID: form.TargetID,
		Rating: form.Rating, Comment: form.Comment,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toReviewResponse(rv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form reviewUpdateForm
	if !h.decode(w, r, &form) {
		return
	}
	rv, err := h.service.Update(r.Context(), id, form.Rating, form.Comment)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReviewResponse(rv))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
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
