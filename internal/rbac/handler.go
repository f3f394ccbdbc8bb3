package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Handler exposes grant administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers grant routes; the caller wraps them with
// Guard(ResourceGrant).
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/resources", h.resources)
	r.Post("/", h.add)
	r.Delete("/", h.remove)
}

type grantPayload struct {
	RoleID     uuid.UUID `json:"role_id"`
	Resource   string    `json:"resource"`
	Permission string    `json:"permission"`
}

type grantResponse struct {
	RoleID     uuid.UUID `json:"role_id"`
	Resource   string    `json:"resource"`
	Permission string    `json:"permission"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var roleID *uuid.UUID
	if raw := r.URL.Query().Get("role_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid role_id")
			return
		}
		roleID = &id
	}
	grants, err := h.service.ListGrants(r.Context(), roleID)
	if err != nil {
		h.logger.Error("list grants", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, grantResponse{
			RoleID:     g.RoleID,
			Resource:   string(g.Resource),
			Permission: string(g.Permission),
			CreatedAt:  g.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) resources(w http.ResponseWriter, r *http.Request) {
	resources := Resources()
	names := make([]string, 0, len(resources))
	for _, res := range resources {
		names = append(names, string(res))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"resources":   names,
		"permissions": []string{string(PermissionCreate), string(PermissionRead), string(PermissionUpdate), string(PermissionDelete)},
	})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var payload grantPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	grant := Grant{
		RoleID:     payload.RoleID,
		Resource:   Resource(payload.Resource),
		Permission: Permission(payload.Permission),
	}
	if err := h.service.AddGrant(r.Context(), grant); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateGrant):
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
		default:
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, payload)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	var payload grantPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	err := h.service.RemoveGrant(r.Context(), payload.RoleID, Resource(payload.Resource), Permission(payload.Permission))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "grant does not exist")
			return
		}
		h.logger.Error("remove grant", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.NoContent(w)
}
