// Package audithttp exposes the read-only audit query surface.
package audithttp

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// Handler serves audit timeline endpoints.
type Handler struct {
	logger  *slog.Logger
	service *audit.Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *audit.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers audit routes; callers wrap them with the
// audit_log guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.timeline)
	r.Get("/recent", h.recent)
	r.Get("/dashboard", h.dashboard)
}

type recordResponse struct {
	ID         uuid.UUID      `json:"id"`
	Actor      string         `json:"actor,omitempty"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resource_id"`
	Details    string         `json:"details,omitempty"`
	OldData    audit.Snapshot `json:"old_data,omitempty"`
	NewData    audit.Snapshot `json:"new_data,omitempty"`
	IP         string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type timelineResponse struct {
	Records []recordResponse `json:"records"`
	Page    int              `json:"page"`
	HasNext bool             `json:"has_next"`
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	filters := filtersFromQuery(r)

	result, err := h.service.Timeline(r.Context(), actor, filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	records := make([]recordResponse, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, recordResponse{
			ID:         rec.ID,
			Actor:      rec.ActorEmail,
			Action:     string(rec.Action),
			Resource:   rec.Resource,
			ResourceID: rec.ResourceID,
			Details:    rec.Details,
			OldData:    rec.OldData,
			NewData:    rec.NewData,
			IP:         rec.IP,
			UserAgent:  rec.UserAgent,
			Timestamp:  rec.Timestamp,
		})
	}
	httpx.JSON(w, http.StatusOK, timelineResponse{
		Records: records,
		Page:    result.Paging.Page,
		HasNext: result.Paging.HasNext,
	})
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			n = parsed
		}
	}
	entries, err := h.service.Recent(r.Context(), actor, n)
	if err != nil {
		h.logger.Error("audit recent", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

// dashboard fans out the recent feed and per-action counts concurrently.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())

	var (
		recent  []audit.RecentEntry
		creates int
		updates int
		deletes int
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		recent, err = h.service.Recent(ctx, actor, 5)
		return err
	})
	g.Go(func() error {
		var err error
		creates, err = h.service.CountVisible(ctx, actor, audit.TimelineFilters{Action: string(audit.ActionCreate)})
		return err
	})
	g.Go(func() error {
		var err error
		updates, err = h.service.CountVisible(ctx, actor, audit.TimelineFilters{Action: string(audit.ActionUpdate)})
		return err
	})
	g.Go(func() error {
		var err error
		deletes, err = h.service.CountVisible(ctx, actor, audit.TimelineFilters{Action: string(audit.ActionDelete)})
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("audit dashboard", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"recent": recent,
		"counts": map[string]int{
			"create": creates,
			"update": updates,
			"delete": deletes,
		},
	})
}

func filtersFromQuery(r *http.Request) audit.TimelineFilters {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		ActorEmail: q.Get("user"),
		Action:     q.Get("action"),
		Resource:   q.Get("resource"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filters.PageSize = size
	}
	return filters
}
