package rbac

import (
	"net/http"

	"log/slog"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// Middleware wires the authorization gate into HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Guard protects every route of a resource type. The required permission is
// derived from the HTTP method; denial responds 403, distinct from 404, and
// anonymous callers get 401.
func (m Middleware) Guard(resource Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := shared.ActorFromContext(r.Context())
			if actor == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			permission := PermissionForMethod(r.Method)
			if !m.Service.Authorize(r.Context(), actor, resource, permission) {
				if m.Logger != nil {
					m.Logger.Info("authorization denied",
						slog.String("actor", actor.Email),
						slog.String("resource", string(resource)),
						slog.String("permission", string(permission)))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing capability for "+string(resource))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
