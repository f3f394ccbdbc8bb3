package shared

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type sessionContextKey struct{}
type actorContextKey struct{}
type requestMetaContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// Actor is the authenticated principal attached to a request. Background
// processes run without one; mutations they perform produce no audit records
// unless they attach a synthetic actor explicitly.
type Actor struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	RoleID      *uuid.UUID
	IsSuperuser bool
	StaffID     *uuid.UUID
}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor, nil when the request is anonymous or
// system-triggered.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}

// RequestMeta carries caller metadata captured by the middleware stack for
// audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// ContextWithRequestMeta stores request metadata in context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaContextKey{}, meta)
}

// RequestMetaFromContext extracts request metadata; the zero value is
// returned for non-HTTP callers.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaContextKey{}).(RequestMeta)
	return meta
}

// ClientIP resolves the caller address: the first entry of X-Forwarded-For
// when present, otherwise the direct remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
