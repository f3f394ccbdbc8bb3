package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hms/meridian-hms/internal/auth"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
	"github.com/meridian-hms/meridian-hms/internal/users"
)

type stubDirectory struct {
	user *users.User
}

func (s *stubDirectory) FindByEmail(ctx context.Context, email string) (users.User, error) {
	if s.user == nil || s.user.Email != email {
		return users.User{}, httpx.ErrNotFound
	}
	return *s.user, nil
}

func (s *stubDirectory) Get(ctx context.Context, id uuid.UUID) (users.User, error) {
	if s.user == nil || s.user.ID != id {
		return users.User{}, httpx.ErrNotFound
	}
	return *s.user, nil
}

type recordingSessions struct {
	registered []string
	removed    []string
}

func (r *recordingSessions) CreateSession(ctx context.Context, id string, userID uuid.UUID, expiresAt time.Time, ip, ua string) error {
	r.registered = append(r.registered, id)
	return nil
}

func (r *recordingSessions) DeleteSession(ctx context.Context, id string) error {
	r.removed = append(r.removed, id)
	return nil
}

func newAuthHandler(t *testing.T, directory auth.Directory, sessions auth.SessionRepo) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, auth.NewService(directory, sessions), sessionManager, csrfManager)
	return handler, sessionManager
}

func activeUser(t *testing.T, password string) *users.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &users.User{
		ID:           uuid.New(),
		Email:        "user@test.local",
		FullName:     "Test User",
		PasswordHash: string(hashed),
		IsActive:     true,
	}
}

func loginRequest(t *testing.T, sessionManager *shared.SessionManager, body string) (*http.Request, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx), sess
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, "correctpass")
	sessions := &recordingSessions{}
	handler, sessionManager := newAuthHandler(t, &stubDirectory{user: user}, sessions)

	req, sess := loginRequest(t, sessionManager, `{"email":"user@test.local","password":"correctpass"}`)
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, user.ID.String(), body["user_id"])
	require.NotEmpty(t, body["csrf_token"])
	require.Equal(t, user.ID.String(), sess.User())
	require.Equal(t, []string{sess.ID}, sessions.registered)
}

func TestLoginInvalidCredentials(t *testing.T) {
	user := activeUser(t, "correctpass")
	handler, sessionManager := newAuthHandler(t, &stubDirectory{user: user}, &recordingSessions{})

	req, sess := loginRequest(t, sessionManager, `{"email":"user@test.local","password":"wrongpass1"}`)
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Empty(t, sess.User())
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "correctpass")
	user.IsActive = false
	handler, sessionManager := newAuthHandler(t, &stubDirectory{user: user}, &recordingSessions{})

	req, _ := loginRequest(t, sessionManager, `{"email":"user@test.local","password":"correctpass"}`)
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginRejectsShortPassword(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubDirectory{}, &recordingSessions{})

	req, _ := loginRequest(t, sessionManager, `{"email":"user@test.local","password":"short"}`)
	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLogoutRemovesSessionRecord(t *testing.T) {
	user := activeUser(t, "correctpass")
	sessions := &recordingSessions{}
	handler, sessionManager := newAuthHandler(t, &stubDirectory{user: user}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetUser(user.ID.String())
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.HandleLogoutForTest(res, req)

	require.Equal(t, http.StatusNoContent, res.Code)
	require.Equal(t, []string{sess.ID}, sessions.removed)
}
