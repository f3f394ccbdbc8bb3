package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hms/meridian-hms/internal/shared"
	"github.com/meridian-hms/meridian-hms/internal/users"
)

// Directory resolves accounts for credential checks.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
	Get(ctx context.Context, id uuid.UUID) (users.User, error)
}

// SessionRepo persists login session metadata for auditing.
type SessionRepo interface {
	CreateSession(ctx context.Context, id string, userID uuid.UUID, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// Service wraps authentication business rules.
type Service struct {
	directory Directory
	sessions  SessionRepo
}

// NewService constructs a new Service.
func NewService(directory Directory, sessions SessionRepo) *Service {
	return &Service{directory: directory, sessions: sessions}
}

// Authenticate validates email/password credentials. Inactive accounts and
// unknown emails fail identically so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Resolve loads the active account behind a session's user ID. Used by the
// middleware stack to attach the actor to each request.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (users.User, error) {
	user, err := s.directory.Get(ctx, id)
	if err != nil {
		return users.User{}, err
	}
	if !user.IsActive {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterSession persists session metadata.
func (s *Service) RegisterSession(ctx context.Context, id string, userID uuid.UUID, expiresAt time.Time, ip, ua string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.DeleteSession(ctx, id)
}
