package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// User represents an account that can sign in and act on the system.
// CreatedBy links back to the account that provisioned it; audit visibility
// for non-superusers follows that chain. StaffID links the account to a
// staff profile for attendance self-service.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	RoleID       *uuid.UUID
	IsSuperuser  bool
	IsActive     bool
	CreatedBy    *uuid.UUID
	StaffID      *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) AuditResource() string { return "user" }
func (u User) AuditID() string       { return u.ID.String() }

// AuditSnapshot deliberately leaves the password hash out of the trail.
func (u User) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"full_name":    u.FullName,
		"role_id":      u.RoleID,
		"is_superuser": u.IsSuperuser,
		"is_active":    u.IsActive,
		"staff_id":     u.StaffID,
	})
}
