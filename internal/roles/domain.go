package roles

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// Role groups capability grants under a name users can be assigned to.
type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Role) AuditResource() string { return "role" }
func (r Role) AuditID() string       { return r.ID.String() }

func (r Role) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
	})
}
