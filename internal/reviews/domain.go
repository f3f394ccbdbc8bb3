// Package reviews stores guest ratings for hotels, menu items, and services.
package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// Kind names what a review is about. The target id points at a row of the
// matching module; service kinds reference the underlying request or order.
type Kind string

const (
	KindHotel       Kind = "hotel"
	KindMenuItem    Kind = "menu_item"
	KindLaundry     Kind = "laundry"
	KindRoomService Kind = "room_service"
	KindSpa         Kind = "spa"
	KindOther       Kind = "other"
)

// Known reports whether the kind is one of the supported values.
func (k Kind) Known() bool {
	switch k {
	case KindHotel, KindMenuItem, KindLaundry, KindRoomService, KindSpa, KindOther:
		return true
	}
	return false
}

// Review is a single guest rating with an optional comment. Rating runs from
// 1 to 5 inclusive.
type Review struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Kind      Kind
	TargetID  uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func (r Review) AuditResource() string { return "review" }
func (r Review) AuditID() string       { return r.ID.String() }
func (r Review) DisplayString() string { return string(r.Kind) + " review" }

func (r Review) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":        r.ID,
		"user_id":   r.UserID,
		"kind":      string(r.Kind),
		"target_id": r.TargetID,
		"rating":    r.Rating,
		"comment":   r.Comment,
	})
}

// Summary aggregates the ratings recorded against one target.
type Summary struct {
	Kind     Kind
	TargetID uuid.UUID
	Count    int
	Average  float64
}
