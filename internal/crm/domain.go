// Package crm holds guest customer records.
package crm

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// Customer is a guest profile referenced by bookings, reservations, orders,
// and invoices.
type Customer struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	Address       string
	LoyaltyPoints int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c Customer) AuditResource() string { return "customer" }
func (c Customer) AuditID() string       { return c.ID.String() }
func (c Customer) DisplayString() string { return c.Name }

func (c Customer) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":             c.ID,
		"name":           c.Name,
		"email":          c.Email,
		"phone":          c.Phone,
		"address":        c.Address,
		"loyalty_points": c.LoyaltyPoints,
	})
}
