// Package marketing manages campaigns and front-site promotions.
package marketing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// CampaignStatus is the campaign lifecycle.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignPaused    CampaignStatus = "paused"
)

// Known reports whether the status is one of the lifecycle values.
func (s CampaignStatus) Known() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignCompleted, CampaignPaused:
		return true
	}
	return false
}

// Campaign is a budgeted marketing effort over a date window.
type Campaign struct {
	ID          uuid.UUID
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Budget      decimal.Decimal
	Status      CampaignStatus
	Results     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Campaign) AuditResource() string { return "campaign" }
func (c Campaign) AuditID() string       { return c.ID.String() }
func (c Campaign) DisplayString() string { return c.Name }

func (c Campaign) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"start_date":  c.StartDate,
		"end_date":    c.EndDate,
		"budget":      c.Budget,
		"status":      string(c.Status),
		"results":     c.Results,
	})
}

// Promotion is a published offer shown on the front site while active and
// inside its date window.
type Promotion struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Image     *audit.FileRef
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Promotion) AuditResource() string { return "promotion" }
func (p Promotion) AuditID() string       { return p.ID.String() }
func (p Promotion) DisplayString() string { return p.Title }

func (p Promotion) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"content":    p.Content,
		"image":      p.Image,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"is_active":  p.IsActive,
	})
}

// Live reports whether the promotion should be shown on the given day.
func (p Promotion) Live(day time.Time) bool {
	return p.IsActive && !day.Before(p.StartDate) && !day.After(p.EndDate)
}
