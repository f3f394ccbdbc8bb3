// Package laundry covers the guest laundry side: the priced service catalog
// and room-linked orders.
package laundry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// RateType decides which order field the price is computed from.
type RateType string

const (
	RatePerKg    RateType = "per_kg"
	RatePerPiece RateType = "per_piece"
)

// Known reports whether the rate type is one of the supported kinds.
func (t RateType) Known() bool {
	return t == RatePerKg || t == RatePerPiece
}

// OrderStatus is the laundry order lifecycle. Orders only move forward.
type OrderStatus string

const (
	OrderReceived  OrderStatus = "received"
	OrderWashing   OrderStatus = "washing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
)

func (s OrderStatus) rank() int {
	switch s {
	case OrderReceived:
		return 0
	case OrderWashing:
		return 1
	case OrderReady:
		return 2
	case OrderDelivered:
		return 3
	}
	return -1
}

// Known reports whether the status is one of the lifecycle values.
func (s OrderStatus) Known() bool { return s.rank() >= 0 }

// CanAdvanceTo reports whether the order may move from s to the target
// status. Skipping a stage is allowed, moving backwards is not.
func (s OrderStatus) CanAdvanceTo(to OrderStatus) bool {
	return s.Known() && to.Known() && to.rank() > s.rank()
}

// Offering is a catalog entry for a laundry service, priced per kilogram or
// per piece.
type Offering struct {
	ID               uuid.UUID
	Name             string
	Description      string
	Rate             decimal.Decimal
	RateType         RateType
	EstimatedMinutes int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (o Offering) AuditResource() string { return "laundry_service" }
func (o Offering) AuditID() string       { return o.ID.String() }
func (o Offering) DisplayString() string { return o.Name }

func (o Offering) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":                o.ID,
		"name":              o.Name,
		"description":       o.Description,
		"rate":              o.Rate,
		"rate_type":         string(o.RateType),
		"estimated_minutes": o.EstimatedMinutes,
	})
}

// Order is a guest laundry order. The total is derived from the offering
// rate and never accepted from the caller.
type Order struct {
	ID               uuid.UUID
	RoomID           *uuid.UUID
	OfferingID       uuid.UUID
	ItemsDescription string
	Weight           *decimal.Decimal
	Quantity         *int
	TotalPrice       decimal.Decimal
	Status           OrderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (o Order) AuditResource() string { return "laundry_order" }
func (o Order) AuditID() string       { return o.ID.String() }
func (o Order) DisplayString() string { return "Laundry order " + o.ID.String() }

func (o Order) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":                o.ID,
		"room_id":           o.RoomID,
		"service_id":        o.OfferingID,
		"items_description": o.ItemsDescription,
		"weight":            o.Weight,
		"quantity":          o.Quantity,
		"total_price":       o.TotalPrice,
		"status":            string(o.Status),
	})
}
