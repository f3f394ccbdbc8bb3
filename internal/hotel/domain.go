// Package hotel covers properties, room inventory, and the booking
// lifecycle with interval-based availability checking.
package hotel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// BookingStatus is the booking lifecycle state. Cancelled bookings do not
// block availability.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// RoomStatus tracks housekeeping state, independent of bookings.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// ServiceRequestStatus is the room service request state.
type ServiceRequestStatus string

const (
	RequestOpen       ServiceRequestStatus = "open"
	RequestInProgress ServiceRequestStatus = "in_progress"
	RequestDone       ServiceRequestStatus = "done"
	RequestCancelled  ServiceRequestStatus = "cancelled"
)

// Hotel is a property under management.
type Hotel struct {
	ID        uuid.UUID
	Name      string
	Address   string
	City      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (h Hotel) AuditResource() string { return "hotel" }
func (h Hotel) AuditID() string       { return h.ID.String() }
func (h Hotel) DisplayString() string { return h.Name }

func (h Hotel) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":      h.ID,
		"name":    h.Name,
		"address": h.Address,
		"city":    h.City,
		"phone":   h.Phone,
		"email":   h.Email,
	})
}

// RoomCategory groups rooms sharing a rate class.
type RoomCategory struct {
	ID          uuid.UUID
	HotelID     uuid.UUID
	Name        string
	Description string
	BaseRate    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c RoomCategory) AuditResource() string { return "room_category" }
func (c RoomCategory) AuditID() string       { return c.ID.String() }
func (c RoomCategory) DisplayString() string { return c.Name }

func (c RoomCategory) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          c.ID,
		"hotel_id":    c.HotelID,
		"name":        c.Name,
		"description": c.Description,
		"base_rate":   c.BaseRate.StringFixed(2),
	})
}

// Room is a bookable unit. RoomNumber is unique per hotel.
type Room struct {
	ID           uuid.UUID
	HotelID      uuid.UUID
	CategoryID   uuid.UUID
	RoomNumber   string
	Floor        string
	Status       RoomStatus
	RatePerNight decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Room) AuditResource() string { return "room" }
func (r Room) AuditID() string       { return r.ID.String() }
func (r Room) DisplayString() string { return "Room " + r.RoomNumber }

func (r Room) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":             r.ID,
		"hotel_id":       r.HotelID,
		"category_id":    r.CategoryID,
		"room_number":    r.RoomNumber,
		"floor":          r.Floor,
		"status":         string(r.Status),
		"rate_per_night": r.RatePerNight.StringFixed(2),
	})
}

// Booking reserves a room for the half-open date range
// [CheckIn, CheckOut). Code is the human-facing identifier assigned at
// creation from the booking sequence.
type Booking struct {
	ID         uuid.UUID
	Code       string
	RoomID     uuid.UUID
	CustomerID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	Status     BookingStatus
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Live reports whether the booking blocks the room for its interval.
func (b Booking) Live() bool {
	return b.Status != BookingCancelled
}

// Nights is the billable night count for the interval.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

func (b Booking) AuditResource() string { return "booking" }
func (b Booking) AuditID() string       { return b.ID.String() }
func (b Booking) DisplayString() string { return b.Code }

func (b Booking) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          b.ID,
		"code":        b.Code,
		"room_id":     b.RoomID,
		"customer_id": b.CustomerID,
		"check_in":    b.CheckIn.Format("2006-01-02"),
		"check_out":   b.CheckOut.Format("2006-01-02"),
		"guests":      b.Guests,
		"status":      string(b.Status),
		"notes":       b.Notes,
	})
}

// ServiceRequest is a room service ticket raised against a room, optionally
// tied to the active booking.
type ServiceRequest struct {
	ID          uuid.UUID
	RoomID      uuid.UUID
	BookingID   *uuid.UUID
	Description string
	Status      ServiceRequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Open reports whether the request still needs attention.
func (s ServiceRequest) Open() bool {
	return s.Status == RequestOpen || s.Status == RequestInProgress
}

func (s ServiceRequest) AuditResource() string { return "room_service_request" }
func (s ServiceRequest) AuditID() string       { return s.ID.String() }

func (s ServiceRequest) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":          s.ID,
		"room_id":     s.RoomID,
		"booking_id":  s.BookingID,
		"description": s.Description,
		"status":      string(s.Status),
	})
}
