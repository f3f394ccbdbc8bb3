package hotel

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingFilters narrows booking listings.
type BookingFilters struct {
	RoomID     *uuid.UUID
	CustomerID *uuid.UUID
	Status     BookingStatus
	From       *time.Time
	To         *time.Time
}

// RepositoryPort defines data access for the hotel module. CreateBooking
// and UpdateBookingDates run their conflict check inside the same
// transaction as the write they guard.
type RepositoryPort interface {
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error)
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, hotelID uuid.UUID) ([]RoomCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (RoomCategory, error)
	CreateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error)
	UpdateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListRooms(ctx context.Context, hotelID uuid.UUID) ([]Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (Room, error)
	CreateRoom(ctx context.Context, r Room) (Room, error)
	UpdateRoom(ctx context.Context, r Room) (Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	ListBookings(ctx context.Context, filters BookingFilters) ([]Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (Booking, error)
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking) (Booking, error)
	HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error)

	ListServiceRequests(ctx context.Context, roomID *uuid.UUID) ([]ServiceRequest, error)
	GetServiceRequest(ctx context.Context, id uuid.UUID) (ServiceRequest, error)
	HasOpenServiceRequest(ctx context.Context, roomID uuid.UUID, description string) (bool, error)
	CreateServiceRequest(ctx context.Context, s ServiceRequest) (ServiceRequest, error)
	UpdateServiceRequest(ctx context.Context, s ServiceRequest) (ServiceRequest, error)
}
