package hotel

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// Service handles hotel module business logic. Every mutation passes
// through the audit recorder.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// --- hotels ---

func (s *Service) ListHotels(ctx context.Context) ([]Hotel, error) {
	return s.repo.ListHotels(ctx)
}

func (s *Service) GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error) {
	return s.repo.GetHotel(ctx, id)
}

func (s *Service) CreateHotel(ctx context.Context, h Hotel) (Hotel, error) {
	created, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return Hotel{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateHotel(ctx context.Context, h Hotel) (Hotel, error) {
	before, err := s.repo.GetHotel(ctx, h.ID)
	if err != nil {
		return Hotel{}, err
	}
	updated, err := s.repo.UpdateHotel(ctx, h)
	if err != nil {
		return Hotel{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- room categories ---

func (s *Service) ListCategories(ctx context.Context, hotelID uuid.UUID) ([]RoomCategory, error) {
	return s.repo.ListCategories(ctx, hotelID)
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (RoomCategory, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error) {
	if c.BaseRate.IsNegative() {
		return RoomCategory{}, fmt.Errorf("%w: base rate cannot be negative", httpx.ErrValidation)
	}
	created, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		return RoomCategory{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error) {
	if c.BaseRate.IsNegative() {
		return RoomCategory{}, fmt.Errorf("%w: base rate cannot be negative", httpx.ErrValidation)
	}
	before, err := s.repo.GetCategory(ctx, c.ID)
	if err != nil {
		return RoomCategory{}, err
	}
	updated, err := s.repo.UpdateCategory(ctx, c)
	if err != nil {
		return RoomCategory{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- rooms ---

func (s *Service) ListRooms(ctx context.Context, hotelID uuid.UUID) ([]Room, error) {
	return s.repo.ListRooms(ctx, hotelID)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *Service) CreateRoom(ctx context.Context, room Room) (Room, error) {
	if room.RatePerNight.IsNegative() {
		return Room{}, fmt.Errorf("%w: rate cannot be negative", httpx.ErrValidation)
	}
	if room.Status == "" {
		room.Status = RoomAvailable
	}
	created, err := s.repo.CreateRoom(ctx, room)
	if err != nil {
		return Room{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	if room.RatePerNight.IsNegative() {
		return Room{}, fmt.Errorf("%w: rate cannot be negative", httpx.ErrValidation)
	}
	before, err := s.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return Room{}, err
	}
	updated, err := s.repo.UpdateRoom(ctx, room)
	if err != nil {
		return Room{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- bookings ---

func (s *Service) ListBookings(ctx context.Context, filters BookingFilters) ([]Booking, error) {
	return s.repo.ListBookings(ctx, filters)
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// CheckAvailability is the validation-time conflict probe. The
// authoritative check still runs inside the create/update transaction.
func (s *Service) CheckAvailability(ctx context.Context, roomID uuid.UUID, b Booking, excludeID *uuid.UUID) (bool, error) {
	if !ValidInterval(b.CheckIn, b.CheckOut) {
		return false, fmt.Errorf("%w: check-in must be before check-out", httpx.ErrValidation)
	}
	conflict, err := s.repo.HasOverlap(ctx, roomID, b.CheckIn, b.CheckOut, excludeID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *Service) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	if err := validateBooking(b); err != nil {
		return Booking{}, err
	}
	if _, err := s.repo.GetRoom(ctx, b.RoomID); err != nil {
		return Booking{}, err
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	created, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return Booking{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateBooking(ctx context.Context, b Booking) (Booking, error) {
	if err := validateBooking(b); err != nil {
		return Booking{}, err
	}
	before, err := s.repo.GetBooking(ctx, b.ID)
	if err != nil {
		return Booking{}, err
	}
	updated, err := s.repo.UpdateBooking(ctx, b)
	if err != nil {
		return Booking{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

// CancelBooking moves a booking to cancelled, releasing its interval.
func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	before, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if before.Status == BookingCancelled {
		return before, nil
	}
	cancelled := before
	cancelled.Status = BookingCancelled
	updated, err := s.repo.UpdateBooking(ctx, cancelled)
	if err != nil {
		return Booking{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func validateBooking(b Booking) error {
	if !ValidInterval(b.CheckIn, b.CheckOut) {
		return fmt.Errorf("%w: check-in must be before check-out", httpx.ErrValidation)
	}
	if b.Guests <= 0 {
		return fmt.Errorf("%w: guests must be positive", httpx.ErrValidation)
	}
	return nil
}

// --- service requests ---

func (s *Service) ListServiceRequests(ctx context.Context, roomID *uuid.UUID) ([]ServiceRequest, error) {
	return s.repo.ListServiceRequests(ctx, roomID)
}

func (s *Service) GetServiceRequest(ctx context.Context, id uuid.UUID) (ServiceRequest, error) {
	return s.repo.GetServiceRequest(ctx, id)
}

// CreateServiceRequest rejects duplicate open tickets for the same room and
// description.
func (s *Service) CreateServiceRequest(ctx context.Context, req ServiceRequest) (ServiceRequest, error) {
	if req.Description == "" {
		return ServiceRequest{}, fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	duplicate, err := s.repo.HasOpenServiceRequest(ctx, req.RoomID, req.Description)
	if err != nil {
		return ServiceRequest{}, err
	}
	if duplicate {
		return ServiceRequest{}, fmt.Errorf("%w: an open request with this description already exists for the room", httpx.ErrConflict)
	}
	if req.Status == "" {
		req.Status = RequestOpen
	}
	created, err := s.repo.CreateServiceRequest(ctx, req)
	if err != nil {
		return ServiceRequest{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateServiceRequest(ctx context.Context, req ServiceRequest) (ServiceRequest, error) {
	before, err := s.repo.GetServiceRequest(ctx, req.ID)
	if err != nil {
		return ServiceRequest{}, err
	}
	updated, err := s.repo.UpdateServiceRequest(ctx, req)
	if err != nil {
		return ServiceRequest{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}
