package hotel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// memoryHotelRepo implements RepositoryPort with the same conflict and code
// semantics as the SQL repository.
type memoryHotelRepo struct {
	hotels     map[uuid.UUID]Hotel
	categories map[uuid.UUID]RoomCategory
	rooms      map[uuid.UUID]Room
	bookings   map[uuid.UUID]Booking
	requests   map[uuid.UUID]ServiceRequest
	bookingSeq int64
}

func newMemoryHotelRepo() *memoryHotelRepo {
	return &memoryHotelRepo{
		hotels:     make(map[uuid.UUID]Hotel),
		categories: make(map[uuid.UUID]RoomCategory),
		rooms:      make(map[uuid.UUID]Room),
		bookings:   make(map[uuid.UUID]Booking),
		requests:   make(map[uuid.UUID]ServiceRequest),
	}
}

func (r *memoryHotelRepo) ListHotels(ctx context.Context) ([]Hotel, error) { return nil, nil }
func (r *memoryHotelRepo) GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error) {
	h, ok := r.hotels[id]
	if !ok {
		return Hotel{}, httpx.ErrNotFound
	}
	return h, nil
}
func (r *memoryHotelRepo) CreateHotel(ctx context.Context, h Hotel) (Hotel, error) {
	h.ID = uuid.New()
	r.hotels[h.ID] = h
	return h, nil
}
func (r *memoryHotelRepo) UpdateHotel(ctx context.Context, h Hotel) (Hotel, error) {
	r.hotels[h.ID] = h
	return h, nil
}
func (r *memoryHotelRepo) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	delete(r.hotels, id)
	return nil
}

func (r *memoryHotelRepo) ListCategories(ctx context.Context, hotelID uuid.UUID) ([]RoomCategory, error) {
	return nil, nil
}
func (r *memoryHotelRepo) GetCategory(ctx context.Context, id uuid.UUID) (RoomCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return RoomCategory{}, httpx.ErrNotFound
	}
	return c, nil
}
func (r *memoryHotelRepo) CreateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error) {
	c.ID = uuid.New()
	r.categories[c.ID] = c
	return c, nil
}
func (r *memoryHotelRepo) UpdateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error) {
	r.categories[c.ID] = c
	return c, nil
}
func (r *memoryHotelRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *memoryHotelRepo) ListRooms(ctx context.Context, hotelID uuid.UUID) ([]Room, error) {
	return nil, nil
}
func (r *memoryHotelRepo) GetRoom(ctx context.Context, id uuid.UUID) (Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, httpx.ErrNotFound
	}
	return room, nil
}
func (r *memoryHotelRepo) CreateRoom(ctx context.Context, room Room) (Room, error) {
	for _, existing := range r.rooms {
		if existing.HotelID == room.HotelID && existing.RoomNumber == room.RoomNumber {
			return Room{}, fmt.Errorf("%w: room number already exists in hotel", httpx.ErrConflict)
		}
	}
	room.ID = uuid.New()
	r.rooms[room.ID] = room
	return room, nil
}
func (r *memoryHotelRepo) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	r.rooms[room.ID] = room
	return room, nil
}
func (r *memoryHotelRepo) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	delete(r.rooms, id)
	return nil
}

func (r *memoryHotelRepo) ListBookings(ctx context.Context, filters BookingFilters) ([]Booking, error) {
	return nil, nil
}
func (r *memoryHotelRepo) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return Booking{}, httpx.ErrNotFound
	}
	return b, nil
}

func (r *memoryHotelRepo) HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, b := range r.bookings {
		if b.RoomID != roomID || !b.Live() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryHotelRepo) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	conflict, _ := r.HasOverlap(ctx, b.RoomID, b.CheckIn, b.CheckOut, nil)
	if conflict {
		return Booking{}, fmt.Errorf("%w: room is already booked for the selected dates", httpx.ErrConflict)
	}
	r.bookingSeq++
	b.ID = uuid.New()
	b.Code = fmt.Sprintf("BKG-%06d", r.bookingSeq)
	r.bookings[b.ID] = b
	return b, nil
}

func (r *memoryHotelRepo) UpdateBooking(ctx context.Context, b Booking) (Booking, error) {
	current, ok := r.bookings[b.ID]
	if !ok {
		return Booking{}, httpx.ErrNotFound
	}
	if b.Live() {
		conflict, _ := r.HasOverlap(ctx, b.RoomID, b.CheckIn, b.CheckOut, &b.ID)
		if conflict {
			return Booking{}, fmt.Errorf("%w: room is already booked for the selected dates", httpx.ErrConflict)
		}
	}
	b.Code = current.Code
	r.bookings[b.ID] = b
	return b, nil
}

func (r *memoryHotelRepo) ListServiceRequests(ctx context.Context, roomID *uuid.UUID) ([]ServiceRequest, error) {
	return nil, nil
}
func (r *memoryHotelRepo) GetServiceRequest(ctx context.Context, id uuid.UUID) (ServiceRequest, error) {
	s, ok := r.requests[id]
	if !ok {
		return ServiceRequest{}, httpx.ErrNotFound
	}
	return s, nil
}
func (r *memoryHotelRepo) HasOpenServiceRequest(ctx context.Context, roomID uuid.UUID, description string) (bool, error) {
	for _, s := range r.requests {
		if s.RoomID == roomID && s.Open() && strings.EqualFold(s.Description, description) {
			return true, nil
		}
	}
	return false, nil
}
func (r *memoryHotelRepo) CreateServiceRequest(ctx context.Context, s ServiceRequest) (ServiceRequest, error) {
	s.ID = uuid.New()
	r.requests[s.ID] = s
	return s, nil
}
func (r *memoryHotelRepo) UpdateServiceRequest(ctx context.Context, s ServiceRequest) (ServiceRequest, error) {
	r.requests[s.ID] = s
	return s, nil
}

type captureStore struct {
	records []audit.Record
}

func (s *captureStore) Insert(ctx context.Context, record audit.Record) error {
	s.records = append(s.records, record)
	return nil
}

func newHotelService() (*Service, *memoryHotelRepo, *captureStore) {
	repo := newMemoryHotelRepo()
	store := &captureStore{}
	return NewService(repo, audit.NewRecorder(store, nil, nil)), repo, store
}

func bookingCtx() context.Context {
	return shared.ContextWithActor(context.Background(), &shared.Actor{ID: uuid.New(), Email: "desk@example.com"})
}

func seedRoom(repo *memoryHotelRepo) Room {
	room := Room{ID: uuid.New(), HotelID: uuid.New(), RoomNumber: "101", Status: RoomAvailable}
	repo.rooms[room.ID] = room
	return room
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	first, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(1), CheckOut: day(5), Guests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "BKG-000001", first.Code)

	_, err = svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(3), CheckOut: day(7), Guests: 1,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestCreateBookingAllowsTouchingEndpoints(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	_, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(1), CheckOut: day(5), Guests: 2,
	})
	require.NoError(t, err)

	second, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(5), CheckOut: day(9), Guests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "BKG-000002", second.Code)
}

func TestCreateBookingIgnoresCancelledBookings(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	cancelled := Booking{
		ID: uuid.New(), RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(1), CheckOut: day(10), Status: BookingCancelled,
	}
	repo.bookings[cancelled.ID] = cancelled

	_, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(2), CheckOut: day(4), Guests: 1,
	})
	require.NoError(t, err)
}

func TestCreateBookingRejectsBadInterval(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)

	_, err := svc.CreateBooking(bookingCtx(), Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(5), CheckOut: day(5), Guests: 1,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestUpdateBookingExcludesOwnInterval(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	b, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(1), CheckOut: day(5), Guests: 2,
	})
	require.NoError(t, err)

	// Extending the same booking by a night must not conflict with itself.
	b.CheckOut = day(6)
	updated, err := svc.UpdateBooking(ctx, b)
	require.NoError(t, err)
	require.Equal(t, day(6), updated.CheckOut)
}

func TestCancelBookingReleasesInterval(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	b, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(1), CheckOut: day(5), Guests: 2,
	})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, b.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(2), CheckOut: day(4), Guests: 1,
	})
	require.NoError(t, err)
}

func TestBookingMutationsAreAudited(t *testing.T) {
	svc, repo, store := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	b, err := svc.CreateBooking(ctx, Booking{
		RoomID: room.ID, CustomerID: uuid.New(),
		CheckIn: day(1), CheckOut: day(5), Guests: 2,
	})
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	require.Equal(t, audit.ActionCreate, store.records[0].Action)
	require.Equal(t, "booking", store.records[0].Resource)
	require.Nil(t, store.records[0].OldData)
	require.Equal(t, b.Code, store.records[0].NewData["code"])

	_, err = svc.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, store.records, 2)
	require.Equal(t, audit.ActionUpdate, store.records[1].Action)
	require.Equal(t, string(BookingPending), store.records[1].OldData["status"])
	require.Equal(t, string(BookingCancelled), store.records[1].NewData["status"])
}

func TestDuplicateOpenServiceRequestRejected(t *testing.T) {
	svc, repo, _ := newHotelService()
	room := seedRoom(repo)
	ctx := bookingCtx()

	_, err := svc.CreateServiceRequest(ctx, ServiceRequest{RoomID: room.ID, Description: "Leaky faucet"})
	require.NoError(t, err)

	_, err = svc.CreateServiceRequest(ctx, ServiceRequest{RoomID: room.ID, Description: "leaky faucet"})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}
