package hotel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/platform/db"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

const bookingCodeAttempts = 5

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- hotels ---

func (r *Repository) ListHotels(ctx context.Context) ([]Hotel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, city, phone, email, created_at, updated_at
		FROM hotels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Hotel
	for rows.Next() {
		var h Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.City, &h.Phone, &h.Email, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repository) GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error) {
	var h Hotel
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, city, phone, email, created_at, updated_at
		FROM hotels WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.Address, &h.City, &h.Phone, &h.Email, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Hotel{}, httpx.ErrNotFound
	}
	return h, err
}

func (r *Repository) CreateHotel(ctx context.Context, h Hotel) (Hotel, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hotels (id, name, address, city, phone, email, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		h.Name, h.Address, h.City, h.Phone, h.Email).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if isUniqueViolation(err) {
		return Hotel{}, httpx.ErrConflict
	}
	return h, err
}

func (r *Repository) UpdateHotel(ctx context.Context, h Hotel) (Hotel, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE hotels SET name = $2, address = $3, city = $4, phone = $5, email = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		h.ID, h.Name, h.Address, h.City, h.Phone, h.Email).
		Scan(&h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Hotel{}, httpx.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Hotel{}, httpx.ErrConflict
	}
	return h, err
}

func (r *Repository) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- room categories ---

func (r *Repository) ListCategories(ctx context.Context, hotelID uuid.UUID) ([]RoomCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hotel_id, name, description, base_rate, created_at, updated_at
		FROM room_categories WHERE hotel_id = $1 ORDER BY name`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoomCategory
	for rows.Next() {
		var c RoomCategory
		if err := rows.Scan(&c.ID, &c.HotelID, &c.Name, &c.Description, &c.BaseRate, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (RoomCategory, error) {
	var c RoomCategory
	err := r.pool.QueryRow(ctx, `
		SELECT id, hotel_id, name, description, base_rate, created_at, updated_at
		FROM room_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.HotelID, &c.Name, &c.Description, &c.BaseRate, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RoomCategory{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *Repository) CreateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO room_categories (id, hotel_id, name, description, base_rate, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		c.HotelID, c.Name, c.Description, c.BaseRate).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return RoomCategory{}, httpx.ErrConflict
	}
	return c, err
}

func (r *Repository) UpdateCategory(ctx context.Context, c RoomCategory) (RoomCategory, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE room_categories SET name = $2, description = $3, base_rate = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING hotel_id, created_at, updated_at`,
		c.ID, c.Name, c.Description, c.BaseRate).
		Scan(&c.HotelID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RoomCategory{}, httpx.ErrNotFound
	}
	if isUniqueViolation(err) {
		return RoomCategory{}, httpx.ErrConflict
	}
	return c, err
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM room_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- rooms ---

func (r *Repository) ListRooms(ctx context.Context, hotelID uuid.UUID) ([]Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hotel_id, category_id, room_number, floor, status, rate_per_night, created_at, updated_at
		FROM rooms WHERE hotel_id = $1 ORDER BY room_number`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.HotelID, &room.CategoryID, &room.RoomNumber, &room.Floor,
			&room.Status, &room.RatePerNight, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *Repository) GetRoom(ctx context.Context, id uuid.UUID) (Room, error) {
	var room Room
	err := r.pool.QueryRow(ctx, `
		SELECT id, hotel_id, category_id, room_number, floor, status, rate_per_night, created_at, updated_at
		FROM rooms WHERE id = $1`, id).
		Scan(&room.ID, &room.HotelID, &room.CategoryID, &room.RoomNumber, &room.Floor,
			&room.Status, &room.RatePerNight, &room.CreatedAt, &room.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, httpx.ErrNotFound
	}
	return room, err
}

// CreateRoom relies on the (hotel_id, room_number) unique constraint for
// per-property number uniqueness.
func (r *Repository) CreateRoom(ctx context.Context, room Room) (Room, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (id, hotel_id, category_id, room_number, floor, status, rate_per_night, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		room.HotelID, room.CategoryID, room.RoomNumber, room.Floor, string(room.Status), room.RatePerNight).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
	if isUniqueViolation(err) {
		return Room{}, fmt.Errorf("%w: room number already exists in hotel", httpx.ErrConflict)
	}
	return room, err
}

func (r *Repository) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE rooms SET category_id = $2, room_number = $3, floor = $4, status = $5, rate_per_night = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING hotel_id, created_at, updated_at`,
		room.ID, room.CategoryID, room.RoomNumber, room.Floor, string(room.Status), room.RatePerNight).
		Scan(&room.HotelID, &room.CreatedAt, &room.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, httpx.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Room{}, fmt.Errorf("%w: room number already exists in hotel", httpx.ErrConflict)
	}
	return room, err
}

func (r *Repository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- bookings ---

const bookingColumns = `id, code, room_id, customer_id, check_in, check_out, guests, status, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	var status string
	err := row.Scan(&b.ID, &b.Code, &b.RoomID, &b.CustomerID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	b.Status = BookingStatus(status)
	return b, err
}

func (r *Repository) ListBookings(ctx context.Context, filters BookingFilters) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filters.RoomID != nil {
		query += ` AND room_id = ` + next(*filters.RoomID)
	}
	if filters.CustomerID != nil {
		query += ` AND customer_id = ` + next(*filters.CustomerID)
	}
	if filters.Status != "" {
		query += ` AND status = ` + next(string(filters.Status))
	}
	if filters.From != nil {
		query += ` AND check_out > ` + next(*filters.From)
	}
	if filters.To != nil {
		query += ` AND check_in < ` + next(*filters.To)
	}
	query += ` ORDER BY check_in DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, httpx.ErrNotFound
	}
	return b, err
}

// HasOverlap runs the half-open overlap test against live bookings.
func (r *Repository) HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	return hasOverlap(ctx, r.pool, roomID, checkIn, checkOut, excludeID)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func hasOverlap(ctx context.Context, q querier, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status <> 'cancelled'
			  AND check_out > $2
			  AND check_in < $3
			  AND ($4::uuid IS NULL OR id <> $4)
		)`, roomID, checkIn, checkOut, excludeID).Scan(&exists)
	return exists, err
}

// CreateBooking allocates a code and inserts inside one transaction so the
// conflict check and the insert see the same snapshot. The code insert is
// retried a bounded number of times on a uniqueness collision; exhaustion is
// a configuration fault, not a retryable condition.
func (r *Repository) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		conflict, err := hasOverlap(ctx, tx, b.RoomID, b.CheckIn, b.CheckOut, nil)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: room is already booked for the selected dates", httpx.ErrConflict)
		}
		for attempt := 0; attempt < bookingCodeAttempts; attempt++ {
			seq, err := db.NextSequence(ctx, tx, "booking")
			if err != nil {
				return err
			}
			b.Code = fmt.Sprintf("BKG-%06d", seq)
			err = tx.QueryRow(ctx, `
				INSERT INTO bookings (id, code, room_id, customer_id, check_in, check_out, guests, status, notes, created_at, updated_at)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
				RETURNING id, created_at, updated_at`,
				b.Code, b.RoomID, b.CustomerID, b.CheckIn, b.CheckOut, b.Guests, string(b.Status), b.Notes).
				Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
			if err == nil {
				return nil
			}
			if !isUniqueViolation(err) {
				return err
			}
		}
		return fmt.Errorf("booking code allocation exhausted after %d attempts", bookingCodeAttempts)
	})
	if err != nil {
		return Booking{}, err
	}
	return b, nil
}

// UpdateBooking re-runs the conflict check, excluding the record under
// edit, in the same transaction as the update.
func (r *Repository) UpdateBooking(ctx context.Context, b Booking) (Booking, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if b.Live() {
			conflict, err := hasOverlap(ctx, tx, b.RoomID, b.CheckIn, b.CheckOut, &b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return fmt.Errorf("%w: room is already booked for the selected dates", httpx.ErrConflict)
			}
		}
		err := tx.QueryRow(ctx, `
			UPDATE bookings SET room_id = $2, customer_id = $3, check_in = $4, check_out = $5, guests = $6, status = $7, notes = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING code, created_at, updated_at`,
			b.ID, b.RoomID, b.CustomerID, b.CheckIn, b.CheckOut, b.Guests, string(b.Status), b.Notes).
			Scan(&b.Code, &b.CreatedAt, &b.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.ErrNotFound
		}
		return err
	})
	if err != nil {
		return Booking{}, err
	}
	return b, nil
}

// --- service requests ---

func (r *Repository) ListServiceRequests(ctx context.Context, roomID *uuid.UUID) ([]ServiceRequest, error) {
	query := `SELECT id, room_id, booking_id, description, status, created_at, updated_at FROM room_service_requests`
	var args []any
	if roomID != nil {
		query += ` WHERE room_id = $1`
		args = append(args, *roomID)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ServiceRequest
	for rows.Next() {
		var s ServiceRequest
		var status string
		if err := rows.Scan(&s.ID, &s.RoomID, &s.BookingID, &s.Description, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = ServiceRequestStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetServiceRequest(ctx context.Context, id uuid.UUID) (ServiceRequest, error) {
	var s ServiceRequest
	var status string
	err := r.pool.QueryRow(ctx, `
		SELECT id, room_id, booking_id, description, status, created_at, updated_at
		FROM room_service_requests WHERE id = $1`, id).
		Scan(&s.ID, &s.RoomID, &s.BookingID, &s.Description, &status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceRequest{}, httpx.ErrNotFound
	}
	s.Status = ServiceRequestStatus(status)
	return s, err
}

// HasOpenServiceRequest guards against duplicate open tickets for the same
// complaint on a room.
func (r *Repository) HasOpenServiceRequest(ctx context.Context, roomID uuid.UUID, description string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM room_service_requests
			WHERE room_id = $1
			  AND LOWER(description) = LOWER($2)
			  AND status IN ('open', 'in_progress')
		)`, roomID, description).Scan(&exists)
	return exists, err
}

func (r *Repository) CreateServiceRequest(ctx context.Context, s ServiceRequest) (ServiceRequest, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO room_service_requests (id, room_id, booking_id, description, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		s.RoomID, s.BookingID, s.Description, string(s.Status)).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repository) UpdateServiceRequest(ctx context.Context, s ServiceRequest) (ServiceRequest, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE room_service_requests SET description = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING room_id, booking_id, created_at, updated_at`,
		s.ID, s.Description, string(s.Status)).
		Scan(&s.RoomID, &s.BookingID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceRequest{}, httpx.ErrNotFound
	}
	return s, err
}

var _ RepositoryPort = (*Repository)(nil)
