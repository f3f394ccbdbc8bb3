package hotel

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages hotel module endpoints. Route groups are mounted
// separately so the router can wrap each with its own resource guard.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountHotels registers hotel CRUD routes.
func (h *Handler) MountHotels(r chi.Router) {
	r.Get("/", h.listHotels)
	r.Post("/", h.createHotel)
	r.Get("/{id}", h.getHotel)
	r.Put("/{id}", h.updateHotel)
	r.Delete("/{id}", h.deleteHotel)
}

// MountCategories registers room category routes.
func (h *Handler) MountCategories(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Post("/", h.createCategory)
	r.Get("/{id}", h.getCategory)
	r.Put("/{id}", h.updateCategory)
	r.Delete("/{id}", h.deleteCategory)
}

// MountRooms registers room routes.
func (h *Handler) MountRooms(r chi.Router) {
	r.Get("/", h.listRooms)
	r.Post("/", h.createRoom)
	r.Get("/{id}", h.getRoom)
	r.Put("/{id}", h.updateRoom)
	r.Delete("/{id}", h.deleteRoom)
}

// MountBookings registers booking routes.
func (h *Handler) MountBookings(r chi.Router) {
	r.Get("/", h.listBookings)
	r.Post("/", h.createBooking)
	r.Get("/availability", h.availability)
	r.Get("/{id}", h.getBooking)
	r.Put("/{id}", h.updateBooking)
	r.Post("/{id}/cancel", h.cancelBooking)
}

// MountServiceRequests registers room service request routes.
func (h *Handler) MountServiceRequests(r chi.Router) {
	r.Get("/", h.listServiceRequests)
	r.Post("/", h.createServiceRequest)
	r.Get("/{id}", h.getServiceRequest)
	r.Put("/{id}", h.updateServiceRequest)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// --- hotels ---

type hotelForm struct {
	Name    string `json:"name" validate:"required,min=2,max=128"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Phone   string `json:"phone" validate:"max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type hotelResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	Phone   string    `json:"phone,omitempty"`
	Email   string    `json:"email,omitempty"`
}

func toHotelResponse(h Hotel) hotelResponse {
	return hotelResponse{ID: h.ID, Name: h.Name, Address: h.Address, City: h.City, Phone: h.Phone, Email: h.Email}
}

func (h *Handler) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.service.ListHotels(r.Context())
	if err != nil {
		h.logger.Error("list hotels", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]hotelResponse, 0, len(hotels))
	for _, hotel := range hotels {
		out = append(out, toHotelResponse(hotel))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	hotel, err := h.service.GetHotel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (h *Handler) createHotel(w http.ResponseWriter, r *http.Request) {
	var form hotelForm
	if !h.decode(w, r, &form) {
		return
	}
	hotel, err := h.service.CreateHotel(r.Context(), Hotel{
		Name: form.Name, Address: form.Address, City: form.City, Phone: form.Phone, Email: form.Email,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toHotelResponse(hotel))
}

func (h *Handler) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form hotelForm
	if !h.decode(w, r, &form) {
		return
	}
	hotel, err := h.service.UpdateHotel(r.Context(), Hotel{
		ID: id, Name: form.Name, Address: form.Address, City: form.City, Phone: form.Phone, Email: form.Email,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (h *Handler) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteHotel(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- room categories ---

type categoryForm struct {
	HotelID     uuid.UUID       `json:"hotel_id" validate:"required"`
	Name        string          `json:"name" validate:"required,min=2,max=64"`
	Description string          `json:"description" validate:"max=255"`
	BaseRate    decimal.Decimal `json:"base_rate"`
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	HotelID     uuid.UUID `json:"hotel_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BaseRate    string    `json:"base_rate"`
}

func toCategoryResponse(c RoomCategory) categoryResponse {
	return categoryResponse{
		ID: c.ID, HotelID: c.HotelID, Name: c.Name,
		Description: c.Description, BaseRate: c.BaseRate.StringFixed(2),
	}
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(r.URL.Query().Get("hotel_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "hotel_id is required")
		return
	}
	categories, err := h.service.ListCategories(r.Context(), hotelID)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	c, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(c))
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if !h.decode(w, r, &form) {
		return
	}
	c, err := h.service.CreateCategory(r.Context(), RoomCategory{
		HotelID: form.HotelID, Name: form.Name, Description: form.Description, BaseRate: form.BaseRate,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategoryResponse(c))
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form categoryForm
	if !h.decode(w, r, &form) {
		return
	}
	c, err := h.service.UpdateCategory(r.Context(), RoomCategory{
		ID: id, Name: form.Name, Description: form.Description, BaseRate: form.BaseRate,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(c))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- rooms ---

type roomForm struct {
	HotelID      uuid.UUID       `json:"hotel_id" validate:"required"`
	CategoryID   uuid.UUID       `json:"category_id" validate:"required"`
	RoomNumber   string          `json:"room_number" validate:"required,max=16"`
	Floor        string          `json:"floor" validate:"max=16"`
	Status       string          `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	RatePerNight decimal.Decimal `json:"rate_per_night"`
}

type roomResponse struct {
	ID           uuid.UUID `json:"id"`
	HotelID      uuid.UUID `json:"hotel_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	RoomNumber   string    `json:"room_number"`
	Floor        string    `json:"floor,omitempty"`
	Status       string    `json:"status"`
	RatePerNight string    `json:"rate_per_night"`
}

func toRoomResponse(room Room) roomResponse {
	return roomResponse{
		ID: room.ID, HotelID: room.HotelID, CategoryID: room.CategoryID,
		RoomNumber: room.RoomNumber, Floor: room.Floor,
		Status: string(room.Status), RatePerNight: room.RatePerNight.StringFixed(2),
	}
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(r.URL.Query().Get("hotel_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "hotel_id is required")
		return
	}
	rooms, err := h.service.ListRooms(r.Context(), hotelID)
	if err != nil {
		h.logger.Error("list rooms", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	room, err := h.service.GetRoom(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoomResponse(room))
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var form roomForm
	if !h.decode(w, r, &form) {
		return
	}
	room, err := h.service.CreateRoom(r.Context(), Room{
		HotelID: form.HotelID, CategoryID: form.CategoryID, RoomNumber: form.RoomNumber,
		Floor: form.Floor, Status: RoomStatus(form.Status), RatePerNight: form.RatePerNight,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRoomResponse(room))
}

func (h *Handler) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form roomForm
	if !h.decode(w, r, &form) {
		return
	}
	room, err := h.service.UpdateRoom(r.Context(), Room{
		ID: id, CategoryID: form.CategoryID, RoomNumber: form.RoomNumber,
		Floor: form.Floor, Status: RoomStatus(form.Status), RatePerNight: form.RatePerNight,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoomResponse(room))
}

func (h *Handler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteRoom(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- bookings ---

type bookingForm struct {
	RoomID     uuid.UUID `json:"room_id" validate:"required"`
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	CheckIn    string    `json:"check_in" validate:"required"`
	CheckOut   string    `json:"check_out" validate:"required"`
	Guests     int       `json:"guests" validate:"required,min=1"`
	Status     string    `json:"status" validate:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	Notes      string    `json:"notes" validate:"max=500"`
}

type bookingResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	RoomID     uuid.UUID `json:"room_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Guests     int       `json:"guests"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	Nights     int       `json:"nights"`
}

func toBookingResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID: b.ID, Code: b.Code, RoomID: b.RoomID, CustomerID: b.CustomerID,
		CheckIn: b.CheckIn.Format(dateLayout), CheckOut: b.CheckOut.Format(dateLayout),
		Guests: b.Guests, Status: string(b.Status), Notes: b.Notes, Nights: b.Nights(),
	}
}

func (h *Handler) bookingFromForm(w http.ResponseWriter, form bookingForm) (Booking, bool) {
	checkIn, err := time.Parse(dateLayout, form.CheckIn)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "check_in must be YYYY-MM-DD")
		return Booking{}, false
	}
	checkOut, err := time.Parse(dateLayout, form.CheckOut)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "check_out must be YYYY-MM-DD")
		return Booking{}, false
	}
	return Booking{
		RoomID:     form.RoomID,
		CustomerID: form.CustomerID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     form.Guests,
		Status:     BookingStatus(form.Status),
		Notes:      form.Notes,
	}, true
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	var filters BookingFilters
	q := r.URL.Query()
	if raw := q.Get("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid room_id")
			return
		}
		filters.RoomID = &id
	}
	if raw := q.Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer_id")
			return
		}
		filters.CustomerID = &id
	}
	filters.Status = BookingStatus(q.Get("status"))

	bookings, err := h.service.ListBookings(r.Context(), filters)
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID, err := uuid.Parse(q.Get("room_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "room_id is required")
		return
	}
	checkIn, err := time.Parse(dateLayout, q.Get("check_in"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, q.Get("check_out"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "check_out must be YYYY-MM-DD")
		return
	}
	available, err := h.service.CheckAvailability(r.Context(), roomID, Booking{CheckIn: checkIn, CheckOut: checkOut}, nil)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	b, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var form bookingForm
	if !h.decode(w, r, &form) {
		return
	}
	b, ok := h.bookingFromForm(w, form)
	if !ok {
		return
	}
	created, err := h.service.CreateBooking(r.Context(), b)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBookingResponse(created))
}

func (h *Handler) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form bookingForm
	if !h.decode(w, r, &form) {
		return
	}
	b, ok2 := h.bookingFromForm(w, form)
	if !ok2 {
		return
	}
	b.ID = id
	updated, err := h.service.UpdateBooking(r.Context(), b)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBookingResponse(updated))
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	b, err := h.service.CancelBooking(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBookingResponse(b))
}

// --- service requests ---

type serviceRequestForm struct {
	RoomID      uuid.UUID  `json:"room_id" validate:"required"`
	BookingID   *uuid.UUID `json:"booking_id"`
	Description string     `json:"description" validate:"required,max=500"`
	Status      string     `json:"status" validate:"omitempty,oneof=open in_progress done cancelled"`
}

type serviceRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"room_id"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
}

func toServiceRequestResponse(s ServiceRequest) serviceRequestResponse {
	return serviceRequestResponse{
		ID: s.ID, RoomID: s.RoomID, BookingID: s.BookingID,
		Description: s.Description, Status: string(s.Status),
	}
}

func (h *Handler) listServiceRequests(w http.ResponseWriter, r *http.Request) {
	var roomID *uuid.UUID
	if raw := r.URL.Query().Get("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid room_id")
			return
		}
		roomID = &id
	}
	requests, err := h.service.ListServiceRequests(r.Context(), roomID)
	if err != nil {
		h.logger.Error("list service requests", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]serviceRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toServiceRequestResponse(req))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	req, err := h.service.GetServiceRequest(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toServiceRequestResponse(req))
}

func (h *Handler) createServiceRequest(w http.ResponseWriter, r *http.Request) {
	var form serviceRequestForm
	if !h.decode(w, r, &form) {
		return
	}
	req, err := h.service.CreateServiceRequest(r.Context(), ServiceRequest{
		RoomID: form.RoomID, BookingID: form.BookingID,
		Description: form.Description, Status: ServiceRequestStatus(form.Status),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toServiceRequestResponse(req))
}

func (h *Handler) updateServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form serviceRequestForm
	if !h.decode(w, r, &form) {
		return
	}
	req, err := h.service.UpdateServiceRequest(r.Context(), ServiceRequest{
		ID: id, Description: form.Description, Status: ServiceRequestStatus(form.Status),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toServiceRequestResponse(req))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := httpx.DecodeJSON(r, form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}
