package staff

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

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// Handler manages staff module endpoints. Route groups are mounted
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

// MountStaff registers staff profile routes.
func (h *Handler) MountStaff(r chi.Router) {
	r.Get("/", h.listStaff)
	r.Post("/", h.createStaff)
	r.Get("/{id}", h.getStaff)
	r.Put("/{id}", h.updateStaff)
	r.Delete("/{id}", h.deleteStaff)
}

// MountAttendance registers attendance routes, including the self-service
// check-in and check-out.
func (h *Handler) MountAttendance(r chi.Router) {
	r.Get("/", h.listAttendance)
	r.Post("/", h.createAttendance)
	r.Post("/check-in", h.checkIn)
	r.Post("/check-out", h.checkOut)
	r.Get("/{id}", h.getAttendance)
	r.Put("/{id}", h.updateAttendance)
}

// MountPayrolls registers payroll routes.
func (h *Handler) MountPayrolls(r chi.Router) {
	r.Get("/", h.listPayrolls)
	r.Post("/", h.createPayroll)
	r.Get("/{id}", h.getPayroll)
	r.Put("/{id}", h.updatePayroll)
	r.Delete("/{id}", h.deletePayroll)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// --- staff ---

type staffForm struct {
	UserID        uuid.UUID       `json:"user_id" validate:"required"`
	HotelID       *uuid.UUID      `json:"hotel_id"`
	Designation   string          `json:"designation" validate:"max=100"`
	Department    string          `json:"department" validate:"max=100"`
	JoiningDate   string          `json:"joining_date"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Status        string          `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
}

type staffResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	HotelID       *uuid.UUID `json:"hotel_id,omitempty"`
	Designation   string     `json:"designation,omitempty"`
	Department    string     `json:"department,omitempty"`
	JoiningDate   string     `json:"joining_date"`
	MonthlySalary string     `json:"monthly_salary"`
	Status        string     `json:"status"`
}

func toStaffResponse(s Staff) staffResponse {
	return staffResponse{
		ID: s.ID, UserID: s.UserID, HotelID: s.HotelID,
		Designation: s.Designation, Department: s.Department,
		JoiningDate:   s.JoiningDate.Format(dateLayout),
		MonthlySalary: s.MonthlySalary.StringFixed(2),
		Status:        string(s.Status),
	}
}

func (h *Handler) staffFromForm(w http.ResponseWriter, form staffForm) (Staff, bool) {
	st := Staff{
		UserID: form.UserID, HotelID: form.HotelID,
		Designation: form.Designation, Department: form.Department,
		MonthlySalary: form.MonthlySalary, Status: StaffStatus(form.Status),
	}
	if form.JoiningDate != "" {
		d, err := time.Parse(dateLayout, form.JoiningDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "joining_date must be YYYY-MM-DD")
			return Staff{}, false
		}
		st.JoiningDate = d
	}
	return st, true
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	var hotelID *uuid.UUID
	if raw := r.URL.Query().Get("hotel_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid hotel_id")
			return
		}
		hotelID = &id
	}
	staff, err := h.service.ListStaff(r.Context(), hotelID)
	if err != nil {
		h.logger.Error("list staff", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]staffResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, toStaffResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	s, err := h.service.GetStaff(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toStaffResponse(s))
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	var form staffForm
	if !h.decode(w, r, &form) {
		return
	}
	st, ok := h.staffFromForm(w, form)
	if !ok {
		return
	}
	created, err := h.service.CreateStaff(r.Context(), st)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toStaffResponse(created))
}

func (h *Handler) updateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form staffForm
	if !h.decode(w, r, &form) {
		return
	}
	st, ok2 := h.staffFromForm(w, form)
	if !ok2 {
		return
	}
	st.ID = id
	updated, err := h.service.UpdateStaff(r.Context(), st)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toStaffResponse(updated))
}

func (h *Handler) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteStaff(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// --- attendance ---

type attendanceForm struct {
	StaffID  uuid.UUID `json:"staff_id" validate:"required"`
	Date     string    `json:"date" validate:"required"`
	CheckIn  *string   `json:"check_in"`
	CheckOut *string   `json:"check_out"`
	Status   string    `json:"status" validate:"omitempty,oneof=present absent leave"`
	Remarks  string    `json:"remarks" validate:"max=500"`
}

type attendanceResponse struct {
	ID           uuid.UUID `json:"id"`
	StaffID      uuid.UUID `json:"staff_id"`
	Date         string    `json:"date"`
	CheckIn      *string   `json:"check_in,omitempty"`
	CheckOut     *string   `json:"check_out,omitempty"`
	WorkDuration *string   `json:"work_duration,omitempty"`
	Status       string    `json:"status"`
	Remarks      string    `json:"remarks,omitempty"`
}

func toAttendanceResponse(a Attendance) attendanceResponse {
	resp := attendanceResponse{
		ID: a.ID, StaffID: a.StaffID, Date: a.Date.Format(dateLayout),
		Status: string(a.Status), Remarks: a.Remarks,
	}
	if a.CheckIn != nil {
		s := a.CheckIn.Format(timeLayout)
		resp.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format(timeLayout)
		resp.CheckOut = &s
	}
	if a.WorkDuration != nil {
		s := a.WorkDuration.StringFixed(2)
		resp.WorkDuration = &s
	}
	return resp
}

func parseOptionalTime(w http.ResponseWriter, raw *string, field string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse(timeLayout, *raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", field+" must be RFC3339")
		return nil, false
	}
	return &t, true
}

func (h *Handler) attendanceFromForm(w http.ResponseWriter, form attendanceForm) (Attendance, bool) {
	date, err := time.Parse(dateLayout, form.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return Attendance{}, false
	}
	checkIn, ok := parseOptionalTime(w, form.CheckIn, "check_in")
	if !ok {
		return Attendance{}, false
	}
	checkOut, ok := parseOptionalTime(w, form.CheckOut, "check_out")
	if !ok {
		return Attendance{}, false
	}
	return Attendance{
		StaffID: form.StaffID, Date: date,
		CheckIn: checkIn, CheckOut: checkOut,
		Status: AttendanceStatus(form.Status), Remarks: form.Remarks,
	}, true
}

func (h *Handler) listAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var staffID *uuid.UUID
	if raw := q.Get("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid staff_id")
			return
		}
		staffID = &id
	}
	var date *time.Time
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		date = &d
	}
	records, err := h.service.ListAttendance(r.Context(), staffID, date)
	if err != nil {
		h.logger.Error("list attendance", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]attendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, toAttendanceResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	a, err := h.service.GetAttendance(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAttendanceResponse(a))
}

func (h *Handler) createAttendance(w http.ResponseWriter, r *http.Request) {
	var form attendanceForm
	if !h.decode(w, r, &form) {
		return
	}
	a, ok := h.attendanceFromForm(w, form)
	if !ok {
		return
	}
	created, err := h.service.CreateAttendance(r.Context(), a)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAttendanceResponse(created))
}

func (h *Handler) updateAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form attendanceForm
	if !h.decode(w, r, &form) {
		return
	}
	a, ok2 := h.attendanceFromForm(w, form)
	if !ok2 {
		return
	}
	a.ID = id
	updated, err := h.service.UpdateAttendance(r.Context(), a)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAttendanceResponse(updated))
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.CheckIn(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAttendanceResponse(a))
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.CheckOut(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAttendanceResponse(a))
}

// --- payroll ---

type payrollForm struct {
	StaffID    uuid.UUID       `json:"staff_id" validate:"required"`
	Month      int             `json:"month" validate:"required,min=1,max=12"`
	Year       int             `json:"year" validate:"required,min=2000"`
	SalaryType string          `json:"salary_type" validate:"required,oneof=monthly attendance_based"`
	BaseSalary decimal.Decimal `json:"base_salary"`
}

type payrollResponse struct {
	ID          uuid.UUID `json:"id"`
	StaffID     uuid.UUID `json:"staff_id"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	SalaryType  string    `json:"salary_type"`
	BaseSalary  string    `json:"base_salary"`
	TotalSalary string    `json:"total_salary"`
}

func toPayrollResponse(p Payroll) payrollResponse {
	return payrollResponse{
		ID: p.ID, StaffID: p.StaffID, Month: p.Month, Year: p.Year,
		SalaryType:  string(p.SalaryType),
		BaseSalary:  p.BaseSalary.StringFixed(2),
		TotalSalary: p.TotalSalary.StringFixed(2),
	}
}

func (h *Handler) listPayrolls(w http.ResponseWriter, r *http.Request) {
	var staffID *uuid.UUID
	if raw := r.URL.Query().Get("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid staff_id")
			return
		}
		staffID = &id
	}
	payrolls, err := h.service.ListPayrolls(r.Context(), staffID)
	if err != nil {
		h.logger.Error("list payrolls", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]payrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		out = append(out, toPayrollResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getPayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	p, err := h.service.GetPayroll(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayrollResponse(p))
}

func (h *Handler) createPayroll(w http.ResponseWriter, r *http.Request) {
	var form payrollForm
	if !h.decode(w, r, &form) {
		return
	}
	p, err := h.service.CreatePayroll(r.Context(), Payroll{
		StaffID: form.StaffID, Month: form.Month, Year: form.Year,
		SalaryType: SalaryType(form.SalaryType), BaseSalary: form.BaseSalary,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPayrollResponse(p))
}

func (h *Handler) updatePayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var form payrollForm
	if !h.decode(w, r, &form) {
		return
	}
	p, err := h.service.UpdatePayroll(r.Context(), Payroll{
		ID: id, SalaryType: SalaryType(form.SalaryType), BaseSalary: form.BaseSalary,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayrollResponse(p))
}

func (h *Handler) deletePayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeletePayroll(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
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
