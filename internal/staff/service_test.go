package staff

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// memoryStaffRepo implements RepositoryPort with the same uniqueness
// semantics as the SQL repository.
type memoryStaffRepo struct {
	staff      map[uuid.UUID]Staff
	attendance map[uuid.UUID]Attendance
	payrolls   map[uuid.UUID]Payroll
}

func newMemoryStaffRepo() *memoryStaffRepo {
	return &memoryStaffRepo{
		staff:      make(map[uuid.UUID]Staff),
		attendance: make(map[uuid.UUID]Attendance),
		payrolls:   make(map[uuid.UUID]Payroll),
	}
}

func (r *memoryStaffRepo) ListStaff(ctx context.Context, hotelID *uuid.UUID) ([]Staff, error) {
	return nil, nil
}
func (r *memoryStaffRepo) GetStaff(ctx context.Context, id uuid.UUID) (Staff, error) {
	s, ok := r.staff[id]
	if !ok {
		return Staff{}, httpx.ErrNotFound
	}
	return s, nil
}
func (r *memoryStaffRepo) CreateStaff(ctx context.Context, s Staff) (Staff, error) {
	s.ID = uuid.New()
	r.staff[s.ID] = s
	return s, nil
}
func (r *memoryStaffRepo) UpdateStaff(ctx context.Context, s Staff) (Staff, error) {
	r.staff[s.ID] = s
	return s, nil
}
func (r *memoryStaffRepo) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	delete(r.staff, id)
	return nil
}

func (r *memoryStaffRepo) ListAttendance(ctx context.Context, staffID *uuid.UUID, date *time.Time) ([]Attendance, error) {
	return nil, nil
}
func (r *memoryStaffRepo) GetAttendance(ctx context.Context, id uuid.UUID) (Attendance, error) {
	a, ok := r.attendance[id]
	if !ok {
		return Attendance{}, httpx.ErrNotFound
	}
	return a, nil
}
func (r *memoryStaffRepo) FindAttendance(ctx context.Context, staffID uuid.UUID, date time.Time) (Attendance, error) {
	for _, a := range r.attendance {
		if a.StaffID == staffID && a.Date.Equal(date) {
			return a, nil
		}
	}
	return Attendance{}, httpx.ErrNotFound
}
func (r *memoryStaffRepo) CreateAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	if _, err := r.FindAttendance(ctx, a.StaffID, a.Date); err == nil {
		return Attendance{}, fmt.Errorf("%w: attendance already recorded for this day", httpx.ErrConflict)
	}
	a.ID = uuid.New()
	r.attendance[a.ID] = a
	return a, nil
}
func (r *memoryStaffRepo) UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	if _, ok := r.attendance[a.ID]; !ok {
		return Attendance{}, httpx.ErrNotFound
	}
	r.attendance[a.ID] = a
	return a, nil
}
func (r *memoryStaffRepo) ListOpenCheckIns(ctx context.Context, day time.Time) ([]Attendance, error) {
	var out []Attendance
	for _, a := range r.attendance {
		if a.Date.Equal(day) && a.Open() {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *memoryStaffRepo) StaffIDsWithoutAttendance(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, s := range r.staff {
		if s.Status != StaffActive {
			continue
		}
		if _, err := r.FindAttendance(ctx, id, day); errors.Is(err, httpx.ErrNotFound) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (r *memoryStaffRepo) MarkAbsent(ctx context.Context, staffID uuid.UUID, day time.Time, remark string) (bool, error) {
	if _, err := r.FindAttendance(ctx, staffID, day); err == nil {
		return false, nil
	}
	a := Attendance{ID: uuid.New(), StaffID: staffID, Date: day, Status: AttendanceAbsent, Remarks: remark}
	r.attendance[a.ID] = a
	return true, nil
}
func (r *memoryStaffRepo) CountPresentDays(ctx context.Context, staffID uuid.UUID, month, year int) (int, error) {
	n := 0
	for _, a := range r.attendance {
		if a.StaffID == staffID && a.Status == AttendancePresent &&
			int(a.Date.Month()) == month && a.Date.Year() == year {
			n++
		}
	}
	return n, nil
}

func (r *memoryStaffRepo) ListPayrolls(ctx context.Context, staffID *uuid.UUID) ([]Payroll, error) {
	return nil, nil
}
func (r *memoryStaffRepo) GetPayroll(ctx context.Context, id uuid.UUID) (Payroll, error) {
	p, ok := r.payrolls[id]
	if !ok {
		return Payroll{}, httpx.ErrNotFound
	}
	return p, nil
}
func (r *memoryStaffRepo) CreatePayroll(ctx context.Context, p Payroll) (Payroll, error) {
	for _, existing := range r.payrolls {
		if existing.StaffID == p.StaffID && existing.Month == p.Month && existing.Year == p.Year {
			return Payroll{}, fmt.Errorf("%w: payroll already exists for this month", httpx.ErrConflict)
		}
	}
	p.ID = uuid.New()
	r.payrolls[p.ID] = p
	return p, nil
}
func (r *memoryStaffRepo) UpdatePayroll(ctx context.Context, p Payroll) (Payroll, error) {
	r.payrolls[p.ID] = p
	return p, nil
}
func (r *memoryStaffRepo) DeletePayroll(ctx context.Context, id uuid.UUID) error {
	delete(r.payrolls, id)
	return nil
}

type nullStore struct{}

func (nullStore) Insert(ctx context.Context, record audit.Record) error { return nil }

func newStaffService() (*Service, *memoryStaffRepo) {
	repo := newMemoryStaffRepo()
	return NewService(repo, audit.NewRecorder(nullStore{}, nil, nil)), repo
}

func managerCtx() context.Context {
	return shared.ContextWithActor(context.Background(), &shared.Actor{ID: uuid.New(), Email: "manager@example.com"})
}

func seedStaff(repo *memoryStaffRepo) Staff {
	s := Staff{ID: uuid.New(), UserID: uuid.New(), Status: StaffActive}
	repo.staff[s.ID] = s
	return s
}

func at(day time.Time, hour, minute int) *time.Time {
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	return &t
}

var workday = time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

func TestDeriveAttendanceFullDayForcesPresent(t *testing.T) {
	a := Attendance{Date: workday, CheckIn: at(workday, 9, 0), CheckOut: at(workday, 18, 0), Status: AttendanceAbsent}

	require.NoError(t, DeriveAttendance(&a))
	require.NotNil(t, a.WorkDuration)
	require.Equal(t, "9.00", a.WorkDuration.StringFixed(2))
	require.Equal(t, AttendancePresent, a.Status)
}

func TestDeriveAttendanceShortDayNeverDemotes(t *testing.T) {
	// A short day computes its duration but leaves the prior status alone.
	a := Attendance{Date: workday, CheckIn: at(workday, 9, 0), CheckOut: at(workday, 13, 0), Status: AttendancePresent}

	require.NoError(t, DeriveAttendance(&a))
	require.Equal(t, "4.00", a.WorkDuration.StringFixed(2))
	require.Equal(t, AttendancePresent, a.Status)

	b := Attendance{Date: workday, CheckIn: at(workday, 9, 0), CheckOut: at(workday, 13, 0), Status: AttendanceLeave}
	require.NoError(t, DeriveAttendance(&b))
	require.Equal(t, AttendanceLeave, b.Status)
}

func TestDeriveAttendanceRejectsNegativeSpan(t *testing.T) {
	a := Attendance{Date: workday, CheckIn: at(workday, 18, 0), CheckOut: at(workday, 9, 0)}

	err := DeriveAttendance(&a)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestDeriveAttendanceRejectsCrossDayTimes(t *testing.T) {
	nextDay := workday.AddDate(0, 0, 1)
	a := Attendance{Date: workday, CheckIn: at(workday, 22, 0), CheckOut: at(nextDay, 6, 0)}

	err := DeriveAttendance(&a)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestComputeTotalSalary(t *testing.T) {
	base := decimal.RequireFromString("30000.00")

	attendanceBased := Payroll{SalaryType: SalaryAttendanceBased, BaseSalary: base}
	require.Equal(t, "20000.00", ComputeTotalSalary(attendanceBased, 20).StringFixed(2))
	require.Equal(t, "0.00", ComputeTotalSalary(attendanceBased, 0).StringFixed(2))

	monthly := Payroll{SalaryType: SalaryMonthly, BaseSalary: base}
	require.Equal(t, "30000.00", ComputeTotalSalary(monthly, 0).StringFixed(2))
}

func TestCreatePayrollCountsPresentDays(t *testing.T) {
	svc, repo := newStaffService()
	st := seedStaff(repo)
	ctx := managerCtx()

	for d := 1; d <= 20; d++ {
		day := time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
		repo.attendance[uuid.New()] = Attendance{ID: uuid.New(), StaffID: st.ID, Date: day, Status: AttendancePresent}
	}
	// Absences and other months must not count.
	repo.attendance[uuid.New()] = Attendance{ID: uuid.New(), StaffID: st.ID, Date: time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC), Status: AttendanceAbsent}
	repo.attendance[uuid.New()] = Attendance{ID: uuid.New(), StaffID: st.ID, Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Status: AttendancePresent}

	p, err := svc.CreatePayroll(ctx, Payroll{
		StaffID: st.ID, Month: 7, Year: 2025,
		SalaryType: SalaryAttendanceBased, BaseSalary: decimal.RequireFromString("30000.00"),
	})
	require.NoError(t, err)
	require.Equal(t, "20000.00", p.TotalSalary.StringFixed(2))
}

func TestSelfCheckInRequiresStaffLinkage(t *testing.T) {
	svc, _ := newStaffService()
	ctx := shared.ContextWithActor(context.Background(), &shared.Actor{ID: uuid.New(), Email: "office@example.com"})

	_, err := svc.CheckIn(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
	require.True(t, errors.Is(err, shared.ErrMissingLinkage))
}

func TestSelfCheckInAndOutDeriveDuration(t *testing.T) {
	svc, repo := newStaffService()
	st := seedStaff(repo)
	ctx := shared.ContextWithActor(context.Background(), &shared.Actor{ID: uuid.New(), StaffID: &st.ID})

	svc.now = func() time.Time { return time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC) }
	a, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	require.NotNil(t, a.CheckIn)

	_, err = svc.CheckIn(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))

	svc.now = func() time.Time { return time.Date(2025, 7, 14, 18, 0, 0, 0, time.UTC) }
	closed, err := svc.CheckOut(ctx)
	require.NoError(t, err)
	require.NotNil(t, closed.WorkDuration)
	require.Equal(t, "9.00", closed.WorkDuration.StringFixed(2))
	require.Equal(t, AttendancePresent, closed.Status)
}

func TestRunDailyCutoffClosesAndMarksAbsent(t *testing.T) {
	svc, repo := newStaffService()
	working := seedStaff(repo)
	missing := seedStaff(repo)
	ctx := managerCtx()

	open := Attendance{
		ID: uuid.New(), StaffID: working.ID, Date: workday,
		CheckIn: at(workday, 9, 0), Status: AttendanceAbsent,
	}
	repo.attendance[open.ID] = open

	result, err := svc.RunDailyCutoff(ctx, workday)
	require.NoError(t, err)
	require.Equal(t, 1, result.ClosedCheckIns)
	require.Equal(t, 1, result.MarkedAbsent)

	closed, err := repo.GetAttendance(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOut)
	require.Equal(t, CutoffTime(workday), *closed.CheckOut)
	require.Equal(t, "11.00", closed.WorkDuration.StringFixed(2))
	require.Equal(t, AttendancePresent, closed.Status)

	marked, err := repo.FindAttendance(ctx, missing.ID, workday)
	require.NoError(t, err)
	require.Equal(t, AttendanceAbsent, marked.Status)
	require.Equal(t, AbsentRemark, marked.Remarks)
}

func TestRunDailyCutoffIsIdempotent(t *testing.T) {
	svc, repo := newStaffService()
	working := seedStaff(repo)
	seedStaff(repo)
	ctx := managerCtx()

	open := Attendance{
		ID: uuid.New(), StaffID: working.ID, Date: workday,
		CheckIn: at(workday, 9, 0), Status: AttendanceAbsent,
	}
	repo.attendance[open.ID] = open

	first, err := svc.RunDailyCutoff(ctx, workday)
	require.NoError(t, err)
	require.Equal(t, 1, first.ClosedCheckIns)
	require.Equal(t, 1, first.MarkedAbsent)

	second, err := svc.RunDailyCutoff(ctx, workday)
	require.NoError(t, err)
	require.Zero(t, second.ClosedCheckIns)
	require.Zero(t, second.MarkedAbsent)
	require.Len(t, repo.attendance, 2)
}
