package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/audit"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// Service handles staff module business logic. Attendance and payroll
// derivations run on every save, and the daily cutoff policy lives here as a
// plain method so the scheduler stays a thin trigger.
type Service struct {
	repo     RepositoryPort
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now}
}

// --- staff ---

func (s *Service) ListStaff(ctx context.Context, hotelID *uuid.UUID) ([]Staff, error) {
	return s.repo.ListStaff(ctx, hotelID)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (Staff, error) {
	return s.repo.GetStaff(ctx, id)
}

func (s *Service) CreateStaff(ctx context.Context, st Staff) (Staff, error) {
	if st.MonthlySalary.IsNegative() {
		return Staff{}, fmt.Errorf("%w: salary cannot be negative", httpx.ErrValidation)
	}
	if st.Status == "" {
		st.Status = StaffActive
	}
	if st.JoiningDate.IsZero() {
		st.JoiningDate = s.now()
	}
	created, err := s.repo.CreateStaff(ctx, st)
	if err != nil {
		return Staff{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateStaff(ctx context.Context, st Staff) (Staff, error) {
	if st.MonthlySalary.IsNegative() {
		return Staff{}, fmt.Errorf("%w: salary cannot be negative", httpx.ErrValidation)
	}
	before, err := s.repo.GetStaff(ctx, st.ID)
	if err != nil {
		return Staff{}, err
	}
	updated, err := s.repo.UpdateStaff(ctx, st)
	if err != nil {
		return Staff{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteStaff(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}

// --- attendance ---

func (s *Service) ListAttendance(ctx context.Context, staffID *uuid.UUID, date *time.Time) ([]Attendance, error) {
	return s.repo.ListAttendance(ctx, staffID, date)
}

func (s *Service) GetAttendance(ctx context.Context, id uuid.UUID) (Attendance, error) {
	return s.repo.GetAttendance(ctx, id)
}

func (s *Service) CreateAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	if _, err := s.repo.GetStaff(ctx, a.StaffID); err != nil {
		return Attendance{}, err
	}
	if a.Status == "" {
		a.Status = AttendanceAbsent
	}
	if err := DeriveAttendance(&a); err != nil {
		return Attendance{}, err
	}
	created, err := s.repo.CreateAttendance(ctx, a)
	if err != nil {
		return Attendance{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	before, err := s.repo.GetAttendance(ctx, a.ID)
	if err != nil {
		return Attendance{}, err
	}
	a.StaffID = before.StaffID
	a.Date = before.Date
	if a.Status == "" {
		a.Status = before.Status
	}
	if err := DeriveAttendance(&a); err != nil {
		return Attendance{}, err
	}
	updated, err := s.repo.UpdateAttendance(ctx, a)
	if err != nil {
		return Attendance{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

// linkedStaffID resolves the acting user's staff profile for self-service
// attendance.
func linkedStaffID(ctx context.Context) (uuid.UUID, error) {
	actor := shared.ActorFromContext(ctx)
	if actor == nil {
		return uuid.Nil, httpx.ErrUnauthorized
	}
	if actor.StaffID == nil {
		return uuid.Nil, fmt.Errorf("%w: %w: no staff profile linked to this account", httpx.ErrValidation, shared.ErrMissingLinkage)
	}
	return *actor.StaffID, nil
}

// CheckIn opens today's attendance record for the acting user's staff
// profile.
func (s *Service) CheckIn(ctx context.Context) (Attendance, error) {
	staffID, err := linkedStaffID(ctx)
	if err != nil {
		return Attendance{}, err
	}
	now := s.now()
	day := dayOf(now)
	if existing, err := s.repo.FindAttendance(ctx, staffID, day); err == nil {
		if existing.CheckIn != nil {
			return Attendance{}, fmt.Errorf("%w: already checked in today", httpx.ErrConflict)
		}
		existing.CheckIn = &now
		return s.UpdateAttendance(ctx, existing)
	}
	return s.CreateAttendance(ctx, Attendance{StaffID: staffID, Date: day, CheckIn: &now})
}

// CheckOut closes today's open record, triggering the duration derivation.
func (s *Service) CheckOut(ctx context.Context) (Attendance, error) {
	staffID, err := linkedStaffID(ctx)
	if err != nil {
		return Attendance{}, err
	}
	now := s.now()
	existing, err := s.repo.FindAttendance(ctx, staffID, dayOf(now))
	if err != nil {
		return Attendance{}, fmt.Errorf("%w: no check-in recorded today", httpx.ErrValidation)
	}
	if existing.CheckIn == nil {
		return Attendance{}, fmt.Errorf("%w: no check-in recorded today", httpx.ErrValidation)
	}
	if existing.CheckOut != nil {
		return Attendance{}, fmt.Errorf("%w: already checked out today", httpx.ErrConflict)
	}
	existing.CheckOut = &now
	return s.UpdateAttendance(ctx, existing)
}

// CutoffResult reports what a cutoff run changed.
type CutoffResult struct {
	ClosedCheckIns int
	MarkedAbsent   int
}

// RunDailyCutoff closes every open check-in for the day at the 20:00 cutoff
// and marks staff with no record at all as absent. Safe to re-run: closed
// records no longer match the open filter, and the absent insert skips
// existing (staff, date) pairs.
func (s *Service) RunDailyCutoff(ctx context.Context, day time.Time) (CutoffResult, error) {
	var result CutoffResult
	day = dayOf(day)
	cutoff := CutoffTime(day)

	open, err := s.repo.ListOpenCheckIns(ctx, day)
	if err != nil {
		return result, err
	}
	for _, a := range open {
		a.CheckOut = &cutoff
		if err := DeriveAttendance(&a); err != nil {
			return result, err
		}
		if _, err := s.repo.UpdateAttendance(ctx, a); err != nil {
			return result, err
		}
		result.ClosedCheckIns++
	}

	missing, err := s.repo.StaffIDsWithoutAttendance(ctx, day)
	if err != nil {
		return result, err
	}
	for _, staffID := range missing {
		inserted, err := s.repo.MarkAbsent(ctx, staffID, day, AbsentRemark)
		if err != nil {
			return result, err
		}
		if inserted {
			result.MarkedAbsent++
		}
	}
	return result, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// --- payroll ---

func (s *Service) ListPayrolls(ctx context.Context, staffID *uuid.UUID) ([]Payroll, error) {
	return s.repo.ListPayrolls(ctx, staffID)
}

func (s *Service) GetPayroll(ctx context.Context, id uuid.UUID) (Payroll, error) {
	return s.repo.GetPayroll(ctx, id)
}

func (s *Service) validatePayroll(p Payroll) error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", httpx.ErrValidation)
	}
	if p.BaseSalary.IsNegative() {
		return fmt.Errorf("%w: base salary cannot be negative", httpx.ErrValidation)
	}
	if p.SalaryType != SalaryMonthly && p.SalaryType != SalaryAttendanceBased {
		return fmt.Errorf("%w: unknown salary type", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) deriveTotal(ctx context.Context, p *Payroll) error {
	presentDays := 0
	if p.SalaryType == SalaryAttendanceBased {
		n, err := s.repo.CountPresentDays(ctx, p.StaffID, p.Month, p.Year)
		if err != nil {
			return err
		}
		presentDays = n
	}
	p.TotalSalary = ComputeTotalSalary(*p, presentDays)
	return nil
}

func (s *Service) CreatePayroll(ctx context.Context, p Payroll) (Payroll, error) {
	if err := s.validatePayroll(p); err != nil {
		return Payroll{}, err
	}
	if _, err := s.repo.GetStaff(ctx, p.StaffID); err != nil {
		return Payroll{}, err
	}
	if err := s.deriveTotal(ctx, &p); err != nil {
		return Payroll{}, err
	}
	created, err := s.repo.CreatePayroll(ctx, p)
	if err != nil {
		return Payroll{}, err
	}
	s.recorder.Created(ctx, created)
	return created, nil
}

func (s *Service) UpdatePayroll(ctx context.Context, p Payroll) (Payroll, error) {
	before, err := s.repo.GetPayroll(ctx, p.ID)
	if err != nil {
		return Payroll{}, err
	}
	p.StaffID = before.StaffID
	p.Month = before.Month
	p.Year = before.Year
	if err := s.validatePayroll(p); err != nil {
		return Payroll{}, err
	}
	if err := s.deriveTotal(ctx, &p); err != nil {
		return Payroll{}, err
	}
	updated, err := s.repo.UpdatePayroll(ctx, p)
	if err != nil {
		return Payroll{}, err
	}
	s.recorder.Updated(ctx, before.AuditSnapshot(), updated)
	return updated, nil
}

func (s *Service) DeletePayroll(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetPayroll(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePayroll(ctx, id); err != nil {
		return err
	}
	s.recorder.Deleted(ctx, before)
	return nil
}
