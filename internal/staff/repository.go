package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access for the staff module. The cutoff
// helpers are shaped for idempotent re-runs: MarkAbsent is a no-op on an
// existing (staff, date) pair.
type RepositoryPort interface {
	ListStaff(ctx context.Context, hotelID *uuid.UUID) ([]Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (Staff, error)
	CreateStaff(ctx context.Context, s Staff) (Staff, error)
	UpdateStaff(ctx context.Context, s Staff) (Staff, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error

	ListAttendance(ctx context.Context, staffID *uuid.UUID, date *time.Time) ([]Attendance, error)
	GetAttendance(ctx context.Context, id uuid.UUID) (Attendance, error)
	FindAttendance(ctx context.Context, staffID uuid.UUID, date time.Time) (Attendance, error)
	CreateAttendance(ctx context.Context, a Attendance) (Attendance, error)
	UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error)

	ListOpenCheckIns(ctx context.Context, day time.Time) ([]Attendance, error)
	StaffIDsWithoutAttendance(ctx context.Context, day time.Time) ([]uuid.UUID, error)
	MarkAbsent(ctx context.Context, staffID uuid.UUID, day time.Time, remark string) (bool, error)
	CountPresentDays(ctx context.Context, staffID uuid.UUID, month, year int) (int, error)

	ListPayrolls(ctx context.Context, staffID *uuid.UUID) ([]Payroll, error)
	GetPayroll(ctx context.Context, id uuid.UUID) (Payroll, error)
	CreatePayroll(ctx context.Context, p Payroll) (Payroll, error)
	UpdatePayroll(ctx context.Context, p Payroll) (Payroll, error)
	DeletePayroll(ctx context.Context, id uuid.UUID) error
}
