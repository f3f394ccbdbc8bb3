// Package staff covers staff profiles, attendance with derived work
// duration, and payroll with attendance-based salary computation.
package staff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/audit"
)

// StaffStatus is the employment state.
type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
	StaffOnLeave  StaffStatus = "on_leave"
)

// AttendanceStatus is derived when both times are present, otherwise it is
// whatever was explicitly set.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLeave   AttendanceStatus = "leave"
)

// SalaryType selects the payroll computation.
type SalaryType string

const (
	SalaryMonthly         SalaryType = "monthly"
	SalaryAttendanceBased SalaryType = "attendance_based"
)

// Staff is an employee profile linked to a user account.
type Staff struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	HotelID       *uuid.UUID
	Designation   string
	Department    string
	JoiningDate   time.Time
	MonthlySalary decimal.Decimal
	Status        StaffStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s Staff) AuditResource() string { return "staff" }
func (s Staff) AuditID() string       { return s.ID.String() }

func (s Staff) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":             s.ID,
		"user_id":        s.UserID,
		"hotel_id":       s.HotelID,
		"designation":    s.Designation,
		"department":     s.Department,
		"joining_date":   s.JoiningDate.Format("2006-01-02"),
		"monthly_salary": s.MonthlySalary.StringFixed(2),
		"status":         string(s.Status),
	})
}

// Attendance is one (staff, date) record. WorkDuration and, above the
// threshold, Status are derived from the check times, never set directly.
type Attendance struct {
	ID           uuid.UUID
	StaffID      uuid.UUID
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	WorkDuration *decimal.Decimal
	Status       AttendanceStatus
	Remarks      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open reports a check-in with no matching check-out.
func (a Attendance) Open() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

func (a Attendance) AuditResource() string { return "attendance" }
func (a Attendance) AuditID() string       { return a.ID.String() }

func (a Attendance) AuditSnapshot() audit.Snapshot {
	var duration any
	if a.WorkDuration != nil {
		duration = a.WorkDuration.StringFixed(2)
	}
	return audit.Fields(map[string]any{
		"id":            a.ID,
		"staff_id":      a.StaffID,
		"date":          a.Date.Format("2006-01-02"),
		"check_in":      a.CheckIn,
		"check_out":     a.CheckOut,
		"work_duration": duration,
		"status":        string(a.Status),
		"remarks":       a.Remarks,
	})
}

// Payroll is one (staff, month, year) record. TotalSalary is recomputed on
// every save.
type Payroll struct {
	ID          uuid.UUID
	StaffID     uuid.UUID
	Month       int
	Year        int
	SalaryType  SalaryType
	BaseSalary  decimal.Decimal
	TotalSalary decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Payroll) AuditResource() string { return "payroll" }
func (p Payroll) AuditID() string       { return p.ID.String() }

func (p Payroll) AuditSnapshot() audit.Snapshot {
	return audit.Fields(map[string]any{
		"id":           p.ID,
		"staff_id":     p.StaffID,
		"month":        p.Month,
		"year":         p.Year,
		"salary_type":  string(p.SalaryType),
		"base_salary":  p.BaseSalary.StringFixed(2),
		"total_salary": p.TotalSalary.StringFixed(2),
	})
}
