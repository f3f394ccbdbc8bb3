package staff

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// presentThreshold is the derived duration, in hours, at which status is
// forced to present.
var presentThreshold = decimal.NewFromInt(8)

// payrollDivisor is a fixed 30-day month. Deliberately not calendar-accurate.
var payrollDivisor = decimal.NewFromInt(30)

// CutoffHour is the daily attendance cutoff (20:00 local).
const CutoffHour = 20

// AbsentRemark marks records created by the cutoff policy.
const AbsentRemark = "Auto-marked absent (no check-in by 8 PM)"

// DeriveAttendance fills WorkDuration and, when warranted, Status from the
// check times. Both times must fall on the record's date: spanning midnight
// is not supported. A duration of 8 hours or more forces status present;
// shorter durations leave the prior status untouched. Demotion is always an
// explicit input, never inferred.
func DeriveAttendance(a *Attendance) error {
	if a.CheckIn == nil || a.CheckOut == nil {
		return nil
	}
	if !sameDay(*a.CheckIn, a.Date) || !sameDay(*a.CheckOut, a.Date) {
		return fmt.Errorf("%w: check times must fall on the attendance date", httpx.ErrValidation)
	}
	span := a.CheckOut.Sub(*a.CheckIn)
	if span < 0 {
		return fmt.Errorf("%w: check-out cannot precede check-in", httpx.ErrValidation)
	}
	duration := decimal.NewFromFloat(span.Hours()).Round(2)
	a.WorkDuration = &duration
	if duration.GreaterThanOrEqual(presentThreshold) {
		a.Status = AttendancePresent
	}
	return nil
}

func sameDay(t, day time.Time) bool {
	ty, tm, td := t.Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}

// ComputeTotalSalary derives the payroll total. Attendance-based salaries
// prorate the base over the fixed 30-day divisor by present-day count.
func ComputeTotalSalary(p Payroll, presentDays int) decimal.Decimal {
	if p.SalaryType == SalaryAttendanceBased {
		return p.BaseSalary.Div(payrollDivisor).Mul(decimal.NewFromInt(int64(presentDays))).Round(2)
	}
	return p.BaseSalary
}

// CutoffTime returns the cutoff instant for a given day.
func CutoffTime(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), CutoffHour, 0, 0, 0, day.Location())
}
