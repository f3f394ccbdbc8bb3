package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

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

// --- staff ---

const staffColumns = `id, user_id, hotel_id, designation, department, joining_date, monthly_salary, status, created_at, updated_at`

func scanStaff(row pgx.Row) (Staff, error) {
	var s Staff
	var status string
	err := row.Scan(&s.ID, &s.UserID, &s.HotelID, &s.Designation, &s.Department,
		&s.JoiningDate, &s.MonthlySalary, &status, &s.CreatedAt, &s.UpdatedAt)
	s.Status = StaffStatus(status)
	return s, err
}

func (r *Repository) ListStaff(ctx context.Context, hotelID *uuid.UUID) ([]Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	var args []any
	if hotelID != nil {
		query += ` WHERE hotel_id = $1`
		args = append(args, *hotelID)
	}
	query += ` ORDER BY joining_date`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetStaff(ctx context.Context, id uuid.UUID) (Staff, error) {
	s, err := scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *Repository) CreateStaff(ctx context.Context, s Staff) (Staff, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO staff (id, user_id, hotel_id, designation, department, joining_date, monthly_salary, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		s.UserID, s.HotelID, s.Designation, s.Department, s.JoiningDate, s.MonthlySalary, string(s.Status)).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return Staff{}, fmt.Errorf("%w: user already has a staff profile", httpx.ErrConflict)
	}
	return s, err
}

func (r *Repository) UpdateStaff(ctx context.Context, s Staff) (Staff, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE staff SET hotel_id = $2, designation = $3, department = $4, monthly_salary = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING user_id, joining_date, created_at, updated_at`,
		s.ID, s.HotelID, s.Designation, s.Department, s.MonthlySalary, string(s.Status)).
		Scan(&s.UserID, &s.JoiningDate, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *Repository) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// --- attendance ---

const attendanceColumns = `id, staff_id, date, check_in, check_out, work_duration, status, remarks, created_at, updated_at`

func scanAttendance(row pgx.Row) (Attendance, error) {
	var a Attendance
	var status string
	err := row.Scan(&a.ID, &a.StaffID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.WorkDuration, &status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt)
	a.Status = AttendanceStatus(status)
	return a, err
}

func (r *Repository) ListAttendance(ctx context.Context, staffID *uuid.UUID, date *time.Time) ([]Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE 1=1`
	var args []any
	if staffID != nil {
		args = append(args, *staffID)
		query += fmt.Sprintf(` AND staff_id = $%d`, len(args))
	}
	if date != nil {
		args = append(args, *date)
		query += fmt.Sprintf(` AND date = $%d`, len(args))
	}
	query += ` ORDER BY date DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetAttendance(ctx context.Context, id uuid.UUID) (Attendance, error) {
	a, err := scanAttendance(r.pool.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *Repository) FindAttendance(ctx context.Context, staffID uuid.UUID, date time.Time) (Attendance, error) {
	a, err := scanAttendance(r.pool.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE staff_id = $1 AND date = $2`, staffID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *Repository) CreateAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attendance (id, staff_id, date, check_in, check_out, work_duration, status, remarks, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		a.StaffID, a.Date, a.CheckIn, a.CheckOut, a.WorkDuration, string(a.Status), a.Remarks).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return Attendance{}, fmt.Errorf("%w: attendance already recorded for this day", httpx.ErrConflict)
	}
	return a, err
}

func (r *Repository) UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE attendance SET check_in = $2, check_out = $3, work_duration = $4, status = $5, remarks = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING staff_id, date, created_at, updated_at`,
		a.ID, a.CheckIn, a.CheckOut, a.WorkDuration, string(a.Status), a.Remarks).
		Scan(&a.StaffID, &a.Date, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *Repository) ListOpenCheckIns(ctx context.Context, day time.Time) ([]Attendance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attendanceColumns+` FROM attendance
		WHERE date = $1 AND check_in IS NOT NULL AND check_out IS NULL`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) StaffIDsWithoutAttendance(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id FROM staff s
		WHERE s.status = 'active'
		  AND NOT EXISTS (SELECT 1 FROM attendance a WHERE a.staff_id = s.id AND a.date = $1)`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MarkAbsent inserts an absent record, reporting false when the (staff, date)
// pair already exists. The conflict target makes cutoff re-runs idempotent.
func (r *Repository) MarkAbsent(ctx context.Context, staffID uuid.UUID, day time.Time, remark string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO attendance (id, staff_id, date, status, remarks, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, 'absent', $3, NOW(), NOW())
		ON CONFLICT (staff_id, date) DO NOTHING`,
		staffID, day, remark)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) CountPresentDays(ctx context.Context, staffID uuid.UUID, month, year int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance
		WHERE staff_id = $1 AND status = 'present'
		  AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3`,
		staffID, month, year).Scan(&n)
	return n, err
}

// --- payroll ---

const payrollColumns = `id, staff_id, month, year, salary_type, base_salary, total_salary, created_at, updated_at`

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	var salaryType string
	err := row.Scan(&p.ID, &p.StaffID, &p.Month, &p.Year, &salaryType,
		&p.BaseSalary, &p.TotalSalary, &p.CreatedAt, &p.UpdatedAt)
	p.SalaryType = SalaryType(salaryType)
	return p, err
}

func (r *Repository) ListPayrolls(ctx context.Context, staffID *uuid.UUID) ([]Payroll, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll`
	var args []any
	if staffID != nil {
		query += ` WHERE staff_id = $1`
		args = append(args, *staffID)
	}
	query += ` ORDER BY year DESC, month DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) GetPayroll(ctx context.Context, id uuid.UUID) (Payroll, error) {
	p, err := scanPayroll(r.pool.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payroll WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *Repository) CreatePayroll(ctx context.Context, p Payroll) (Payroll, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payroll (id, staff_id, month, year, salary_type, base_salary, total_salary, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		p.StaffID, p.Month, p.Year, string(p.SalaryType), p.BaseSalary, p.TotalSalary).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return Payroll{}, fmt.Errorf("%w: payroll already exists for this month", httpx.ErrConflict)
	}
	return p, err
}

func (r *Repository) UpdatePayroll(ctx context.Context, p Payroll) (Payroll, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE payroll SET salary_type = $2, base_salary = $3, total_salary = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING staff_id, month, year, created_at, updated_at`,
		p.ID, string(p.SalaryType), p.BaseSalary, p.TotalSalary).
		Scan(&p.StaffID, &p.Month, &p.Year, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *Repository) DeletePayroll(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payroll WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
