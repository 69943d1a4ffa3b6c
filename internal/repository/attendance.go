package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.total_hours, a.note, a.created_at, a.updated_at, a.version
`

func attendanceDst(rec *domain.AttendanceRecord) []any {
	return []any{
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.TotalHours, &rec.Note,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.Version,
	}
}

// joinedEmployee 用于扫描 LEFT JOIN 得到的员工列，员工被删除时所有列都为 NULL
type joinedEmployee struct {
	ID         sql.NullInt64
	FirstName  sql.NullString
	LastName   sql.NullString
	Email      sql.NullString
	Department sql.NullString
	Role       sql.NullString
	Status     sql.NullString
}

const joinedEmployeeColumns = `e.id, e.first_name, e.last_name, e.email, e.department, e.role, e.status`

func (j *joinedEmployee) dst() []any {
	return []any{&j.ID, &j.FirstName, &j.LastName, &j.Email, &j.Department, &j.Role, &j.Status}
}

func (j *joinedEmployee) employee() *domain.Employee {
	if !j.ID.Valid {
		return nil
	}
	return &domain.Employee{
		ID:         j.ID.Int64,
		FirstName:  j.FirstName.String,
		LastName:   j.LastName.String,
		Email:      j.Email.String,
		Department: j.Department.String,
		Role:       j.Role.String,
		Status:     domain.EmployeeStatus(j.Status.String),
	}
}

func (r *Repository) CreateAttendance(rec *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (employee_id, date, check_in, check_out, total_hours, note)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{rec.EmployeeID, rec.Date.Format(time.DateOnly), rec.CheckIn, rec.CheckOut, rec.TotalHours, rec.Note}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &rec.Version); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetAttendanceByID(id int64) (*domain.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rec := &domain.AttendanceRecord{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(attendanceDst(rec)...); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *Repository) GetAttendanceByEmployeeAndDate(employeeID int64, day time.Time) (*domain.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.employee_id = $1 AND a.date = $2::date`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rec := &domain.AttendanceRecord{}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID, day.Format(time.DateOnly)).Scan(attendanceDst(rec)...); err != nil {
		return nil, err
	}

	return rec, nil
}

// CloseAttendance 写入签退时间，并发签退时只有一个请求能成功
func (r *Repository) CloseAttendance(rec *domain.AttendanceRecord) error {
	query := `
		UPDATE attendance
		SET
			check_out = $1,
			total_hours = $2,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $3 AND check_out IS NULL
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{rec.CheckOut, rec.TotalHours, rec.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rec.UpdatedAt, &rec.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAttendance(rec *domain.AttendanceRecord) error {
	query := `
		UPDATE attendance
		SET
			date = $1::date,
			check_in = $2,
			check_out = $3,
			total_hours = $4,
			note = $5,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{rec.Date.Format(time.DateOnly), rec.CheckIn, rec.CheckOut, rec.TotalHours, rec.Note, rec.ID, rec.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rec.UpdatedAt, &rec.Version); err != nil {
		return translateError(err)
	}

	return nil
}

// QueryAttendance 按条件查询考勤记录，并带上员工信息
func (r *Repository) QueryAttendance(filter domain.AttendanceFilter) ([]*domain.AttendanceRecord, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, filter.DateFrom.Format(time.DateOnly))
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d::date", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, filter.DateTo.Format(time.DateOnly))
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d::date", len(args)))
	}

	query := `SELECT ` + attendanceColumns + `, ` + joinedEmployeeColumns + `
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date DESC, a.id DESC"

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		rec := &domain.AttendanceRecord{}
		emp := &joinedEmployee{}
		if err := rows.Scan(append(attendanceDst(rec), emp.dst()...)...); err != nil {
			return nil, err
		}
		rec.Employee = emp.employee()
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountAttendanceByDay 统计 since 之后每天的考勤记录数
func (r *Repository) CountAttendanceByDay(since time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT date, COUNT(*) FROM attendance
		WHERE date >= $1::date
		GROUP BY date
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, since.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.DailyCount, 0)
	for rows.Next() {
		c := domain.DailyCount{}
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
