package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

const employeeColumns = `
	id, first_name, last_name, email, phone, department, role, date_of_joining,
	salary_basic, salary_allowances, salary_deductions, photo, status, leave_allocation,
	created_at, updated_at, version
`

func employeeDst(e *domain.Employee) []any {
	return []any{
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Department, &e.Role, &e.DateOfJoining,
		&e.Salary.Basic, &e.Salary.Allowances, &e.Salary.Deductions, &e.Photo, &e.Status, &e.LeaveAllocation,
		&e.CreatedAt, &e.UpdatedAt, &e.Version,
	}
}

// nullableDate 把日期转换为 DATE 列可以接收的字符串
func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *Repository) CreateEmployee(e *domain.Employee) error {
	query := `
		INSERT INTO employees (
			first_name, last_name, email, phone, department, role, date_of_joining,
			salary_basic, salary_allowances, salary_deductions, photo, status, leave_allocation
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		e.FirstName, e.LastName, e.Email, e.Phone, e.Department, e.Role, nullableDate(e.DateOfJoining),
		e.Salary.Basic, e.Salary.Allowances, e.Salary.Deductions, e.Photo, e.Status, nullableInt(e.LeaveAllocation),
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt, &e.Version); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	e := &domain.Employee{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(employeeDst(e)...); err != nil {
		return nil, err
	}

	return e, nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryEmployees(ctx, query)
}

func (r *Repository) queryEmployees(ctx context.Context, query string, args ...any) ([]*domain.Employee, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		e := &domain.Employee{}
		if err := rows.Scan(employeeDst(e)...); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// ListEmployees 按过滤条件分页查询员工，同时返回满足条件的总数
func (r *Repository) ListEmployees(filter domain.EmployeeFilter) ([]*domain.Employee, int, error) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	total := 0
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY id LIMIT $%d OFFSET $%d`, employeeColumns, where, len(args)-1, len(args))

	employees, err := r.queryEmployees(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *Repository) UpdateEmployee(e *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			phone = $4,
			department = $5,
			role = $6,
			date_of_joining = $7::date,
			salary_basic = $8,
			salary_allowances = $9,
			salary_deductions = $10,
			photo = $11,
			status = $12,
			leave_allocation = $13,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $14 AND version = $15
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		e.FirstName, e.LastName, e.Email, e.Phone, e.Department, e.Role, nullableDate(e.DateOfJoining),
		e.Salary.Basic, e.Salary.Allowances, e.Salary.Deductions, e.Photo, e.Status, nullableInt(e.LeaveAllocation),
		e.ID, e.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&e.UpdatedAt, &e.Version); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// CountEmployees 统计员工数量，status 为空时统计全部
func (r *Repository) CountEmployees(status domain.EmployeeStatus) (int, error) {
	query := `
		SELECT COUNT(*) FROM employees WHERE $1 = '' OR status = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	count := 0
	if err := r.dbpool.QueryRowContext(ctx, query, string(status)).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
