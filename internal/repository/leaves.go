package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

const leaveColumns = `
	l.id, l.employee_id, l.type, l.start_date, l.end_date, l.days, l.reason, l.status, l.applied_by, l.created_at, l.updated_at
`

func leaveDst(leave *domain.LeaveRequest) []any {
	return []any{
		&leave.ID, &leave.EmployeeID, &leave.Type, &leave.StartDate, &leave.EndDate, &leave.Days, &leave.Reason,
		&leave.Status, &leave.AppliedBy, &leave.CreatedAt, &leave.UpdatedAt,
	}
}

func (r *Repository) CreateLeave(leave *domain.LeaveRequest) error {
	query := `
		INSERT INTO leaves (employee_id, type, start_date, end_date, days, reason, status, applied_by)
		VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		leave.EmployeeID, leave.Type, leave.StartDate.Format(time.DateOnly), leave.EndDate.Format(time.DateOnly),
		leave.Days, leave.Reason, leave.Status, leave.AppliedBy,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&leave.ID, &leave.CreatedAt, &leave.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetLeaveByID(id int64) (*domain.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves l WHERE l.id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	leave := &domain.LeaveRequest{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(leaveDst(leave)...); err != nil {
		return nil, err
	}

	return leave, nil
}

// UpdateLeaveStatus 写入审批结果，from 非空时要求申请当前仍处于 from 状态
func (r *Repository) UpdateLeaveStatus(leave *domain.LeaveRequest, from domain.LeaveStatus) error {
	query := `
		UPDATE leaves
		SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2 AND ($3 = '' OR status = $3)
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, leave.Status, leave.ID, string(from)).Scan(&leave.UpdatedAt); err != nil {
		return err
	}

	return nil
}

// ListLeaves 查询请假申请并带上员工和申请人信息，status 为空时返回全部
func (r *Repository) ListLeaves(status domain.LeaveStatus) ([]*domain.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + `, ` + joinedEmployeeColumns + `, u.id, u.name, u.email, u.role
		FROM leaves l
		LEFT JOIN employees e ON e.id = l.employee_id
		LEFT JOIN users u ON u.id = l.applied_by
		WHERE $1 = '' OR l.status = $1
		ORDER BY l.created_at DESC, l.id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaves := make([]*domain.LeaveRequest, 0)
	for rows.Next() {
		leave := &domain.LeaveRequest{}
		emp := &joinedEmployee{}
		applicant := &joinedUser{}

		dst := append(leaveDst(leave), emp.dst()...)
		dst = append(dst, applicant.dst()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		leave.Employee = emp.employee()
		leave.Applicant = applicant.user()
		leaves = append(leaves, leave)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return leaves, nil
}

// SumApprovedLeaveDays 汇总每个员工已批准的请假天数
func (r *Repository) SumApprovedLeaveDays() (map[int64]int, error) {
	query := `
		SELECT employee_id, COALESCE(SUM(days), 0) FROM leaves
		WHERE status = 'approved'
		GROUP BY employee_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	used := make(map[int64]int)
	for rows.Next() {
		var employeeID int64
		var days int
		if err := rows.Scan(&employeeID, &days); err != nil {
			return nil, err
		}
		used[employeeID] = days
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return used, nil
}

// joinedUser 用于扫描 LEFT JOIN 得到的用户列
type joinedUser struct {
	ID    sql.NullInt64
	Name  sql.NullString
	Email sql.NullString
	Role  sql.NullString
}

func (j *joinedUser) dst() []any {
	return []any{&j.ID, &j.Name, &j.Email, &j.Role}
}

func (j *joinedUser) user() *domain.User {
	if !j.ID.Valid {
		return nil
	}
	return &domain.User{
		ID:    j.ID.Int64,
		Name:  j.Name.String,
		Email: j.Email.String,
		Role:  domain.Role(j.Role.String),
	}
}
