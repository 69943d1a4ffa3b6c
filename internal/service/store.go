package service

import (
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

// Store 是业务层依赖的持久化接口
//
// 查询不到记录时返回 sql.ErrNoRows；违反唯一约束时返回对应的 domain 错误
// （例如同一员工同一天重复签到返回 domain.ErrDuplicateCheckIn）。
type Store interface {
	CreateUser(user *domain.User) error
	GetUserByID(id int64) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)
	UpdateUser(user *domain.User) error

	CreateEmployee(e *domain.Employee) error
	GetEmployeeByID(id int64) (*domain.Employee, error)
	GetAllEmployees() ([]*domain.Employee, error)
	ListEmployees(filter domain.EmployeeFilter) ([]*domain.Employee, int, error)
	UpdateEmployee(e *domain.Employee) error
	DeleteEmployee(id int64) error
	CountEmployees(status domain.EmployeeStatus) (int, error)

	CreateAttendance(rec *domain.AttendanceRecord) error
	GetAttendanceByID(id int64) (*domain.AttendanceRecord, error)
	GetAttendanceByEmployeeAndDate(employeeID int64, day time.Time) (*domain.AttendanceRecord, error)
	// CloseAttendance 只会更新 check_out 仍为空的记录，否则返回 sql.ErrNoRows
	CloseAttendance(rec *domain.AttendanceRecord) error
	UpdateAttendance(rec *domain.AttendanceRecord) error
	QueryAttendance(filter domain.AttendanceFilter) ([]*domain.AttendanceRecord, error)
	CountAttendanceByDay(since time.Time) ([]domain.DailyCount, error)

	CreateLeave(leave *domain.LeaveRequest) error
	GetLeaveByID(id int64) (*domain.LeaveRequest, error)
	// UpdateLeaveStatus 在 from 非空时只更新当前状态为 from 的申请，否则返回 sql.ErrNoRows
	UpdateLeaveStatus(leave *domain.LeaveRequest, from domain.LeaveStatus) error
	ListLeaves(status domain.LeaveStatus) ([]*domain.LeaveRequest, error)
	SumApprovedLeaveDays() (map[int64]int, error)

	InsertAuditEntry(entry *domain.AuditEntry) error
	ListAuditEntries(limit int) ([]*domain.AuditEntry, error)
}

// MailPublisher 将邮件投递到消息队列，由 mail worker 负责真正发送
type MailPublisher interface {
	Publish(msg domain.MailMessage) error
}
