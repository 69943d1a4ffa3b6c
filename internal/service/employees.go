package service

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

// EmployeePatch 中为 nil 的字段保持不变
type EmployeePatch struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	Department      *string
	Role            *string
	DateOfJoining   *time.Time
	Basic           *float64
	Allowances      *float64
	Deductions      *float64
	Photo           *string
	Status          *domain.EmployeeStatus
	LeaveAllocation *int
}

func (p EmployeePatch) apply(e *domain.Employee) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Email != nil {
		e.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Role != nil {
		e.Role = *p.Role
	}
	if p.DateOfJoining != nil {
		e.DateOfJoining = p.DateOfJoining
	}
	if p.Basic != nil {
		e.Salary.Basic = *p.Basic
	}
	if p.Allowances != nil {
		e.Salary.Allowances = *p.Allowances
	}
	if p.Deductions != nil {
		e.Salary.Deductions = *p.Deductions
	}
	if p.Photo != nil {
		e.Photo = *p.Photo
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.LeaveAllocation != nil {
		n := *p.LeaveAllocation
		e.LeaveAllocation = &n
	}
}

func (p EmployeePatch) details() domain.Details {
	d := domain.Details{}
	str := func(key string, v *string) {
		if v != nil {
			d[key] = domain.String(*v)
		}
	}
	num := func(key string, v *float64) {
		if v != nil {
			d[key] = domain.Number(*v)
		}
	}

	str("firstName", p.FirstName)
	str("lastName", p.LastName)
	str("email", p.Email)
	str("phone", p.Phone)
	str("department", p.Department)
	str("role", p.Role)
	str("photo", p.Photo)
	num("basic", p.Basic)
	num("allowances", p.Allowances)
	num("deductions", p.Deductions)
	if p.DateOfJoining != nil {
		d["dateOfJoining"] = domain.Time(*p.DateOfJoining)
	}
	if p.Status != nil {
		d["status"] = domain.String(string(*p.Status))
	}
	if p.LeaveAllocation != nil {
		d["leaveAllocation"] = domain.Int(int64(*p.LeaveAllocation))
	}
	return d
}

func validateEmployee(e *domain.Employee) error {
	if e.Email == "" {
		return domain.NewValidationError("员工邮箱不能为空")
	}
	if e.Status != domain.EmployeeActive && e.Status != domain.EmployeeInactive {
		return domain.NewValidationError("无效的员工状态: " + string(e.Status))
	}
	if e.LeaveAllocation != nil && *e.LeaveAllocation < 0 {
		return domain.NewValidationError("假期额度不能为负数")
	}
	return nil
}

func (s *Service) CreateEmployee(actor domain.Actor, patch EmployeePatch) (*domain.Employee, error) {
	if err := s.authorize(actor, domain.OpManageEmployees); err != nil {
		return nil, err
	}

	e := &domain.Employee{Status: domain.EmployeeActive}
	patch.apply(e)
	if e.LeaveAllocation == nil {
		n := s.config.Leave.DefaultAllocation
		e.LeaveAllocation = &n
	}
	if err := validateEmployee(e); err != nil {
		return nil, err
	}

	if err := s.store.CreateEmployee(e); err != nil {
		return nil, err
	}

	s.record(actor, domain.ActionCreate, domain.EntityEmployee, strconv.FormatInt(e.ID, 10), e.Details())

	return e, nil
}

func (s *Service) GetEmployee(actor domain.Actor, id int64) (*domain.Employee, error) {
	if err := s.authorize(actor, domain.OpReadEmployees); err != nil {
		return nil, err
	}
	return s.getEmployee(id)
}

func (s *Service) ListEmployees(actor domain.Actor, filter domain.EmployeeFilter) ([]*domain.Employee, int, error) {
	if err := s.authorize(actor, domain.OpReadEmployees); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 100
	}

	return s.store.ListEmployees(filter)
}

func (s *Service) UpdateEmployee(actor domain.Actor, id int64, patch EmployeePatch) (*domain.Employee, error) {
	if err := s.authorize(actor, domain.OpManageEmployees); err != nil {
		return nil, err
	}

	e, err := s.getEmployee(id)
	if err != nil {
		return nil, err
	}

	patch.apply(e)
	if err := validateEmployee(e); err != nil {
		return nil, err
	}

	if err := s.store.UpdateEmployee(e); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrVersionConflict
		default:
			return nil, err
		}
	}

	s.record(actor, domain.ActionUpdate, domain.EntityEmployee, strconv.FormatInt(e.ID, 10), patch.details())

	return e, nil
}

// DeleteEmployee 不会级联删除考勤和请假记录
func (s *Service) DeleteEmployee(actor domain.Actor, id int64) (*domain.Employee, error) {
	if err := s.authorize(actor, domain.OpManageEmployees); err != nil {
		return nil, err
	}

	e, err := s.getEmployee(id)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteEmployee(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrEmployeeNotFound
		default:
			return nil, err
		}
	}

	s.record(actor, domain.ActionDelete, domain.EntityEmployee, strconv.FormatInt(e.ID, 10), e.Details())

	return e, nil
}
