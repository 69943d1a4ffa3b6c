package domain

import (
	"strings"
	"time"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// DefaultLeaveAllocation 是未设置假期额度时使用的天数
const DefaultLeaveAllocation = 12

type Salary struct {
	Basic      float64 `json:"basic"`
	Allowances float64 `json:"allowances"`
	Deductions float64 `json:"deductions"`
}

func (s Salary) Gross() float64 {
	return s.Basic + s.Allowances
}

func (s Salary) Net() float64 {
	return s.Gross() - s.Deductions
}

type Employee struct {
	ID              int64          `json:"id"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Department      string         `json:"department"`
	Role            string         `json:"role"`
	DateOfJoining   *time.Time     `json:"dateOfJoining"`
	Salary          Salary         `json:"salary"`
	Photo           string         `json:"photo"`
	Status          EmployeeStatus `json:"status"`
	LeaveAllocation *int           `json:"leaveAllocation"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Version         int32          `json:"-"`
}

// DisplayName 拼接姓和名，缺失的部分不会留下多余的空格
func (e *Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Allocation 返回员工的假期额度，未设置时返回 fallback
func (e *Employee) Allocation(fallback int) int {
	if e.LeaveAllocation == nil {
		return fallback
	}
	return *e.LeaveAllocation
}

// Details 生成用于审计日志的员工快照
func (e *Employee) Details() Details {
	d := Details{
		"firstName":  String(e.FirstName),
		"lastName":   String(e.LastName),
		"email":      String(e.Email),
		"phone":      String(e.Phone),
		"department": String(e.Department),
		"role":       String(e.Role),
		"status":     String(string(e.Status)),
		"basic":      Number(e.Salary.Basic),
		"allowances": Number(e.Salary.Allowances),
		"deductions": Number(e.Salary.Deductions),
	}
	if e.DateOfJoining != nil {
		d["dateOfJoining"] = Time(*e.DateOfJoining)
	}
	if e.LeaveAllocation != nil {
		d["leaveAllocation"] = Number(float64(*e.LeaveAllocation))
	}
	return d
}

type EmployeeFilter struct {
	Query      string
	Department string
	Role       string
	Status     EmployeeStatus
	Page       int
	Limit      int
}
