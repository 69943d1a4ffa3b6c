package domain

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID         int64       `json:"id"`
	EmployeeID int64       `json:"employeeId"`
	Type       string      `json:"type"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Days       int         `json:"days"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	AppliedBy  int64       `json:"appliedBy"`
	Employee   *Employee   `json:"employee,omitempty"`
	Applicant  *User       `json:"applicant,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type LeaveBalance struct {
	EmployeeID int64  `json:"employeeId"`
	Name       string `json:"name"`
	Allocation int    `json:"allocation"`
	UsedDays   int    `json:"usedDays"`
	Remaining  int    `json:"remaining"`
}
