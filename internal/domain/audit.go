package domain

import "time"

const (
	ActionCheckIn         = "checkin"
	ActionCheckOut        = "checkout"
	ActionCreate          = "create"
	ActionUpdate          = "update"
	ActionDelete          = "delete"
	ActionApplyLeave      = "apply_leave"
	ActionApproveLeave    = "approve_leave"
	ActionRejectLeave     = "reject_leave"
	ActionCreateUser      = "create_user"
	ActionGeneratePayroll = "generate_payroll"
)

const (
	EntityAttendance = "Attendance"
	EntityLeave      = "Leave"
	EntityEmployee   = "Employee"
	EntityUser       = "User"
	EntityPayroll    = "Payroll"
)

type AuditEntry struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actorId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Details    Details   `json:"details"`
	Actor      *User     `json:"actor,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
