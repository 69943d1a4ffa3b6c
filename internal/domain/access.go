package domain

import "slices"

type Operation string

const (
	OpRegisterUser     Operation = "register_user"
	OpListUsers        Operation = "list_users"
	OpReadEmployees    Operation = "read_employees"
	OpManageEmployees  Operation = "manage_employees"
	OpCheckInOut       Operation = "check_in_out"
	OpQueryAttendance  Operation = "query_attendance"
	OpAdjustAttendance Operation = "adjust_attendance"
	OpApplyLeave       Operation = "apply_leave"
	OpListLeaves       Operation = "list_leaves"
	OpDecideLeave      Operation = "decide_leave"
	OpListPending      Operation = "list_pending_leaves"
	OpViewBalances     Operation = "view_balances"
	OpGeneratePayroll  Operation = "generate_payroll"
	OpViewReports      Operation = "view_reports"
	OpViewAudit        Operation = "view_audit"
)

var (
	adminHR        = []Role{RoleAdmin, RoleHR}
	supervisors    = []Role{RoleAdmin, RoleHR, RoleManager}
	authenticated  = []Role{RoleAdmin, RoleHR, RoleManager, RoleEmployee}
	permissionsMap = map[Operation][]Role{
		OpRegisterUser:     adminHR,
		OpListUsers:        adminHR,
		OpManageEmployees:  adminHR,
		OpGeneratePayroll:  adminHR,
		OpViewAudit:        adminHR,
		OpAdjustAttendance: supervisors,
		OpDecideLeave:      supervisors,
		OpListPending:      supervisors,
		OpReadEmployees:    authenticated,
		OpCheckInOut:       authenticated,
		OpQueryAttendance:  authenticated,
		OpApplyLeave:       authenticated,
		OpListLeaves:       authenticated,
		OpViewBalances:     authenticated,
		OpViewReports:      authenticated,
	}
)

// RolesFor 返回允许执行某个操作的角色，未登记的操作不允许任何角色执行
func RolesFor(op Operation) []Role {
	return slices.Clone(permissionsMap[op])
}

// Actor 是发起操作的已登录用户
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) Can(op Operation) bool {
	return slices.Contains(permissionsMap[op], a.Role)
}
