package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorCan(t *testing.T) {
	tests := []struct {
		role Role
		op   Operation
		want bool
	}{
		{RoleAdmin, OpManageEmployees, true},
		{RoleHR, OpManageEmployees, true},
		{RoleManager, OpManageEmployees, false},
		{RoleEmployee, OpManageEmployees, false},
		{RoleManager, OpDecideLeave, true},
		{RoleEmployee, OpDecideLeave, false},
		{RoleManager, OpAdjustAttendance, true},
		{RoleEmployee, OpAdjustAttendance, false},
		{RoleEmployee, OpCheckInOut, true},
		{RoleEmployee, OpApplyLeave, true},
		{RoleManager, OpViewAudit, false},
		{RoleHR, OpViewAudit, true},
		{Role("intern"), OpCheckInOut, false},
	}

	for _, tt := range tests {
		actor := Actor{UserID: 1, Role: tt.role}
		assert.Equal(t, tt.want, actor.Can(tt.op), "%s -> %s", tt.role, tt.op)
	}
}

func TestRolesForUnknownOperation(t *testing.T) {
	assert.Empty(t, RolesFor(Operation("unknown")))
}

func TestEmployeeAllocationDefault(t *testing.T) {
	e := &Employee{FirstName: "Ada", LastName: ""}
	assert.Equal(t, DefaultLeaveAllocation, e.Allocation(DefaultLeaveAllocation))
	assert.Equal(t, "Ada", e.DisplayName())

	n := 20
	e.LeaveAllocation = &n
	assert.Equal(t, 20, e.Allocation(DefaultLeaveAllocation))
}
