package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestCreateEmployeeDefaults(t *testing.T) {
	f := newFixture(t)

	e, err := f.svc.CreateEmployee(f.admin, EmployeePatch{
		FirstName: strPtr("ada"),
		LastName:  strPtr("lovelace"),
		Email:     strPtr(" ada@example.com "),
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", e.Email)
	assert.Equal(t, domain.EmployeeActive, e.Status)
	require.NotNil(t, e.LeaveAllocation)
	assert.Equal(t, 12, *e.LeaveAllocation)

	entry := f.requireSingleAudit(t, 0, f.admin, domain.ActionCreate, strconv.FormatInt(e.ID, 10))
	assert.Equal(t, domain.EntityEmployee, entry.EntityType)
	assert.Equal(t, "ada@example.com", entry.Details["email"].Str())
}

func TestCreateEmployeeValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEmployee(f.admin, EmployeePatch{FirstName: strPtr("ada")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	status := domain.EmployeeStatus("retired")
	_, err = f.svc.CreateEmployee(f.admin, EmployeePatch{Email: strPtr("a@example.com"), Status: &status})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.CreateEmployee(f.admin, EmployeePatch{Email: strPtr("a@example.com"), LeaveAllocation: intPtr(-1)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	assert.Empty(t, f.store.auditEntries())
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEmployee(f.admin, EmployeePatch{Email: strPtr("a@example.com")})
	require.NoError(t, err)
	_, err = f.svc.CreateEmployee(f.admin, EmployeePatch{Email: strPtr("a@example.com")})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestManageEmployeesRequiresAdminOrHR(t *testing.T) {
	f := newFixture(t)
	emp := f.seedEmployee(t, "ada", "lovelace", nil)

	_, err := f.svc.CreateEmployee(f.manager, EmployeePatch{Email: strPtr("b@example.com")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.UpdateEmployee(f.employee, emp.ID, EmployeePatch{Phone: strPtr("1")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.DeleteEmployee(f.manager, emp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.svc.GetEmployee(f.employee, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)
}

func TestUpdateEmployeeAuditsPatchOnly(t *testing.T) {
	f := newFixture(t)
	emp := f.seedEmployee(t, "ada", "lovelace", nil)

	basic := 5000.0
	updated, err := f.svc.UpdateEmployee(f.admin, emp.ID, EmployeePatch{
		Department:      strPtr("R&D"),
		Basic:           &basic,
		LeaveAllocation: intPtr(15),
	})
	require.NoError(t, err)
	assert.Equal(t, "R&D", updated.Department)
	assert.Equal(t, 5000.0, updated.Salary.Basic)
	assert.Equal(t, 15, *updated.LeaveAllocation)
	assert.Equal(t, "ada", updated.FirstName)

	entry := f.requireSingleAudit(t, 0, f.admin, domain.ActionUpdate, strconv.FormatInt(emp.ID, 10))
	assert.Len(t, entry.Details, 3)
	assert.Equal(t, "R&D", entry.Details["department"].Str())
}

func TestUpdateUnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateEmployee(f.admin, 42, EmployeePatch{Phone: strPtr("1")})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestDeleteEmployeeKeepsLedgerRecords(t *testing.T) {
	f := newFixture(t)
	emp := f.seedEmployee(t, "ada", "lovelace", nil)
	rec, err := f.svc.CheckIn(f.employee, emp.ID)
	require.NoError(t, err)

	deleted, err := f.svc.DeleteEmployee(f.admin, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, deleted.ID)
	f.requireSingleAudit(t, 1, f.admin, domain.ActionDelete, strconv.FormatInt(emp.ID, 10))

	_, err = f.store.GetAttendanceByID(rec.ID)
	assert.NoError(t, err)

	_, err = f.svc.DeleteEmployee(f.admin, emp.ID)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestListEmployeesFilterAndPaging(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"ada", "alan", "grace"} {
		f.seedEmployee(t, name, "x", nil)
	}

	list, total, err := f.svc.ListEmployees(f.employee, domain.EmployeeFilter{Query: "A", Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "alan", list[0].FirstName)

	list, total, err = f.svc.ListEmployees(f.employee, domain.EmployeeFilter{Query: "gra"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "grace", list[0].FirstName)
}
