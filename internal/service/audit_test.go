package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

func TestListAuditNewestFirstWithActor(t *testing.T) {
	f := newFixture(t)
	emp := f.seedEmployee(t, "ada", "lovelace", nil)

	_, err := f.svc.CheckIn(f.employee, emp.ID)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckOut(f.employee, emp.ID)
	require.NoError(t, err)

	entries, err := f.svc.ListAudit(f.admin, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionCheckOut, entries[0].Action)
	assert.Equal(t, domain.ActionCheckIn, entries[1].Action)
	require.NotNil(t, entries[0].Actor)
	assert.Equal(t, "employee@example.com", entries[0].Actor.Email)

	entries, err = f.svc.ListAudit(f.admin, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListAuditLimitIsCapped(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 205; i++ {
		f.svc.record(f.admin, domain.ActionUpdate, domain.EntityEmployee, "1", nil)
	}

	entries, err := f.svc.ListAudit(f.admin, 1000)
	require.NoError(t, err)
	assert.Len(t, entries, 200)

	entries, err = f.svc.ListAudit(f.admin, -1)
	require.NoError(t, err)
	assert.Len(t, entries, 200)
}

func TestListAuditRequiresAdminOrHR(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAudit(f.manager, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
