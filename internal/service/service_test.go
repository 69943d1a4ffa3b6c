package service

import (
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Attendance.Timezone = "UTC"
	cfg.Leave.DefaultAllocation = domain.DefaultLeaveAllocation
	cfg.Audit.MaxLimit = 200
	return cfg
}

type fixture struct {
	svc   *Service
	store *memStore
	mail  *recordedMail
	clock *fakeClock

	admin    domain.Actor
	manager  domain.Actor
	employee domain.Actor
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	clock := &fakeClock{t: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := newMemStore(clock.Now)
	mail := &recordedMail{}

	svc, err := New(cfg, store, mail, WithClock(clock.Now), WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	f := &fixture{svc: svc, store: store, mail: mail, clock: clock}
	f.admin = f.seedUser(t, "admin@example.com", domain.RoleAdmin)
	f.manager = f.seedUser(t, "manager@example.com", domain.RoleManager)
	f.employee = f.seedUser(t, "employee@example.com", domain.RoleEmployee)
	return f
}

func (f *fixture) seedUser(t *testing.T, email string, role domain.Role) domain.Actor {
	t.Helper()
	u := &domain.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, f.store.CreateUser(u))
	return domain.Actor{UserID: u.ID, Role: role}
}

// seedEmployee 直接写入存储，不产生审计日志
func (f *fixture) seedEmployee(t *testing.T, first, last string, allocation *int) *domain.Employee {
	t.Helper()
	e := &domain.Employee{
		FirstName:       first,
		LastName:        last,
		Email:           first + "@example.com",
		Status:          domain.EmployeeActive,
		LeaveAllocation: allocation,
	}
	require.NoError(t, f.store.CreateEmployee(e))
	return e
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s, time.UTC)
	require.NoError(t, err)
	return d
}

func inShanghai(cfg *config.Config) {
	cfg.Attendance.Timezone = "Asia/Shanghai"
}

func intPtr(n int) *int {
	return &n
}

// requireSingleAudit 断言自 before 之后恰好新增了一条审计日志
func (f *fixture) requireSingleAudit(t *testing.T, before int, actor domain.Actor, action, entityID string) *domain.AuditEntry {
	t.Helper()
	entries := f.store.auditEntries()
	require.Len(t, entries, before+1)
	last := entries[len(entries)-1]
	require.Equal(t, actor.UserID, last.ActorID)
	require.Equal(t, action, last.Action)
	require.Equal(t, entityID, last.EntityID)
	return last
}
