package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

func TestRegisterUserAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.RegisterUser(f.admin, RegisterUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, user.Role)

	entry := f.requireSingleAudit(t, 0, f.admin, domain.ActionCreateUser, strconv.FormatInt(user.ID, 10))
	assert.Equal(t, domain.EntityUser, entry.EntityType)
	_, hasPassword := entry.Details["password"]
	assert.False(t, hasPassword)

	require.Len(t, f.mail.msgs, 1)
	assert.Equal(t, domain.MailWelcome, f.mail.msgs[0].Type)

	got, err := f.svc.Authenticate("ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.svc.Authenticate("ada@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.svc.Authenticate("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterUserRules(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterUser(f.manager, RegisterUserInput{Name: "x", Email: "x@example.com", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.RegisterUser(f.admin, RegisterUserInput{Name: "x", Email: "x@example.com", Password: "p", Role: "root"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.RegisterUser(f.admin, RegisterUserInput{Name: "x", Email: "admin@example.com", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrEmailExists)

	assert.Empty(t, f.store.auditEntries())
}

func TestEnsureInitialAdminIsGatedAndIdempotent(t *testing.T) {
	disabled := newFixture(t)
	require.NoError(t, disabled.svc.EnsureInitialAdmin())
	_, err := disabled.store.GetUserByEmail("root@example.com")
	assert.Error(t, err)

	f := newFixture(t, func(cfg *config.Config) {
		cfg.InitialAdmin.Enabled = true
		cfg.InitialAdmin.Name = "Root"
		cfg.InitialAdmin.Email = "root@example.com"
		cfg.InitialAdmin.Password = "changeme"
	})

	require.NoError(t, f.svc.EnsureInitialAdmin())
	admin, err := f.store.GetUserByEmail("root@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	require.NoError(t, f.svc.EnsureInitialAdmin())
	users, err := f.store.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 4)

	_, err = f.svc.Authenticate("root@example.com", "changeme")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.RegisterUser(f.admin, RegisterUserInput{Name: "Ada", Email: "ada@example.com", Password: "old"})
	require.NoError(t, err)

	found, err := f.svc.FindUserByEmail("ada@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.ResetPassword(found, "new"))

	_, err = f.svc.Authenticate(user.Email, "old")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.svc.Authenticate(user.Email, "new")
	assert.NoError(t, err)

	_, err = f.svc.FindUserByEmail("ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
