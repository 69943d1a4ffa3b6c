package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	return NewRepository(cfg, db), mock
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", domain.ErrEmailExists},
		{"employees_email_key", domain.ErrEmailExists},
		{"attendance_employee_id_date_key", domain.ErrDuplicateCheckIn},
		{"leaves_date_range_check", domain.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := translateError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	other := &pgconn.PgError{Code: "23505", ConstraintName: "something_else"}
	assert.Equal(t, error(other), translateError(other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateError(plain))
}

func TestCreateAttendanceDuplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Date(2024, 1, 11, 1, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	rec := &domain.AttendanceRecord{EmployeeID: 1, Date: domain.StartOfDay(now, now.Location()), CheckIn: &now}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(int64(1), "2024-01-11", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendance_employee_id_date_key"})

	err := repo.CreateAttendance(rec)
	assert.ErrorIs(t, err, domain.ErrDuplicateCheckIn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAttendanceOnlyOpenRecord(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)
	hours := 9.0
	rec := &domain.AttendanceRecord{ID: 3, CheckOut: &now, TotalHours: &hours}
	query := regexp.QuoteMeta("WHERE id = $3 AND check_out IS NULL")

	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "version"}).AddRow(now, 2))
	require.NoError(t, repo.CloseAttendance(rec))
	assert.Equal(t, int32(2), rec.Version)

	// 已经签退过，条件不满足时没有返回行
	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "version"}))
	assert.ErrorIs(t, repo.CloseAttendance(rec), sql.ErrNoRows)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLeaveStatus(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("WHERE id = $2 AND ($3 = '' OR status = $3)")

	t.Run("loose", func(t *testing.T) {
		leave := &domain.LeaveRequest{ID: 7, Status: domain.LeaveRejected}
		mock.ExpectQuery(query).
			WithArgs("rejected", int64(7), "").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		require.NoError(t, repo.UpdateLeaveStatus(leave, ""))
		assert.Equal(t, now, leave.UpdatedAt)
	})

	t.Run("strict already decided", func(t *testing.T) {
		leave := &domain.LeaveRequest{ID: 7, Status: domain.LeaveApproved}
		mock.ExpectQuery(query).
			WithArgs("approved", int64(7), "pending").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

		assert.ErrorIs(t, repo.UpdateLeaveStatus(leave, domain.LeavePending), sql.ErrNoRows)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
