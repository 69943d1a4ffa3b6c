package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// 唯一约束名到业务错误的映射
var constraintErrors = map[string]error{
	"users_email_key":                 domain.ErrEmailExists,
	"employees_email_key":             domain.ErrEmailExists,
	"attendance_employee_id_date_key": domain.ErrDuplicateCheckIn,
}

// translateError 将违反约束的数据库错误转换为业务错误，其他错误原样返回
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
		if pgErr.ConstraintName == "leaves_date_range_check" {
			return domain.ErrInvalidDateRange
		}
	}
	return err
}
