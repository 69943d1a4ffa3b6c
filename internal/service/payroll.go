package service

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

type PayrollRow struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Gross      float64 `json:"gross"`
	Net        float64 `json:"net"`
}

func (s *Service) GeneratePayroll(actor domain.Actor, month, year int) ([]PayrollRow, error) {
	if err := s.authorize(actor, domain.OpGeneratePayroll); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, domain.NewValidationError("月份必须在 1 到 12 之间")
	}
	if year < 2000 {
		return nil, domain.NewValidationError("年份无效")
	}

	employees, err := s.store.GetAllEmployees()
	if err != nil {
		return nil, err
	}

	rows := make([]PayrollRow, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, PayrollRow{
			Name:       e.DisplayName(),
			Email:      e.Email,
			Department: e.Department,
			Gross:      e.Salary.Gross(),
			Net:        e.Salary.Net(),
		})
	}

	s.record(actor, domain.ActionGeneratePayroll, domain.EntityPayroll, "", domain.Details{
		"month": domain.Int(int64(month)),
		"year":  domain.Int(int64(year)),
	})

	return rows, nil
}

func WritePayrollCSV(w io.Writer, rows []PayrollRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Name", "Email", "Department", "Gross", "Net"}); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			r.Name,
			r.Email,
			r.Department,
			strconv.FormatFloat(r.Gross, 'f', 2, 64),
			strconv.FormatFloat(r.Net, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
