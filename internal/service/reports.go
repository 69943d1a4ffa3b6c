package service

import (
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

type Headcount struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

func (s *Service) Headcount(actor domain.Actor) (*Headcount, error) {
	if err := s.authorize(actor, domain.OpViewReports); err != nil {
		return nil, err
	}

	total, err := s.store.CountEmployees("")
	if err != nil {
		return nil, err
	}
	active, err := s.store.CountEmployees(domain.EmployeeActive)
	if err != nil {
		return nil, err
	}

	return &Headcount{Total: total, Active: active}, nil
}

// AttendanceSummary 统计最近 30 天每天的考勤记录数
func (s *Service) AttendanceSummary(actor domain.Actor) ([]domain.DailyCount, error) {
	if err := s.authorize(actor, domain.OpViewReports); err != nil {
		return nil, err
	}

	since := domain.StartOfDay(s.now(), s.location).AddDate(0, 0, -30)
	counts, err := s.store.CountAttendanceByDay(since)
	if err != nil {
		return nil, err
	}

	for i := range counts {
		counts[i].Date = domain.DateIn(counts[i].Date, s.location)
	}

	return counts, nil
}
