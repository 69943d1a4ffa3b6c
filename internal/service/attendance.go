package service

import (
	"database/sql"
	"errors"
	"slices"
	"strconv"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

func (s *Service) CheckIn(actor domain.Actor, employeeID int64) (*domain.AttendanceRecord, error) {
	if err := s.authorize(actor, domain.OpCheckInOut); err != nil {
		return nil, err
	}

	if _, err := s.getEmployee(employeeID); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &domain.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       domain.StartOfDay(now, s.location),
		CheckIn:    &now,
	}

	// 同一员工同一天只能有一条记录，由存储层的唯一约束保证
	if err := s.store.CreateAttendance(rec); err != nil {
		return nil, err
	}

	s.record(actor, domain.ActionCheckIn, domain.EntityAttendance, strconv.FormatInt(rec.ID, 10), domain.Details{
		"employeeId": domain.Int(employeeID),
	})

	return rec, nil
}

func (s *Service) CheckOut(actor domain.Actor, employeeID int64) (*domain.AttendanceRecord, error) {
	if err := s.authorize(actor, domain.OpCheckInOut); err != nil {
		return nil, err
	}

	now := s.now()
	rec, err := s.store.GetAttendanceByEmployeeAndDate(employeeID, domain.StartOfDay(now, s.location))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrNoCheckInFound
		default:
			return nil, err
		}
	}
	s.localizeAttendance(rec)

	if rec.CheckOut != nil {
		return nil, domain.ErrAlreadyCheckedOut
	}
	if rec.CheckIn == nil {
		// 手动调整可能清空签到时间，此时无法计算工时
		return nil, domain.ErrNoCheckInFound
	}

	hours := domain.Hours(*rec.CheckIn, now)
	rec.CheckOut = &now
	rec.TotalHours = &hours

	if err := s.store.CloseAttendance(rec); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 并发签退时后到的请求会走到这里
			return nil, domain.ErrAlreadyCheckedOut
		default:
			return nil, err
		}
	}

	s.record(actor, domain.ActionCheckOut, domain.EntityAttendance, strconv.FormatInt(rec.ID, 10), domain.Details{
		"employeeId": domain.Int(employeeID),
		"totalHours": domain.Number(hours),
	})

	return rec, nil
}

// AdjustAttendance 直接覆盖考勤记录的字段，不会重新计算工时
func (s *Service) AdjustAttendance(actor domain.Actor, id int64, patch domain.AttendancePatch) (*domain.AttendanceRecord, error) {
	if err := s.authorize(actor, domain.OpAdjustAttendance); err != nil {
		return nil, err
	}

	rec, err := s.store.GetAttendanceByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrAttendanceNotFound
		default:
			return nil, err
		}
	}
	s.localizeAttendance(rec)

	if patch.Date != nil {
		day := domain.StartOfDay(*patch.Date, s.location)
		patch.Date = &day
	}
	patch.Apply(rec)

	if err := s.store.UpdateAttendance(rec); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrVersionConflict
		default:
			return nil, err
		}
	}

	s.record(actor, domain.ActionUpdate, domain.EntityAttendance, strconv.FormatInt(rec.ID, 10), patch.Details())

	return rec, nil
}

// QueryAttendance 按日期倒序返回考勤记录，员工已被删除的记录会被跳过
func (s *Service) QueryAttendance(actor domain.Actor, filter domain.AttendanceFilter) ([]*domain.AttendanceRecord, error) {
	if err := s.authorize(actor, domain.OpQueryAttendance); err != nil {
		return nil, err
	}

	if filter.DateFrom != nil {
		from := domain.StartOfDay(*filter.DateFrom, s.location)
		filter.DateFrom = &from
	}
	if filter.DateTo != nil {
		to := domain.StartOfDay(*filter.DateTo, s.location)
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, domain.ErrInvalidDateRange
	}

	records, err := s.store.QueryAttendance(filter)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if rec.Employee == nil {
			continue
		}
		s.localizeAttendance(rec)
		result = append(result, rec)
	}

	slices.SortStableFunc(result, func(a, b *domain.AttendanceRecord) int {
		return b.Date.Compare(a.Date)
	})

	return result, nil
}

// localizeAttendance 把从存储层读出的日期放回配置的时区
func (s *Service) localizeAttendance(rec *domain.AttendanceRecord) {
	rec.Date = domain.DateIn(rec.Date, s.location)
}

func (s *Service) getEmployee(id int64) (*domain.Employee, error) {
	e, err := s.store.GetEmployeeByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrEmployeeNotFound
		default:
			return nil, err
		}
	}
	return e, nil
}
