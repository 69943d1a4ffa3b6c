package service

import (
	"database/sql"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

type ApplyLeaveInput struct {
	EmployeeID int64
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// ApplyLeave 创建一条待审批的请假申请
//
// 申请时不会检查剩余假期，余额只作为参考。
func (s *Service) ApplyLeave(actor domain.Actor, in ApplyLeaveInput) (*domain.LeaveRequest, error) {
	if err := s.authorize(actor, domain.OpApplyLeave); err != nil {
		return nil, err
	}

	if _, err := s.getEmployee(in.EmployeeID); err != nil {
		return nil, err
	}

	start := domain.StartOfDay(in.StartDate, s.location)
	end := domain.StartOfDay(in.EndDate, s.location)
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	leave := &domain.LeaveRequest{
		EmployeeID: in.EmployeeID,
		Type:       strings.TrimSpace(in.Type),
		StartDate:  start,
		EndDate:    end,
		Days:       domain.InclusiveDays(start, end),
		Reason:     in.Reason,
		Status:     domain.LeavePending,
		AppliedBy:  actor.UserID,
	}

	if err := s.store.CreateLeave(leave); err != nil {
		return nil, err
	}

	s.record(actor, domain.ActionApplyLeave, domain.EntityLeave, strconv.FormatInt(leave.ID, 10), domain.Details{
		"employeeId": domain.Int(leave.EmployeeID),
		"type":       domain.String(leave.Type),
		"startDate":  domain.Time(leave.StartDate),
		"endDate":    domain.Time(leave.EndDate),
		"days":       domain.Int(int64(leave.Days)),
		"reason":     domain.String(leave.Reason),
	})

	return leave, nil
}

func (s *Service) ApproveLeave(actor domain.Actor, id int64) (*domain.LeaveRequest, error) {
	return s.decideLeave(actor, id, domain.LeaveApproved, domain.ActionApproveLeave)
}

func (s *Service) RejectLeave(actor domain.Actor, id int64) (*domain.LeaveRequest, error) {
	return s.decideLeave(actor, id, domain.LeaveRejected, domain.ActionRejectLeave)
}

// decideLeave 修改请假申请的状态
//
// 宽松模式下（默认）任何状态都可以被覆盖；严格模式下只允许 pending -> approved/rejected。
func (s *Service) decideLeave(actor domain.Actor, id int64, status domain.LeaveStatus, action string) (*domain.LeaveRequest, error) {
	if err := s.authorize(actor, domain.OpDecideLeave); err != nil {
		return nil, err
	}

	leave, err := s.store.GetLeaveByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrLeaveNotFound
		default:
			return nil, err
		}
	}
	s.localizeLeave(leave)

	var from domain.LeaveStatus
	if s.config.Leave.StrictTransitions {
		if leave.Status != domain.LeavePending {
			return nil, domain.ErrLeaveAlreadyDecided
		}
		from = domain.LeavePending
	}

	leave.Status = status
	if err := s.store.UpdateLeaveStatus(leave, from); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows) && from != "":
			return nil, domain.ErrLeaveAlreadyDecided
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrLeaveNotFound
		default:
			return nil, err
		}
	}

	s.record(actor, action, domain.EntityLeave, strconv.FormatInt(leave.ID, 10), domain.Details{})

	s.notifyLeaveDecided(leave)

	return leave, nil
}

func (s *Service) notifyLeaveDecided(leave *domain.LeaveRequest) {
	emp, err := s.store.GetEmployeeByID(leave.EmployeeID)
	if err != nil {
		// 员工可能已被删除，此时不需要通知
		return
	}

	s.notify(domain.MailMessage{
		Type: domain.MailLeaveDecided,
		To:   emp.Email,
		Data: domain.LeaveDecidedMailData{
			Name:      emp.DisplayName(),
			Type:      leave.Type,
			StartDate: leave.StartDate.Format(time.DateOnly),
			EndDate:   leave.EndDate.Format(time.DateOnly),
			Days:      leave.Days,
			Status:    leave.Status,
		},
	})
}

func (s *Service) ListPendingLeaves(actor domain.Actor) ([]*domain.LeaveRequest, error) {
	if err := s.authorize(actor, domain.OpListPending); err != nil {
		return nil, err
	}
	return s.listLeaves(domain.LeavePending)
}

// ListLeaves 返回请假申请，status 为空时返回全部
func (s *Service) ListLeaves(actor domain.Actor, status domain.LeaveStatus) ([]*domain.LeaveRequest, error) {
	if err := s.authorize(actor, domain.OpListLeaves); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError("无效的请假状态: " + string(status))
	}
	return s.listLeaves(status)
}

func (s *Service) listLeaves(status domain.LeaveStatus) ([]*domain.LeaveRequest, error) {
	leaves, err := s.store.ListLeaves(status)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.LeaveRequest, 0, len(leaves))
	for _, leave := range leaves {
		if leave.Employee == nil {
			continue
		}
		s.localizeLeave(leave)
		result = append(result, leave)
	}

	slices.SortStableFunc(result, func(a, b *domain.LeaveRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return result, nil
}

func (s *Service) localizeLeave(leave *domain.LeaveRequest) {
	leave.StartDate = domain.DateIn(leave.StartDate, s.location)
	leave.EndDate = domain.DateIn(leave.EndDate, s.location)
}
