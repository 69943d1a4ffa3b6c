package service

import (
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

// LeaveBalances 每次调用都会重新统计全部员工和全部已批准的请假
func (s *Service) LeaveBalances(actor domain.Actor) ([]domain.LeaveBalance, error) {
	if err := s.authorize(actor, domain.OpViewBalances); err != nil {
		return nil, err
	}

	employees, err := s.store.GetAllEmployees()
	if err != nil {
		return nil, err
	}

	used, err := s.store.SumApprovedLeaveDays()
	if err != nil {
		return nil, err
	}

	return ComputeBalances(employees, used, s.config.Leave.DefaultAllocation), nil
}

// ComputeBalances 根据假期额度和已批准天数计算剩余假期，剩余天数最小为 0
func ComputeBalances(employees []*domain.Employee, used map[int64]int, defaultAllocation int) []domain.LeaveBalance {
	balances := make([]domain.LeaveBalance, 0, len(employees))
	for _, e := range employees {
		allocation := e.Allocation(defaultAllocation)
		usedDays := used[e.ID]
		balances = append(balances, domain.LeaveBalance{
			EmployeeID: e.ID,
			Name:       e.DisplayName(),
			Allocation: allocation,
			UsedDays:   usedDays,
			Remaining:  max(0, allocation-usedDays),
		})
	}
	return balances
}
