package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/service"
)

func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Employee   int64  `json:"employee" validate:"required,gt=0"`
		EmployeeID int64  `json:"employeeId"`
		Type       string `json:"type"`
		StartDate  string `json:"startDate" validate:"required"`
		EndDate    string `json:"endDate" validate:"required"`
		Reason     string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	// 兼容与考勤接口一致的 employeeId 字段
	if req.Employee == 0 {
		req.Employee = req.EmployeeID
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := h.parseOptionalTime(&req.StartDate, "startDate")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	end, err := h.parseOptionalTime(&req.EndDate, "endDate")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	leave, err := h.service.ApplyLeave(actorFromContext(r), service.ApplyLeaveInput{
		EmployeeID: req.Employee,
		Type:       req.Type,
		StartDate:  *start,
		EndDate:    *end,
		Reason:     req.Reason,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.createdResponse(w, r, "请假申请已提交", leave)
}

func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	status := domain.LeaveStatus(r.URL.Query().Get("status"))

	leaves, err := h.service.ListLeaves(actorFromContext(r), status)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假申请成功", leaves)
}

func (h *Handler) ListPendingLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.service.ListPendingLeaves(actorFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待审批的请假申请成功", leaves)
}

func (h *Handler) LeaveBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.LeaveBalances(actorFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取假期余额成功", balances)
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	leave, err := h.service.ApproveLeave(actorFromContext(r), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "请假申请已批准", leave)
}

func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	leave, err := h.service.RejectLeave(actorFromContext(r), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "请假申请已拒绝", leave)
}
