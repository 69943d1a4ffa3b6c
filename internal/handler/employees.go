package handler

import (
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/service"
)

type employeeRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Department    *string `json:"department"`
	Role          *string `json:"role"`
	DateOfJoining *string `json:"dateOfJoining"`
	Salary        *struct {
		Basic      *float64 `json:"basic" validate:"omitempty,gte=0"`
		Allowances *float64 `json:"allowances" validate:"omitempty,gte=0"`
		Deductions *float64 `json:"deductions" validate:"omitempty,gte=0"`
	} `json:"salary"`
	Photo           *string `json:"photo" validate:"omitempty,url"`
	Status          *string `json:"status" validate:"omitempty,oneof=active inactive"`
	LeaveAllocation *int    `json:"leaveAllocation" validate:"omitempty,gte=0"`
}

func (req *employeeRequest) patch(h *Handler) (service.EmployeePatch, error) {
	patch := service.EmployeePatch{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		Role:            req.Role,
		Photo:           req.Photo,
		LeaveAllocation: req.LeaveAllocation,
	}

	if req.DateOfJoining != nil {
		t, err := domain.ParseDate(*req.DateOfJoining, h.service.Location())
		if err != nil {
			return patch, domain.NewValidationError("入职日期格式错误")
		}
		patch.DateOfJoining = &t
	}
	if req.Salary != nil {
		patch.Basic = req.Salary.Basic
		patch.Allowances = req.Salary.Allowances
		patch.Deductions = req.Salary.Deductions
	}
	if req.Status != nil {
		status := domain.EmployeeStatus(*req.Status)
		patch.Status = &status
	}

	return patch, nil
}

func (h *Handler) readEmployeeRequest(w http.ResponseWriter, r *http.Request) (service.EmployeePatch, bool) {
	var req employeeRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return service.EmployeePatch{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return service.EmployeePatch{}, false
	}

	patch, err := req.patch(h)
	if err != nil {
		h.serviceError(w, r, err)
		return service.EmployeePatch{}, false
	}

	return patch, true
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.readEmployeeRequest(w, r)
	if !ok {
		return
	}

	employee, err := h.service.CreateEmployee(actorFromContext(r), patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.createdResponse(w, r, "员工创建成功", employee)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// 无法解析的分页参数按默认值处理
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := domain.EmployeeFilter{
		Query:      q.Get("q"),
		Department: q.Get("department"),
		Role:       q.Get("role"),
		Status:     domain.EmployeeStatus(q.Get("status")),
		Page:       page,
		Limit:      limit,
	}

	employees, total, err := h.service.ListEmployees(actorFromContext(r), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", map[string]any{
		"employees": employees,
		"total":     total,
	})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	employee, err := h.service.GetEmployee(actorFromContext(r), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工信息成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	patch, ok := h.readEmployeeRequest(w, r)
	if !ok {
		return
	}

	employee, err := h.service.UpdateEmployee(actorFromContext(r), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工信息更新成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	if _, err := h.service.DeleteEmployee(actorFromContext(r), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工删除成功", nil)
}
