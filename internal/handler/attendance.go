package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

type attendanceActionRequest struct {
	EmployeeID int64 `json:"employeeId" validate:"required,gt=0"`
}

func (h *Handler) readAttendanceAction(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req attendanceActionRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return 0, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return 0, false
	}

	return req.EmployeeID, true
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.readAttendanceAction(w, r)
	if !ok {
		return
	}

	record, err := h.service.CheckIn(actorFromContext(r), employeeID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "签到成功", record)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.readAttendanceAction(w, r)
	if !ok {
		return
	}

	record, err := h.service.CheckOut(actorFromContext(r), employeeID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "签退成功", record)
}

// parseOptionalTime 解析可选的时间字段，字段缺失时返回 nil
func (h *Handler) parseOptionalTime(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := domain.ParseDate(*value, h.service.Location())
	if err != nil {
		return nil, domain.NewValidationError(field + " 格式错误")
	}
	return &t, nil
}

func (h *Handler) AdjustAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var req struct {
		Date       *string  `json:"date"`
		CheckIn    *string  `json:"checkIn"`
		CheckOut   *string  `json:"checkOut"`
		TotalHours *float64 `json:"totalHours" validate:"omitempty,gte=0"`
		Note       *string  `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patch := domain.AttendancePatch{
		TotalHours: req.TotalHours,
		Note:       req.Note,
	}
	if patch.Date, err = h.parseOptionalTime(req.Date, "date"); err != nil {
		h.serviceError(w, r, err)
		return
	}
	if patch.CheckIn, err = h.parseOptionalTime(req.CheckIn, "checkIn"); err != nil {
		h.serviceError(w, r, err)
		return
	}
	if patch.CheckOut, err = h.parseOptionalTime(req.CheckOut, "checkOut"); err != nil {
		h.serviceError(w, r, err)
		return
	}

	record, err := h.service.AdjustAttendance(actorFromContext(r), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "考勤记录已更新", record)
}

func (h *Handler) QueryAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AttendanceFilter{}

	if v := q.Get("employeeId"); v != "" {
		employeeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.serviceError(w, r, domain.NewValidationError("employeeId 无效"))
			return
		}
		filter.EmployeeID = &employeeID
	}

	var err error
	if v := q.Get("from"); v != "" {
		if filter.DateFrom, err = h.parseOptionalTime(&v, "from"); err != nil {
			h.serviceError(w, r, err)
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if filter.DateTo, err = h.parseOptionalTime(&v, "to"); err != nil {
			h.serviceError(w, r, err)
			return
		}
	}

	records, err := h.service.QueryAttendance(actorFromContext(r), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取考勤记录成功", records)
}
