package handler

import (
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/service"
)

// GeneratePayroll 以 CSV 附件的形式返回工资单
func (h *Handler) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month int `json:"month" validate:"required,min=1,max=12"`
		Year  int `json:"year" validate:"required,min=2000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rows, err := h.service.GeneratePayroll(actorFromContext(r), req.Month, req.Year)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%d-%d.csv"`, req.Month, req.Year))
	w.WriteHeader(http.StatusOK)

	// 响应头已经写出，这里只能记录错误
	if err := service.WritePayrollCSV(w, rows); err != nil {
		h.logInternalServerError(r, err)
	}
}
