package handler

import (
	"net/http"
	"strconv"
)

func (h *Handler) Headcount(w http.ResponseWriter, r *http.Request) {
	headcount, err := h.service.Headcount(actorFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取人数统计成功", headcount)
}

func (h *Handler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.AttendanceSummary(actorFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取考勤统计成功", summary)
}

func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	// 缺失或无法解析的 limit 使用最大值
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.ListAudit(actorFromContext(r), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取审计日志成功", entries)
}
