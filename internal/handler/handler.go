package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/service"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	service    *service.Service
	translator ut.Translator
	sessions   SessionStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, svc *service.Service, sessions SessionStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		service:    svc,
		translator: trans,
		sessions:   sessions,

		Mux: chi.NewRouter(),
	}, nil
}

// sessionContext 为 redis 操作设置超时
func (h *Handler) sessionContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route("/api", func(r chi.Router) {
		// 认证相关
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.With(h.auth).Post("/logout", h.Logout)
			r.Route("/reset-password", func(r chi.Router) {
				r.Post("/require", h.RequireResetPassword)
				r.Post("/confirm", h.ConfirmResetPassword)
			})
			r.With(h.auth, h.RequirePermission(domain.OpRegisterUser)).Post("/register", h.RegisterUser)
		})

		// 以下 API 必须要在登录后才允许调用
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/me", h.GetMe)
			r.With(h.RequirePermission(domain.OpListUsers)).Get("/users", h.ListUsers)

			r.Route("/employees", func(r chi.Router) {
				r.With(h.RequirePermission(domain.OpReadEmployees)).Get("/", h.ListEmployees)
				r.With(h.RequirePermission(domain.OpManageEmployees)).Post("/", h.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.With(h.RequirePermission(domain.OpReadEmployees)).Get("/", h.GetEmployee)
					r.With(h.RequirePermission(domain.OpManageEmployees)).Put("/", h.UpdateEmployee)
					r.With(h.RequirePermission(domain.OpManageEmployees)).Delete("/", h.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(h.RequirePermission(domain.OpCheckInOut)).Post("/checkin", h.CheckIn)
				r.With(h.RequirePermission(domain.OpCheckInOut)).Post("/checkout", h.CheckOut)
				r.With(h.RequirePermission(domain.OpQueryAttendance)).Get("/", h.QueryAttendance)
				r.With(h.RequirePermission(domain.OpAdjustAttendance)).Put("/{id}", h.AdjustAttendance)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(h.RequirePermission(domain.OpApplyLeave)).Post("/", h.ApplyLeave)
				r.With(h.RequirePermission(domain.OpListLeaves)).Get("/", h.ListLeaves)
				r.With(h.RequirePermission(domain.OpListPending)).Get("/pending", h.ListPendingLeaves)
				r.With(h.RequirePermission(domain.OpViewBalances)).Get("/balances", h.LeaveBalances)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.RequirePermission(domain.OpDecideLeave))
					r.Put("/approve", h.ApproveLeave)
					r.Put("/reject", h.RejectLeave)
				})
			})

			r.With(h.RequirePermission(domain.OpGeneratePayroll)).Post("/payroll/generate", h.GeneratePayroll)

			r.Route("/reports", func(r chi.Router) {
				r.Use(h.RequirePermission(domain.OpViewReports))
				r.Get("/headcount", h.Headcount)
				r.Get("/attendance-summary", h.AttendanceSummary)
			})

			r.With(h.RequirePermission(domain.OpViewAudit)).Get("/audit", h.ListAudit)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", map[string]string{"environment": h.config.Environment})
}
