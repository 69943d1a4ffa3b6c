package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/utils"
)

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// issueToken 为用户签发 JWT，jti 用于登出时注销令牌
func (h *Handler) issueToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return ss, expiration, nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.service.Authenticate(req.Email, req.Password)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	ss, expiration, err := h.issueToken(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通过 http-only 的 cookie 返回给客户端，同时在响应体中返回令牌供非浏览器客户端使用
	cookie := &http.Cookie{
		Name:     h.config.JWT.CookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.successResponse(w, r, "登录成功", map[string]any{
		"token": ss,
		"user":  user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ClaimsCtxKey).(*AuthClaims)
	if ok && claims.ID != "" && claims.ExpiresAt != nil {
		ctx, cancel := h.sessionContext(r.Context())
		defer cancel()

		if err := h.sessions.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:    h.config.JWT.CookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "登出成功", nil)
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.service.FindUserByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			// 用户不存在时同样返回成功，防止接口被用来探测邮箱
			h.successResponse(w, r, "重置密码所需验证码已通过邮件发送", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 生成 OTP 并将 OTP 存到 redis
	otp := utils.GenerateRandomOTP()

	ctx, cancel := h.sessionContext(r.Context())
	defer cancel()

	if err := h.sessions.SaveOTP(ctx, user.Email, otp, time.Duration(h.config.OTP.Expiration)*time.Second); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 邮件中显示的过期时间以分钟为单位，而配置中以秒为单位
	if err := h.service.NotifyPasswordReset(user, otp, h.config.OTP.Expiration/60); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "重置密码所需验证码已通过邮件发送", nil)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		OTP      string `json:"otp" validate:"required,len=6,numeric"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 检验 OTP
	ctx, cancel := h.sessionContext(r.Context())
	defer cancel()

	otp, err := h.sessions.GetOTP(ctx, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrOTPNotFound):
			h.errorResponse(w, r, http.StatusBadRequest, "InvalidOTP", "验证码错误")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if otp != req.OTP {
		h.errorResponse(w, r, http.StatusBadRequest, "InvalidOTP", "验证码错误")
		return
	}

	user, err := h.service.FindUserByEmail(req.Email)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	if err := h.service.ResetPassword(user, req.Password); err != nil {
		h.serviceError(w, r, err)
		return
	}

	// 验证码只能使用一次
	if err := h.sessions.DeleteOTP(ctx, req.Email); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "重置密码成功", nil)
}
