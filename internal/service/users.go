package service

import (
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

func (s *Service) RegisterUser(actor domain.Actor, in RegisterUserInput) (*domain.User, error) {
	if err := s.authorize(actor, domain.OpRegisterUser); err != nil {
		return nil, err
	}

	if in.Role == "" {
		in.Role = domain.RoleEmployee
	}
	if !in.Role.Valid() {
		return nil, domain.NewValidationError("无效的角色: " + string(in.Role))
	}

	user, err := s.createUser(in)
	if err != nil {
		return nil, err
	}

	s.record(actor, domain.ActionCreateUser, domain.EntityUser, strconv.FormatInt(user.ID, 10), domain.Details{
		"name":  domain.String(user.Name),
		"email": domain.String(user.Email),
		"role":  domain.String(string(user.Role)),
	})

	s.notify(domain.MailMessage{
		Type: domain.MailWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})

	return user, nil
}

func (s *Service) createUser(in RegisterUserInput) (*domain.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(passwordHash),
		Role:         in.Role,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureInitialAdmin 在配置开启时创建初始管理员，已存在同邮箱的账号时不做任何修改
func (s *Service) EnsureInitialAdmin() error {
	cfg := s.config.InitialAdmin
	if !cfg.Enabled {
		return nil
	}

	if _, err := s.store.GetUserByEmail(cfg.Email); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	user, err := s.createUser(RegisterUserInput{
		Name:     cfg.Name,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		// 多个实例同时启动时可能已经被别的实例创建
		if errors.Is(err, domain.ErrEmailExists) {
			return nil
		}
		return err
	}

	slog.Info("已创建初始管理员", "email", user.Email)
	return nil
}

// Authenticate 校验邮箱和密码，两者任一错误都返回同样的错误
func (s *Service) Authenticate(email, password string) (*domain.User, error) {
	user, err := s.store.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return nil, domain.ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	return user, nil
}

func (s *Service) GetUser(id int64) (*domain.User, error) {
	user, err := s.store.GetUserByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrUserNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

func (s *Service) FindUserByEmail(email string) (*domain.User, error) {
	user, err := s.store.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrUserNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

func (s *Service) ListUsers(actor domain.Actor) ([]*domain.User, error) {
	if err := s.authorize(actor, domain.OpListUsers); err != nil {
		return nil, err
	}
	return s.store.GetAllUsers()
}

// ResetPassword 由调用方负责校验验证码
func (s *Service) ResetPassword(user *domain.User, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(passwordHash)
	if err := s.store.UpdateUser(user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.ErrVersionConflict
		default:
			return err
		}
	}

	return nil
}

// NotifyPasswordReset 投递包含验证码的邮件
func (s *Service) NotifyPasswordReset(user *domain.User, otp string, expirationMinutes int) error {
	if s.mail == nil {
		return errors.New("邮件队列不可用")
	}
	return s.mail.Publish(domain.MailMessage{
		Type: domain.MailResetPassword,
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			Name:       user.Name,
			OTP:        otp,
			Expiration: expirationMinutes,
		},
	})
}
