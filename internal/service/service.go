package service

import (
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	config     *config.Config
	store      Store
	mail       MailPublisher
	location   *time.Location
	now        func() time.Time
	bcryptCost int
}

type Option func(*Service)

// WithClock 替换获取当前时间的函数
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(cfg *config.Config, store Store, mail MailPublisher, opts ...Option) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Service{
		config:     cfg,
		store:      store,
		mail:       mail,
		location:   loc,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Service) Location() *time.Location {
	return s.location
}

func (s *Service) authorize(actor domain.Actor, op domain.Operation) error {
	if !actor.Can(op) {
		return domain.ErrForbidden
	}
	return nil
}

// notify 投递邮件，失败只记录日志
func (s *Service) notify(msg domain.MailMessage) {
	if s.mail == nil {
		return
	}
	if err := s.mail.Publish(msg); err != nil {
		slog.Error("无法投递邮件", "type", msg.Type, "to", msg.To, "error", err)
	}
}
