package service

import (
	"log/slog"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

// record 在业务写入成功后追加一条审计日志
//
// 审计写入和业务写入不在同一个事务中，写入失败只记录日志，不会影响已经完成的业务操作。
func (s *Service) record(actor domain.Actor, action, entityType, entityID string, details domain.Details) {
	if details == nil {
		details = domain.Details{}
	}

	entry := &domain.AuditEntry{
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := s.store.InsertAuditEntry(entry); err != nil {
		slog.Error("无法写入审计日志",
			"actor", actor.UserID,
			"action", action,
			"entity", entityType,
			"entityId", entityID,
			"error", err,
		)
	}
}

func (s *Service) ListAudit(actor domain.Actor, limit int) ([]*domain.AuditEntry, error) {
	if err := s.authorize(actor, domain.OpViewAudit); err != nil {
		return nil, err
	}

	maxLimit := s.config.Audit.MaxLimit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	return s.store.ListAuditEntries(limit)
}
