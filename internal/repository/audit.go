package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

func (r *Repository) InsertAuditEntry(entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (actor_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING id, created_at
	`

	details := entry.Details
	if details == nil {
		details = domain.Details{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, string(raw)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return err
	}

	return nil
}

// ListAuditEntries 按时间倒序返回最近的 limit 条审计记录
func (r *Repository) ListAuditEntries(limit int) ([]*domain.AuditEntry, error) {
	query := `
		SELECT a.id, a.actor_id, a.action, a.entity_type, a.entity_id, a.details, a.created_at,
			u.id, u.name, u.email, u.role
		FROM audit_entries a
		LEFT JOIN users u ON u.id = a.actor_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		entry := &domain.AuditEntry{}
		actor := &joinedUser{}
		var raw []byte

		dst := append([]any{&entry.ID, &entry.ActorID, &entry.Action, &entry.EntityType, &entry.EntityID, &raw, &entry.CreatedAt}, actor.dst()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(raw, &entry.Details); err != nil {
			return nil, err
		}
		entry.Actor = actor.user()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
