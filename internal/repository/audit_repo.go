package repository

import (
	"context"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"gorm.io/gorm"
)

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
