// internal/repository/verification_log.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/model"
	"gorm.io/gorm"
)

type VerificationLogRepositoryIface interface {
	Create(ctx context.Context, log *model.VerificationLog) error
	FindRecentByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*model.VerificationLog, error)
}

type VerificationLogRepository struct {
	db *gorm.DB
}

func NewVerificationLogRepository(db *gorm.DB) *VerificationLogRepository {
	return &VerificationLogRepository{db: db}
}

func (r *VerificationLogRepository) Create(ctx context.Context, log *model.VerificationLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("creating verification log: %w", err)
	}
	return nil
}

func (r *VerificationLogRepository) FindRecentByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*model.VerificationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []*model.VerificationLog
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("verified_at desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("finding verification logs: %w", err)
	}
	return logs, nil
}
