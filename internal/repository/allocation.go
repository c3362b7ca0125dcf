// internal/repository/allocation.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/model"
	"gorm.io/gorm"
)

type AllocationRepositoryIface interface {
	Create(ctx context.Context, allocation *model.Allocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Allocation, error)
	FindActiveByIdentity(ctx context.Context, orgID uuid.UUID, email, phone string) (*model.Allocation, error)
	FindActiveByPool(ctx context.Context, orgID uuid.UUID) ([]*model.Allocation, error)
	CountActiveByPool(ctx context.Context, orgID uuid.UUID) (int64, error)
	Retire(ctx context.Context, allocation *model.Allocation, pool *model.Organization) error
}

type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) Create(ctx context.Context, allocation *model.Allocation) error {
	if err := r.db.WithContext(ctx).Create(allocation).Error; err != nil {
		return fmt.Errorf("%w: creating allocation: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *AllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Allocation, error) {
	var allocation model.Allocation
	if err := r.db.WithContext(ctx).First(&allocation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, fmt.Errorf("finding allocation: %w", err)
	}
	return &allocation, nil
}

// FindActiveByIdentity returns the active allocation held by the given email
// or phone inside one pool. Duplicate detection is pool-scoped, so the
// organization id is always part of the query.
func (r *AllocationRepository) FindActiveByIdentity(ctx context.Context, orgID uuid.UUID, email, phone string) (*model.Allocation, error) {
	query := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", orgID, model.AllocationActive)

	switch {
	case email != "" && phone != "":
		query = query.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		query = query.Where("email = ?", email)
	case phone != "":
		query = query.Where("phone = ?", phone)
	default:
		return nil, domain.ErrMissingIdentity
	}

	var allocation model.Allocation
	if err := query.First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, fmt.Errorf("finding allocation by identity: %w", err)
	}
	return &allocation, nil
}

func (r *AllocationRepository) FindActiveByPool(ctx context.Context, orgID uuid.UUID) ([]*model.Allocation, error) {
	var allocations []*model.Allocation
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", orgID, model.AllocationActive).
		Order("allocated_at desc").
		Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("finding pool allocations: %w", err)
	}
	return allocations, nil
}

func (r *AllocationRepository) CountActiveByPool(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("organization_id = ? AND status = ?", orgID, model.AllocationActive).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting pool allocations: %w", err)
	}
	return count, nil
}

// Retire marks the allocation inactive and writes the pool's released seat in
// the same database transaction, so a retired record can never outlive its
// seat count. The license number stays with the record forever.
func (r *AllocationRepository) Retire(ctx context.Context, allocation *model.Allocation, pool *model.Organization) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(allocation).Updates(map[string]interface{}{
			"status":     model.AllocationRetired,
			"retired_at": now,
		}).Error; err != nil {
			return fmt.Errorf("retiring allocation: %w", err)
		}

		if err := tx.Save(pool).Error; err != nil {
			return fmt.Errorf("saving pool: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	allocation.Status = model.AllocationRetired
	allocation.RetiredAt = &now
	return nil
}
