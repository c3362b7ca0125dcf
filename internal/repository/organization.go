// internal/repository/organization.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/model"
	"gorm.io/gorm"
)

type OrganizationRepositoryIface interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindByCampaignCode(ctx context.Context, code string) (*model.Organization, error)
	FindActive(ctx context.Context) ([]*model.Organization, error)
	Save(ctx context.Context, org *model.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindManagers(ctx context.Context, orgID uuid.UUID) ([]model.LicenseManager, error)
	AddManager(ctx context.Context, manager *model.LicenseManager) error
	RemoveManager(ctx context.Context, orgID uuid.UUID, userEmail string) error
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByCampaignCode(ctx context.Context, code string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Where("campaign_code = ?", code).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization by campaign code: %w", err)
	}
	return &org, nil
}

// FindActive returns all organizations whose pool currently permits
// allocation, ordered by name.
func (r *OrganizationRepository) FindActive(ctx context.Context) ([]*model.Organization, error) {
	var orgs []*model.Organization
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.PoolActive).
		Order("name asc").
		Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("finding active organizations: %w", err)
	}
	return orgs, nil
}

func (r *OrganizationRepository) Save(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return fmt.Errorf("saving organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", id).Delete(&model.LicenseManager{}).Error; err != nil {
			return fmt.Errorf("deleting license managers: %w", err)
		}

		if err := tx.Delete(&model.Organization{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting organization: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) FindManagers(ctx context.Context, orgID uuid.UUID) ([]model.LicenseManager, error) {
	var managers []model.LicenseManager
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("position asc").
		Find(&managers).Error; err != nil {
		return nil, fmt.Errorf("finding license managers: %w", err)
	}
	return managers, nil
}

func (r *OrganizationRepository) AddManager(ctx context.Context, manager *model.LicenseManager) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.LicenseManager{}).
			Where("organization_id = ? AND user_email = ?", manager.OrganizationID, manager.UserEmail).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing manager: %w", err)
		}
		if count > 0 {
			return domain.ErrManagerAlreadyExists
		}

		// Append to the end of the ordered set.
		var maxPos int
		row := tx.Model(&model.LicenseManager{}).
			Where("organization_id = ?", manager.OrganizationID).
			Select("COALESCE(MAX(position), -1)").
			Row()
		if err := row.Scan(&maxPos); err != nil {
			return fmt.Errorf("reading manager positions: %w", err)
		}
		manager.Position = maxPos + 1

		if err := tx.Create(manager).Error; err != nil {
			return fmt.Errorf("creating license manager: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrManagerAlreadyExists) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) RemoveManager(ctx context.Context, orgID uuid.UUID, userEmail string) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_email = ?", orgID, userEmail).
		Delete(&model.LicenseManager{})
	if result.Error != nil {
		return fmt.Errorf("removing license manager: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrManagerNotFound
	}
	return nil
}

// DB returns the underlying database connection
func (r *OrganizationRepository) DB() *gorm.DB {
	return r.db
}
