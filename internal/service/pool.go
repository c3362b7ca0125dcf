// internal/service/pool.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/crm"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/repository"
)

// PoolService owns the administrative side of a license pool: lifecycle,
// seat totals, managers and the dashboard read model.
type PoolService struct {
	orgRepo   repository.OrganizationRepositoryIface
	allocRepo repository.AllocationRepositoryIface
	contacts  ContactStore
	config    *config.Config
	validate  *validator.Validate
}

func NewPoolService(
	orgRepo repository.OrganizationRepositoryIface,
	allocRepo repository.AllocationRepositoryIface,
	contacts ContactStore,
	config *config.Config,
) *PoolService {
	return &PoolService{
		orgRepo:   orgRepo,
		allocRepo: allocRepo,
		contacts:  contacts,
		config:    config,
		validate:  validator.New(),
	}
}

type CreatePoolInput struct {
	Name         string `json:"name" validate:"required"`
	CampaignCode string `json:"campaign_code"`
	TotalSeats   int    `json:"total_seats" validate:"gte=0"`
}

// CreatePool enables licensing for an organization. The seat total starts at
// the supplied value (or the configured default) with zero seats in use.
func (s *PoolService) CreatePool(ctx context.Context, input CreatePoolInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	totalSeats := input.TotalSeats
	if totalSeats == 0 && s.config != nil {
		totalSeats = s.config.License.DefaultTotalSeats
	}

	org := &model.Organization{
		Name:           input.Name,
		CampaignCode:   input.CampaignCode,
		TotalSeats:     totalSeats,
		UsedSeats:      0,
		AvailableSeats: totalSeats,
		LicensePrefix:  model.DeriveLicensePrefix(input.Name),
		Status:         model.PoolActive,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// DisablePool is the administrative reset: the pool and its manager set are
// removed entirely.
func (s *PoolService) DisablePool(ctx context.Context, orgID uuid.UUID) error {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return err
	}
	return s.orgRepo.Delete(ctx, orgID)
}

// PoolStatus is the seat-count snapshot exposed to the host platform.
type PoolStatus struct {
	OrganizationID uuid.UUID        `json:"organization_id"`
	Name           string           `json:"name"`
	TotalSeats     int              `json:"total_seats"`
	UsedSeats      int              `json:"used_seats"`
	AvailableSeats int              `json:"available_seats"`
	Status         model.PoolStatus `json:"status"`
}

func (s *PoolService) GetStatus(ctx context.Context, orgID uuid.UUID) (*PoolStatus, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &PoolStatus{
		OrganizationID: org.ID,
		Name:           org.Name,
		TotalSeats:     org.TotalSeats,
		UsedSeats:      org.UsedSeats,
		AvailableSeats: org.AvailableSeats,
		Status:         org.Status,
	}, nil
}

// GetStatusByCampaign resolves a pool through its campaign code, for callers
// that only carry the marketing attribution.
func (s *PoolService) GetStatusByCampaign(ctx context.Context, code string) (*PoolStatus, error) {
	org, err := s.orgRepo.FindByCampaignCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.GetStatus(ctx, org.ID)
}

// ListActive returns every pool currently accepting allocations.
func (s *PoolService) ListActive(ctx context.Context) ([]*model.Organization, error) {
	return s.orgRepo.FindActive(ctx)
}

// SetTotalSeats resizes the pool, rejecting totals below the seats in use.
func (s *PoolService) SetTotalSeats(ctx context.Context, orgID uuid.UUID, total int) (*PoolStatus, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := org.SetTotalSeats(total); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, fmt.Errorf("%w: saving pool: %v", domain.ErrPersistence, err)
	}
	return s.GetStatus(ctx, orgID)
}

// Reconcile recomputes used/available from the active allocation records.
// Meant for drift repair after manual intervention, not for routine use.
func (s *PoolService) Reconcile(ctx context.Context, orgID uuid.UUID) (*PoolStatus, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	used, err := s.allocRepo.CountActiveByPool(ctx, orgID)
	if err != nil {
		return nil, err
	}

	org.UsedSeats = int(used)
	org.AvailableSeats = org.TotalSeats - org.UsedSeats
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, fmt.Errorf("%w: saving pool: %v", domain.ErrPersistence, err)
	}

	return s.GetStatus(ctx, orgID)
}

func (s *PoolService) ListManagers(ctx context.Context, orgID uuid.UUID) ([]model.LicenseManager, error) {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.orgRepo.FindManagers(ctx, orgID)
}

type AddManagerInput struct {
	UserEmail string `json:"user_email" validate:"required,email"`
}

func (s *PoolService) AddManager(ctx context.Context, orgID uuid.UUID, input AddManagerInput) (*model.LicenseManager, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	manager := &model.LicenseManager{
		OrganizationID: orgID,
		UserEmail:      input.UserEmail,
	}
	if err := s.orgRepo.AddManager(ctx, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

func (s *PoolService) RemoveManager(ctx context.Context, orgID uuid.UUID, userEmail string) error {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return err
	}
	return s.orgRepo.RemoveManager(ctx, orgID, userEmail)
}

// DashboardSummary is the read model behind the allocated/unallocated
// dashboard.
type DashboardSummary struct {
	PoolStatus
	UsagePercentage int                 `json:"usage_percentage"`
	Warning         string              `json:"warning,omitempty"`
	Allocations     []*model.Allocation `json:"allocations"`
	UnallocatedLead []crm.Lead          `json:"unallocated_leads,omitempty"`
}

// Dashboard composes the pool snapshot with the active allocations and the
// campaign's unconverted leads. The lead lookup is best-effort: a CRM outage
// degrades the dashboard, it does not break it.
func (s *PoolService) Dashboard(ctx context.Context, orgID uuid.UUID) (*DashboardSummary, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocRepo.FindActiveByPool(ctx, orgID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		PoolStatus: PoolStatus{
			OrganizationID: org.ID,
			Name:           org.Name,
			TotalSeats:     org.TotalSeats,
			UsedSeats:      org.UsedSeats,
			AvailableSeats: org.AvailableSeats,
			Status:         org.Status,
		},
		Allocations: allocations,
	}

	if org.TotalSeats > 0 {
		summary.UsagePercentage = org.UsedSeats * 100 / org.TotalSeats
	}

	threshold := 5
	if s.config != nil && s.config.License.LowSeatThreshold > 0 {
		threshold = s.config.License.LowSeatThreshold
	}
	switch {
	case org.AvailableSeats == 0:
		summary.Warning = "no seats available; contact your relationship manager"
	case org.AvailableSeats <= threshold:
		summary.Warning = fmt.Sprintf("only %d seats remaining", org.AvailableSeats)
	}

	if s.contacts != nil && org.CampaignCode != "" {
		leads, err := s.contacts.FindLeadsByCampaign(ctx, org.CampaignCode)
		if err != nil {
			slog.WarnContext(ctx, "failed to load campaign leads for dashboard",
				"organization_id", orgID, "error", err)
		} else {
			summary.UnallocatedLead = leads
		}
	}

	return summary, nil
}
