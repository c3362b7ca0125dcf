// internal/service/allocation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/crm"
	"github.com/parlohq/licenser/internal/directory"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/email"
	"github.com/parlohq/licenser/internal/email/mailer"
	"github.com/parlohq/licenser/internal/identity"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/repository"
)

// DirectoryRedeemer activates an allocated seat with the upstream directory
// service. Best-effort; failures never undo an allocation.
type DirectoryRedeemer interface {
	Redeem(ctx context.Context, req *directory.RedeemRequest) (*directory.RedeemResponse, error)
}

// ContactStore is the narrow CRM surface the engine needs.
type ContactStore interface {
	CreateContact(ctx context.Context, contact *crm.Contact) error
	FindLeadsByCampaign(ctx context.Context, campaignCode string) ([]crm.Lead, error)
	UpdateLeadStatus(ctx context.Context, leadID, status string) error
}

// AllocationService is the single writer for every pool's seat counts and
// numbering series. All mutations of one pool are serialized behind a
// per-pool mutex; pools of different organizations proceed independently.
type AllocationService struct {
	orgRepo      repository.OrganizationRepositoryIface
	allocRepo    repository.AllocationRepositoryIface
	verification *VerificationService
	emailService *email.Service
	redeemer     DirectoryRedeemer
	contacts     ContactStore
	config       *config.Config
	validate     *validator.Validate

	poolLocks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewAllocationService(
	orgRepo repository.OrganizationRepositoryIface,
	allocRepo repository.AllocationRepositoryIface,
	verification *VerificationService,
	emailService *email.Service,
	redeemer DirectoryRedeemer,
	contacts ContactStore,
	config *config.Config,
) *AllocationService {
	return &AllocationService{
		orgRepo:      orgRepo,
		allocRepo:    allocRepo,
		verification: verification,
		emailService: emailService,
		redeemer:     redeemer,
		contacts:     contacts,
		config:       config,
		validate:     validator.New(),
	}
}

// lockPool returns the mutex serializing mutations of one pool.
func (s *AllocationService) lockPool(orgID uuid.UUID) *sync.Mutex {
	mu, _ := s.poolLocks.LoadOrStore(orgID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type AllocateInput struct {
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email" validate:"omitempty,email"`
	Phone          string    `json:"phone"`
}

// Allocate verifies the identity, consumes one seat and mints a license
// number. Verification runs before the pool lock is taken; the lock only
// covers the reserve/mint/persist sequence.
func (s *AllocationService) Allocate(ctx context.Context, input AllocateInput, meta RequestMeta) (*model.Allocation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	id := identity.Identity{Email: input.Email, Phone: input.Phone}
	if id.Empty() {
		return nil, domain.ErrMissingIdentity
	}

	outcome := s.verification.Verify(ctx, &input.OrganizationID, id, meta)
	if !outcome.Verified {
		// A malformed identity is a caller mistake, not a lookup failure.
		if outcome.Method == identity.MethodInvalidFormat {
			if input.Phone != "" {
				return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPhoneFormat, outcome.Detail)
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEmailFormat, outcome.Detail)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrLookupFailed, outcome.Method)
	}
	if outcome.CanonicalPhone != "" {
		input.Phone = outcome.CanonicalPhone
	}

	return s.commit(ctx, input, string(outcome.Method))
}

// commit runs the transactional part of an allocation for an already
// verified identity.
func (s *AllocationService) commit(ctx context.Context, input AllocateInput, method string) (*model.Allocation, error) {
	mu := s.lockPool(input.OrganizationID)
	mu.Lock()
	defer mu.Unlock()

	pool, err := s.orgRepo.FindByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	if pool.Status != model.PoolActive {
		return nil, domain.ErrPoolInactive
	}

	// Pool-scoped duplicate gate: one active allocation per identity.
	existing, err := s.allocRepo.FindActiveByIdentity(ctx, pool.ID, input.Email, input.Phone)
	if err != nil && !errors.Is(err, domain.ErrAllocationNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateAllocation
	}

	if err := pool.ReserveSeat(); err != nil {
		return nil, err
	}

	licenseNumber := pool.NextLicenseNumber()

	if err := s.orgRepo.Save(ctx, pool); err != nil {
		return nil, fmt.Errorf("%w: saving pool: %v", domain.ErrPersistence, err)
	}

	allocation := &model.Allocation{
		OrganizationID: pool.ID,
		LicenseNumber:  licenseNumber,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Method:         method,
		Status:         model.AllocationActive,
		AllocatedAt:    time.Now().UTC(),
	}

	if err := s.allocRepo.Create(ctx, allocation); err != nil {
		// Compensating release. The minted number stays burned: losing a
		// number beats double-allocating a seat.
		if relErr := pool.ReleaseSeat(); relErr == nil {
			if saveErr := s.orgRepo.Save(ctx, pool); saveErr != nil {
				slog.ErrorContext(ctx, "failed to persist compensating seat release",
					"organization_id", pool.ID, "error", saveErr)
			}
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	go s.postAllocationEffects(pool, allocation)

	return allocation, nil
}

// Deallocate retires an active allocation and returns its seat to the pool.
// The license number is never reissued.
func (s *AllocationService) Deallocate(ctx context.Context, allocationID uuid.UUID) error {
	allocation, err := s.allocRepo.FindByID(ctx, allocationID)
	if err != nil {
		return err
	}
	if allocation.Status != model.AllocationActive {
		return domain.ErrAllocationNotFound
	}

	mu := s.lockPool(allocation.OrganizationID)
	mu.Lock()
	defer mu.Unlock()

	pool, err := s.orgRepo.FindByID(ctx, allocation.OrganizationID)
	if err != nil {
		return err
	}

	// Release on a copy first. Retire persists the record flip and the seat
	// release in one transaction, so a failed write leaves both the database
	// and the in-memory pool exactly as they were: used seats keep matching
	// the active records.
	released := *pool
	if err := released.ReleaseSeat(); err != nil {
		return err
	}
	if err := s.allocRepo.Retire(ctx, allocation, &released); err != nil {
		return err
	}
	*pool = released

	return nil
}

// BatchRow is one pre-validated candidate from the bulk pipeline.
type BatchRow struct {
	Row       int    `json:"row"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Valid     bool   `json:"valid"`
	Method    string `json:"method"`
}

// BatchRowResult reports the fate of one batch row.
type BatchRowResult struct {
	BatchRow
	LicenseNumber string `json:"license_number,omitempty"`
	Error         string `json:"error,omitempty"`
}

// BatchResult is the per-row outcome of a committed batch.
type BatchResult struct {
	Allocated []BatchRowResult `json:"allocated"`
	Failed    []BatchRowResult `json:"failed"`
}

// AllocateBatch commits pre-validated rows. The capacity pre-flight is
// all-or-nothing: if the valid rows outnumber the available seats nothing is
// allocated. The commit itself is per-row with partial success.
func (s *AllocationService) AllocateBatch(ctx context.Context, orgID uuid.UUID, rows []BatchRow) (*BatchResult, error) {
	validCount := 0
	for _, row := range rows {
		if row.Valid {
			validCount++
		}
	}

	pool, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if pool.Status != model.PoolActive {
		return nil, domain.ErrPoolInactive
	}
	if validCount > pool.AvailableSeats {
		return nil, fmt.Errorf("%w: %d valid rows, %d seats available",
			domain.ErrInsufficientCapacity, validCount, pool.AvailableSeats)
	}

	result := &BatchResult{}
	for _, row := range rows {
		if !row.Valid {
			result.Failed = append(result.Failed, BatchRowResult{BatchRow: row, Error: "row failed validation"})
			continue
		}

		allocation, err := s.commit(ctx, AllocateInput{
			OrganizationID: orgID,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			Email:          row.Email,
			Phone:          row.Phone,
		}, row.Method)
		if err != nil {
			result.Failed = append(result.Failed, BatchRowResult{BatchRow: row, Error: err.Error()})
			continue
		}

		result.Allocated = append(result.Allocated, BatchRowResult{
			BatchRow:      row,
			LicenseNumber: allocation.LicenseNumber,
		})
	}

	return result, nil
}

// postAllocationEffects runs the fire-and-forget side effects of a committed
// allocation: welcome email, upstream seat redemption, CRM contact creation
// and the exhaustion warning. None of them can fail the allocation.
func (s *AllocationService) postAllocationEffects(pool *model.Organization, allocation *model.Allocation) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.emailService != nil && allocation.Email != "" {
		if err := mailer.SendLicenseAllocatedEmail(s.emailService, allocation.Email, allocation.FirstName, pool.Name, allocation.LicenseNumber); err != nil {
			slog.WarnContext(ctx, "failed to send allocation email",
				"allocation_id", allocation.ID, "error", err)
		}
	}

	if s.redeemer != nil {
		if _, err := s.redeemer.Redeem(ctx, &directory.RedeemRequest{
			Email:       allocation.Email,
			PhoneNumber: allocation.Phone,
		}); err != nil {
			slog.WarnContext(ctx, "failed to redeem seat upstream",
				"allocation_id", allocation.ID, "error", err)
		}
	}

	if s.contacts != nil {
		contact := &crm.Contact{
			FirstName:     allocation.FirstName,
			LastName:      allocation.LastName,
			Email:         allocation.Email,
			Phone:         allocation.Phone,
			Organization:  pool.Name,
			LicenseNumber: allocation.LicenseNumber,
		}
		if err := s.contacts.CreateContact(ctx, contact); err != nil {
			slog.WarnContext(ctx, "failed to create CRM contact",
				"allocation_id", allocation.ID, "error", err)
		}

		s.convertLead(ctx, pool, allocation)
	}

	if pool.AvailableSeats == 0 {
		s.notifyExhausted(ctx, pool)
	}
}

// convertLead marks the campaign lead matching the allocated identity as
// converted so the dashboard stops listing it as unallocated.
func (s *AllocationService) convertLead(ctx context.Context, pool *model.Organization, allocation *model.Allocation) {
	if pool.CampaignCode == "" {
		return
	}

	leads, err := s.contacts.FindLeadsByCampaign(ctx, pool.CampaignCode)
	if err != nil {
		slog.WarnContext(ctx, "failed to load campaign leads for conversion",
			"allocation_id", allocation.ID, "error", err)
		return
	}

	for _, lead := range leads {
		if (allocation.Email != "" && lead.Email == allocation.Email) ||
			(allocation.Phone != "" && lead.Phone == allocation.Phone) {
			if err := s.contacts.UpdateLeadStatus(ctx, lead.ID, "converted"); err != nil {
				slog.WarnContext(ctx, "failed to convert lead",
					"allocation_id", allocation.ID, "lead_id", lead.ID, "error", err)
			}
			return
		}
	}
}

func (s *AllocationService) notifyExhausted(ctx context.Context, pool *model.Organization) {
	if s.emailService == nil {
		return
	}

	managers, err := s.orgRepo.FindManagers(ctx, pool.ID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load managers for exhaustion notice",
			"organization_id", pool.ID, "error", err)
		return
	}

	for _, manager := range managers {
		if err := mailer.SendPoolExhaustedEmail(s.emailService, manager.UserEmail, pool.Name, pool.TotalSeats); err != nil {
			slog.WarnContext(ctx, "failed to send exhaustion email",
				"organization_id", pool.ID, "to", manager.UserEmail, "error", err)
		}
	}
}
