// internal/service/bulk_validation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/identity"
	"github.com/parlohq/licenser/internal/repository"
)

// RawRow is one candidate from a bulk upload before any validation.
type RawRow struct {
	Row          int    `json:"row"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CampaignCode string `json:"campaign_code,omitempty"`
}

// ValidatedRow is RawRow plus the validation verdict. Phone is rewritten to
// canonical E.164 when the phone path succeeded.
type ValidatedRow struct {
	Row       int      `json:"row"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Valid     bool     `json:"valid"`
	Method    string   `json:"method,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// ValidationReport is the advisory result of a bulk validation pass. It
// feeds a human-reviewed commit step and never mutates the pool.
type ValidationReport struct {
	Total          int            `json:"total"`
	ValidCount     int            `json:"valid_count"`
	InvalidCount   int            `json:"invalid_count"`
	AvailableSeats int            `json:"available_seats"`
	CanProceed     bool           `json:"can_proceed"`
	Warning        string         `json:"warning,omitempty"`
	Rows           []ValidatedRow `json:"rows"`
}

// BulkValidationService runs the read-only validation pass over a tabular
// batch of candidate identities.
type BulkValidationService struct {
	orgRepo      repository.OrganizationRepositoryIface
	allocRepo    repository.AllocationRepositoryIface
	verification *VerificationService
	config       *config.Config
}

func NewBulkValidationService(
	orgRepo repository.OrganizationRepositoryIface,
	allocRepo repository.AllocationRepositoryIface,
	verification *VerificationService,
	config *config.Config,
) *BulkValidationService {
	return &BulkValidationService{
		orgRepo:      orgRepo,
		allocRepo:    allocRepo,
		verification: verification,
		config:       config,
	}
}

// Validate checks every row through the phone-first waterfall, flags
// duplicates against the pool's active allocations and aggregates the
// capacity verdict.
func (s *BulkValidationService) Validate(ctx context.Context, orgID uuid.UUID, rows []RawRow, meta RequestMeta) (*ValidationReport, error) {
	pool, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{
		Total:          len(rows),
		AvailableSeats: pool.AvailableSeats,
		Rows:           make([]ValidatedRow, 0, len(rows)),
	}

	for _, raw := range rows {
		row := s.validateRow(ctx, pool.ID, raw, meta)
		if row.Valid {
			report.ValidCount++
		} else {
			report.InvalidCount++
		}
		report.Rows = append(report.Rows, row)
	}

	report.CanProceed = report.ValidCount > 0 && report.ValidCount <= report.AvailableSeats

	threshold := 5
	if s.config != nil && s.config.License.LowSeatThreshold > 0 {
		threshold = s.config.License.LowSeatThreshold
	}

	switch {
	case report.ValidCount > report.AvailableSeats:
		report.Warning = fmt.Sprintf("insufficient seats: %d valid rows, %d available", report.ValidCount, report.AvailableSeats)
	case report.AvailableSeats <= threshold:
		report.Warning = fmt.Sprintf("only %d seats remaining", report.AvailableSeats)
	}

	return report, nil
}

func (s *BulkValidationService) validateRow(ctx context.Context, orgID uuid.UUID, raw RawRow, meta RequestMeta) ValidatedRow {
	firstName, lastName := splitFullName(raw.FullName)
	row := ValidatedRow{
		Row:       raw.Row,
		FirstName: firstName,
		LastName:  lastName,
		Email:     raw.Email,
		Phone:     raw.Phone,
	}

	if raw.Email == "" && raw.Phone == "" {
		row.Errors = append(row.Errors, domain.ErrMissingIdentity.Error())
		return row
	}

	// Phone first, then email as the fallback channel.
	if raw.Phone != "" {
		outcome := s.verification.Verify(ctx, &orgID, identity.Identity{Phone: raw.Phone}, meta)
		if outcome.Verified {
			row.Valid = true
			row.Method = string(outcome.Method)
			row.Phone = outcome.CanonicalPhone
		} else {
			row.Errors = append(row.Errors, fmt.Sprintf("phone verification failed: %s", outcome.Method))
		}
	}

	if !row.Valid && raw.Email != "" {
		outcome := s.verification.Verify(ctx, &orgID, identity.Identity{Email: raw.Email}, meta)
		if outcome.Verified {
			row.Valid = true
			row.Method = string(outcome.Method)
		} else {
			row.Errors = append(row.Errors, fmt.Sprintf("email verification failed: %s", outcome.Method))
		}
	}

	if !row.Valid {
		return row
	}

	// Cross-check against active allocations in this pool.
	existing, err := s.allocRepo.FindActiveByIdentity(ctx, orgID, row.Email, row.Phone)
	if err != nil && !errors.Is(err, domain.ErrAllocationNotFound) {
		row.Valid = false
		row.Errors = append(row.Errors, fmt.Sprintf("duplicate check failed: %v", err))
		return row
	}
	if existing != nil {
		row.Valid = false
		row.Method = ""
		row.Errors = append(row.Errors, "license already allocated to this identity")
	}

	return row
}

func splitFullName(full string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(full), " ")
	return first, strings.TrimSpace(last)
}
