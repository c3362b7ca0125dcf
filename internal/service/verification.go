// internal/service/verification.go
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/identity"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/repository"
)

// RequestMeta carries optional client attribution recorded with each
// verification attempt.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// VerificationService runs the identity verification waterfall and records
// every attempt. The log write is best-effort and never fails a
// verification.
type VerificationService struct {
	verifier *identity.Verifier
	logRepo  repository.VerificationLogRepositoryIface
}

func NewVerificationService(verifier *identity.Verifier, logRepo repository.VerificationLogRepositoryIface) *VerificationService {
	return &VerificationService{
		verifier: verifier,
		logRepo:  logRepo,
	}
}

// Recent returns the latest verification attempts recorded for an
// organization, newest first.
func (s *VerificationService) Recent(ctx context.Context, orgID uuid.UUID, limit int) ([]*model.VerificationLog, error) {
	return s.logRepo.FindRecentByOrganization(ctx, orgID, limit)
}

// Verify evaluates the identity and records the outcome. orgID may be nil
// for attempts made before an organization is known.
func (s *VerificationService) Verify(ctx context.Context, orgID *uuid.UUID, id identity.Identity, meta RequestMeta) identity.Outcome {
	outcome := s.verifier.Verify(ctx, id)

	if s.logRepo != nil {
		log := &model.VerificationLog{
			OrganizationID: orgID,
			Email:          id.Email,
			Phone:          outcome.CanonicalPhone,
			Verified:       outcome.Verified,
			Method:         string(outcome.Method),
			Detail:         outcome.Detail,
			RawStatus:      outcome.RawStatus,
			IPAddress:      meta.IPAddress,
			UserAgent:      meta.UserAgent,
			VerifiedAt:     time.Now().UTC(),
		}
		if log.Phone == "" {
			log.Phone = id.Phone
		}
		if err := s.logRepo.Create(ctx, log); err != nil {
			slog.WarnContext(ctx, "failed to record verification attempt", "error", err)
		}
	}

	return outcome
}
