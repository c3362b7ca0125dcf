// internal/model/verification_log.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationLog records one identity verification attempt against the
// external capabilities, successful or not. Written best-effort; never part
// of the allocation transaction.
type VerificationLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Email          string     `gorm:"type:citext" json:"email,omitempty"`
	Phone          string     `gorm:"type:text" json:"phone,omitempty"`
	Verified       bool       `gorm:"not null" json:"verified"`
	Method         string     `gorm:"type:text" json:"method"`
	Detail         string     `gorm:"type:text" json:"detail,omitempty"`
	RawStatus      int        `json:"raw_status,omitempty"`
	IPAddress      string     `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent      string     `gorm:"type:text" json:"user_agent,omitempty"`
	VerifiedAt     time.Time  `gorm:"not null" json:"verified_at"`
}
