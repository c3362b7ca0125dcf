// internal/model/allocation.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type AllocationStatus string

const (
	AllocationActive  AllocationStatus = "active"
	AllocationRetired AllocationStatus = "retired"
)

// Allocation binds one identity to one seat of an organization's pool. A
// retired allocation keeps its license number forever; reallocating the same
// identity creates a new record with a new number.
type Allocation struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	LicenseNumber  string           `gorm:"type:text;uniqueIndex;not null" json:"license_number"`
	FirstName      string           `gorm:"type:text" json:"first_name"`
	LastName       string           `gorm:"type:text" json:"last_name"`
	Email          string           `gorm:"type:citext;index" json:"email,omitempty"`
	Phone          string           `gorm:"type:text;index" json:"phone,omitempty"`
	Method         string           `gorm:"type:text" json:"verification_method,omitempty"`
	Status         AllocationStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	AllocatedAt    time.Time        `gorm:"not null" json:"allocated_at"`
	RetiredAt      *time.Time       `json:"retired_at,omitempty"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}
