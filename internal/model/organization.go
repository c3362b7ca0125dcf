// internal/model/organization.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/domain"
)

type PoolStatus string

const (
	PoolActive    PoolStatus = "active"
	PoolInactive  PoolStatus = "inactive"
	PoolSuspended PoolStatus = "suspended"
)

// licenseSeriesWidth is the zero-padding width of the numeric suffix in a
// license number, e.g. ACL-00042.
const licenseSeriesWidth = 5

// fallbackLicensePrefix stamps numbers for organizations whose name yields no
// initials, so a nameless pool never mints a bare "-00001".
const fallbackLicensePrefix = "LIC-"

// Organization carries the per-organization license pool: seat counts, the
// numbering series and the prefix stamp. One pool per organization.
type Organization struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string     `gorm:"type:text;not null" json:"name"`
	CampaignCode   string     `gorm:"type:text" json:"campaign_code"`
	TotalSeats     int        `gorm:"not null;default:0" json:"total_seats"`
	UsedSeats      int        `gorm:"not null;default:0" json:"used_seats"`
	AvailableSeats int        `gorm:"not null;default:0" json:"available_seats"`
	LicensePrefix  string     `gorm:"type:text" json:"license_prefix"`
	SeriesCounter  int        `gorm:"not null;default:0" json:"series_counter"`
	Status         PoolStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Managers []LicenseManager `gorm:"foreignKey:OrganizationID" json:"managers,omitempty"`
}

// LicenseManager is one entry of the ordered set of users allowed to manage
// an organization's licenses.
type LicenseManager struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserEmail      string    `gorm:"type:citext;not null" json:"user_email"`
	Position       int       `gorm:"not null;default:0" json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReserveSeat consumes one seat. The caller must hold the pool's
// serialization scope and persist the aggregate afterwards.
func (o *Organization) ReserveSeat() error {
	if o.Status != PoolActive {
		return domain.ErrPoolSuspended
	}
	if o.AvailableSeats <= 0 {
		return domain.ErrPoolExhausted
	}
	o.UsedSeats++
	o.recompute()
	return nil
}

// ReleaseSeat returns one seat to the pool. Counts never go negative.
func (o *Organization) ReleaseSeat() error {
	if o.UsedSeats == 0 {
		return domain.ErrNoSeatsInUse
	}
	o.UsedSeats--
	o.recompute()
	return nil
}

// NextLicenseNumber advances the series and formats the next number. The
// series is never rewound, even when an allocation later fails or is
// deallocated: numbers are retired, not recycled.
func (o *Organization) NextLicenseNumber() string {
	if o.LicensePrefix == "" {
		o.LicensePrefix = DeriveLicensePrefix(o.Name)
	}
	o.SeriesCounter++
	return fmt.Sprintf("%s%0*d", o.LicensePrefix, licenseSeriesWidth, o.SeriesCounter)
}

// SetTotalSeats resizes the pool. Shrinking below the number of seats in use
// is rejected.
func (o *Organization) SetTotalSeats(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: total seats cannot be negative", domain.ErrInvalidInput)
	}
	if n < o.UsedSeats {
		return domain.ErrBelowUsedSeats
	}
	o.TotalSeats = n
	o.recompute()
	return nil
}

func (o *Organization) recompute() {
	o.AvailableSeats = o.TotalSeats - o.UsedSeats
}

// DeriveLicensePrefix builds the prefix stamp from the uppercase initials of
// the first three words of the organization name, with a trailing dash. An
// empty name falls back to a generic prefix.
func DeriveLicensePrefix(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return fallbackLicensePrefix
	}
	if len(words) > 3 {
		words = words[:3]
	}
	var b strings.Builder
	for _, w := range words {
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	b.WriteString("-")
	return b.String()
}
