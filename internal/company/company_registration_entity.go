package company

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationType string

// Statutory registrations an employer carries in Zambia. NAPSA and NHIMA
// numbers go on contribution returns, the ZRA TPIN on PAYE remittances.
const (
	RegistrationNapsa RegistrationType = "napsa"
	RegistrationNhima RegistrationType = "nhima"
	RegistrationZra   RegistrationType = "zra_tpin"
	RegistrationPacra RegistrationType = "pacra"
)

func (t RegistrationType) Valid() bool {
	switch t {
	case RegistrationNapsa, RegistrationNhima, RegistrationZra, RegistrationPacra:
		return true
	}
	return false
}

type CompanyRegistration struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_company_registration_type"`
	Type      RegistrationType `gorm:"type:varchar(20);not null;uniqueIndex:uq_company_registration_type"`
	Number    string           `gorm:"type:varchar(50);not null"`
	IssuedAt  *time.Time       `gorm:"type:date"`
	CreatedAt time.Time        `gorm:"not null;default:now()"`
	UpdatedAt time.Time        `gorm:"not null;default:now()"`
}

func (CompanyRegistration) TableName() string {
	return "company_registrations"
}
