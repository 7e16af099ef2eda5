package disciplinary

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeVerbalWarning  = "verbal_warning"
	TypeWrittenWarning = "written_warning"
	TypeFinalWarning   = "final_warning"
	TypeSuspension     = "suspension"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

func ValidType(t string) bool {
	switch t {
	case TypeVerbalWarning, TypeWrittenWarning, TypeFinalWarning, TypeSuspension:
		return true
	}
	return false
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// DisciplinaryRecord carries one warning or suspension. A record counts
// against the employee while is_active is true and valid_until has not
// passed.
type DisciplinaryRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_disciplinary_company"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_disciplinary_employee"`
	HRActionID *uuid.UUID `gorm:"type:uuid"`

	ActionType string    `gorm:"type:varchar(20);not null"`
	Reason     string    `gorm:"type:text;not null"`
	Severity   string    `gorm:"type:varchar(10);not null;default:'medium'"`
	IssuedDate time.Time `gorm:"type:date;not null"`
	ValidUntil time.Time `gorm:"type:date;not null"`
	IsActive   bool      `gorm:"not null;default:true;index"`

	IssuedBy    *uuid.UUID `gorm:"type:uuid"`
	DocumentURL *string    `gorm:"type:varchar(500)"`
	Comments    *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (DisciplinaryRecord) TableName() string {
	return "disciplinary_records"
}
