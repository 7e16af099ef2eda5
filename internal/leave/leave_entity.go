package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeAnnual       = "annual"
	TypeSick         = "sick"
	TypeMaternity    = "maternity"
	TypeCommuted     = "commuted"
	TypeUnauthorized = "unauthorized"

	StatusApproved = "approved"
	StatusRecorded = "recorded"

	DeductionSalary = "salary"
	DeductionLeave  = "leave"
	DeductionBoth   = "both"
)

func ValidRecordableType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeMaternity:
		return true
	}
	return false
}

func ValidDeductionType(t string) bool {
	switch t {
	case DeductionSalary, DeductionLeave, DeductionBoth:
		return true
	}
	return false
}

// LeaveRecord rows are written by the HR action workflows; this package only
// stores and lists them.
type LeaveRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index"`
	HRActionID *uuid.UUID `gorm:"type:uuid"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	DaysCount int       `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'approved'"`

	ApprovedBy    *uuid.UUID `gorm:"type:uuid"`
	DoctorNoteURL *string    `gorm:"type:varchar(500)"`

	CommuteValue      *decimal.Decimal `gorm:"type:numeric(15,2)"`
	TotalCommuteValue *decimal.Decimal `gorm:"type:numeric(15,2)"`

	DeductionType     *string          `gorm:"type:varchar(10)"`
	DeductionAmount   *decimal.Decimal `gorm:"type:numeric(15,2)"`
	LeaveDaysDeducted *int

	Comments  *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRecord) TableName() string {
	return "leave_records"
}
