package employee

import (
	"time"

	"go-zampay/internal/paycalc"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EmploymentTypePermanent = "permanent"
	EmploymentTypeContract  = "contract"
	EmploymentTypeProbation = "probation"
	EmploymentTypeIntern    = "intern"

	StatusActive     = "Active"
	StatusProbation  = "Probation"
	StatusInactive   = "Inactive"
	StatusResigned   = "Resigned"
	StatusTerminated = "Terminated"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`

	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(255);uniqueIndex:uq_employee_email"`
	Phone     string `gorm:"type:varchar(20)"`

	// Zambian statutory identifiers
	NationalID  *string `gorm:"type:varchar(50)"`
	NapsaNumber *string `gorm:"type:varchar(50)"`
	NhimaNumber *string `gorm:"type:varchar(50)"`
	Tpin        *string `gorm:"type:varchar(50)"`

	Department   string     `gorm:"type:varchar(100)"`
	Position     string     `gorm:"type:varchar(100)"`
	SupervisorID *uuid.UUID `gorm:"type:uuid"`
	WorkLocation *string    `gorm:"type:varchar(255)"`

	EmploymentType   string     `gorm:"type:varchar(20);not null;default:'permanent'"`
	EmploymentStatus string     `gorm:"type:varchar(20);not null;default:'Active';index"`
	StartDate        time.Time  `gorm:"type:date;not null"`
	EndDate          *time.Time `gorm:"type:date"`
	ProbationEndDate *time.Time `gorm:"type:date"`
	ContractEndDate  *time.Time `gorm:"type:date"`

	Salary         decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	SalaryCurrency string          `gorm:"type:varchar(3);not null;default:'ZMW'"`
	Allowances     datatypes.JSON  // named monthly allowances, e.g. {"housing": "2000"}

	EmergencyContactName  *string `gorm:"type:varchar(100)"`
	EmergencyContactPhone *string `gorm:"type:varchar(20)"`

	HasLiveDisciplinary bool `gorm:"not null;default:false"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Classification maps the contract type onto the statutory levy split.
func (e *Employee) Classification() paycalc.Classification {
	if e.EmploymentType == EmploymentTypePermanent {
		return paycalc.ClassificationPermanent
	}
	return paycalc.ClassificationOther
}

// AuditSnapshot is the field map captured into audit records around a
// mutation. Kept to plain JSON-safe values on purpose.
func (e *Employee) AuditSnapshot() map[string]any {
	return map[string]any{
		"employee_number":       e.EmployeeNumber,
		"first_name":            e.FirstName,
		"last_name":             e.LastName,
		"email":                 e.Email,
		"phone":                 e.Phone,
		"department":            e.Department,
		"position":              e.Position,
		"employment_type":       e.EmploymentType,
		"employment_status":     e.EmploymentStatus,
		"salary":                e.Salary.String(),
		"salary_currency":       e.SalaryCurrency,
		"has_live_disciplinary": e.HasLiveDisciplinary,
	}
}
