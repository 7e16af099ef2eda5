package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "Pending"
	StatusProcessed = "Processed"
	StatusPaid      = "Paid"
)

// PayrollRecord is the persisted breakdown for one employee and one period.
// Amounts are frozen at processing time; later salary changes do not touch
// existing records.
type PayrollRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_company;uniqueIndex:uq_payroll_employee_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period"`
	Period     string    `gorm:"type:varchar(7);not null;index;uniqueIndex:uq_payroll_employee_period"`

	BasicSalary     decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Allowances      datatypes.JSON
	TotalAllowances decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	GrossPay        decimal.Decimal `gorm:"type:numeric(15,2);not null"`

	Deductions            datatypes.JSON  `gorm:"not null"`
	TotalDeductions       decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	NetSalary             decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	EmployerContributions datatypes.JSON  `gorm:"not null"`

	Status           string     `gorm:"type:varchar(20);not null;default:'Processed';index"`
	ProcessedBy      *uuid.UUID `gorm:"type:uuid"`
	PaymentReference *string    `gorm:"type:varchar(100)"`
	PaidAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}

func (r *PayrollRecord) AuditSnapshot() map[string]any {
	snapshot := map[string]any{
		"employee_id":      r.EmployeeID.String(),
		"period":           r.Period,
		"basic_salary":     r.BasicSalary.String(),
		"gross_pay":        r.GrossPay.String(),
		"total_deductions": r.TotalDeductions.String(),
		"net_salary":       r.NetSalary.String(),
		"status":           r.Status,
	}
	if r.PaymentReference != nil {
		snapshot["payment_reference"] = *r.PaymentReference
	}
	return snapshot
}
