package hraction

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Action types. One row is appended per workflow operation; payroll_action
// rows come from payroll processing, compliance_update from the generic
// append endpoint.
const (
	ActionProfileUpdate       = "profile_update"
	ActionStatusChange        = "status_change"
	ActionContractUpdate      = "contract_update"
	ActionSalaryChange        = "salary_change"
	ActionLeaveRecord         = "leave_record"
	ActionLeaveCommute        = "leave_commute"
	ActionAbsenceUnauthorized = "absence_unauthorized"
	ActionDisciplinary        = "disciplinary_action"
	ActionComplianceUpdate    = "compliance_update"
	ActionExitProcessing      = "exit_processing"
	ActionPayroll             = "payroll_action"
)

const (
	StatusPending         = "pending"
	StatusCompleted       = "completed"
	StatusCancelled       = "cancelled"
	StatusInProgress      = "in_progress"
	StatusPendingApproval = "pending_approval"
)

func ValidActionType(t string) bool {
	switch t {
	case ActionProfileUpdate, ActionStatusChange, ActionContractUpdate,
		ActionSalaryChange, ActionLeaveRecord, ActionLeaveCommute,
		ActionAbsenceUnauthorized, ActionDisciplinary, ActionComplianceUpdate,
		ActionExitProcessing, ActionPayroll:
		return true
	}
	return false
}

// WorkflowOwnedActionType reports whether rows of this type may only be
// produced by their dedicated operation; the generic append rejects them so
// it cannot bypass a workflow's side effects.
func WorkflowOwnedActionType(t string) bool {
	switch t {
	case ActionProfileUpdate, ActionStatusChange, ActionContractUpdate,
		ActionSalaryChange, ActionLeaveRecord, ActionLeaveCommute,
		ActionAbsenceUnauthorized, ActionDisciplinary,
		ActionExitProcessing, ActionPayroll:
		return true
	}
	return false
}

// HRAction is the human-readable workflow log, distinct from the field-level
// audit trail. Rows are append-only; the single permitted in-place change is
// the approval transition out of pending_approval.
type HRAction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_hr_actions_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_hr_actions_employee"`

	ActionType    string         `gorm:"type:varchar(30);not null;index"`
	ActionDate    time.Time      `gorm:"not null;default:now()"`
	EffectiveDate time.Time      `gorm:"type:date;not null"`
	PerformedBy   *uuid.UUID     `gorm:"type:uuid"`
	Details       datatypes.JSON `gorm:"not null"`
	Summary       string         `gorm:"type:text;not null"`

	Status           string     `gorm:"type:varchar(20);not null;default:'completed';index"`
	RequiresApproval bool       `gorm:"not null;default:false"`
	ApprovedBy       *uuid.UUID `gorm:"type:uuid"`
	ApprovalDate     *time.Time

	Comments  *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (HRAction) TableName() string {
	return "hr_actions"
}
