package hraction

import "encoding/json"

type CreateHRActionRequest struct {
	EmployeeID       string         `json:"employee_id" binding:"required,uuid"`
	ActionType       string         `json:"action_type" binding:"required"`
	EffectiveDate    string         `json:"effective_date" binding:"required"`
	Summary          string         `json:"summary" binding:"required"`
	Details          map[string]any `json:"details"`
	Status           string         `json:"status"`
	RequiresApproval bool           `json:"requires_approval"`
	Comments         *string        `json:"comments"`
}

type UpdateProfileRequest struct {
	EmployeeID    string            `json:"employee_id" binding:"required,uuid"`
	UpdateType    string            `json:"update_type" binding:"required,oneof=personal contact emergency"`
	Changes       map[string]string `json:"changes" binding:"required"`
	EffectiveDate string            `json:"effective_date" binding:"required"`
	Comments      *string           `json:"comments"`
}

type ChangeStatusRequest struct {
	EmployeeID       string  `json:"employee_id" binding:"required,uuid"`
	NewStatus        string  `json:"new_status" binding:"required"`
	Reason           string  `json:"reason" binding:"required"`
	EffectiveDate    string  `json:"effective_date" binding:"required"`
	FinalWorkDate    *string `json:"final_work_date"`
	NoticePeriodDays *int    `json:"notice_period_days"`
	Comments         *string `json:"comments"`
}

type UpdateContractRequest struct {
	EmployeeID    string            `json:"employee_id" binding:"required,uuid"`
	Changes       map[string]string `json:"changes" binding:"required"`
	EffectiveDate string            `json:"effective_date" binding:"required"`
	Comments      *string           `json:"comments"`
}

type ChangeSalaryRequest struct {
	EmployeeID               string  `json:"employee_id" binding:"required,uuid"`
	NewSalary                string  `json:"new_salary" binding:"required"`
	Reason                   string  `json:"reason" binding:"required"`
	EffectiveDate            string  `json:"effective_date" binding:"required"`
	RequiresDirectorApproval bool    `json:"requires_director_approval"`
	Comments                 *string `json:"comments"`
}

type RecordLeaveRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	LeaveType     string  `json:"leave_type" binding:"required"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	Reason        string  `json:"reason"`
	DoctorNoteURL *string `json:"doctor_note_url"`
	Comments      *string `json:"comments"`
}

type CommuteLeaveRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	LeaveDays     int     `json:"leave_days" binding:"required,gt=0"`
	DailyValue    string  `json:"daily_value" binding:"required"`
	TotalValue    string  `json:"total_value" binding:"required"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
	PaymentDate   *string `json:"payment_date"`
	Comments      *string `json:"comments"`
}

type UnauthorizedAbsenceRequest struct {
	EmployeeID        string   `json:"employee_id" binding:"required,uuid"`
	AbsenceDates      []string `json:"absence_dates" binding:"required"`
	Reason            string   `json:"reason" binding:"required"`
	DeductionType     string   `json:"deduction_type" binding:"required"`
	DeductionAmount   *string  `json:"deduction_amount"`
	LeaveDaysDeducted *int     `json:"leave_days_deducted"`
	Comments          *string  `json:"comments"`
}

type ProcessExitRequest struct {
	EmployeeID           string  `json:"employee_id" binding:"required,uuid"`
	ExitType             string  `json:"exit_type" binding:"required"`
	Reason               string  `json:"reason" binding:"required"`
	ExitDate             string  `json:"exit_date" binding:"required"`
	OutstandingLeaveDays int     `json:"outstanding_leave_days"`
	Deductions           *string `json:"deductions"`
	NoticeServed         bool    `json:"notice_served"`
	Comments             *string `json:"comments"`
}

type ApprovalRequest struct {
	Comments *string `json:"comments"`
}

type HRActionResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	ActionType    string          `json:"action_type"`
	ActionDate    string          `json:"action_date"`
	EffectiveDate string          `json:"effective_date"`
	PerformedBy   *string         `json:"performed_by,omitempty"`
	Details       json.RawMessage `json:"details"`
	Summary       string          `json:"summary"`

	Status           string  `json:"status"`
	RequiresApproval bool    `json:"requires_approval"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovalDate     *string `json:"approval_date,omitempty"`

	Comments *string `json:"comments,omitempty"`
}
