package leave

type LeaveRecordResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	HRActionID *string `json:"hr_action_id,omitempty"`

	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DaysCount int    `json:"days_count"`
	Status    string `json:"status"`

	DoctorNoteURL *string `json:"doctor_note_url,omitempty"`

	CommuteValue      *string `json:"commute_value,omitempty"`
	TotalCommuteValue *string `json:"total_commute_value,omitempty"`

	DeductionType     *string `json:"deduction_type,omitempty"`
	DeductionAmount   *string `json:"deduction_amount,omitempty"`
	LeaveDaysDeducted *int    `json:"leave_days_deducted,omitempty"`

	Comments *string `json:"comments,omitempty"`
}
