package disciplinary

type CreateDisciplinaryRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	ActionType  string  `json:"action_type" binding:"required"`
	Reason      string  `json:"reason" binding:"required"`
	Severity    string  `json:"severity"`
	IssuedDate  string  `json:"issued_date" binding:"required"`
	ValidUntil  string  `json:"valid_until" binding:"required"`
	DocumentURL *string `json:"document_url"`
	Comments    *string `json:"comments"`
}

type DeactivateDisciplinaryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DisciplinaryRecordResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	HRActionID  *string `json:"hr_action_id,omitempty"`
	ActionType  string  `json:"action_type"`
	Reason      string  `json:"reason"`
	Severity    string  `json:"severity"`
	IssuedDate  string  `json:"issued_date"`
	ValidUntil  string  `json:"valid_until"`
	IsActive    bool    `json:"is_active"`
	IssuedBy    *string `json:"issued_by,omitempty"`
	DocumentURL *string `json:"document_url,omitempty"`
	Comments    *string `json:"comments,omitempty"`
}
