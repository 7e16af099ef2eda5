package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`

	NationalID  *string `json:"national_id"`
	NapsaNumber *string `json:"napsa_number"`
	NhimaNumber *string `json:"nhima_number"`
	Tpin        *string `json:"tpin"`

	Department   string  `json:"department"`
	Position     string  `json:"position"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
	WorkLocation *string `json:"work_location"`

	EmploymentType   string  `json:"employment_type" binding:"required,oneof=permanent contract probation intern"`
	StartDate        string  `json:"start_date" binding:"required"`
	ProbationEndDate *string `json:"probation_end_date"`
	ContractEndDate  *string `json:"contract_end_date"`

	Salary     string            `json:"salary" binding:"required"`
	Allowances map[string]string `json:"allowances"`

	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

// UpdateEmployeeRequest covers profile fields only. Salary, status and
// contract changes go through HR actions so they leave an approval and
// audit trail.
type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`

	NationalID  *string `json:"national_id"`
	NapsaNumber *string `json:"napsa_number"`
	NhimaNumber *string `json:"nhima_number"`
	Tpin        *string `json:"tpin"`

	Department   string  `json:"department"`
	Position     string  `json:"position"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
	WorkLocation *string `json:"work_location"`

	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`

	NationalID  *string `json:"national_id,omitempty"`
	NapsaNumber *string `json:"napsa_number,omitempty"`
	NhimaNumber *string `json:"nhima_number,omitempty"`
	Tpin        *string `json:"tpin,omitempty"`

	Department   string  `json:"department,omitempty"`
	Position     string  `json:"position,omitempty"`
	SupervisorID string  `json:"supervisor_id,omitempty"`
	WorkLocation *string `json:"work_location,omitempty"`

	EmploymentType   string  `json:"employment_type"`
	EmploymentStatus string  `json:"employment_status"`
	StartDate        string  `json:"start_date"`
	EndDate          *string `json:"end_date,omitempty"`
	ProbationEndDate *string `json:"probation_end_date,omitempty"`
	ContractEndDate  *string `json:"contract_end_date,omitempty"`

	Salary         string            `json:"salary"`
	SalaryCurrency string            `json:"salary_currency"`
	Allowances     map[string]string `json:"allowances,omitempty"`

	HasLiveDisciplinary bool `json:"has_live_disciplinary"`
}

// EmployeeOptionResponse is the slim shape cached for dropdowns.
type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Department     string `json:"department,omitempty"`
}
