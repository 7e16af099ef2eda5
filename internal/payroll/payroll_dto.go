package payroll

import "encoding/json"

type ProcessPayrollRequest struct {
	Period string `json:"period" binding:"required"`
}

type ProcessPayrollResponse struct {
	Period        string `json:"period"`
	EmployeeCount int    `json:"employee_count"`
	TotalGross    string `json:"total_gross"`
	TotalNet      string `json:"total_net"`
}

type MarkPaidRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
}

type PayrollRecordResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"`

	BasicSalary     string          `json:"basic_salary"`
	Allowances      json.RawMessage `json:"allowances,omitempty"`
	TotalAllowances string          `json:"total_allowances"`
	GrossPay        string          `json:"gross_pay"`

	Deductions            json.RawMessage `json:"deductions"`
	TotalDeductions       string          `json:"total_deductions"`
	NetSalary             string          `json:"net_salary"`
	EmployerContributions json.RawMessage `json:"employer_contributions"`

	Status           string  `json:"status"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	PaidAt           *string `json:"paid_at,omitempty"`
}
