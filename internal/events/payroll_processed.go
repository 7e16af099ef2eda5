package events

import "time"

const PayrollProcessedTopic = "zampay.payroll.processed.v1"

// PayrollProcessedEvent is published once per processed payroll run. The
// payslip consumer fans it out into one payslip per payroll record.
type PayrollProcessedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	CompanyID     string    `json:"company_id"`
	Period        string    `json:"period"` // YYYY-MM
	EmployeeCount int       `json:"employee_count"`
	ProcessedBy   string    `json:"processed_by,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
