package hraction

import (
	"strconv"
	"time"

	"go-zampay/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// profileFieldGroups maps each profile update type onto the fields it may
// touch. Changes outside the group are skipped.
var profileFieldGroups = map[string]map[string]bool{
	"personal": {
		"first_name":   true,
		"last_name":    true,
		"national_id":  true,
		"napsa_number": true,
		"nhima_number": true,
		"tpin":         true,
	},
	"contact": {
		"email":         true,
		"phone":         true,
		"work_location": true,
	},
	"emergency": {
		"emergency_contact_name":  true,
		"emergency_contact_phone": true,
	},
}

func profileFieldGet(e *employee.Employee, field string) string {
	switch field {
	case "first_name":
		return e.FirstName
	case "last_name":
		return e.LastName
	case "national_id":
		return strPtrValue(e.NationalID)
	case "napsa_number":
		return strPtrValue(e.NapsaNumber)
	case "nhima_number":
		return strPtrValue(e.NhimaNumber)
	case "tpin":
		return strPtrValue(e.Tpin)
	case "email":
		return e.Email
	case "phone":
		return e.Phone
	case "work_location":
		return strPtrValue(e.WorkLocation)
	case "emergency_contact_name":
		return strPtrValue(e.EmergencyContactName)
	case "emergency_contact_phone":
		return strPtrValue(e.EmergencyContactPhone)
	}
	return ""
}

func profileFieldSet(e *employee.Employee, field, value string) {
	switch field {
	case "first_name":
		e.FirstName = value
	case "last_name":
		e.LastName = value
	case "national_id":
		e.NationalID = &value
	case "napsa_number":
		e.NapsaNumber = &value
	case "nhima_number":
		e.NhimaNumber = &value
	case "tpin":
		e.Tpin = &value
	case "email":
		e.Email = value
	case "phone":
		e.Phone = value
	case "work_location":
		e.WorkLocation = &value
	case "emergency_contact_name":
		e.EmergencyContactName = &value
	case "emergency_contact_phone":
		e.EmergencyContactPhone = &value
	}
}

func validEmploymentStatus(status string) bool {
	switch status {
	case employee.StatusActive, employee.StatusProbation, employee.StatusInactive,
		employee.StatusResigned, employee.StatusTerminated:
		return true
	}
	return false
}

func validEmploymentType(t string) bool {
	switch t {
	case employee.EmploymentTypePermanent, employee.EmploymentTypeContract,
		employee.EmploymentTypeProbation, employee.EmploymentTypeIntern:
		return true
	}
	return false
}

// isExitStatus reports whether the transition defaults a notice period.
func isExitStatus(status string) bool {
	return status == employee.StatusResigned || status == employee.StatusTerminated
}

// isEndDateStatus reports whether the transition closes the employment record.
func isEndDateStatus(status string) bool {
	return status == employee.StatusResigned ||
		status == employee.StatusTerminated ||
		status == employee.StatusInactive
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func strPtrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func decimalStringPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func titleCase(s string) string {
	// Casers are stateful, so build one per call.
	return cases.Title(language.English).String(s)
}
