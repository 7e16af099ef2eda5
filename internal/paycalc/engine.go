package paycalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Input is the per-employee compensation snapshot fed into one calculation.
// It is ephemeral; callers build it from whatever store holds the employee.
type Input struct {
	BasicSalary    decimal.Decimal
	Allowances     map[string]decimal.Decimal
	Classification Classification
}

// Deductions is the employee-side statutory withholding breakdown.
type Deductions struct {
	PAYE               decimal.Decimal `json:"paye"`
	EmployeePension    decimal.Decimal `json:"employee_pension"`
	EmployeeHealthLevy decimal.Decimal `json:"employee_health_levy"`
	EmployeeOtherLevy  decimal.Decimal `json:"employee_other_levy"`
}

// EmployerContributions mirrors the employee-side statutory amounts. Rates and
// caps are applied symmetrically on both sides; this is a business choice of
// the current scheme, not a legal necessity.
type EmployerContributions struct {
	Pension    decimal.Decimal `json:"pension"`
	HealthLevy decimal.Decimal `json:"health_levy"`
	OtherLevy  decimal.Decimal `json:"other_levy"`
}

// Result is the full payroll breakdown for one employee and one period.
type Result struct {
	BasicSalary           decimal.Decimal            `json:"basic_salary"`
	Allowances            map[string]decimal.Decimal `json:"allowances"`
	TotalAllowances       decimal.Decimal            `json:"total_allowances"`
	GrossPay              decimal.Decimal            `json:"gross_pay"`
	Deductions            Deductions                 `json:"deductions"`
	TotalDeductions       decimal.Decimal            `json:"total_deductions"`
	NetSalary             decimal.Decimal            `json:"net_salary"`
	EmployerContributions EmployerContributions      `json:"employer_contributions"`
}

// Engine computes payroll breakdowns against a fixed band table. The zero
// value is not usable; construct with NewEngine.
type Engine struct {
	bands TaxBands
}

func NewEngine(bands TaxBands) (*Engine, error) {
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	return &Engine{bands: bands}, nil
}

// Calculate derives gross pay, itemized deductions, net salary and
// employer-side contributions. PAYE is computed on gross pay; pension, health
// and other levies on basic salary only. A negative net salary is a valid
// outcome when deductions exceed gross pay.
func (e *Engine) Calculate(in Input) (Result, error) {
	if in.BasicSalary.IsNegative() {
		return Result{}, fmt.Errorf("paycalc: basic salary must not be negative, got %s", in.BasicSalary)
	}
	totalAllowances := decimal.Zero
	for name, amount := range in.Allowances {
		if amount.IsNegative() {
			return Result{}, fmt.Errorf("paycalc: allowance %q must not be negative, got %s", name, amount)
		}
		totalAllowances = totalAllowances.Add(amount)
	}

	grossPay := in.BasicSalary.Add(totalAllowances)

	deductions := Deductions{
		PAYE:               e.bands.Tax(grossPay),
		EmployeePension:    PensionContribution(in.BasicSalary),
		EmployeeHealthLevy: HealthLevy(in.BasicSalary),
		EmployeeOtherLevy:  OtherLevy(in.BasicSalary, in.Classification),
	}
	totalDeductions := deductions.PAYE.
		Add(deductions.EmployeePension).
		Add(deductions.EmployeeHealthLevy).
		Add(deductions.EmployeeOtherLevy)

	allowances := make(map[string]decimal.Decimal, len(in.Allowances))
	for name, amount := range in.Allowances {
		allowances[name] = amount
	}

	return Result{
		BasicSalary:     in.BasicSalary,
		Allowances:      allowances,
		TotalAllowances: totalAllowances,
		GrossPay:        grossPay,
		Deductions:      deductions,
		TotalDeductions: totalDeductions,
		NetSalary:       grossPay.Sub(totalDeductions),
		EmployerContributions: EmployerContributions{
			Pension:    PensionContribution(in.BasicSalary),
			HealthLevy: HealthLevy(in.BasicSalary),
			OtherLevy:  OtherLevy(in.BasicSalary, in.Classification),
		},
	}, nil
}
