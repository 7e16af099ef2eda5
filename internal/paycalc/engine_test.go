package paycalc_test

import (
	"testing"

	"go-zampay/internal/paycalc"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newEngine(t *testing.T) *paycalc.Engine {
	t.Helper()
	engine, err := paycalc.NewEngine(paycalc.ZambianTaxBands2024)
	assert.NoError(t, err)
	return engine
}

func TestEngine_Calculate_PermanentWithAllowances(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Calculate(paycalc.Input{
		BasicSalary: d("10000"),
		Allowances: map[string]decimal.Decimal{
			"housing":   d("2000"),
			"transport": d("1000"),
		},
		Classification: paycalc.ClassificationPermanent,
	})
	assert.NoError(t, err)

	assert.True(t, result.TotalAllowances.Equal(d("3000")))
	assert.True(t, result.GrossPay.Equal(d("13000")))
	assert.True(t, result.Deductions.PAYE.Equal(d("2660.00")), "paye %s", result.Deductions.PAYE)
	assert.True(t, result.Deductions.EmployeePension.Equal(d("500.00")))
	assert.True(t, result.Deductions.EmployeeHealthLevy.Equal(d("100.00")))
	assert.True(t, result.Deductions.EmployeeOtherLevy.Equal(d("200.00")))
	assert.True(t, result.TotalDeductions.Equal(d("3460.00")))
	assert.True(t, result.NetSalary.Equal(d("9540.00")), "net %s", result.NetSalary)

	// employer side mirrors the employee side
	assert.True(t, result.EmployerContributions.Pension.Equal(result.Deductions.EmployeePension))
	assert.True(t, result.EmployerContributions.HealthLevy.Equal(result.Deductions.EmployeeHealthLevy))
	assert.True(t, result.EmployerContributions.OtherLevy.Equal(result.Deductions.EmployeeOtherLevy))
}

func TestEngine_Calculate_ZeroSalaryNonPermanent(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Calculate(paycalc.Input{
		BasicSalary:    decimal.Zero,
		Allowances:     map[string]decimal.Decimal{},
		Classification: paycalc.ClassificationOther,
	})
	assert.NoError(t, err)

	assert.True(t, result.GrossPay.IsZero())
	assert.True(t, result.Deductions.PAYE.IsZero())
	assert.True(t, result.Deductions.EmployeePension.IsZero())
	assert.True(t, result.Deductions.EmployeeHealthLevy.IsZero())
	assert.True(t, result.Deductions.EmployeeOtherLevy.IsZero())
	assert.True(t, result.TotalDeductions.IsZero())
	assert.True(t, result.NetSalary.IsZero())
}

func TestEngine_Calculate_RoundTripIdentities(t *testing.T) {
	engine := newEngine(t)

	inputs := []paycalc.Input{
		{BasicSalary: d("3500"), Classification: paycalc.ClassificationOther},
		{BasicSalary: d("10000"), Allowances: map[string]decimal.Decimal{"housing": d("2000.55")}, Classification: paycalc.ClassificationPermanent},
		{BasicSalary: d("45000"), Allowances: map[string]decimal.Decimal{"housing": d("8000"), "fuel": d("1234.56")}, Classification: paycalc.ClassificationPermanent},
		{BasicSalary: d("0.01"), Classification: paycalc.ClassificationPermanent},
	}

	for _, in := range inputs {
		result, err := engine.Calculate(in)
		assert.NoError(t, err)

		assert.True(t, result.GrossPay.Equal(result.BasicSalary.Add(result.TotalAllowances)),
			"gross %s != basic %s + allowances %s", result.GrossPay, result.BasicSalary, result.TotalAllowances)
		assert.True(t, result.NetSalary.Equal(result.GrossPay.Sub(result.TotalDeductions)),
			"net %s != gross %s - deductions %s", result.NetSalary, result.GrossPay, result.TotalDeductions)
	}
}

func TestEngine_Calculate_Idempotent(t *testing.T) {
	engine := newEngine(t)
	in := paycalc.Input{
		BasicSalary:    d("27500.75"),
		Allowances:     map[string]decimal.Decimal{"housing": d("4000"), "lunch": d("750.25")},
		Classification: paycalc.ClassificationPermanent,
	}

	first, err := engine.Calculate(in)
	assert.NoError(t, err)
	second, err := engine.Calculate(in)
	assert.NoError(t, err)

	assert.True(t, first.GrossPay.Equal(second.GrossPay))
	assert.True(t, first.TotalDeductions.Equal(second.TotalDeductions))
	assert.True(t, first.NetSalary.Equal(second.NetSalary))
	assert.True(t, first.Deductions.PAYE.Equal(second.Deductions.PAYE))
}

func TestEngine_Calculate_NegativeInputsRejected(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Calculate(paycalc.Input{
		BasicSalary:    d("-1"),
		Classification: paycalc.ClassificationOther,
	})
	assert.Error(t, err)

	_, err = engine.Calculate(paycalc.Input{
		BasicSalary:    d("1000"),
		Allowances:     map[string]decimal.Decimal{"housing": d("-50")},
		Classification: paycalc.ClassificationOther,
	})
	assert.Error(t, err)
}

func TestNewEngine_RejectsBrokenBands(t *testing.T) {
	_, err := paycalc.NewEngine(paycalc.TaxBands{})
	assert.Error(t, err)
}
