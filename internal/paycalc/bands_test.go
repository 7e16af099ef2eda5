package paycalc_test

import (
	"testing"

	"go-zampay/internal/paycalc"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestZambianTaxBands2024_Valid(t *testing.T) {
	assert.NoError(t, paycalc.ZambianTaxBands2024.Validate())
}

func TestTaxBands_Validate(t *testing.T) {
	upper := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	d := decimal.RequireFromString

	t.Run("empty table", func(t *testing.T) {
		assert.Error(t, paycalc.TaxBands{}.Validate())
	})

	t.Run("gap between bands", func(t *testing.T) {
		bands := paycalc.TaxBands{
			{Lower: d("0"), Upper: upper("4000"), Rate: d("0")},
			{Lower: d("4500"), Upper: nil, Rate: d("0.25")},
		}
		assert.Error(t, bands.Validate())
	})

	t.Run("bounded last band", func(t *testing.T) {
		bands := paycalc.TaxBands{
			{Lower: d("0"), Upper: upper("4000"), Rate: d("0")},
		}
		assert.Error(t, bands.Validate())
	})

	t.Run("decreasing rate", func(t *testing.T) {
		bands := paycalc.TaxBands{
			{Lower: d("0"), Upper: upper("4000"), Rate: d("0.30")},
			{Lower: d("4001"), Upper: nil, Rate: d("0.25")},
		}
		assert.Error(t, bands.Validate())
	})
}

func TestTax_ZeroIncome(t *testing.T) {
	got := paycalc.ZambianTaxBands2024.Tax(decimal.Zero)
	assert.True(t, got.Equal(decimal.RequireFromString("0.00")), "got %s", got)
}

func TestTax_ZeroRateBand(t *testing.T) {
	for _, income := range []string{"1", "1500.50", "3999.99", "4000"} {
		got := paycalc.ZambianTaxBands2024.Tax(decimal.RequireFromString(income))
		assert.True(t, got.IsZero(), "income %s taxed %s, want 0", income, got)
	}
}

func TestTax_BandBoundary(t *testing.T) {
	at := paycalc.ZambianTaxBands2024.Tax(decimal.RequireFromString("4000"))
	above := paycalc.ZambianTaxBands2024.Tax(decimal.RequireFromString("4001"))

	diff := above.Sub(at)
	assert.True(t, diff.Equal(decimal.RequireFromString("0.25")),
		"tax(4001)-tax(4000) = %s, want 0.25", diff)
}

func TestTax_Monotonic(t *testing.T) {
	prev := decimal.Zero
	prevTax := paycalc.ZambianTaxBands2024.Tax(prev)
	step := decimal.RequireFromString("137.49")
	income := decimal.Zero

	for i := 0; i < 400; i++ {
		income = income.Add(step)
		tax := paycalc.ZambianTaxBands2024.Tax(income)
		assert.True(t, tax.GreaterThanOrEqual(prevTax),
			"tax(%s)=%s below tax(%s)=%s", income, tax, prev, prevTax)
		prev = income
		prevTax = tax
	}
}

func TestTax_NegativeClampedToZero(t *testing.T) {
	got := paycalc.ZambianTaxBands2024.Tax(decimal.RequireFromString("-500"))
	assert.True(t, got.IsZero())
}

func TestTax_TopBand(t *testing.T) {
	// 13000: 4000@0% + 2900@25% + 4700@30% + 1400@37.5% = 2660.00
	got := paycalc.ZambianTaxBands2024.Tax(decimal.RequireFromString("13000"))
	assert.True(t, got.Equal(decimal.RequireFromString("2660.00")), "got %s", got)
}
