package paycalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBand is one slab of the progressive PAYE table. Upper is nil for the
// final open-ended band. Bounds are inclusive on both sides.
type TaxBand struct {
	Lower decimal.Decimal
	Upper *decimal.Decimal
	Rate  decimal.Decimal
}

type TaxBands []TaxBand

// ZambianTaxBands2024 is the ZRA PAYE table for the 2024 tax year.
var ZambianTaxBands2024 = TaxBands{
	{Lower: dec("0"), Upper: decPtr("4000"), Rate: dec("0.00")},
	{Lower: dec("4001"), Upper: decPtr("6900"), Rate: dec("0.25")},
	{Lower: dec("6901"), Upper: decPtr("11600"), Rate: dec("0.30")},
	{Lower: dec("11601"), Upper: nil, Rate: dec("0.375")},
}

// Validate checks the structural invariants of a band table: bands are
// contiguous (each lower bound is the previous upper bound plus one), only the
// last band is unbounded, and rates are non-negative and non-decreasing.
func (b TaxBands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("tax bands: empty table")
	}
	for i, band := range b {
		if band.Rate.IsNegative() {
			return fmt.Errorf("tax bands: band %d has negative rate %s", i, band.Rate)
		}
		if i > 0 && band.Rate.LessThan(b[i-1].Rate) {
			return fmt.Errorf("tax bands: band %d rate %s below previous rate %s", i, band.Rate, b[i-1].Rate)
		}
		if i == len(b)-1 {
			if band.Upper != nil {
				return fmt.Errorf("tax bands: last band must be unbounded")
			}
			continue
		}
		if band.Upper == nil {
			return fmt.Errorf("tax bands: band %d is unbounded but not last", i)
		}
		next := b[i+1]
		if !next.Lower.Equal(band.Upper.Add(decimal.NewFromInt(1))) {
			return fmt.Errorf("tax bands: band %d lower %s not contiguous with previous upper %s", i+1, next.Lower, band.Upper)
		}
	}
	if !b[0].Lower.IsZero() {
		return fmt.Errorf("tax bands: first band must start at 0")
	}
	return nil
}

// Tax computes PAYE on gross income by consuming the income band by band.
// A bounded band covers upper−lower+1 taxable units, except the zero-based
// first band which covers upper units: the 0th unit is not income, so income
// of exactly upper+1 puts one unit into the next band. Negative income is
// clamped to zero. Result is rounded half-up to 2 decimals.
func (b TaxBands) Tax(grossIncome decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	remaining := grossIncome
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	tax := decimal.Zero
	for _, band := range b {
		if remaining.Sign() <= 0 {
			break
		}

		var bandIncome decimal.Decimal
		if band.Upper == nil {
			bandIncome = remaining
		} else {
			width := band.Upper.Sub(band.Lower).Add(one)
			if band.Lower.IsZero() {
				width = *band.Upper
			}
			bandIncome = decimal.Min(remaining, width)
		}

		tax = tax.Add(bandIncome.Mul(band.Rate))
		remaining = remaining.Sub(bandIncome)
	}

	return tax.Round(2)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
