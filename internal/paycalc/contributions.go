package paycalc

import "github.com/shopspring/decimal"

// Classification mirrors the employment split that drives statutory levies:
// only permanent staff pay the Saturnia scheme contribution.
type Classification string

const (
	ClassificationPermanent Classification = "permanent"
	ClassificationOther     Classification = "other"
)

// Statutory rates, 2024. NAPSA pensionable earnings are capped; NHIMA is flat
// and uncapped; Saturnia applies to permanent employees only.
var (
	napsaRate           = dec("0.05")
	napsaMaxPensionable = dec("33248.00")
	nhimaRate           = dec("0.01")
	saturniaRate        = dec("0.02")
)

// PensionContribution returns the NAPSA contribution on basic salary,
// capped at the maximum pensionable earnings.
func PensionContribution(basicSalary decimal.Decimal) decimal.Decimal {
	pensionable := decimal.Min(basicSalary, napsaMaxPensionable)
	return pensionable.Mul(napsaRate).Round(2)
}

// HealthLevy returns the NHIMA contribution on basic salary, uncapped.
func HealthLevy(basicSalary decimal.Decimal) decimal.Decimal {
	return basicSalary.Mul(nhimaRate).Round(2)
}

// OtherLevy returns the Saturnia scheme contribution on basic salary.
// Non-permanent employees never pay it.
func OtherLevy(basicSalary decimal.Decimal, classification Classification) decimal.Decimal {
	if classification != ClassificationPermanent {
		return decimal.Zero.Round(2)
	}
	return basicSalary.Mul(saturniaRate).Round(2)
}
