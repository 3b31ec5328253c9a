package tax

import "github.com/shopspring/decimal"

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// TaxBeforeRebates evaluates the bracket whose threshold the income strictly
// exceeds, scanning from the top bracket down.
func TaxBeforeRebates(brackets []Bracket, taxableIncome decimal.Decimal) decimal.Decimal {
	for i := len(brackets) - 1; i >= 0; i-- {
		b := brackets[i]
		if taxableIncome.GreaterThan(b.Threshold) {
			return b.Fixed.Add(taxableIncome.Sub(b.Threshold).Mul(b.Rate))
		}
	}
	return decimal.Zero
}

func AgeRebate(rebates Rebates, age AgeCategory) decimal.Decimal {
	switch age {
	case Age65To74:
		return rebates.Secondary
	case Age75Plus:
		return rebates.Secondary.Add(rebates.Tertiary)
	default:
		return decimal.Zero
	}
}

// MedicalCredits returns the annual medical scheme fees credit.
func MedicalCredits(rates MedicalCreditRates, members, dependents int) decimal.Decimal {
	monthly := decimal.Zero

	if members > 0 {
		monthly = monthly.Add(rates.MainMember)
	}

	if members > 1 {
		monthly = monthly.Add(rates.AdditionalMember)
	}

	monthly = monthly.Add(rates.Dependent.Mul(decimal.NewFromInt(int64(dependents))))

	return monthly.Mul(monthsPerYear)
}

// AdditionalMedicalCredits returns the additional credit for qualifying
// medical spend. annualCredits is the result of MedicalCredits.
func AdditionalMedicalCredits(rules Rules, age AgeCategory, claims MedicalClaims, annualCredits, taxableIncome decimal.Decimal) decimal.Decimal {
	premiums := claims.MonthlyPremium.Mul(monthsPerYear)

	if age.Senior() {
		base := nonNegative(premiums.Sub(annualCredits.Mul(rules.SeniorMedicalMultiple)).Add(claims.UncoveredExpenses))
		return base.Div(rules.SeniorMedicalDivisor)
	}

	excess := nonNegative(premiums.Sub(annualCredits.Mul(rules.MedicalMultiple)))
	qualifying := excess.Add(claims.UncoveredExpenses)
	threshold := taxableIncome.Mul(rules.MedicalIncomeThreshold)

	return nonNegative(qualifying.Sub(threshold).Mul(rules.MedicalCreditRate))
}
