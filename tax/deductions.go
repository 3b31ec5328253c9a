package tax

import "github.com/shopspring/decimal"

func nonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(d, decimal.Zero)
}

// CommissionAllowance allows commission expenses only for commission earners,
// i.e. when commission is more than the threshold share of salary plus commission.
func CommissionAllowance(rules Rules, income IncomeRecord, claimed decimal.Decimal) decimal.Decimal {
	remuneration := income.Salary.Add(income.Commission)

	if !income.Commission.GreaterThan(remuneration.Mul(rules.CommissionThreshold)) {
		return decimal.Zero
	}

	return decimal.Min(claimed, income.Commission)
}

func ContractorAllowance(income IncomeRecord, claimed decimal.Decimal) decimal.Decimal {
	return decimal.Min(claimed, income.ContractorIncome)
}

// TravelScaleFor picks the first entry whose limit covers the vehicle value,
// falling back to the last (unbounded) entry. An empty scale yields a zero entry.
func TravelScaleFor(scale []TravelScaleEntry, vehicleValue decimal.Decimal) TravelScaleEntry {
	if len(scale) == 0 {
		return TravelScaleEntry{}
	}

	for _, entry := range scale {
		if !entry.Limit.Valid || vehicleValue.LessThanOrEqual(entry.Limit.Decimal) {
			return entry
		}
	}
	return scale[len(scale)-1]
}

// TravelDeduction is the business kilometres at the cost-scale rate, capped
// at the allowance received.
func TravelDeduction(table RateTable, allowance decimal.Decimal, claims TravelClaims) decimal.Decimal {
	if !allowance.IsPositive() || !claims.BusinessKilometres.IsPositive() {
		return decimal.Zero
	}

	entry := TravelScaleFor(table.TravelScale, claims.VehicleValue)

	perKm := entry.FixedCost.Div(table.Rules.TravelAssumedAnnualKm).
		Add(entry.FuelPerKm).
		Add(entry.MaintenancePerKm)

	return decimal.Min(claims.BusinessKilometres.Mul(perKm), allowance)
}

func HomeOfficeDeduction(claims HomeOfficeClaims) decimal.Decimal {
	if !claims.Enabled || !claims.TotalArea.IsPositive() {
		return decimal.Zero
	}

	ratio := claims.OfficeArea.Div(claims.TotalArea)
	costs := claims.RentInterest.Add(claims.ElectricityWater).Add(claims.Cleaning)

	return costs.Mul(ratio)
}

// AdditionalActivityExpenses sums rental and trading expenses without
// matching them to the income they relate to.
func AdditionalActivityExpenses(claims AdditionalActivityClaims) decimal.Decimal {
	if !claims.Enabled {
		return decimal.Zero
	}
	return claims.RentalExpenses.Add(claims.TradingExpenses)
}

// RetirementAllowance caps the claimed contribution at the rate of the
// eligible base and at the absolute annual cap.
func RetirementAllowance(rules Rules, eligibleBase, claimed decimal.Decimal) decimal.Decimal {
	limit := decimal.Min(nonNegative(eligibleBase).Mul(rules.RetirementRate), rules.RetirementCap)
	return decimal.Min(claimed, limit)
}
