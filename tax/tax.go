package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeRecord holds one taxpayer's annual income streams.
type IncomeRecord struct {
	Salary           decimal.Decimal `validate:"gte=0"`
	Commission       decimal.Decimal `validate:"gte=0"`
	ContractorIncome decimal.Decimal `validate:"gte=0"`
	Bonus            decimal.Decimal `validate:"gte=0"`
	TravelAllowance  decimal.Decimal `validate:"gte=0"`
	RentalIncome     decimal.Decimal `validate:"gte=0"`
	TradingIncome    decimal.Decimal `validate:"gte=0"`
	TaxPaidAlready   decimal.Decimal `validate:"gte=0"`
}

type MedicalClaims struct {
	Members           int             `validate:"gte=0"`
	Dependents        int             `validate:"gte=0"`
	MonthlyPremium    decimal.Decimal `validate:"gte=0"`
	UncoveredExpenses decimal.Decimal `validate:"gte=0"`
}

type HomeOfficeClaims struct {
	Enabled          bool
	TotalArea        decimal.Decimal `validate:"gte=0"`
	OfficeArea       decimal.Decimal `validate:"gte=0"`
	RentInterest     decimal.Decimal `validate:"gte=0"`
	ElectricityWater decimal.Decimal `validate:"gte=0"`
	Cleaning         decimal.Decimal `validate:"gte=0"`
}

type AdditionalActivityClaims struct {
	Enabled         bool
	RentalExpenses  decimal.Decimal `validate:"gte=0"`
	TradingExpenses decimal.Decimal `validate:"gte=0"`
}

type TravelClaims struct {
	BusinessKilometres decimal.Decimal `validate:"gte=0"`
	VehicleValue       decimal.Decimal `validate:"gte=0"`
}

type DeductionClaims struct {
	RetirementAnnuity  decimal.Decimal `validate:"gte=0"`
	ContractorExpenses decimal.Decimal `validate:"gte=0"`
	CommissionExpenses decimal.Decimal `validate:"gte=0"`
	Medical            MedicalClaims
	HomeOffice         HomeOfficeClaims
	AdditionalActivity AdditionalActivityClaims
	Travel             TravelClaims
}

type Input struct {
	Year        AssessmentYear
	AgeCategory AgeCategory
	Income      IncomeRecord
	Deductions  DeductionClaims
}

type DeductionBreakdown struct {
	Retirement         decimal.Decimal
	HomeOffice         decimal.Decimal
	Contractor         decimal.Decimal
	Commission         decimal.Decimal
	Travel             decimal.Decimal
	AdditionalActivity decimal.Decimal
	Total              decimal.Decimal
}

type TaxResult struct {
	Year                     AssessmentYear
	AgeCategory              AgeCategory
	GrossIncome              decimal.Decimal
	TaxableIncome            decimal.Decimal
	TaxBeforeRebates         decimal.Decimal
	PrimaryRebate            decimal.Decimal
	AgeRebate                decimal.Decimal
	MedicalCredits           decimal.Decimal
	AdditionalMedicalCredits decimal.Decimal
	TotalRebatesAndCredits   decimal.Decimal
	TotalTax                 decimal.Decimal
	TaxPaidAlready           decimal.Decimal
	// TaxDifference is tax already paid minus liability; positive means a refund.
	TaxDifference   decimal.Decimal
	IsRefund        bool
	TakeHomePay     decimal.Decimal
	MonthlyTakeHome decimal.Decimal
	EffectiveRate   decimal.Decimal
	Deductions      DeductionBreakdown
}

// GrossIncome sums every income stream; rental and trading income only count
// when additional activities are enabled.
func GrossIncome(income IncomeRecord, activity AdditionalActivityClaims) decimal.Decimal {
	gross := income.Salary.
		Add(income.Commission).
		Add(income.ContractorIncome).
		Add(income.Bonus).
		Add(income.TravelAllowance)

	if activity.Enabled {
		gross = gross.Add(income.RentalIncome).Add(income.TradingIncome)
	}

	return gross
}

// Calculate computes the full liability for one taxpayer against the given
// table. It does not mutate its arguments and holds no state, so identical
// inputs always yield identical results. A table that would not load into a
// Repository is rejected with ErrInvalidRateTable.
func Calculate(table RateTable, in Input) (TaxResult, error) {
	if err := Validate(in); err != nil {
		return TaxResult{}, err
	}

	if err := table.validate(); err != nil {
		return TaxResult{}, fmt.Errorf("%w: %v", ErrInvalidRateTable, err)
	}

	rules := table.Rules
	income := in.Income
	claims := in.Deductions

	gross := GrossIncome(income, claims.AdditionalActivity)

	commission := CommissionAllowance(rules, income, claims.CommissionExpenses)
	contractor := ContractorAllowance(income, claims.ContractorExpenses)
	travel := TravelDeduction(table, income.TravelAllowance, claims.Travel)
	homeOffice := HomeOfficeDeduction(claims.HomeOffice)
	activity := AdditionalActivityExpenses(claims.AdditionalActivity)

	beforeRetirement := commission.Add(contractor).Add(travel).Add(homeOffice).Add(activity)
	eligibleBase := gross.
		Sub(income.TravelAllowance.Mul(rules.TravelExclusionRate)).
		Sub(beforeRetirement)

	retirement := RetirementAllowance(rules, eligibleBase, claims.RetirementAnnuity)
	taxable := nonNegative(eligibleBase.Sub(retirement))

	taxBefore := TaxBeforeRebates(table.Brackets, taxable)
	primary := table.Rebates.Primary
	ageRebate := AgeRebate(table.Rebates, in.AgeCategory)
	medical := MedicalCredits(table.MedicalCredits, claims.Medical.Members, claims.Medical.Dependents)
	additionalMedical := AdditionalMedicalCredits(rules, in.AgeCategory, claims.Medical, medical, taxable)

	rebatesAndCredits := primary.Add(ageRebate).Add(medical).Add(additionalMedical)
	totalTax := nonNegative(taxBefore.Sub(rebatesAndCredits))

	difference := income.TaxPaidAlready.Sub(totalTax)

	takeHome := gross.Sub(totalTax).Sub(activity)

	effective := decimal.Zero
	if gross.IsPositive() {
		effective = totalTax.Div(gross).Mul(hundred)
	}

	return TaxResult{
		Year:                     in.Year,
		AgeCategory:              in.AgeCategory,
		GrossIncome:              gross,
		TaxableIncome:            taxable,
		TaxBeforeRebates:         taxBefore,
		PrimaryRebate:            primary,
		AgeRebate:                ageRebate,
		MedicalCredits:           medical,
		AdditionalMedicalCredits: additionalMedical,
		TotalRebatesAndCredits:   rebatesAndCredits,
		TotalTax:                 totalTax,
		TaxPaidAlready:           income.TaxPaidAlready,
		TaxDifference:            difference,
		IsRefund:                 difference.IsPositive(),
		TakeHomePay:              takeHome,
		MonthlyTakeHome:          takeHome.Div(monthsPerYear),
		EffectiveRate:            effective,
		Deductions: DeductionBreakdown{
			Retirement:         retirement,
			HomeOffice:         homeOffice,
			Contractor:         contractor,
			Commission:         commission,
			Travel:             travel,
			AdditionalActivity: activity,
			Total:              retirement.Add(homeOffice).Add(contractor).Add(commission).Add(travel).Add(activity),
		},
	}, nil
}

type RateTableSource interface {
	Lookup(year AssessmentYear) (RateTable, error)
}

// Engine resolves the assessment year against a rate table source before
// calculating.
type Engine struct {
	rates RateTableSource
}

func NewEngine(rates RateTableSource) *Engine {
	return &Engine{rates: rates}
}

func (e *Engine) Compute(in Input) (TaxResult, error) {
	table, err := e.rates.Lookup(in.Year)
	if err != nil {
		return TaxResult{}, err
	}
	return Calculate(table, in)
}
