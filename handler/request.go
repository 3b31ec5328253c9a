package handler

import (
	"github.com/paylesstax/taxcalc/tax"
	"github.com/shopspring/decimal"
)

type TaxRequest struct {
	Year        int              `json:"year" yaml:"year" validate:"required"`
	AgeCategory string           `json:"ageCategory" yaml:"ageCategory" validate:"required"`
	Income      IncomeRequest    `json:"income" yaml:"income"`
	Deductions  DeductionRequest `json:"deductions" yaml:"deductions"`
}

type IncomeRequest struct {
	Salary           float64 `json:"salary" yaml:"salary" validate:"number,gte=0"`
	Commission       float64 `json:"commission" yaml:"commission" validate:"number,gte=0"`
	ContractorIncome float64 `json:"contractorIncome" yaml:"contractorIncome" validate:"number,gte=0"`
	Bonus            float64 `json:"bonus" yaml:"bonus" validate:"number,gte=0"`
	TravelAllowance  float64 `json:"travelAllowance" yaml:"travelAllowance" validate:"number,gte=0"`
	RentalIncome     float64 `json:"rentalIncome" yaml:"rentalIncome" validate:"number,gte=0"`
	TradingIncome    float64 `json:"tradingIncome" yaml:"tradingIncome" validate:"number,gte=0"`
	TaxPaidAlready   float64 `json:"taxPaidAlready" yaml:"taxPaidAlready" validate:"number,gte=0"`
}

type DeductionRequest struct {
	RetirementAnnuity  float64                   `json:"retirementAnnuity" yaml:"retirementAnnuity" validate:"number,gte=0"`
	ContractorExpenses float64                   `json:"contractorExpenses" yaml:"contractorExpenses" validate:"number,gte=0"`
	CommissionExpenses float64                   `json:"commissionExpenses" yaml:"commissionExpenses" validate:"number,gte=0"`
	Medical            MedicalRequest            `json:"medical" yaml:"medical"`
	HomeOffice         HomeOfficeRequest         `json:"homeOffice" yaml:"homeOffice"`
	AdditionalActivity AdditionalActivityRequest `json:"additionalActivity" yaml:"additionalActivity"`
	Travel             TravelRequest             `json:"travel" yaml:"travel"`
}

type MedicalRequest struct {
	Members           int     `json:"members" yaml:"members" validate:"gte=0"`
	Dependents        int     `json:"dependents" yaml:"dependents" validate:"gte=0"`
	MonthlyPremium    float64 `json:"monthlyPremium" yaml:"monthlyPremium" validate:"number,gte=0"`
	UncoveredExpenses float64 `json:"uncoveredExpenses" yaml:"uncoveredExpenses" validate:"number,gte=0"`
}

type HomeOfficeRequest struct {
	Enabled          bool    `json:"enabled" yaml:"enabled"`
	TotalArea        float64 `json:"totalArea" yaml:"totalArea" validate:"number,gte=0"`
	OfficeArea       float64 `json:"officeArea" yaml:"officeArea" validate:"number,gte=0"`
	RentInterest     float64 `json:"rentInterest" yaml:"rentInterest" validate:"number,gte=0"`
	ElectricityWater float64 `json:"electricityWater" yaml:"electricityWater" validate:"number,gte=0"`
	Cleaning         float64 `json:"cleaning" yaml:"cleaning" validate:"number,gte=0"`
}

type AdditionalActivityRequest struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	RentalExpenses  float64 `json:"rentalExpenses" yaml:"rentalExpenses" validate:"number,gte=0"`
	TradingExpenses float64 `json:"tradingExpenses" yaml:"tradingExpenses" validate:"number,gte=0"`
}

type TravelRequest struct {
	BusinessKilometres float64 `json:"businessKms" yaml:"businessKms" validate:"number,gte=0"`
	VehicleValue       float64 `json:"vehicleValue" yaml:"vehicleValue" validate:"number,gte=0"`
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// ToInput converts the request into engine input. Only the age category can
// fail to convert.
func (r TaxRequest) ToInput() (tax.Input, error) {
	age, err := tax.ParseAgeCategory(r.AgeCategory)
	if err != nil {
		return tax.Input{}, err
	}

	in, ded := r.Income, r.Deductions

	return tax.Input{
		Year:        tax.AssessmentYear(r.Year),
		AgeCategory: age,
		Income: tax.IncomeRecord{
			Salary:           amount(in.Salary),
			Commission:       amount(in.Commission),
			ContractorIncome: amount(in.ContractorIncome),
			Bonus:            amount(in.Bonus),
			TravelAllowance:  amount(in.TravelAllowance),
			RentalIncome:     amount(in.RentalIncome),
			TradingIncome:    amount(in.TradingIncome),
			TaxPaidAlready:   amount(in.TaxPaidAlready),
		},
		Deductions: tax.DeductionClaims{
			RetirementAnnuity:  amount(ded.RetirementAnnuity),
			ContractorExpenses: amount(ded.ContractorExpenses),
			CommissionExpenses: amount(ded.CommissionExpenses),
			Medical: tax.MedicalClaims{
				Members:           ded.Medical.Members,
				Dependents:        ded.Medical.Dependents,
				MonthlyPremium:    amount(ded.Medical.MonthlyPremium),
				UncoveredExpenses: amount(ded.Medical.UncoveredExpenses),
			},
			HomeOffice: tax.HomeOfficeClaims{
				Enabled:          ded.HomeOffice.Enabled,
				TotalArea:        amount(ded.HomeOffice.TotalArea),
				OfficeArea:       amount(ded.HomeOffice.OfficeArea),
				RentInterest:     amount(ded.HomeOffice.RentInterest),
				ElectricityWater: amount(ded.HomeOffice.ElectricityWater),
				Cleaning:         amount(ded.HomeOffice.Cleaning),
			},
			AdditionalActivity: tax.AdditionalActivityClaims{
				Enabled:         ded.AdditionalActivity.Enabled,
				RentalExpenses:  amount(ded.AdditionalActivity.RentalExpenses),
				TradingExpenses: amount(ded.AdditionalActivity.TradingExpenses),
			},
			Travel: tax.TravelClaims{
				BusinessKilometres: amount(ded.Travel.BusinessKilometres),
				VehicleValue:       amount(ded.Travel.VehicleValue),
			},
		},
	}, nil
}

type TaxResponse struct {
	Year                     int                 `json:"year" yaml:"year"`
	AgeCategory              string              `json:"ageCategory" yaml:"ageCategory"`
	GrossIncome              float64             `json:"grossIncome" yaml:"grossIncome"`
	TaxableIncome            float64             `json:"taxableIncome" yaml:"taxableIncome"`
	TaxBeforeRebate          float64             `json:"taxBeforeRebate" yaml:"taxBeforeRebate"`
	PrimaryRebate            float64             `json:"primaryRebate" yaml:"primaryRebate"`
	AgeRebate                float64             `json:"ageRebate" yaml:"ageRebate"`
	MedicalCredits           float64             `json:"medicalCredits" yaml:"medicalCredits"`
	AdditionalMedicalCredits float64             `json:"additionalMedicalCredits" yaml:"additionalMedicalCredits"`
	TotalRebatesAndCredits   float64             `json:"totalRebatesAndCredits" yaml:"totalRebatesAndCredits"`
	TotalTax                 float64             `json:"totalTax" yaml:"totalTax"`
	TaxPaidAlready           float64             `json:"taxPaidAlready" yaml:"taxPaidAlready"`
	TaxDifference            float64             `json:"taxDifference" yaml:"taxDifference"`
	IsRefund                 bool                `json:"isRefund" yaml:"isRefund"`
	TakeHomePay              float64             `json:"takeHomePay" yaml:"takeHomePay"`
	MonthlyTakeHome          float64             `json:"monthlyTakeHome" yaml:"monthlyTakeHome"`
	EffectiveTaxRate         float64             `json:"effectiveTaxRate" yaml:"effectiveTaxRate"`
	DeductionsBreakdown      DeductionsBreakdown `json:"deductionsBreakdown" yaml:"deductionsBreakdown"`
}

type DeductionsBreakdown struct {
	RA                   float64 `json:"ra" yaml:"ra"`
	WFH                  float64 `json:"wfh" yaml:"wfh"`
	Contractor           float64 `json:"contractor" yaml:"contractor"`
	Commission           float64 `json:"commission" yaml:"commission"`
	Travel               float64 `json:"travel" yaml:"travel"`
	AdditionalActivities float64 `json:"additionalActivities" yaml:"additionalActivities"`
	Total                float64 `json:"total" yaml:"total"`
}

// rounded renders an amount to cents for the response body.
func rounded(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func NewTaxResponse(r tax.TaxResult) TaxResponse {
	return TaxResponse{
		Year:                     int(r.Year),
		AgeCategory:              r.AgeCategory.String(),
		GrossIncome:              rounded(r.GrossIncome),
		TaxableIncome:            rounded(r.TaxableIncome),
		TaxBeforeRebate:          rounded(r.TaxBeforeRebates),
		PrimaryRebate:            rounded(r.PrimaryRebate),
		AgeRebate:                rounded(r.AgeRebate),
		MedicalCredits:           rounded(r.MedicalCredits),
		AdditionalMedicalCredits: rounded(r.AdditionalMedicalCredits),
		TotalRebatesAndCredits:   rounded(r.TotalRebatesAndCredits),
		TotalTax:                 rounded(r.TotalTax),
		TaxPaidAlready:           rounded(r.TaxPaidAlready),
		TaxDifference:            rounded(r.TaxDifference),
		IsRefund:                 r.IsRefund,
		TakeHomePay:              rounded(r.TakeHomePay),
		MonthlyTakeHome:          rounded(r.MonthlyTakeHome),
		EffectiveTaxRate:         rounded(r.EffectiveRate),
		DeductionsBreakdown: DeductionsBreakdown{
			RA:                   rounded(r.Deductions.Retirement),
			WFH:                  rounded(r.Deductions.HomeOffice),
			Contractor:           rounded(r.Deductions.Contractor),
			Commission:           rounded(r.Deductions.Commission),
			Travel:               rounded(r.Deductions.Travel),
			AdditionalActivities: rounded(r.Deductions.AdditionalActivity),
			Total:                rounded(r.Deductions.Total),
		},
	}
}
