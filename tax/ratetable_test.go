package tax

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalTables = `
rules:
  retirement_rate: 0.275
  retirement_cap: 350000
  travel_exclusion_rate: 0.2
  travel_assumed_annual_km: 32000
  commission_threshold: 0.5
  senior_medical_multiple: 3
  senior_medical_divisor: 3
  medical_multiple: 4
  medical_income_threshold: 0.075
  medical_credit_rate: 0.25
travel_scale:
  - { limit: 100000, fixed: 30000, fuel: 1.5, maintenance: 0.5 }
  - { fixed: 60000, fuel: 2, maintenance: 1 }
years:
  2030:
    brackets:
      - { threshold: 0, rate: 0.2, fixed: 0 }
      - { threshold: 100000, rate: 0.4, fixed: 20000 }
    rebates: { primary: 1000, secondary: 500, tertiary: 250 }
    medical_credits: { main_member: 100, additional_member: 100, dependent: 50 }
  2031:
    brackets:
      - { threshold: 0, rate: 0.2, fixed: 0 }
    rebates: { primary: 1000, secondary: 500, tertiary: 250 }
    medical_credits: { main_member: 100, additional_member: 100, dependent: 50 }
    rules:
      retirement_rate: 0.3
      retirement_cap: 400000
      travel_exclusion_rate: 0.2
      travel_assumed_annual_km: 30000
      commission_threshold: 0.5
      senior_medical_multiple: 3
      senior_medical_divisor: 3
      medical_multiple: 4
      medical_income_threshold: 0.075
      medical_credit_rate: 0.25
    travel_scale:
      - { fixed: 90000, fuel: 3, maintenance: 1 }
`

func TestDefaultRepositoryYears(t *testing.T) {
	repo := DefaultRepository()

	assert.Equal(t, []AssessmentYear{2020, 2021, 2022, 2023, 2024, 2025, 2026}, repo.Years())

	for _, table := range repo.Tables() {
		assert.Len(t, table.Brackets, 7, "year %d", table.Year)
		assert.Len(t, table.TravelScale, 9, "year %d", table.Year)
		assertDecimal(t, "350000", table.Rules.RetirementCap, "retirement cap")
	}
}

func TestDefaultRepository2025ReusesPrevious(t *testing.T) {
	repo := DefaultRepository()

	t2024, err := repo.Lookup(2024)
	require.NoError(t, err)
	t2025, err := repo.Lookup(2025)
	require.NoError(t, err)

	for i := range t2024.Brackets {
		assert.True(t, t2024.Brackets[i].Threshold.Equal(t2025.Brackets[i].Threshold))
		assert.True(t, t2024.Brackets[i].Fixed.Equal(t2025.Brackets[i].Fixed))
	}
	assert.True(t, t2024.Rebates.Primary.Equal(t2025.Rebates.Primary))
}

func TestRepositoryLookupUnsupportedYear(t *testing.T) {
	_, err := DefaultRepository().Lookup(1999)

	assert.True(t, errors.Is(err, ErrUnsupportedYear))
}

func TestRepositoryLookupReturnsCopy(t *testing.T) {
	repo := DefaultRepository()

	table, err := repo.Lookup(2024)
	require.NoError(t, err)

	table.Brackets[0].Rate = d("0.99")
	table.TravelScale[0].FixedCost = d("1")

	again, err := repo.Lookup(2024)
	require.NoError(t, err)

	assertDecimal(t, "0.18", again.Brackets[0].Rate, "rate")
	assertDecimal(t, "33760", again.TravelScale[0].FixedCost, "fixed cost")
}

func TestParseRateTablesOverrides(t *testing.T) {
	repo, err := ParseRateTables([]byte(minimalTables))
	require.NoError(t, err)

	assert.Equal(t, []AssessmentYear{2030, 2031}, repo.Years())

	t2030, err := repo.Lookup(2030)
	require.NoError(t, err)
	assert.Len(t, t2030.TravelScale, 2)
	assertDecimal(t, "0.275", t2030.Rules.RetirementRate, "default rules")

	t2031, err := repo.Lookup(2031)
	require.NoError(t, err)
	assert.Len(t, t2031.TravelScale, 1)
	assertDecimal(t, "90000", t2031.TravelScale[0].FixedCost, "year travel scale")
	assertDecimal(t, "0.3", t2031.Rules.RetirementRate, "year rules")
	assertDecimal(t, "30000", t2031.Rules.TravelAssumedAnnualKm, "year km")
}

const partialRulesTables = `
rules:
  retirement_rate: 0.275
  retirement_cap: 350000
  travel_exclusion_rate: 0.2
  travel_assumed_annual_km: 32000
  commission_threshold: 0.5
  senior_medical_multiple: 3
  senior_medical_divisor: 3
  medical_multiple: 4
  medical_income_threshold: 0.075
  medical_credit_rate: 0.25
travel_scale:
  - { fixed: 60000, fuel: 2, maintenance: 1 }
years:
  2030:
    brackets:
      - { threshold: 0, rate: 0.2, fixed: 0 }
    rebates: { primary: 1000, secondary: 500, tertiary: 250 }
    medical_credits: { main_member: 100, additional_member: 100, dependent: 50 }
    rules:
      retirement_cap: 400000
`

func TestParseRateTablesPartialRules(t *testing.T) {
	repo, err := ParseRateTables([]byte(partialRulesTables))
	require.NoError(t, err)

	table, err := repo.Lookup(2030)
	require.NoError(t, err)

	assertDecimal(t, "400000", table.Rules.RetirementCap, "overridden cap")
	assertDecimal(t, "0.275", table.Rules.RetirementRate, "inherited rate")
	assertDecimal(t, "0.5", table.Rules.CommissionThreshold, "inherited commission threshold")
	assertDecimal(t, "0.25", table.Rules.MedicalCreditRate, "inherited medical credit rate")
	assertDecimal(t, "32000", table.Rules.TravelAssumedAnnualKm, "inherited km")

	result, err := Calculate(table, Input{
		Year:        2030,
		AgeCategory: AgeUnder65,
		Income:      IncomeRecord{Salary: d("500000")},
		Deductions:  DeductionClaims{RetirementAnnuity: d("50000")},
	})
	require.NoError(t, err)

	assertDecimal(t, "50000", result.Deductions.Retirement, "retirement deduction")
	assertDecimal(t, "450000", result.TaxableIncome, "taxable income")
}

func TestParseRateTablesKeepsDecimalText(t *testing.T) {
	repo, err := ParseRateTables([]byte(minimalTables))
	require.NoError(t, err)

	table, err := repo.Lookup(2030)
	require.NoError(t, err)

	assert.Equal(t, "1.5", table.TravelScale[0].FuelPerKm.String())
	assert.Equal(t, "0.075", table.Rules.MedicalIncomeThreshold.String())
	assert.True(t, table.TravelScale[0].Limit.Valid)
	assertDecimal(t, "100000", table.TravelScale[0].Limit.Decimal, "limit")
	assert.False(t, table.TravelScale[1].Limit.Valid)
}

func TestParseRateTablesErrors(t *testing.T) {
	type TC struct {
		name string
		data string
	}

	tcs := []TC{
		{name: "not yaml", data: "years: [unclosed"},
		{name: "no years", data: "rules: {}"},
		{
			name: "first threshold not zero",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
travel_scale: [ { fixed: 1, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets: [ { threshold: 10, rate: 0.2, fixed: 0 } ]
`,
		},
		{
			name: "thresholds not increasing",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
travel_scale: [ { fixed: 1, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets:
      - { threshold: 0, rate: 0.2, fixed: 0 }
      - { threshold: 0, rate: 0.3, fixed: 0 }
`,
		},
		{
			name: "bounded last travel entry",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
travel_scale: [ { limit: 100000, fixed: 1, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets: [ { threshold: 0, rate: 0.2, fixed: 0 } ]
`,
		},
		{
			name: "missing assumed kilometres",
			data: `
rules: { senior_medical_divisor: 3 }
travel_scale: [ { fixed: 1, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets: [ { threshold: 0, rate: 0.2, fixed: 0 } ]
`,
		},
		{
			name: "year rules zero kilometres",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
travel_scale: [ { fixed: 1, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets: [ { threshold: 0, rate: 0.2, fixed: 0 } ]
    rules: { travel_assumed_annual_km: 0 }
`,
		},
		{
			name: "year rules not a mapping",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
travel_scale: [ { fixed: 1, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets: [ { threshold: 0, rate: 0.2, fixed: 0 } ]
    rules: [ 1, 2 ]
`,
		},
		{
			name: "amount not a number",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
travel_scale: [ { fixed: lots, fuel: 1, maintenance: 1 } ]
years:
  2030:
    brackets: [ { threshold: 0, rate: 0.2, fixed: 0 } ]
`,
		},
		{
			name: "empty travel scale",
			data: `
rules: { travel_assumed_annual_km: 32000, senior_medical_divisor: 3 }
years:
  2030:
    brackets: [ { threshold: 0, rate: 0.2, fixed: 0 } ]
`,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRateTables([]byte(tc.data))

			assert.Error(t, err)
		})
	}
}

func TestLoadRateTablesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalTables), 0o644))

	repo, err := LoadRateTablesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []AssessmentYear{2030, 2031}, repo.Years())

	_, err = LoadRateTablesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRepositoryOverride(t *testing.T) {
	base := DefaultRepository()

	table, err := base.Lookup(2026)
	require.NoError(t, err)
	table.Rebates.Primary = d("18500")

	extra, err := base.Lookup(2026)
	require.NoError(t, err)
	extra.Year = 2027

	merged, err := base.Override([]RateTable{table, extra})
	require.NoError(t, err)

	got, err := merged.Lookup(2026)
	require.NoError(t, err)
	assertDecimal(t, "18500", got.Rebates.Primary, "overridden rebate")

	_, err = merged.Lookup(2027)
	assert.NoError(t, err)

	original, err := base.Lookup(2026)
	require.NoError(t, err)
	assertDecimal(t, "18000", original.Rebates.Primary, "base rebate")

	_, err = base.Lookup(2027)
	assert.True(t, errors.Is(err, ErrUnsupportedYear))
}

func TestNewRepositoryRejectsDuplicateYears(t *testing.T) {
	table := table2024(t)

	_, err := NewRepository([]RateTable{table, table})

	assert.Error(t, err)
}

func TestParseAssessmentYear(t *testing.T) {
	y, err := ParseAssessmentYear(" 2024 ")
	require.NoError(t, err)
	assert.Equal(t, AssessmentYear(2024), y)
	assert.Equal(t, "2024", y.String())

	_, err = ParseAssessmentYear("twenty")
	assert.Error(t, err)
}
