package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxBeforeRebates(t *testing.T) {
	type TC struct {
		taxable string
		want    string
	}

	tcs := []TC{
		{taxable: "0", want: "0"},
		{taxable: "100000", want: "18000"},
		// on a threshold the lower bracket still applies
		{taxable: "237100", want: "42678"},
		{taxable: "237101", want: "42678.26"},
		{taxable: "500000", want: "117507"},
		{taxable: "2000000", want: "726839"},
	}

	brackets := table2024(t).Brackets

	for _, tc := range tcs {
		got := TaxBeforeRebates(brackets, d(tc.taxable))

		assertDecimal(t, tc.want, got, "tax on "+tc.taxable)
	}
}

func TestTaxBeforeRebatesIsMonotonic(t *testing.T) {
	step := decimal.NewFromInt(25_000)
	limit := decimal.NewFromInt(2_500_000)

	for _, table := range DefaultRepository().Tables() {
		previous := decimal.Zero

		for income := decimal.Zero; income.LessThanOrEqual(limit); income = income.Add(step) {
			got := TaxBeforeRebates(table.Brackets, income)

			if got.LessThan(previous) {
				t.Errorf("year %d: tax decreased at %s (%s < %s)", table.Year, income, got, previous)
			}

			previous = got
		}
	}
}

func TestAgeRebate(t *testing.T) {
	rebates := table2024(t).Rebates

	assertDecimal(t, "0", AgeRebate(rebates, AgeUnder65), "under 65")
	assertDecimal(t, "9444", AgeRebate(rebates, Age65To74), "65 to 74")
	assertDecimal(t, "12589", AgeRebate(rebates, Age75Plus), "75 plus")
}

func TestMedicalCredits(t *testing.T) {
	type TC struct {
		members    int
		dependents int
		want       string
	}

	tcs := []TC{
		{members: 0, dependents: 0, want: "0"},
		{members: 1, dependents: 0, want: "4368"},
		{members: 2, dependents: 0, want: "8736"},
		{members: 2, dependents: 1, want: "11688"},
		{members: 3, dependents: 2, want: "14640"},
	}

	rates := table2024(t).MedicalCredits

	for _, tc := range tcs {
		got := MedicalCredits(rates, tc.members, tc.dependents)

		assert.Truef(t, d(tc.want).Equal(got), "members %d dependents %d: expected %s, but got %s", tc.members, tc.dependents, tc.want, got)
	}
}

func TestAdditionalMedicalCredits(t *testing.T) {
	type TC struct {
		name      string
		age       AgeCategory
		premium   string
		uncovered string
		taxable   string
		want      string
	}

	// annual 6A credit used throughout: 2 members + 1 dependent = 11,688
	tcs := []TC{
		{name: "senior premiums above three times the credit", age: Age65To74, premium: "5000", uncovered: "6000", taxable: "500000", want: "10312"},
		{name: "senior uncovered expenses only", age: Age75Plus, premium: "0", uncovered: "36000", taxable: "500000", want: "312"},
		{name: "under 65 below the income threshold", age: AgeUnder65, premium: "5000", uncovered: "20000", taxable: "500000", want: "0"},
		{name: "under 65 above the income threshold", age: AgeUnder65, premium: "5000", uncovered: "50000", taxable: "500000", want: "6437"},
		{name: "under 65 premiums below four times the credit", age: AgeUnder65, premium: "1000", uncovered: "40000", taxable: "100000", want: "8125"},
	}

	table := table2024(t)
	annual := d("11688")

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			claims := MedicalClaims{Members: 2, Dependents: 1, MonthlyPremium: d(tc.premium), UncoveredExpenses: d(tc.uncovered)}

			got := AdditionalMedicalCredits(table.Rules, tc.age, claims, annual, d(tc.taxable))

			assertDecimal(t, tc.want, got, "additional medical credits")
			assert.False(t, got.IsNegative())
		})
	}
}
