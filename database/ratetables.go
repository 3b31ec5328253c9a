package database

import (
	"context"
	"fmt"

	"github.com/paylesstax/taxcalc/tax"
)

type RateTableFinder interface {
	FindAllTaxYears(ctx context.Context) ([]TaxYear, error)
	FindAllBrackets(ctx context.Context) ([]Bracket, error)
}

// LoadRepository overlays the years stored in the database on top of base.
// Stored years only carry brackets, rebates and medical credits; the travel
// scale and rules come from base for the same year, or from the latest base
// year when the year is new.
func LoadRepository(ctx context.Context, finder RateTableFinder, base *tax.Repository) (*tax.Repository, error) {
	years, err := finder.FindAllTaxYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax years: %w", err)
	}

	brackets, err := finder.FindAllBrackets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax brackets: %w", err)
	}

	tables, err := BuildRateTables(base, years, brackets)
	if err != nil {
		return nil, err
	}

	return base.Override(tables)
}

func BuildRateTables(base *tax.Repository, years []TaxYear, brackets []Bracket) ([]tax.RateTable, error) {
	baseTables := base.Tables()
	if len(baseTables) == 0 {
		return nil, fmt.Errorf("base repository has no years")
	}

	templates := make(map[tax.AssessmentYear]tax.RateTable, len(baseTables))
	for _, t := range baseTables {
		templates[t.Year] = t
	}
	latest := baseTables[len(baseTables)-1]

	byYear := make(map[int][]tax.Bracket)
	for _, b := range brackets {
		byYear[b.Year] = append(byYear[b.Year], tax.Bracket{
			Threshold: b.Threshold,
			Rate:      b.Rate,
			Fixed:     b.FixedAmount,
		})
	}

	var tables []tax.RateTable

	for _, ty := range years {
		year := tax.AssessmentYear(ty.Year)

		template, ok := templates[year]
		if !ok {
			template = latest
		}

		if len(byYear[ty.Year]) == 0 {
			return nil, fmt.Errorf("year %d has no brackets", ty.Year)
		}

		tables = append(tables, tax.RateTable{
			Year:     year,
			Brackets: byYear[ty.Year],
			Rebates: tax.Rebates{
				Primary:   ty.PrimaryRebate,
				Secondary: ty.SecondaryRebate,
				Tertiary:  ty.TertiaryRebate,
			},
			MedicalCredits: tax.MedicalCreditRates{
				MainMember:       ty.MedicalMainMember,
				AdditionalMember: ty.MedicalAdditionalMember,
				Dependent:        ty.MedicalDependent,
			},
			TravelScale: template.TravelScale,
			Rules:       template.Rules,
		})
	}

	return tables, nil
}
