package tax

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed ratetables.yaml
var embeddedRateTables []byte

type rateFile struct {
	Rules       rulesYAML            `yaml:"rules"`
	TravelScale []travelYAML         `yaml:"travel_scale"`
	Years       map[int]rateYearYAML `yaml:"years"`
}

// rateYearYAML keeps its rules as a node so a partial block can be decoded
// over the document defaults.
type rateYearYAML struct {
	Brackets       []bracketYAML `yaml:"brackets"`
	Rebates        rebatesYAML   `yaml:"rebates"`
	MedicalCredits medicalYAML   `yaml:"medical_credits"`
	Rules          yaml.Node     `yaml:"rules,omitempty"`
	TravelScale    []travelYAML  `yaml:"travel_scale,omitempty"`
}

type bracketYAML struct {
	Threshold decimal.Decimal `yaml:"threshold"`
	Rate      decimal.Decimal `yaml:"rate"`
	Fixed     decimal.Decimal `yaml:"fixed"`
}

type rebatesYAML struct {
	Primary   decimal.Decimal `yaml:"primary"`
	Secondary decimal.Decimal `yaml:"secondary"`
	Tertiary  decimal.Decimal `yaml:"tertiary"`
}

type medicalYAML struct {
	MainMember       decimal.Decimal `yaml:"main_member"`
	AdditionalMember decimal.Decimal `yaml:"additional_member"`
	Dependent        decimal.Decimal `yaml:"dependent"`
}

type travelYAML struct {
	Limit       *decimal.Decimal `yaml:"limit,omitempty"`
	Fixed       decimal.Decimal  `yaml:"fixed"`
	Fuel        decimal.Decimal  `yaml:"fuel"`
	Maintenance decimal.Decimal  `yaml:"maintenance"`
}

type rulesYAML struct {
	RetirementRate         decimal.Decimal `yaml:"retirement_rate"`
	RetirementCap          decimal.Decimal `yaml:"retirement_cap"`
	TravelExclusionRate    decimal.Decimal `yaml:"travel_exclusion_rate"`
	TravelAssumedAnnualKm  decimal.Decimal `yaml:"travel_assumed_annual_km"`
	CommissionThreshold    decimal.Decimal `yaml:"commission_threshold"`
	SeniorMedicalMultiple  decimal.Decimal `yaml:"senior_medical_multiple"`
	SeniorMedicalDivisor   decimal.Decimal `yaml:"senior_medical_divisor"`
	MedicalMultiple        decimal.Decimal `yaml:"medical_multiple"`
	MedicalIncomeThreshold decimal.Decimal `yaml:"medical_income_threshold"`
	MedicalCreditRate      decimal.Decimal `yaml:"medical_credit_rate"`
}

func (r rulesYAML) toRules() (Rules, error) {
	if !r.TravelAssumedAnnualKm.IsPositive() {
		return Rules{}, fmt.Errorf("travel_assumed_annual_km must be positive")
	}
	if !r.SeniorMedicalDivisor.IsPositive() {
		return Rules{}, fmt.Errorf("senior_medical_divisor must be positive")
	}

	return Rules(r), nil
}

// yearRules decodes a year's rules block over the defaults; fields the block
// leaves out keep the default value.
func yearRules(defaults rulesYAML, node yaml.Node) (rulesYAML, error) {
	rules := defaults
	if node.Kind == 0 {
		return rules, nil
	}

	if err := node.Decode(&rules); err != nil {
		return rulesYAML{}, err
	}

	return rules, nil
}

func toTravelScale(rows []travelYAML) []TravelScaleEntry {
	scale := make([]TravelScaleEntry, 0, len(rows))
	for _, row := range rows {
		entry := TravelScaleEntry{
			FixedCost:        row.Fixed,
			FuelPerKm:        row.Fuel,
			MaintenancePerKm: row.Maintenance,
		}
		if row.Limit != nil {
			entry.Limit = decimal.NewNullDecimal(*row.Limit)
		}
		scale = append(scale, entry)
	}
	return scale
}

// ParseRateTables decodes a rate table document and validates every year.
func ParseRateTables(data []byte) (*Repository, error) {
	var f rateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rate tables: %w", err)
	}

	if len(f.Years) == 0 {
		return nil, fmt.Errorf("rate tables define no years")
	}

	years := make([]int, 0, len(f.Years))
	for y := range f.Years {
		years = append(years, y)
	}
	sort.Ints(years)

	var tables []RateTable

	for _, y := range years {
		entry := f.Years[y]

		rules, err := yearRules(f.Rules, entry.Rules)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", y, err)
		}

		r, err := rules.toRules()
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", y, err)
		}

		travel := f.TravelScale
		if len(entry.TravelScale) > 0 {
			travel = entry.TravelScale
		}

		brackets := make([]Bracket, 0, len(entry.Brackets))
		for _, b := range entry.Brackets {
			brackets = append(brackets, Bracket(b))
		}

		tables = append(tables, RateTable{
			Year:           AssessmentYear(y),
			Brackets:       brackets,
			Rebates:        Rebates(entry.Rebates),
			MedicalCredits: MedicalCreditRates(entry.MedicalCredits),
			TravelScale:    toTravelScale(travel),
			Rules:          r,
		})
	}

	return NewRepository(tables)
}

func LoadRateTablesFile(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return ParseRateTables(data)
}

var defaultRepository = sync.OnceValue(func() *Repository {
	repo, err := ParseRateTables(embeddedRateTables)
	if err != nil {
		panic(fmt.Sprintf("embedded rate tables are invalid: %v", err))
	}
	return repo
})

// DefaultRepository returns the tables shipped with the binary (2020-2026).
func DefaultRepository() *Repository {
	return defaultRepository()
}
