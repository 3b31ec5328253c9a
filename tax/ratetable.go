package tax

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedYear  = errors.New("unsupported assessment year")
	ErrInvalidRateTable = errors.New("invalid rate table")
)

type AssessmentYear int

func ParseAssessmentYear(s string) (AssessmentYear, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid assessment year %q: %w", s, err)
	}
	return AssessmentYear(y), nil
}

func (y AssessmentYear) String() string {
	return strconv.Itoa(int(y))
}

// Bracket is one progressive tier. Fixed is the cumulative tax due at Threshold.
type Bracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
	Fixed     decimal.Decimal
}

type Rebates struct {
	Primary   decimal.Decimal
	Secondary decimal.Decimal
	Tertiary  decimal.Decimal
}

// MedicalCreditRates are monthly per-person amounts.
type MedicalCreditRates struct {
	MainMember       decimal.Decimal
	AdditionalMember decimal.Decimal
	Dependent        decimal.Decimal
}

// TravelScaleEntry applies to vehicles valued up to Limit. An invalid Limit
// marks the unbounded catch-all row.
type TravelScaleEntry struct {
	Limit            decimal.NullDecimal
	FixedCost        decimal.Decimal
	FuelPerKm        decimal.Decimal
	MaintenancePerKm decimal.Decimal
}

// Rules holds the statutory percentages and caps that are not part of the
// published bracket tables.
type Rules struct {
	RetirementRate         decimal.Decimal
	RetirementCap          decimal.Decimal
	TravelExclusionRate    decimal.Decimal
	TravelAssumedAnnualKm  decimal.Decimal
	CommissionThreshold    decimal.Decimal
	SeniorMedicalMultiple  decimal.Decimal
	SeniorMedicalDivisor   decimal.Decimal
	MedicalMultiple        decimal.Decimal
	MedicalIncomeThreshold decimal.Decimal
	MedicalCreditRate      decimal.Decimal
}

type RateTable struct {
	Year           AssessmentYear
	Brackets       []Bracket
	Rebates        Rebates
	MedicalCredits MedicalCreditRates
	TravelScale    []TravelScaleEntry
	Rules          Rules
}

func (t RateTable) clone() RateTable {
	t.Brackets = slices.Clone(t.Brackets)
	t.TravelScale = slices.Clone(t.TravelScale)
	return t
}

func (t RateTable) validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("year %d: no brackets", t.Year)
	}

	if !t.Brackets[0].Threshold.IsZero() {
		return fmt.Errorf("year %d: first bracket threshold must be 0, got %s", t.Year, t.Brackets[0].Threshold)
	}

	for i := 1; i < len(t.Brackets); i++ {
		if !t.Brackets[i].Threshold.GreaterThan(t.Brackets[i-1].Threshold) {
			return fmt.Errorf("year %d: bracket thresholds must strictly increase at index %d", t.Year, i)
		}
	}

	if !t.Rules.TravelAssumedAnnualKm.IsPositive() {
		return fmt.Errorf("year %d: assumed annual kilometres must be positive", t.Year)
	}

	if !t.Rules.SeniorMedicalDivisor.IsPositive() {
		return fmt.Errorf("year %d: senior medical divisor must be positive", t.Year)
	}

	if len(t.TravelScale) == 0 {
		return fmt.Errorf("year %d: empty travel scale", t.Year)
	}

	last := len(t.TravelScale) - 1

	for i, entry := range t.TravelScale {
		if i == last {
			if entry.Limit.Valid {
				return fmt.Errorf("year %d: last travel scale entry must be unbounded", t.Year)
			}
			continue
		}

		if !entry.Limit.Valid {
			return fmt.Errorf("year %d: only the last travel scale entry may be unbounded", t.Year)
		}

		if i > 0 && !entry.Limit.Decimal.GreaterThan(t.TravelScale[i-1].Limit.Decimal) {
			return fmt.Errorf("year %d: travel scale limits must strictly increase at index %d", t.Year, i)
		}
	}

	return nil
}

// Repository is a read-only set of rate tables keyed by assessment year.
// It is safe for concurrent use because nothing mutates it after construction.
type Repository struct {
	tables map[AssessmentYear]RateTable
}

func NewRepository(tables []RateTable) (*Repository, error) {
	repo := &Repository{tables: make(map[AssessmentYear]RateTable, len(tables))}

	for _, t := range tables {
		if err := t.validate(); err != nil {
			return nil, err
		}

		if _, ok := repo.tables[t.Year]; ok {
			return nil, fmt.Errorf("year %d defined twice", t.Year)
		}

		repo.tables[t.Year] = t.clone()
	}

	return repo, nil
}

func (r *Repository) Lookup(year AssessmentYear) (RateTable, error) {
	t, ok := r.tables[year]
	if !ok {
		return RateTable{}, fmt.Errorf("%w: %d", ErrUnsupportedYear, year)
	}
	return t.clone(), nil
}

func (r *Repository) Years() []AssessmentYear {
	years := make([]AssessmentYear, 0, len(r.tables))
	for y := range r.tables {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Tables returns every table ordered by year.
func (r *Repository) Tables() []RateTable {
	var tables []RateTable
	for _, y := range r.Years() {
		tables = append(tables, r.tables[y].clone())
	}
	return tables
}

// Override returns a new repository where the given tables replace (or add
// to) the receiver's entries. The receiver is left untouched.
func (r *Repository) Override(tables []RateTable) (*Repository, error) {
	merged := make(map[AssessmentYear]RateTable, len(r.tables))
	for y, t := range r.tables {
		merged[y] = t
	}

	for _, t := range tables {
		if err := t.validate(); err != nil {
			return nil, err
		}
		merged[t.Year] = t.clone()
	}

	return &Repository{tables: merged}, nil
}
