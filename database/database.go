// Package database reads rate tables stored in Postgres.
//
// Expected tables:
//
//	tax_years(year INT PRIMARY KEY, primary_rebate NUMERIC, secondary_rebate NUMERIC,
//	          tertiary_rebate NUMERIC, medical_main_member NUMERIC,
//	          medical_additional_member NUMERIC, medical_dependent NUMERIC)
//	tax_brackets(year INT REFERENCES tax_years, threshold NUMERIC, rate NUMERIC,
//	             fixed_amount NUMERIC)
package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type DB struct {
	sqlDB *sql.DB
}

func NewDB(dbURL string) (*DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) GetSQLDB() *sql.DB {
	return db.sqlDB
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

func (db *DB) FindAllTaxYears(ctx context.Context) ([]TaxYear, error) {
	var results []TaxYear

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
			SELECT year, primary_rebate, secondary_rebate, tertiary_rebate,
				medical_main_member, medical_additional_member, medical_dependent
			FROM tax_years
			ORDER BY year
		`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ty TaxYear

		err = rows.Scan(
			&ty.Year,
			&ty.PrimaryRebate,
			&ty.SecondaryRebate,
			&ty.TertiaryRebate,
			&ty.MedicalMainMember,
			&ty.MedicalAdditionalMember,
			&ty.MedicalDependent,
		)
		if err != nil {
			return nil, err
		}

		results = append(results, ty)
	}

	return results, rows.Err()
}

func (db *DB) FindAllBrackets(ctx context.Context) ([]Bracket, error) {
	var results []Bracket

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
		SELECT year, threshold, rate, fixed_amount FROM tax_brackets ORDER BY year, threshold
		`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b Bracket

		err = rows.Scan(&b.Year, &b.Threshold, &b.Rate, &b.FixedAmount)
		if err != nil {
			return nil, err
		}

		results = append(results, b)
	}

	return results, rows.Err()
}

type TaxYear struct {
	Year                    int             `db:"year"`
	PrimaryRebate           decimal.Decimal `db:"primary_rebate"`
	SecondaryRebate         decimal.Decimal `db:"secondary_rebate"`
	TertiaryRebate          decimal.Decimal `db:"tertiary_rebate"`
	MedicalMainMember       decimal.Decimal `db:"medical_main_member"`
	MedicalAdditionalMember decimal.Decimal `db:"medical_additional_member"`
	MedicalDependent        decimal.Decimal `db:"medical_dependent"`
}

type Bracket struct {
	Year        int             `db:"year"`
	Threshold   decimal.Decimal `db:"threshold"`
	Rate        decimal.Decimal `db:"rate"`
	FixedAmount decimal.Decimal `db:"fixed_amount"`
}
