package handler

import (
	"encoding/csv"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/paylesstax/taxcalc/tax"
	"github.com/shopspring/decimal"
)

type TaxCSV struct {
	Year          int     `json:"year"`
	GrossIncome   float64 `json:"grossIncome"`
	TaxableIncome float64 `json:"taxableIncome"`
	TotalTax      float64 `json:"totalTax"`
	TaxDifference float64 `json:"taxDifference"`
	IsRefund      bool    `json:"isRefund"`
}

type TaxCSVResponse struct {
	Taxes []TaxCSV `json:"taxes"`
}

var csvHeader = []string{
	"year",
	"ageCategory",
	"salary",
	"commission",
	"contractorIncome",
	"bonus",
	"travelAllowance",
	"taxPaidAlready",
	"retirementAnnuity",
}

type RateTables interface {
	Lookup(year tax.AssessmentYear) (tax.RateTable, error)
	Years() []tax.AssessmentYear
}

type TaxHandler struct {
	vl    *validator.Validate
	rates RateTables
}

func NewTaxHandler(vl *validator.Validate, rates RateTables) *TaxHandler {
	return &TaxHandler{vl, rates}
}

// calculate maps engine failures onto a status code and message.
func (t *TaxHandler) calculate(in tax.Input) (tax.TaxResult, int, string) {
	table, err := t.rates.Lookup(in.Year)
	if errors.Is(err, tax.ErrUnsupportedYear) {
		return tax.TaxResult{}, http.StatusBadRequest, "Unsupported tax year"
	}
	if err != nil {
		log.Println("Failed to look up rate table:", err)
		return tax.TaxResult{}, http.StatusInternalServerError, "Internal server error"
	}

	result, err := tax.Calculate(table, in)

	var verr *tax.ValidationError
	if errors.As(err, &verr) {
		return tax.TaxResult{}, http.StatusBadRequest, verr.Error()
	}
	if err != nil {
		log.Println("Failed to calculate tax:", err)
		return tax.TaxResult{}, http.StatusInternalServerError, "Internal server error"
	}

	return result, http.StatusOK, ""
}

func (t *TaxHandler) CalculateTax(c echo.Context) error {
	var req TaxRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := t.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	in, err := req.ToInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid age category",
		})
	}

	result, status, msg := t.calculate(in)
	if status != http.StatusOK {
		return c.JSON(status, ResponseMsg{
			Message: msg,
		})
	}

	return c.JSON(http.StatusOK, NewTaxResponse(result))
}

func (t *TaxHandler) CalculateTaxWithCSV(c echo.Context) error {
	mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get("Content-Type"))
	if err != nil || mediaType != "text/csv" {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unacceptable content, require CSV content",
		})
	}

	// column counts are checked per row below
	r := csv.NewReader(c.Request().Body)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request, might not be csv format",
		})
	}

	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv content, no content",
		})
	}

	if len(rows) == 1 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv content, should have more than 1 row due to it is header",
		})
	}

	var inputs []tax.Input

	// validation
	for i, row := range rows {
		if len(row) != len(csvHeader) {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Wrong csv column length",
			})
		}

		if i == 0 {
			for j, name := range csvHeader {
				if strings.TrimSpace(row[j]) != name {
					return c.JSON(http.StatusBadRequest, ResponseMsg{
						Message: "Wrong csv header",
					})
				}
			}

			continue
		}

		in, msg := parseCSVRow(row)
		if msg != "" {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: msg,
			})
		}

		inputs = append(inputs, in)
	}

	var taxes []TaxCSV

	for _, in := range inputs {
		result, status, msg := t.calculate(in)
		if status != http.StatusOK {
			return c.JSON(status, ResponseMsg{
				Message: msg,
			})
		}

		taxes = append(taxes, TaxCSV{
			Year:          int(result.Year),
			GrossIncome:   rounded(result.GrossIncome),
			TaxableIncome: rounded(result.TaxableIncome),
			TotalTax:      rounded(result.TotalTax),
			TaxDifference: rounded(result.TaxDifference),
			IsRefund:      result.IsRefund,
		})
	}

	return c.JSON(http.StatusOK, &TaxCSVResponse{
		Taxes: taxes,
	})
}

// parseCSVRow returns an error message for the first bad column.
func parseCSVRow(row []string) (tax.Input, string) {
	year, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return tax.Input{}, "Invalid year"
	}

	age, err := tax.ParseAgeCategory(row[1])
	if err != nil {
		return tax.Input{}, "Invalid age category"
	}

	amounts := make([]decimal.Decimal, len(row)-2)

	for i := range amounts {
		v, err := decimal.NewFromString(strings.TrimSpace(row[i+2]))
		if err != nil || v.IsNegative() {
			return tax.Input{}, "Invalid " + csvHeader[i+2] + " amount"
		}
		amounts[i] = v
	}

	return tax.Input{
		Year:        tax.AssessmentYear(year),
		AgeCategory: age,
		Income: tax.IncomeRecord{
			Salary:           amounts[0],
			Commission:       amounts[1],
			ContractorIncome: amounts[2],
			Bonus:            amounts[3],
			TravelAllowance:  amounts[4],
			TaxPaidAlready:   amounts[5],
		},
		Deductions: tax.DeductionClaims{
			RetirementAnnuity: amounts[6],
		},
	}, ""
}
