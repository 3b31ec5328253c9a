package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/paylesstax/taxcalc/tax"
)

type YearsResponse struct {
	Years []int `json:"years"`
}

type RateTableResponse struct {
	Year           int               `json:"year"`
	Brackets       []BracketResponse `json:"brackets"`
	Rebates        RebatesResponse   `json:"rebates"`
	MedicalCredits MedicalResponse   `json:"medicalCredits"`
	TravelScale    []TravelResponse  `json:"travelScale"`
	Rules          RulesResponse     `json:"rules"`
}

type BracketResponse struct {
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
	Fixed     float64 `json:"fixed"`
}

type RebatesResponse struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Tertiary  float64 `json:"tertiary"`
}

type MedicalResponse struct {
	MainMember       float64 `json:"mainMember"`
	AdditionalMember float64 `json:"additionalMember"`
	Dependent        float64 `json:"dependent"`
}

// TravelResponse leaves Limit null for the unbounded row.
type TravelResponse struct {
	Limit            *float64 `json:"limit"`
	FixedCost        float64  `json:"fixedCost"`
	FuelPerKm        float64  `json:"fuelPerKm"`
	MaintenancePerKm float64  `json:"maintenancePerKm"`
}

type RulesResponse struct {
	RetirementRate         float64 `json:"retirementRate"`
	RetirementCap          float64 `json:"retirementCap"`
	TravelExclusionRate    float64 `json:"travelExclusionRate"`
	TravelAssumedAnnualKm  float64 `json:"travelAssumedAnnualKm"`
	CommissionThreshold    float64 `json:"commissionThreshold"`
	SeniorMedicalMultiple  float64 `json:"seniorMedicalMultiple"`
	SeniorMedicalDivisor   float64 `json:"seniorMedicalDivisor"`
	MedicalMultiple        float64 `json:"medicalMultiple"`
	MedicalIncomeThreshold float64 `json:"medicalIncomeThreshold"`
	MedicalCreditRate      float64 `json:"medicalCreditRate"`
}

func NewRateTableResponse(t tax.RateTable) RateTableResponse {
	resp := RateTableResponse{
		Year: int(t.Year),
		Rebates: RebatesResponse{
			Primary:   t.Rebates.Primary.InexactFloat64(),
			Secondary: t.Rebates.Secondary.InexactFloat64(),
			Tertiary:  t.Rebates.Tertiary.InexactFloat64(),
		},
		MedicalCredits: MedicalResponse{
			MainMember:       t.MedicalCredits.MainMember.InexactFloat64(),
			AdditionalMember: t.MedicalCredits.AdditionalMember.InexactFloat64(),
			Dependent:        t.MedicalCredits.Dependent.InexactFloat64(),
		},
		Rules: RulesResponse{
			RetirementRate:         t.Rules.RetirementRate.InexactFloat64(),
			RetirementCap:          t.Rules.RetirementCap.InexactFloat64(),
			TravelExclusionRate:    t.Rules.TravelExclusionRate.InexactFloat64(),
			TravelAssumedAnnualKm:  t.Rules.TravelAssumedAnnualKm.InexactFloat64(),
			CommissionThreshold:    t.Rules.CommissionThreshold.InexactFloat64(),
			SeniorMedicalMultiple:  t.Rules.SeniorMedicalMultiple.InexactFloat64(),
			SeniorMedicalDivisor:   t.Rules.SeniorMedicalDivisor.InexactFloat64(),
			MedicalMultiple:        t.Rules.MedicalMultiple.InexactFloat64(),
			MedicalIncomeThreshold: t.Rules.MedicalIncomeThreshold.InexactFloat64(),
			MedicalCreditRate:      t.Rules.MedicalCreditRate.InexactFloat64(),
		},
	}

	for _, b := range t.Brackets {
		resp.Brackets = append(resp.Brackets, BracketResponse{
			Threshold: b.Threshold.InexactFloat64(),
			Rate:      b.Rate.InexactFloat64(),
			Fixed:     b.Fixed.InexactFloat64(),
		})
	}

	for _, e := range t.TravelScale {
		tr := TravelResponse{
			FixedCost:        e.FixedCost.InexactFloat64(),
			FuelPerKm:        e.FuelPerKm.InexactFloat64(),
			MaintenancePerKm: e.MaintenancePerKm.InexactFloat64(),
		}

		if e.Limit.Valid {
			limit := e.Limit.Decimal.InexactFloat64()
			tr.Limit = &limit
		}

		resp.TravelScale = append(resp.TravelScale, tr)
	}

	return resp
}

type RateTableHandler struct {
	rates RateTables
}

func NewRateTableHandler(rates RateTables) *RateTableHandler {
	return &RateTableHandler{rates}
}

func (h *RateTableHandler) ListYears(c echo.Context) error {
	resp := YearsResponse{Years: []int{}}

	for _, y := range h.rates.Years() {
		resp.Years = append(resp.Years, int(y))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RateTableHandler) GetYear(c echo.Context) error {
	year, err := tax.ParseAssessmentYear(c.Param("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid year",
		})
	}

	table, err := h.rates.Lookup(year)
	if errors.Is(err, tax.ErrUnsupportedYear) {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "Unsupported tax year",
		})
	}
	if err != nil {
		log.Println("Failed to look up rate table:", err)
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, NewRateTableResponse(table))
}
