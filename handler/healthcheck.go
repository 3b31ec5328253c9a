package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ResponseMsg struct {
	Message string `json:"message"`
}

func Healthcheck(c echo.Context) error {
	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "Tax engine is up",
	})
}

// Register wires every route onto e.
func Register(e *echo.Echo, th *TaxHandler, rh *RateTableHandler) {
	e.GET("/", Healthcheck)

	e.POST("/tax/calculations", th.CalculateTax)
	e.POST("/tax/calculations/upload-csv", th.CalculateTaxWithCSV)

	e.GET("/tax/years", rh.ListYears)
	e.GET("/tax/years/:year", rh.GetYear)
}
