package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/model"
)

type TaxRatesController struct {
	rates *journal.TaxRates
}

func NewTaxRatesController(rates *journal.TaxRates) *TaxRatesController {
	return &TaxRatesController{rates: rates}
}

func (ctrl *TaxRatesController) List(c echo.Context) error {
	rates, err := ctrl.rates.List(c.Request().Context())
	if err != nil {
		return err
	}
	if rates == nil {
		rates = []model.TaxRate{}
	}
	return c.JSON(http.StatusOK, rates)
}

type CreateTaxRateRequestBody struct {
	Name string           `json:"name" validate:"required"`
	Rate *decimal.Decimal `json:"rate" validate:"required"`
}

func (ctrl *TaxRatesController) Create(c echo.Context) error {
	var body CreateTaxRateRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}
	rate, err := ctrl.rates.Create(c.Request().Context(), body.Name, *body.Rate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rate)
}

type SetTaxRateActiveRequestBody struct {
	Active *bool `json:"active" validate:"required"`
}

func (ctrl *TaxRatesController) SetActive(c echo.Context) error {
	rateID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var body SetTaxRateActiveRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}
	rate, err := ctrl.rates.SetActive(c.Request().Context(), rateID, *body.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}
