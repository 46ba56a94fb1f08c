package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/ledger"
)

// ReportsController serves the financial reports. Every report accepts the
// from, to and as_of query parameters.
type ReportsController struct {
	reports *ledger.Reporter
}

func NewReportsController(reports *ledger.Reporter) *ReportsController {
	return &ReportsController{reports: reports}
}

func (ctrl *ReportsController) BalanceSheet(c echo.Context) error {
	period, err := periodParam(c)
	if err != nil {
		return err
	}
	bs, err := ctrl.reports.BalanceSheet(c.Request().Context(), period)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bs)
}

func (ctrl *ReportsController) IncomeStatement(c echo.Context) error {
	period, err := periodParam(c)
	if err != nil {
		return err
	}
	is, err := ctrl.reports.IncomeStatement(c.Request().Context(), period)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, is)
}

type TrialBalanceResponse struct {
	ledger.TrialBalance
	Balanced bool `json:"balanced"`
}

func (ctrl *ReportsController) TrialBalance(c echo.Context) error {
	period, err := periodParam(c)
	if err != nil {
		return err
	}
	tb, err := ctrl.reports.TrialBalance(c.Request().Context(), period)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TrialBalanceResponse{
		TrialBalance: tb,
		Balanced:     tb.Balanced() && tb.Equation.Holds(),
	})
}

func (ctrl *ReportsController) GeneralLedger(c echo.Context) error {
	accountID, err := idParam(c, "account_id")
	if err != nil {
		return err
	}
	period, err := periodParam(c)
	if err != nil {
		return err
	}
	gl, err := ctrl.reports.GeneralLedger(c.Request().Context(), accountID, period)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gl)
}

// Balances returns signed balances keyed by account id, limited to
// account_ids when given.
func (ctrl *ReportsController) Balances(c echo.Context) error {
	ids, err := idsParam(c, "account_ids")
	if err != nil {
		return err
	}
	period, err := periodParam(c)
	if err != nil {
		return err
	}
	balances, err := ctrl.reports.AccountBalances(c.Request().Context(), ids, period)
	if err != nil {
		return err
	}
	resp := make(map[string]decimal.Decimal, len(balances))
	for accountID, bal := range balances {
		resp[strconv.FormatInt(accountID, 10)] = bal
	}
	return c.JSON(http.StatusOK, resp)
}
