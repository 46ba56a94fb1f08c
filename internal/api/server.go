// Package api serves the books over a JSON HTTP API.
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v3"
	"golang.org/x/time/rate"

	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/config"
	"github.com/cleared-dev/crania/internal/logging"
)

// New builds the echo server with its middleware and routes.
func New(a *app.App, cfg config.ServerConfig, log zerolog.Logger) *echo.Echo {
	logger := logging.Echo(log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewValidator()
	e.Logger = logger

	e.Use(middleware.Recover())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}
	e.Use(middleware.RequestID())
	e.Use(lecho.Middleware(lecho.Config{
		Logger: logger,
		Enricher: func(c echo.Context, logger zerolog.Context) zerolog.Context {
			return logger.Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		},
	}))

	registerRoutes(e.Group("/api"), a)
	return e
}

func registerRoutes(g *echo.Group, a *app.App) {
	accountsCtrl := NewAccountsController(a.Accounts)
	g.GET("/accounts", accountsCtrl.List)
	g.POST("/accounts", accountsCtrl.Create)
	g.PATCH("/accounts/:id", accountsCtrl.Update)

	entriesCtrl := NewEntriesController(a.Journal)
	g.POST("/transactions", entriesCtrl.PostTransaction)
	g.POST("/transactions/:id/void", entriesCtrl.VoidTransaction)
	g.GET("/journal-entries", entriesCtrl.List)
	g.POST("/journal-entries", entriesCtrl.PostJournalEntry)
	g.GET("/journal-entries/:id", entriesCtrl.Get)
	g.POST("/journal-entries/:id/void", entriesCtrl.VoidJournalEntry)

	reportsCtrl := NewReportsController(a.Reports)
	g.GET("/reports/balance-sheet", reportsCtrl.BalanceSheet)
	g.GET("/reports/income-statement", reportsCtrl.IncomeStatement)
	g.GET("/reports/trial-balance", reportsCtrl.TrialBalance)
	g.GET("/reports/general-ledger/:account_id", reportsCtrl.GeneralLedger)
	g.GET("/balances", reportsCtrl.Balances)

	taxRatesCtrl := NewTaxRatesController(a.TaxRates)
	g.GET("/tax-rates", taxRatesCtrl.List)
	g.POST("/tax-rates", taxRatesCtrl.Create)
	g.PATCH("/tax-rates/:id", taxRatesCtrl.SetActive)
}
