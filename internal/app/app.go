// Package app wires the store, services and designations for one book.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/config"
	"github.com/cleared-dev/crania/internal/importer"
	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/ledger"
	"github.com/cleared-dev/crania/internal/store"
)

// App holds the services of an open book.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Accounts *accounts.Registry
	Journal  *journal.Service
	TaxRates *journal.TaxRates
	Reports  *ledger.Reporter
	Importer *importer.Importer
	Log      zerolog.Logger
}

// Open opens the book's database, seeds the default chart into a new book
// and resolves the designated accounts from cfg.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	registry := accounts.NewRegistry(st, log)
	seeded, err := registry.Seed(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	if seeded {
		log.Info().Str("path", cfg.DatabasePath()).Msg("default chart of accounts installed")
	}

	chart, err := registry.Load(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	designations := chart.Designations(accounts.DesignationCodes{
		Cash:    cfg.Ledger.CashAccount,
		Tax:     cfg.Ledger.TaxAccount,
		Income:  cfg.Ledger.IncomeAccount,
		Expense: cfg.Ledger.ExpenseAccount,
	})
	if designations.TaxAccountID == 0 {
		log.Warn().Str("code", cfg.Ledger.TaxAccount).Msg("tax account not found, tax surcharge disabled")
	}
	if designations.CashAccountID == 0 {
		log.Warn().Str("code", cfg.Ledger.CashAccount).Msg("no asset account for cash, transactions cannot be posted")
	}
	log.Debug().
		Int64("cash", designations.CashAccountID).
		Int64("tax", designations.TaxAccountID).
		Int64("income", designations.IncomeAccountID).
		Int64("expense", designations.ExpenseAccountID).
		Msg("designated accounts resolved")

	jsvc := journal.NewService(st, registry, designations, log)
	return &App{
		Config:   cfg,
		Store:    st,
		Accounts: registry,
		Journal:  jsvc,
		TaxRates: journal.NewTaxRates(st, log),
		Reports:  ledger.NewReporter(st, registry),
		Importer: importer.New(importer.DefaultRegistry(), jsvc, registry, log),
		Log:      log,
	}, nil
}

// Close closes the database.
func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
