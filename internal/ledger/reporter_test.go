package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/model"
)

func newBook(t *testing.T) (*journal.Service, *Reporter, *memBook) {
	t.Helper()
	book := &memBook{rates: map[int64]model.TaxRate{
		1: {ID: 1, Name: "HST", Rate: dec("13"), Active: true},
	}}
	charts := staticCharts{testChart()}
	designations := testChart().Designations(accounts.DesignationCodes{
		Cash:    "1000",
		Tax:     "2300",
		Income:  "4000",
		Expense: "6070",
	})
	svc := journal.NewService(book, charts, designations, zerolog.Nop())
	return svc, NewReporter(book, charts), book
}

func TestReporter_SaleScenario(t *testing.T) {
	svc, rep, _ := newBook(t)
	ctx := context.Background()

	_, err := svc.PostTransaction(ctx, journal.TransactionParams{
		Date:        date(2025, 1, 15),
		Description: "Sale",
		Amount:      dec("250"),
		Type:        model.TxnIncome,
	})
	require.NoError(t, err)

	cash, err := rep.GeneralLedger(ctx, cashID, model.Period{})
	require.NoError(t, err)
	require.Len(t, cash.Entries, 1)
	assertDec(t, "250", cash.Entries[0].Debit)
	assertDec(t, "250", cash.Entries[0].RunningBalance)

	sales, err := rep.GeneralLedger(ctx, salesID, model.Period{})
	require.NoError(t, err)
	require.Len(t, sales.Entries, 1)
	assertDec(t, "250", sales.Entries[0].Credit)
	assertDec(t, "250", sales.Entries[0].RunningBalance)

	is, err := rep.IncomeStatement(ctx, model.Period{})
	require.NoError(t, err)
	assertDec(t, "250", is.TotalRevenue)
	assertDec(t, "250", is.NetIncome)
}

func TestReporter_VoidExcludedEverywhere(t *testing.T) {
	svc, rep, _ := newBook(t)
	ctx := context.Background()

	_, err := svc.PostJournalEntry(ctx, journal.JournalParams{
		Date:        date(2025, 1, 1),
		Description: "Capital",
		Lines:       []model.Line{dr(cashID, "1000"), cr(capitalID, "1000")},
	})
	require.NoError(t, err)
	id, err := svc.PostJournalEntry(ctx, journal.JournalParams{
		Date:        date(2025, 1, 2),
		Description: "Rent",
		Lines:       []model.Line{dr(rentID, "300"), cr(cashID, "300")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Void(ctx, model.KindJournal, id, "wrong month"))

	balances, err := rep.AccountBalances(ctx, nil, model.Period{})
	require.NoError(t, err)
	assertDec(t, "1000", balances[cashID])
	assert.NotContains(t, balances, rentID)

	bs, err := rep.BalanceSheet(ctx, model.Period{})
	require.NoError(t, err)
	assertDec(t, "1000", bs.TotalAssets)

	is, err := rep.IncomeStatement(ctx, model.Period{})
	require.NoError(t, err)
	assert.Empty(t, is.Expenses)

	gl, err := rep.GeneralLedger(ctx, rentID, model.Period{})
	require.NoError(t, err)
	assert.Empty(t, gl.Entries)

	voided, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusVoid, voided.Status)
}

func TestReporter_TaxSurchargeKeepsIncomeExact(t *testing.T) {
	svc, rep, _ := newBook(t)
	ctx := context.Background()

	_, err := svc.PostJournalEntry(ctx, journal.JournalParams{
		Date:        date(2025, 1, 1),
		Description: "Taxable sale",
		Lines:       []model.Line{cr(salesID, "100"), dr(cashID, "100")},
		TaxRateID:   1,
	})
	require.NoError(t, err)

	balances, err := rep.AccountBalances(ctx, nil, model.Period{})
	require.NoError(t, err)
	assertDec(t, "100", balances[salesID])
	assertDec(t, "13", balances[taxID])
	assertDec(t, "113", balances[cashID])

	tb, err := rep.TrialBalance(ctx, model.Period{})
	require.NoError(t, err)
	assert.True(t, tb.Balanced())
	assert.True(t, tb.Equation.Holds())
}

func TestReporter_AsOfAndRange(t *testing.T) {
	svc, rep, _ := newBook(t)
	ctx := context.Background()

	for i, amount := range []string{"100", "200", "300"} {
		_, err := svc.PostTransaction(ctx, journal.TransactionParams{
			Date:        date(2025, 1, 10*(i+1)),
			Description: "Sale",
			Amount:      dec(amount),
			Type:        model.TxnIncome,
		})
		require.NoError(t, err)
	}

	bs, err := rep.BalanceSheet(ctx, model.NewPeriod(time.Time{}, time.Time{}, date(2025, 1, 20)))
	require.NoError(t, err)
	assertDec(t, "300", bs.TotalAssets, "as-of includes the boundary day")

	is, err := rep.IncomeStatement(ctx, model.NewPeriod(date(2025, 1, 20), date(2025, 1, 30), time.Time{}))
	require.NoError(t, err)
	assertDec(t, "500", is.TotalRevenue)

	balances, err := rep.AccountBalances(ctx, []int64{salesID}, model.NewPeriod(time.Time{}, date(2025, 1, 30), date(2025, 1, 10)))
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assertDec(t, "100", balances[salesID], "the earlier of to and as-of applies")
}

func TestReporter_EmptyBook(t *testing.T) {
	_, rep, _ := newBook(t)
	ctx := context.Background()

	bs, err := rep.BalanceSheet(ctx, model.Period{})
	require.NoError(t, err)
	assert.Empty(t, bs.Assets)

	is, err := rep.IncomeStatement(ctx, model.Period{})
	require.NoError(t, err)
	assertDec(t, "0", is.NetIncome)

	balances, err := rep.AccountBalances(ctx, nil, model.Period{})
	require.NoError(t, err)
	assert.Empty(t, balances)

	_, err = rep.GeneralLedger(ctx, 999, model.Period{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}
