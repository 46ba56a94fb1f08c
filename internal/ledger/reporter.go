package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/model"
)

// EntrySource lists stored entries.
type EntrySource interface {
	ListEntries(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error)
}

// ChartLoader loads the current chart of accounts.
type ChartLoader interface {
	Load(ctx context.Context) (*accounts.Service, error)
}

// Reporter builds reports from the store. Every call reads fresh data.
type Reporter struct {
	entries EntrySource
	charts  ChartLoader
}

// NewReporter creates a Reporter.
func NewReporter(entries EntrySource, charts ChartLoader) *Reporter {
	return &Reporter{entries: entries, charts: charts}
}

func (r *Reporter) load(ctx context.Context, period model.Period) ([]Posting, *accounts.Service, error) {
	chart, err := r.charts.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, err := r.entries.ListEntries(ctx, model.EntryFilter{Period: period})
	if err != nil {
		return nil, nil, fmt.Errorf("listing entries: %w", err)
	}
	return Postings(entries, period), chart, nil
}

// BalanceSheet reports asset, liability and equity balances. Pass an open
// From bound for all-time balances as of To.
func (r *Reporter) BalanceSheet(ctx context.Context, period model.Period) (BalanceSheet, error) {
	postings, chart, err := r.load(ctx, period)
	if err != nil {
		return BalanceSheet{}, err
	}
	bs := BuildBalanceSheet(postings, chart)
	bs.Period = period
	return bs, nil
}

// IncomeStatement reports revenue, expenses and net income over period.
func (r *Reporter) IncomeStatement(ctx context.Context, period model.Period) (IncomeStatement, error) {
	postings, chart, err := r.load(ctx, period)
	if err != nil {
		return IncomeStatement{}, err
	}
	is := BuildIncomeStatement(postings, chart)
	is.Period = period
	return is, nil
}

// GeneralLedger reports the activity and running balance of one account.
func (r *Reporter) GeneralLedger(ctx context.Context, accountID int64, period model.Period) (GeneralLedger, error) {
	postings, chart, err := r.load(ctx, period)
	if err != nil {
		return GeneralLedger{}, err
	}
	acct, ok := chart.Get(accountID)
	if !ok {
		return GeneralLedger{}, model.NotFoundError{Kind: "account", ID: accountID}
	}
	gl := BuildGeneralLedger(postings, acct)
	gl.Period = period
	return gl, nil
}

// TrialBalance reports per-account totals and the accounting equation.
func (r *Reporter) TrialBalance(ctx context.Context, period model.Period) (TrialBalance, error) {
	postings, chart, err := r.load(ctx, period)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := BuildTrialBalance(postings, chart)
	tb.Period = period
	return tb, nil
}

// AccountBalances returns signed balances keyed by account id, restricted
// to ids when any are given. Accounts without activity are absent.
func (r *Reporter) AccountBalances(ctx context.Context, ids []int64, period model.Period) (map[int64]decimal.Decimal, error) {
	postings, chart, err := r.load(ctx, period)
	if err != nil {
		return nil, err
	}
	return Aggregate(postings, chart, IDSet(ids)), nil
}
