package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryLabel(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{ID: 12, Kind: KindTransaction}, "TXN-000012"},
		{Entry{ID: 7, Kind: KindJournal}, "JE-000007"},
		{Entry{ID: 1234567, Kind: KindJournal}, "JE-1234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.entry.Label())
	}
}

func TestEntryTotals(t *testing.T) {
	e := Entry{Lines: []Line{
		{Debit: decimal.RequireFromString("60")},
		{Debit: decimal.RequireFromString("40")},
		{Credit: decimal.RequireFromString("100")},
	}}
	d, c := e.Totals()
	assert.True(t, d.Equal(decimal.NewFromInt(100)))
	assert.True(t, c.Equal(decimal.NewFromInt(100)))
	assert.True(t, e.Amount().Equal(decimal.NewFromInt(100)))
}

func TestLineNet(t *testing.T) {
	l := Line{Debit: decimal.NewFromInt(30), Credit: decimal.NewFromInt(10)}
	assert.True(t, l.Net().Equal(decimal.NewFromInt(20)))
	assert.False(t, l.IsZero())
	assert.True(t, Line{}.IsZero())
}

func TestAccountTypeNormalBalance(t *testing.T) {
	assert.True(t, AccountTypeAsset.DebitNormal())
	assert.True(t, AccountTypeExpense.DebitNormal())
	assert.False(t, AccountTypeLiability.DebitNormal())
	assert.False(t, AccountTypeEquity.DebitNormal())
	assert.False(t, AccountTypeIncome.DebitNormal())
}

func TestParseAccountType(t *testing.T) {
	at, ok := ParseAccountType(" Income ")
	assert.True(t, ok)
	assert.Equal(t, AccountTypeIncome, at)

	_, ok = ParseAccountType("revenue")
	assert.False(t, ok)
}

func TestAccountLess(t *testing.T) {
	cash := Account{Code: "1000", Name: "Cash"}
	noCode := Account{Name: "Aardvark"}
	assert.True(t, cash.Less(noCode), "accounts without a code sort last")
	assert.Equal(t, "9999", noCode.SortCode())

	a := Account{Code: "6000", Name: "A"}
	b := Account{Code: "6000", Name: "B"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestPeriodContains(t *testing.T) {
	p, err := ParsePeriod("2025-01-01", "2025-01-31", "")
	require.NoError(t, err)

	d := func(s string) time.Time {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}
	assert.True(t, p.Contains(d("2025-01-01")), "lower bound is inclusive")
	assert.True(t, p.Contains(d("2025-01-31")), "upper bound is inclusive")
	assert.True(t, p.Contains(d("2025-01-31").Add(23*time.Hour)), "time of day is ignored")
	assert.False(t, p.Contains(d("2024-12-31")))
	assert.False(t, p.Contains(d("2025-02-01")))
}

func TestPeriodAsOf(t *testing.T) {
	p, err := ParsePeriod("", "2025-06-30", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-31", p.To.Format(DateFormat), "earlier of to and as-of wins")

	p, err = ParsePeriod("", "", "2025-03-31")
	require.NoError(t, err)
	assert.True(t, p.From.IsZero())
	assert.Equal(t, "2025-03-31", p.To.Format(DateFormat))

	assert.True(t, Period{}.IsOpen())
	assert.True(t, Period{}.Contains(p.To))
}

func TestParsePeriod_BadDate(t *testing.T) {
	_, err := ParsePeriod("2025-1-5", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestErrorSentinels(t *testing.T) {
	err := Invalid("amount", "must not be negative")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: amount: must not be negative", err.Error())

	assert.ErrorIs(t, NotFoundError{Kind: "account", ID: 9}, ErrNotFound)
	assert.ErrorIs(t, StateError{Kind: "entry", ID: 1, Message: "already void"}, ErrState)

	var nf NotFoundError
	wrapped := errors.Join(errors.New("context"), NotFoundError{Kind: "entry", ID: int64(3)})
	require.ErrorAs(t, wrapped, &nf)
	assert.Equal(t, "entry", nf.Kind)
}
