package ledger

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/model"
)

const (
	cashID     int64 = 1
	bankID     int64 = 2
	loanID     int64 = 3
	taxID      int64 = 4
	capitalID  int64 = 5
	salesID    int64 = 6
	serviceID  int64 = 7
	rentID     int64 = 8
	suppliesID int64 = 9
	uncodedID  int64 = 10
)

func testChart() *accounts.Service {
	return accounts.NewService([]model.Account{
		{ID: cashID, Code: "1000", Name: "Cash", Type: model.AccountTypeAsset, Active: true},
		{ID: bankID, Code: "1100", Name: "Checking Account", Type: model.AccountTypeAsset, ParentID: cashID, Active: true},
		{ID: loanID, Code: "2500", Name: "Loans Payable", Type: model.AccountTypeLiability, Active: true},
		{ID: taxID, Code: "2300", Name: "Sales Tax Payable", Type: model.AccountTypeLiability, Active: true},
		{ID: capitalID, Code: "3000", Name: "Owner's Capital", Type: model.AccountTypeEquity, Active: true},
		{ID: salesID, Code: "4000", Name: "Sales Revenue", Type: model.AccountTypeIncome, Active: true},
		{ID: serviceID, Code: "4100", Name: "Service Revenue", Type: model.AccountTypeIncome, Active: true},
		{ID: rentID, Code: "6070", Name: "Rent", Type: model.AccountTypeExpense, Active: true},
		{ID: suppliesID, Code: "6050", Name: "Office Supplies", Type: model.AccountTypeExpense, Active: true},
		{ID: uncodedID, Name: "Misc Asset", Type: model.AccountTypeAsset, Active: true},
	})
}

type staticCharts struct{ chart *accounts.Service }

func (s staticCharts) Load(context.Context) (*accounts.Service, error) { return s.chart, nil }

// memBook implements both the journal store and EntrySource.
type memBook struct {
	entries []model.Entry
	rates   map[int64]model.TaxRate
}

func (m *memBook) CreateEntry(_ context.Context, entry *model.Entry) error {
	entry.ID = int64(len(m.entries) + 1)
	stored := *entry
	stored.Lines = append([]model.Line(nil), entry.Lines...)
	m.entries = append(m.entries, stored)
	return nil
}

func (m *memBook) GetEntry(_ context.Context, id int64) (model.Entry, error) {
	if id < 1 || int(id) > len(m.entries) {
		return model.Entry{}, model.NotFoundError{Kind: "entry", ID: id}
	}
	return m.entries[id-1], nil
}

func (m *memBook) ListEntries(_ context.Context, f model.EntryFilter) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range m.entries {
		if (!f.IncludeVoid && e.IsVoid()) || !f.Period.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memBook) MarkVoid(_ context.Context, id int64, at time.Time, reason string) error {
	e := &m.entries[id-1]
	e.Status = model.StatusVoid
	e.VoidedAt = &at
	e.VoidedReason = reason
	return nil
}

func (m *memBook) GetTaxRate(_ context.Context, id int64) (model.TaxRate, error) {
	r, ok := m.rates[id]
	if !ok {
		return model.TaxRate{}, model.NotFoundError{Kind: "tax rate", ID: id}
	}
	return r, nil
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(id int64, day time.Time, lines ...model.Line) model.Entry {
	return model.Entry{
		ID:          id,
		Kind:        model.KindJournal,
		Date:        day,
		Description: "test",
		Status:      model.StatusPosted,
		Lines:       lines,
	}
}

func dr(account int64, amount string) model.Line {
	return model.Line{AccountID: account, Debit: dec(amount)}
}

func cr(account int64, amount string) model.Line {
	return model.Line{AccountID: account, Credit: dec(amount)}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
