package journal

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/model"
)

// Account ids in the test chart.
const (
	cashID     int64 = 1
	salesID    int64 = 2
	rentID     int64 = 3
	suppliesID int64 = 4
	taxID      int64 = 5
	equityID   int64 = 6
)

func testChart() *accounts.Service {
	return accounts.NewService([]model.Account{
		{ID: cashID, Code: "1000", Name: "Cash", Type: model.AccountTypeAsset, Active: true},
		{ID: salesID, Code: "4000", Name: "Sales Revenue", Type: model.AccountTypeIncome, Active: true},
		{ID: rentID, Code: "6070", Name: "Rent", Type: model.AccountTypeExpense, Active: true},
		{ID: suppliesID, Code: "6050", Name: "Office Supplies", Type: model.AccountTypeExpense, Active: true},
		{ID: taxID, Code: "2300", Name: "Sales Tax Payable", Type: model.AccountTypeLiability, Active: true},
		{ID: equityID, Code: "3000", Name: "Owner's Capital", Type: model.AccountTypeEquity, Active: true},
	})
}

var testDesignations = model.Designations{
	CashAccountID:    cashID,
	TaxAccountID:     taxID,
	IncomeAccountID:  salesID,
	ExpenseAccountID: rentID,
}

type staticCharts struct{ chart *accounts.Service }

func (s staticCharts) Load(context.Context) (*accounts.Service, error) { return s.chart, nil }

// memStore implements Store for testing.
type memStore struct {
	entries  map[int64]model.Entry
	rates    map[int64]model.TaxRate
	nextID   int64
	nextLine int64
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[int64]model.Entry), rates: make(map[int64]model.TaxRate)}
}

func (m *memStore) CreateEntry(_ context.Context, entry *model.Entry) error {
	m.nextID++
	entry.ID = m.nextID
	for i := range entry.Lines {
		m.nextLine++
		entry.Lines[i].ID = m.nextLine
		entry.Lines[i].EntryID = entry.ID
	}
	stored := *entry
	stored.Lines = append([]model.Line(nil), entry.Lines...)
	m.entries[entry.ID] = stored
	return nil
}

func (m *memStore) GetEntry(_ context.Context, id int64) (model.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return model.Entry{}, model.NotFoundError{Kind: "entry", ID: id}
	}
	return e, nil
}

func (m *memStore) ListEntries(_ context.Context, f model.EntryFilter) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range m.entries {
		if !f.IncludeVoid && e.IsVoid() {
			continue
		}
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if !f.Period.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) MarkVoid(_ context.Context, id int64, at time.Time, reason string) error {
	e, ok := m.entries[id]
	if !ok {
		return model.NotFoundError{Kind: "entry", ID: id}
	}
	if e.IsVoid() {
		return model.StateError{Kind: "entry", ID: id, Message: "already void"}
	}
	e.Status = model.StatusVoid
	e.VoidedAt = &at
	e.VoidedReason = reason
	m.entries[id] = e
	return nil
}

func (m *memStore) GetTaxRate(_ context.Context, id int64) (model.TaxRate, error) {
	r, ok := m.rates[id]
	if !ok {
		return model.TaxRate{}, model.NotFoundError{Kind: "tax rate", ID: id}
	}
	return r, nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, staticCharts{testChart()}, testDesignations, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) }
	return svc, store
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(account int64, amount string) model.Line {
	return model.Line{AccountID: account, Debit: dec(amount)}
}

func credit(account int64, amount string) model.Line {
	return model.Line{AccountID: account, Credit: dec(amount)}
}

func (m *memStore) ListTaxRates(context.Context) ([]model.TaxRate, error) {
	var out []model.TaxRate
	for _, r := range m.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateTaxRate(_ context.Context, rate *model.TaxRate) error {
	rate.ID = int64(len(m.rates) + 1)
	m.rates[rate.ID] = *rate
	return nil
}

func (m *memStore) SetTaxRateActive(_ context.Context, id int64, active bool) error {
	r, ok := m.rates[id]
	if !ok {
		return model.NotFoundError{Kind: "tax rate", ID: id}
	}
	r.Active = active
	m.rates[id] = r
	return nil
}
