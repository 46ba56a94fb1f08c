package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/crania/internal/model"
)

// memStore implements Store for testing.
type memStore struct {
	accounts []model.Account
	used     map[int64]bool
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{used: make(map[int64]bool)}
}

func (m *memStore) ListAccounts(context.Context) ([]model.Account, error) {
	out := make([]model.Account, len(m.accounts))
	copy(out, m.accounts)
	return out, nil
}

func (m *memStore) CreateAccount(_ context.Context, acct *model.Account) error {
	m.nextID++
	acct.ID = m.nextID
	m.accounts = append(m.accounts, *acct)
	return nil
}

func (m *memStore) UpdateAccount(_ context.Context, acct model.Account) error {
	for i := range m.accounts {
		if m.accounts[i].ID == acct.ID {
			m.accounts[i] = acct
			return nil
		}
	}
	return model.NotFoundError{Kind: "account", ID: acct.ID}
}

func (m *memStore) AccountHasLines(_ context.Context, id int64) (bool, error) {
	return m.used[id], nil
}

func seededRegistry(t *testing.T) (*Registry, *memStore) {
	t.Helper()
	store := newMemStore()
	reg := NewRegistry(store, zerolog.Nop())
	seeded, err := reg.Seed(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)
	return reg, store
}

func TestSeed(t *testing.T) {
	reg, store := seededRegistry(t)
	assert.Len(t, store.accounts, 39)

	seeded, err := reg.Seed(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded, "second seed is a no-op")
	assert.Len(t, store.accounts, 39)

	chart, err := reg.Load(context.Background())
	require.NoError(t, err)
	petty, ok := chart.ByCode("1010")
	require.True(t, ok)
	cash, _ := chart.ByCode(CodeCash)
	assert.Equal(t, cash.ID, petty.ParentID)
}

func TestServiceLookups(t *testing.T) {
	reg, _ := seededRegistry(t)
	chart, err := reg.Load(context.Background())
	require.NoError(t, err)

	cash, ok := chart.ByCode("1000")
	require.True(t, ok)
	assert.Equal(t, "Cash", cash.Name)
	assert.True(t, chart.Exists(cash.ID))

	got, ok := chart.Get(cash.ID)
	assert.True(t, ok)
	assert.Equal(t, cash, got)

	typ, ok := chart.TypeOf(cash.ID)
	assert.True(t, ok)
	assert.Equal(t, model.AccountTypeAsset, typ)

	_, ok = chart.Get(9999)
	assert.False(t, ok)

	assert.Len(t, chart.ByType(model.AccountTypeEquity), 3)

	all := chart.All()
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Less(all[i]), "All() is sorted by code")
	}
}

func TestResolve(t *testing.T) {
	reg, _ := seededRegistry(t)
	chart, err := reg.Load(context.Background())
	require.NoError(t, err)

	a, err := chart.Resolve("4000")
	require.NoError(t, err)
	assert.Equal(t, "Sales Revenue", a.Name)

	a, err = chart.Resolve("sales revenue")
	require.NoError(t, err)
	assert.Equal(t, "4000", a.Code)

	_, err = chart.Resolve("Sales Revenu")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	var unknown *UnknownAccountError
	require.True(t, errors.As(err, &unknown))
	require.NotEmpty(t, unknown.Suggestions)
	assert.Equal(t, "Sales Revenue", unknown.Suggestions[0].Name)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestSuggest_NoMatch(t *testing.T) {
	chart := NewService([]model.Account{{ID: 1, Code: "1000", Name: "Cash", Type: model.AccountTypeAsset}})
	assert.Empty(t, chart.Suggest("Professional Liability Insurance", 3))
	assert.Empty(t, chart.Suggest("", 3))
}

func TestDesignations(t *testing.T) {
	reg, _ := seededRegistry(t)
	chart, err := reg.Load(context.Background())
	require.NoError(t, err)

	d := chart.Designations(DesignationCodes{Cash: "1000", Tax: "2300", Income: "4000", Expense: "6900"})
	cash, _ := chart.ByCode("1000")
	tax, _ := chart.ByCode("2300")
	income, _ := chart.ByCode("4000")
	general, _ := chart.ByCode("6900")
	assert.Equal(t, cash.ID, d.CashAccountID)
	assert.Equal(t, tax.ID, d.TaxAccountID)
	assert.Equal(t, income.ID, d.IncomeAccountID)
	assert.Equal(t, general.ID, d.ExpenseAccountID)
}

func TestDesignations_Fallbacks(t *testing.T) {
	chart := NewService([]model.Account{
		{ID: 1, Code: "1200", Name: "Receivables", Type: model.AccountTypeAsset},
		{ID: 2, Code: "1100", Name: "Bank", Type: model.AccountTypeAsset},
		{ID: 3, Code: "4100", Name: "Fees", Type: model.AccountTypeIncome},
		{ID: 4, Code: "6100", Name: "Software", Type: model.AccountTypeExpense},
	})
	d := chart.Designations(DesignationCodes{Cash: "1000", Tax: "2300", Income: "4000", Expense: "6900"})
	assert.Equal(t, int64(2), d.CashAccountID, "cash falls back to the lowest-code asset")
	assert.Equal(t, int64(0), d.TaxAccountID, "missing tax account stays undesignated")
	assert.Equal(t, int64(3), d.IncomeAccountID)
	assert.Equal(t, int64(4), d.ExpenseAccountID)
}

func TestCreate(t *testing.T) {
	reg, _ := seededRegistry(t)
	ctx := context.Background()

	acct, err := reg.Create(ctx, CreateParams{Code: "6130", Name: "Utilities", Type: model.AccountTypeExpense})
	require.NoError(t, err)
	assert.NotZero(t, acct.ID)
	assert.True(t, acct.Active)

	_, err = reg.Create(ctx, CreateParams{Code: "6130", Name: "Dup", Type: model.AccountTypeExpense})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "already used")

	_, err = reg.Create(ctx, CreateParams{Name: "", Type: "bogus"})
	require.Error(t, err)
	var verrs model.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)

	_, err = reg.Create(ctx, CreateParams{Name: "Orphan", Type: model.AccountTypeAsset, ParentID: 999})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdate_TypeLockedOnceUsed(t *testing.T) {
	reg, store := seededRegistry(t)
	ctx := context.Background()
	chart, err := reg.Load(ctx)
	require.NoError(t, err)
	other, _ := chart.ByCode("4300")

	equity := model.AccountTypeEquity
	updated, err := reg.Update(ctx, other.ID, UpdateParams{Type: &equity})
	require.NoError(t, err, "unused account may change type")
	assert.Equal(t, model.AccountTypeEquity, updated.Type)

	store.used[other.ID] = true
	income := model.AccountTypeIncome
	_, err = reg.Update(ctx, other.ID, UpdateParams{Type: &income})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrState)

	name := "Misc Income"
	updated, err = reg.Update(ctx, other.ID, UpdateParams{Name: &name})
	require.NoError(t, err, "other fields stay editable")
	assert.Equal(t, "Misc Income", updated.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	reg, _ := seededRegistry(t)
	name := "x"
	_, err := reg.Update(context.Background(), 12345, UpdateParams{Name: &name})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeactivate(t *testing.T) {
	reg, _ := seededRegistry(t)
	ctx := context.Background()
	chart, err := reg.Load(ctx)
	require.NoError(t, err)
	vehicles, _ := chart.ByCode("1600")

	acct, err := reg.Deactivate(ctx, vehicles.ID)
	require.NoError(t, err)
	assert.False(t, acct.Active)

	chart, err = reg.Load(ctx)
	require.NoError(t, err)
	assert.True(t, chart.Exists(vehicles.ID), "deactivated accounts remain for history")
	for _, a := range chart.Active() {
		assert.NotEqual(t, vehicles.ID, a.ID)
	}
}

func TestImport_SkipsExistingAndChecksParents(t *testing.T) {
	reg, store := seededRegistry(t)
	ctx := context.Background()

	n, err := reg.Import(ctx, []ChartRow{
		{Code: "1000", Name: "Cash again", Type: model.AccountTypeAsset, Active: true},
		{Code: "1120", Name: "Money Market", Type: model.AccountTypeAsset, ParentCode: "1000", Active: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, store.accounts, 40)

	_, err = reg.Import(ctx, []ChartRow{{Code: "1130", Name: "Orphan", Type: model.AccountTypeAsset, ParentCode: "1999"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}
