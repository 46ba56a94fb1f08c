package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/model"
)

// Chart is the account lookup reports need.
type Chart interface {
	Get(id int64) (model.Account, bool)
	TypeOf(id int64) (model.AccountType, bool)
}

// MinBalance is the smallest absolute balance shown on the balance sheet.
var MinBalance = decimal.NewFromFloat(0.01)

// Row is one account's balance on a report.
type Row struct {
	AccountID int64             `json:"account_id"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Type      model.AccountType `json:"type"`
	Balance   decimal.Decimal   `json:"balance"`
}

// BalanceSheet lists asset, liability and equity balances.
type BalanceSheet struct {
	Period           model.Period    `json:"-"`
	Assets           []Row           `json:"assets"`
	Liabilities      []Row           `json:"liabilities"`
	Equity           []Row           `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// BuildBalanceSheet partitions balances into asset, liability and equity
// buckets, dropping accounts whose balance rounds to less than a cent.
func BuildBalanceSheet(postings []Posting, chart Chart) BalanceSheet {
	bs := BalanceSheet{
		Assets:           []Row{},
		Liabilities:      []Row{},
		Equity:           []Row{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, row := range rows(Aggregate(postings, chart, nil), chart) {
		if row.Balance.Round(2).Abs().LessThan(MinBalance) {
			continue
		}
		switch row.Type {
		case model.AccountTypeAsset:
			bs.Assets = append(bs.Assets, row)
			bs.TotalAssets = bs.TotalAssets.Add(row.Balance)
		case model.AccountTypeLiability:
			bs.Liabilities = append(bs.Liabilities, row)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(row.Balance)
		case model.AccountTypeEquity:
			bs.Equity = append(bs.Equity, row)
			bs.TotalEquity = bs.TotalEquity.Add(row.Balance)
		}
	}
	return bs
}

// IncomeStatement lists revenue and expense balances for a period.
type IncomeStatement struct {
	Period        model.Period    `json:"-"`
	Revenue       []Row           `json:"revenue"`
	Expenses      []Row           `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// BuildIncomeStatement keeps only income and expense accounts with a
// strictly positive balance. Accounts netting to zero or below, such as a
// reversed sale, are left out of both the rows and the totals.
func BuildIncomeStatement(postings []Posting, chart Chart) IncomeStatement {
	is := IncomeStatement{
		Revenue:       []Row{},
		Expenses:      []Row{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, row := range rows(Aggregate(postings, chart, nil), chart) {
		if !row.Balance.IsPositive() {
			continue
		}
		switch row.Type {
		case model.AccountTypeIncome:
			is.Revenue = append(is.Revenue, row)
			is.TotalRevenue = is.TotalRevenue.Add(row.Balance)
		case model.AccountTypeExpense:
			is.Expenses = append(is.Expenses, row)
			is.TotalExpenses = is.TotalExpenses.Add(row.Balance)
		}
	}
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is
}

// LedgerLine is one posting in an account's general ledger.
type LedgerLine struct {
	Date           time.Time       `json:"date"`
	Label          string          `json:"label"`
	EntryID        int64           `json:"entry_id"`
	Description    string          `json:"description"`
	Memo           string          `json:"memo,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// GeneralLedger is the chronological activity of one account.
type GeneralLedger struct {
	Account model.Account   `json:"account"`
	Period  model.Period    `json:"-"`
	Entries []LedgerLine    `json:"entries"`
	Balance decimal.Decimal `json:"balance"`
}

// BuildGeneralLedger collects the postings touching acct, orders them by
// (date, label) and computes the running balance.
func BuildGeneralLedger(postings []Posting, acct model.Account) GeneralLedger {
	lines := []LedgerLine{}
	for _, p := range postings {
		if p.AccountID != acct.ID {
			continue
		}
		lines = append(lines, LedgerLine{
			Date:        p.Date,
			Label:       p.Label,
			EntryID:     p.EntryID,
			Description: p.Description,
			Memo:        p.Memo,
			Debit:       p.Debit,
			Credit:      p.Credit,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.Before(lines[j].Date)
		}
		return lines[i].Label < lines[j].Label
	})

	return GeneralLedger{
		Account: acct,
		Entries: lines,
		Balance: RunningBalance(lines, acct.Type),
	}
}

// RunningBalance folds lines in order, setting each line's running balance
// under the account type's sign convention. It returns the final balance.
func RunningBalance(lines []LedgerLine, accountType model.AccountType) decimal.Decimal {
	running := decimal.Zero
	for i := range lines {
		running = running.Add(Signed(accountType, lines[i].Debit, lines[i].Credit))
		lines[i].RunningBalance = running
	}
	return running
}

// TrialRow is one account's debit and credit totals.
type TrialRow struct {
	AccountID int64             `json:"account_id"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Type      model.AccountType `json:"type"`
	Debit     decimal.Decimal   `json:"debit"`
	Credit    decimal.Decimal   `json:"credit"`
	Balance   decimal.Decimal   `json:"balance"`
}

// TrialBalance lists every account with activity and checks that the books
// balance.
type TrialBalance struct {
	Period      model.Period    `json:"-"`
	Rows        []TrialRow      `json:"rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Equation    Equation        `json:"equation"`
}

// Balanced reports whether total debits equal total credits within a cent.
func (tb TrialBalance) Balanced() bool {
	return tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThanOrEqual(MinBalance)
}

// Equation holds the per-type sums of the accounting equation
// assets = liabilities + equity + income - expenses.
type Equation struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
}

// Difference is assets minus the right-hand side of the equation.
func (e Equation) Difference() decimal.Decimal {
	return e.Assets.Sub(e.Liabilities.Add(e.Equity).Add(e.Income).Sub(e.Expenses))
}

// Holds reports whether the equation balances within a cent.
func (e Equation) Holds() bool {
	return e.Difference().Abs().LessThanOrEqual(MinBalance)
}

// BuildEquation sums signed balances by account type.
func BuildEquation(balances map[int64]decimal.Decimal, types TypeLookup) Equation {
	eq := Equation{
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
		Equity:      decimal.Zero,
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
	}
	for id, bal := range balances {
		typ, _ := types.TypeOf(id)
		switch typ {
		case model.AccountTypeAsset:
			eq.Assets = eq.Assets.Add(bal)
		case model.AccountTypeLiability:
			eq.Liabilities = eq.Liabilities.Add(bal)
		case model.AccountTypeEquity:
			eq.Equity = eq.Equity.Add(bal)
		case model.AccountTypeIncome:
			eq.Income = eq.Income.Add(bal)
		case model.AccountTypeExpense:
			eq.Expenses = eq.Expenses.Add(bal)
		}
	}
	return eq
}

// BuildTrialBalance totals every account with postings.
func BuildTrialBalance(postings []Posting, chart Chart) TrialBalance {
	totals := Accumulate(postings, nil)
	tb := TrialBalance{
		Rows:        []TrialRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	balances := make(map[int64]decimal.Decimal, len(totals))
	for id, t := range totals {
		acct := lookup(chart, id)
		bal := t.Balance(acct.Type)
		balances[id] = bal
		tb.Rows = append(tb.Rows, TrialRow{
			AccountID: id,
			Code:      acct.Code,
			Name:      acct.Name,
			Type:      acct.Type,
			Debit:     t.Debit,
			Credit:    t.Credit,
			Balance:   bal,
		})
		tb.TotalDebit = tb.TotalDebit.Add(t.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(t.Credit)
	}
	sort.Slice(tb.Rows, func(i, j int) bool {
		return less(tb.Rows[i].Code, tb.Rows[i].Name, tb.Rows[j].Code, tb.Rows[j].Name)
	})
	tb.Equation = BuildEquation(balances, chart)
	return tb
}

func rows(balances map[int64]decimal.Decimal, chart Chart) []Row {
	out := make([]Row, 0, len(balances))
	for id, bal := range balances {
		acct := lookup(chart, id)
		out = append(out, Row{
			AccountID: id,
			Code:      acct.Code,
			Name:      acct.Name,
			Type:      acct.Type,
			Balance:   bal,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Code, out[i].Name, out[j].Code, out[j].Name)
	})
	return out
}

// lookup returns the account for id, or a placeholder named after the id
// when the chart no longer knows it.
func lookup(chart Chart, id int64) model.Account {
	if acct, ok := chart.Get(id); ok {
		return acct
	}
	return model.Account{ID: id, Name: fmt.Sprintf("#%d", id)}
}

func less(codeA, nameA, codeB, nameB string) bool {
	return model.Account{Code: codeA, Name: nameA}.Less(model.Account{Code: codeB, Name: nameB})
}
