package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/model"
)

// TypeLookup reports account types.
type TypeLookup interface {
	TypeOf(id int64) (model.AccountType, bool)
}

// Totals holds the summed debits and credits of one account.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balance returns the signed balance for an account of the given type.
func (t Totals) Balance(accountType model.AccountType) decimal.Decimal {
	return Signed(accountType, t.Debit, t.Credit)
}

// Signed applies the normal-balance convention: debit minus credit for
// asset and expense accounts, credit minus debit for the rest.
func Signed(accountType model.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.DebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Accumulate sums debits and credits per account. A nil allowed set admits
// every account. Accounts without postings are absent from the result.
func Accumulate(postings []Posting, allowed map[int64]bool) map[int64]Totals {
	totals := make(map[int64]Totals)
	for _, p := range postings {
		if allowed != nil && !allowed[p.AccountID] {
			continue
		}
		t, ok := totals[p.AccountID]
		if !ok {
			t = Totals{Debit: decimal.Zero, Credit: decimal.Zero}
		}
		t.Debit = t.Debit.Add(p.Debit)
		t.Credit = t.Credit.Add(p.Credit)
		totals[p.AccountID] = t
	}
	return totals
}

// Aggregate reduces postings to a signed balance per account.
func Aggregate(postings []Posting, types TypeLookup, allowed map[int64]bool) map[int64]decimal.Decimal {
	totals := Accumulate(postings, allowed)
	balances := make(map[int64]decimal.Decimal, len(totals))
	for id, t := range totals {
		typ, _ := types.TypeOf(id)
		balances[id] = t.Balance(typ)
	}
	return balances
}

// IDSet builds an allowed set from ids. No ids yields nil, which admits all.
func IDSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
