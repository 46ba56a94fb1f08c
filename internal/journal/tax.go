package journal

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/model"
)

// TypeLookup reports account types.
type TypeLookup interface {
	TypeOf(id int64) (model.AccountType, bool)
}

// SurchargeThreshold is the smallest tax amount that produces lines.
var SurchargeThreshold = decimal.NewFromFloat(0.01)

// Surcharge computes the flat-rate tax on income credits and expense debits
// and returns lines with the balancing tax pairs appended:
//
//	tax on income:  credit tax account, debit cash
//	tax on expense: debit tax account, credit cash
//
// Each pair balances on its own, so the entry stays balanced. The taxable
// lines are annotated with their share of the tax. Without both a tax and a
// cash account the lines are returned unchanged.
func Surcharge(lines []model.Line, rate model.TaxRate, types TypeLookup, d model.Designations) []model.Line {
	if d.TaxAccountID == 0 || d.CashAccountID == 0 {
		return lines
	}

	pct := rate.Rate.Div(hundred)
	incomeTaxable := decimal.Zero
	expenseTaxable := decimal.Zero

	out := make([]model.Line, 0, len(lines)+4)
	for _, line := range lines {
		typ, _ := types.TypeOf(line.AccountID)
		switch {
		case typ == model.AccountTypeIncome && line.Credit.IsPositive():
			incomeTaxable = incomeTaxable.Add(line.Credit)
			line.TaxRateID = rate.ID
			line.TaxAmount = line.Credit.Mul(pct).Round(2)
		case typ == model.AccountTypeExpense && line.Debit.IsPositive():
			expenseTaxable = expenseTaxable.Add(line.Debit)
			line.TaxRateID = rate.ID
			line.TaxAmount = line.Debit.Mul(pct).Round(2)
		}
		out = append(out, line)
	}

	onIncome := incomeTaxable.Mul(pct).Round(2)
	onExpense := expenseTaxable.Mul(pct).Round(2)

	if onIncome.GreaterThan(SurchargeThreshold) {
		out = append(out,
			model.Line{AccountID: d.TaxAccountID, Credit: onIncome, Memo: "Tax on income", TaxRateID: rate.ID},
			model.Line{AccountID: d.CashAccountID, Debit: onIncome, Memo: "Tax on income", TaxRateID: rate.ID},
		)
	}
	if onExpense.GreaterThan(SurchargeThreshold) {
		out = append(out,
			model.Line{AccountID: d.TaxAccountID, Debit: onExpense, Memo: "Tax on expense", TaxRateID: rate.ID},
			model.Line{AccountID: d.CashAccountID, Credit: onExpense, Memo: "Tax on expense", TaxRateID: rate.ID},
		)
	}
	return out
}
