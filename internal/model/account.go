package model

import "strings"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in balance sheet then income statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpense,
}

// ParseAccountType normalizes s and reports whether it names a known type.
func ParseAccountType(s string) (AccountType, bool) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether balances of this type are debit minus credit.
// Liability, equity and income accounts are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is a row in the chart of accounts.
type Account struct {
	ID          int64       `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	ParentID    int64       `json:"parent_id,omitempty"` // 0 = top-level
	Active      bool        `json:"active"`
	Description string      `json:"description,omitempty"`
}

// SortCode returns the code used for report ordering; accounts without a
// code sort last.
func (a Account) SortCode() string {
	if a.Code == "" {
		return "9999"
	}
	return a.Code
}

// Less orders accounts by (code, name).
func (a Account) Less(b Account) bool {
	if a.SortCode() != b.SortCode() {
		return a.SortCode() < b.SortCode()
	}
	return a.Name < b.Name
}
