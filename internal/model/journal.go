package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/id"
)

// EntryStatus represents the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusPosted EntryStatus = "posted"
	StatusVoid   EntryStatus = "void"
)

// EntryKind distinguishes entries posted through the simple two-account
// form from general journal entries. Both share one representation.
type EntryKind string

const (
	KindTransaction EntryKind = EntryKind(id.KindTransaction)
	KindJournal     EntryKind = EntryKind(id.KindJournal)
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == KindTransaction || k == KindJournal
}

// TxnType is the income/expense classification of a simple transaction.
// It is a label only; the lines carry the posting mechanics.
type TxnType string

const (
	TxnIncome  TxnType = "income"
	TxnExpense TxnType = "expense"
)

// Entry is a dated, balanced group of lines.
type Entry struct {
	ID           int64       `json:"id"`
	Kind         EntryKind   `json:"kind"`
	Date         time.Time   `json:"date"`
	Description  string      `json:"description"`
	Reference    string      `json:"reference,omitempty"`
	TxnType      TxnType     `json:"txn_type,omitempty"` // set only for KindTransaction
	Status       EntryStatus `json:"status"`
	VoidedAt     *time.Time  `json:"voided_at,omitempty"`
	VoidedReason string      `json:"voided_reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Lines        []Line      `json:"lines"`
}

// Label returns the display label, e.g. "TXN-000012" or "JE-000007".
func (e Entry) Label() string {
	return id.FormatLabel(id.Kind(e.Kind), e.ID)
}

// IsVoid reports whether the entry has been voided.
func (e Entry) IsVoid() bool {
	return e.Status == StatusVoid
}

// Totals returns the summed debits and credits over all lines.
func (e Entry) Totals() (debit, credit decimal.Decimal) {
	return SumLines(e.Lines)
}

// Amount is the entry's total debits.
func (e Entry) Amount() decimal.Decimal {
	d, _ := e.Totals()
	return d
}

// Line is one debit/credit row of an entry.
type Line struct {
	ID        int64           `json:"id"`
	EntryID   int64           `json:"entry_id"`
	AccountID int64           `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`  // zero if credit side
	Credit    decimal.Decimal `json:"credit"` // zero if debit side
	Memo      string          `json:"memo,omitempty"`
	TaxRateID int64           `json:"tax_rate_id,omitempty"` // 0 = none
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// Net returns debit minus credit. A line carrying both sides is treated as
// its net value.
func (l Line) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// IsZero reports whether neither side carries money.
func (l Line) IsZero() bool {
	return l.Debit.IsZero() && l.Credit.IsZero()
}

// SumLines totals debits and credits.
func SumLines(lines []Line) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	Period      Period
	Kind        EntryKind // "" = all
	IncludeVoid bool
}

// TaxRate is a flat percentage surcharge, e.g. 13.0 for 13%.
type TaxRate struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Active bool            `json:"active"`
}

// Designations names the accounts that postings reach by convention.
// Resolved once at startup; a zero id means "not designated".
type Designations struct {
	CashAccountID    int64
	TaxAccountID     int64
	IncomeAccountID  int64
	ExpenseAccountID int64
}
