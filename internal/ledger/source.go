// Package ledger derives balances and financial reports from posted entries.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/model"
)

// Posting is one normalized ledger line: a dated debit or credit against a
// single account, tagged with the entry it came from.
type Posting struct {
	Date        time.Time
	EntryID     int64
	Label       string
	Description string
	Memo        string
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Net returns debit minus credit.
func (p Posting) Net() decimal.Decimal {
	return p.Debit.Sub(p.Credit)
}

// Postings flattens entries into postings within period. Void entries are
// skipped, as are journal lines carrying no money. Both lines of a simple
// transaction are always kept, so a 0.00 transaction still shows in the
// ledger. The result is ordered by (date, entry id), keeping line order
// within an entry.
func Postings(entries []model.Entry, period model.Period) []Posting {
	sorted := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsVoid() || !period.Contains(e.Date) {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var out []Posting
	for _, e := range sorted {
		label := e.Label()
		for _, line := range e.Lines {
			if line.IsZero() && e.Kind != model.KindTransaction {
				continue
			}
			out = append(out, Posting{
				Date:        model.Day(e.Date),
				EntryID:     e.ID,
				Label:       label,
				Description: e.Description,
				Memo:        line.Memo,
				AccountID:   line.AccountID,
				Debit:       line.Debit,
				Credit:      line.Credit,
			})
		}
	}
	return out
}
