package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/model"
)

// Header is the CSV header for journal exports.
const Header = "label,date,status,account_code,account_name,description,reference,debit,credit,memo"

const (
	numFields   = 10
	colLabel    = 0
	colDate     = 1
	colStatus   = 2
	colAcctCode = 3
	colAcctName = 4
	colDesc     = 5
	colRef      = 6
	colDebit    = 7
	colCredit   = 8
	colMemo     = 9
)

// WriteEntries writes one row per line, including void entries so the
// export keeps the audit trail.
func WriteEntries(w io.Writer, entries []model.Entry, chart *accounts.Service) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, entry := range entries {
		for i, line := range entry.Lines {
			if err := cw.Write(MarshalLine(entry, line, chart)); err != nil {
				return fmt.Errorf("writing %s line %d: %w", entry.Label(), i+1, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts one line of an entry to a CSV row.
func MarshalLine(entry model.Entry, line model.Line, chart *accounts.Service) []string {
	row := make([]string, numFields)
	row[colLabel] = entry.Label()
	row[colDate] = entry.Date.Format(model.DateFormat)
	row[colStatus] = string(entry.Status)
	if acct, ok := chart.Get(line.AccountID); ok {
		row[colAcctCode] = acct.Code
		row[colAcctName] = acct.Name
	} else {
		row[colAcctName] = fmt.Sprintf("#%d", line.AccountID)
	}
	row[colDesc] = entry.Description
	row[colRef] = entry.Reference
	row[colDebit] = formatAmount(line.Debit)
	row[colCredit] = formatAmount(line.Credit)
	row[colMemo] = line.Memo
	return row
}

func formatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
