package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// StatementParser parses the four-column account summary produced from
// scanned PDF statements:
//
//	Account Name/ID, Total Debit (Gains), Total Credit (Losses), Net Change
//
// The summary carries no dates; the importer dates each row.
type StatementParser struct{}

const (
	stmtMinFields = 2
	stmtColAcct   = 0
	stmtColDebit  = 1
	stmtColCredit = 2
	stmtColNet    = 3
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement summary. Rows with fewer than four columns carry
// only a net change in the second column.
func (p *StatementParser) Parse(r io.Reader) ([]BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var txns []BankTransaction
	for i, rec := range records[1:] {
		if len(rec) < stmtMinFields || strings.TrimSpace(rec[stmtColAcct]) == "" {
			continue
		}
		txn, err := parseStatementRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStatementRow(rec []string) (BankTransaction, error) {
	acct := strings.TrimSpace(rec[stmtColAcct])

	var net decimal.Decimal
	if len(rec) > stmtColNet && strings.TrimSpace(rec[stmtColNet]) != "" {
		n, err := parseMoney(rec[stmtColNet])
		if err != nil {
			return BankTransaction{}, err
		}
		net = n
	} else if len(rec) > stmtColNet {
		debit, err := parseMoney(rec[stmtColDebit])
		if err != nil {
			return BankTransaction{}, err
		}
		credit, err := parseMoney(rec[stmtColCredit])
		if err != nil {
			return BankTransaction{}, err
		}
		net = debit.Sub(credit)
	} else {
		n, err := parseMoney(rec[stmtColDebit])
		if err != nil {
			return BankTransaction{}, err
		}
		net = n
	}

	return BankTransaction{
		Description: acct,
		Amount:      net,
		AccountRef:  acct,
		Type:        "statement",
	}, nil
}

// parseMoney accepts amounts like "$1,200.50". Blank is zero.
func parseMoney(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
