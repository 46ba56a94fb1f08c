package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ChaseParser reads account activity downloaded from Chase. Columns are
// found by header name, so downloads with reordered or extra columns parse
// the same way.
type ChaseParser struct{}

const chaseDateFormat = "01/02/2006"

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse returns one BankTransaction per activity row. Blank rows are skipped.
func (p *ChaseParser) Parse(r io.Reader) ([]BankTransaction, error) {
	cr := csv.NewReader(r)
	// Chase pads some rows with a trailing comma.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chase header: %w", err)
	}
	cols, err := chaseColumnsFrom(header)
	if err != nil {
		return nil, err
	}

	var txns []BankTransaction
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading chase CSV: %w", err)
		}
		if blankRecord(rec) {
			continue
		}
		txn, err := cols.transaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// chaseColumns holds header positions; -1 means the column is absent.
type chaseColumns struct {
	date, desc, amount, kind, check int
}

func chaseColumnsFrom(header []string) (chaseColumns, error) {
	cols := chaseColumns{date: -1, desc: -1, amount: -1, kind: -1, check: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "posting date":
			cols.date = i
		case "description":
			cols.desc = i
		case "amount":
			cols.amount = i
		case "type":
			cols.kind = i
		case "check or slip #":
			cols.check = i
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, "Posting Date")
	}
	if cols.desc < 0 {
		missing = append(missing, "Description")
	}
	if cols.amount < 0 {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("chase CSV is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c chaseColumns) transaction(rec []string) (BankTransaction, error) {
	rawDate := cell(rec, c.date)
	date, err := time.Parse(chaseDateFormat, rawDate)
	if err != nil {
		return BankTransaction{}, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}
	amount, err := parseMoney(cell(rec, c.amount))
	if err != nil {
		return BankTransaction{}, err
	}

	desc := cell(rec, c.desc)
	ref := makeRef("chase", date, desc)
	if check := cell(rec, c.check); check != "" {
		ref = "check_" + check
	}
	return BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   ref,
		Type:        cell(rec, c.kind),
	}, nil
}

// cell returns the trimmed field at i, or "" when the row is short.
func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// makeRef builds a reference from the source, the date and up to ten
// alphanumerics of the description, e.g. chase_20250103_GITHUBPROS.
func makeRef(source string, date time.Time, desc string) string {
	var b strings.Builder
	for _, r := range desc {
		if b.Len() == 10 {
			break
		}
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return source + "_" + date.Format("20060102") + "_" + b.String()
}
