package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatCSV:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or csv)", format)
}

// table is tabular output that can be rendered as aligned text or CSV.
type table struct {
	header []string
	rows   [][]string
	footer [][]string // table format only
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) total(cells ...string) {
	t.footer = append(t.footer, cells)
}

// render writes v as JSON, or t as a table or CSV.
func render(w io.Writer, format string, v any, t *table) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(t.header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		if err := cw.WriteAll(t.rows); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
		return nil
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(t.header, "\t"))
		for _, row := range t.rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		for _, row := range t.footer {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// side renders a debit or credit cell, blank when zero.
func side(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
