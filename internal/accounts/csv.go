package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/crania/internal/model"
)

const (
	numFields = 6
	colCode   = 0
	colName   = 1
	colType   = 2
	colParent = 3
	colActive = 4
	colDesc   = 5
)

// ReadChart reads a chart-of-accounts CSV.
func ReadChart(r io.Reader) ([]ChartRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []ChartRow
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteChart writes a chart-of-accounts CSV.
func WriteChart(w io.Writer, rows []ChartRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_code", "account_name", "account_type", "parent_code", "active", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a ChartRow to a CSV row.
func MarshalRow(row ChartRow) []string {
	rec := make([]string, numFields)
	rec[colCode] = row.Code
	rec[colName] = row.Name
	rec[colType] = string(row.Type)
	rec[colParent] = row.ParentCode
	rec[colActive] = strconv.FormatBool(row.Active)
	rec[colDesc] = row.Description
	return rec
}

// UnmarshalRow converts a CSV row to a ChartRow. An empty active column
// means active.
func UnmarshalRow(record []string) (ChartRow, error) {
	if len(record) != numFields {
		return ChartRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	accountType, ok := model.ParseAccountType(record[colType])
	if !ok {
		return ChartRow{}, fmt.Errorf("parsing account_type %q: unknown type", record[colType])
	}

	active := true
	if record[colActive] != "" {
		var err error
		active, err = strconv.ParseBool(record[colActive])
		if err != nil {
			return ChartRow{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
		}
	}

	return ChartRow{
		Code:        record[colCode],
		Name:        record[colName],
		Type:        accountType,
		ParentCode:  record[colParent],
		Active:      active,
		Description: record[colDesc],
	}, nil
}
