package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/crania/internal/model"
)

func TestRoundTrip(t *testing.T) {
	rows := []ChartRow{
		{Code: "1000", Name: "Cash", Type: model.AccountTypeAsset, Active: true, Description: "Cash on hand"},
		{Code: "1010", Name: "Petty Cash", Type: model.AccountTypeAsset, ParentCode: "1000", Active: false},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, rows))

	got, err := ReadChart(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadChart_EmptyActiveMeansActive(t *testing.T) {
	data := "account_code,account_name,account_type,parent_code,active,description\n" +
		"4000,Sales Revenue,Income,,,\n"
	got, err := ReadChart(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Active)
	assert.Equal(t, model.AccountTypeIncome, got[0].Type, "type is case-insensitive")
}

func TestReadChart_BadType(t *testing.T) {
	data := "account_code,account_name,account_type,parent_code,active,description\n" +
		"4000,Sales Revenue,revenue,,,\n"
	_, err := ReadChart(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "account_type")
}

func TestReadChart_BadActive(t *testing.T) {
	data := "account_code,account_name,account_type,parent_code,active,description\n" +
		"1000,Cash,asset,,maybe,\n"
	_, err := ReadChart(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing active")
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.Len(t, chart, 39)

	codes := make(map[string]ChartRow)
	types := make(map[model.AccountType]bool)
	for _, row := range chart {
		assert.NotEmpty(t, row.Name, "account %s missing name", row.Code)
		assert.True(t, row.Type.Valid(), "account %s has bad type", row.Code)
		assert.True(t, row.Active)
		_, dup := codes[row.Code]
		assert.False(t, dup, "duplicate code %s", row.Code)
		if row.ParentCode != "" {
			_, ok := codes[row.ParentCode]
			assert.True(t, ok, "parent of %s must appear before it", row.Code)
		}
		codes[row.Code] = row
		types[row.Type] = true
	}
	assert.Len(t, types, 5, "default chart spans all five types")

	assert.Equal(t, model.AccountTypeAsset, codes[CodeCash].Type)
	assert.Equal(t, model.AccountTypeLiability, codes[CodeSalesTax].Type)
	assert.Equal(t, model.AccountTypeIncome, codes[CodeSalesRevenue].Type)
	assert.Equal(t, model.AccountTypeExpense, codes[CodeGeneral].Type)
}

func TestDefaultChartRoundTrip(t *testing.T) {
	chart := DefaultChart()

	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, chart))

	got, err := ReadChart(&buf)
	require.NoError(t, err)
	assert.Equal(t, chart, got)
}
