package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

func parseChaseFixture(t *testing.T) []BankTransaction {
	t.Helper()
	f, err := os.Open("testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Fixture(t *testing.T) {
	txns := parseChaseFixture(t)
	require.Len(t, txns, 6)

	github := txns[0]
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", github.Description)
	assert.Equal(t, "-4.00", github.Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", github.Type)
	assert.Equal(t, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), github.Date)
	assert.Equal(t, "chase_20250103_GITHUBPROS", github.Reference)

	assert.Equal(t, "STAPLES #1123, TORONTO", txns[2].Description, "quoted commas stay in the description")
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Description)
	assert.Equal(t, "3500.00", txns[3].Amount.StringFixed(2))
	assert.Equal(t, time.Date(2025, time.January, 22, 0, 0, 0, 0, time.UTC), txns[5].Date)

	for _, txn := range txns {
		if txn.Type == "ACH_CREDIT" {
			assert.True(t, txn.Amount.IsPositive(), txn.Description)
		} else {
			assert.True(t, txn.Amount.IsNegative(), txn.Description)
		}
	}
}

func TestChaseParser_ColumnsByHeader(t *testing.T) {
	csv := "Type,Amount,Description,Posting Date\n" +
		"DEBIT_CARD,-12.50,LUNCH,02/14/2025\n"

	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "LUNCH", txns[0].Description)
	assert.Equal(t, "-12.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "DEBIT_CARD", txns[0].Type)
	assert.Equal(t, 14, txns[0].Date.Day())
}

func TestChaseParser_CheckNumberReference(t *testing.T) {
	csv := chaseHeader + "CHECK,03/01/2025,CHECK 204,-800.00,CHECK_PAID,900.00,204\n"

	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "check_204", txns[0].Reference)
}

func TestChaseParser_RaggedAndBlankRows(t *testing.T) {
	csv := chaseHeader +
		"DEBIT,01/03/2025,FEE,-1.00,FEE_TRANSACTION\n" +
		",,,,,,\n" +
		"DEBIT,01/04/2025,\"$1,200.00 WIRE\",\"-1,200.00\",WIRE,1.00,,\n"

	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "-1.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "-1200.00", txns[1].Amount.StringFixed(2))
}

func TestChaseParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "missing columns",
			csv:  "Details,Description,Balance\nDEBIT,desc,1.00\n",
			want: "missing columns: Posting Date, Amount",
		},
		{
			name: "bad date",
			csv:  chaseHeader + "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n",
			want: "row 2: parsing date",
		},
		{
			name: "bad amount",
			csv:  chaseHeader + "DEBIT,01/03/2025,desc,-4.00,ACH_DEBIT,100.00,\nDEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n",
			want: "row 3: parsing amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChaseParser_NoRows(t *testing.T) {
	for _, input := range []string{"", chaseHeader} {
		txns, err := (&ChaseParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Empty(t, txns)
	}
}

func TestMakeRef(t *testing.T) {
	date := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "chase_20250309_AMAZONWEBS", makeRef("chase", date, "AMAZON WEB SERVICES"))
	assert.Equal(t, "bank_20250309_", makeRef("bank", date, "***"))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"chase", "statement"}, r.Formats())
	assert.Equal(t, "chase", r.Get(" CHASE ").Format())
	assert.Nil(t, r.Get("ofx"))

	assert.Panics(t, func() { r.Register(&StatementParser{}) })
	assert.Empty(t, NewRegistry().Formats())
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "march.csv", "January.CSV", "notes.txt", filepath.Join(ProcessedDir, "old.csv"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "January.CSV", files[0].Name)
	assert.Equal(t, "march.csv", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "march.csv"), files[1].Path)
	assert.EqualValues(t, 4, files[1].Size)

	files, err = Scan(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "bank.csv")

	moved, err := MarkProcessed(dir, "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProcessedDir, "bank.csv"), moved)
	assert.NoFileExists(t, filepath.Join(dir, "bank.csv"))
	assert.FileExists(t, moved)
}

func TestMarkProcessed_KeepsEarlierStatement(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, filepath.Join(ProcessedDir, "bank.csv"), filepath.Join(ProcessedDir, "bank-1.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("newer"), 0o644))

	moved, err := MarkProcessed(dir, "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProcessedDir, "bank-2.csv"), moved)

	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "newer", string(data))

	data, err = os.ReadFile(filepath.Join(dir, ProcessedDir, "bank.csv"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestMarkProcessed_MissingFile(t *testing.T) {
	_, err := MarkProcessed(t.TempDir(), "gone.csv")
	assert.ErrorContains(t, err, "moving gone.csv to processed")
}
