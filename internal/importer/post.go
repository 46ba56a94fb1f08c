package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/model"
)

// Poster records simple transactions.
type Poster interface {
	PostTransaction(ctx context.Context, params journal.TransactionParams) (int64, error)
}

// ChartLoader loads the current chart of accounts.
type ChartLoader interface {
	Load(ctx context.Context) (*accounts.Service, error)
}

// Importer posts parsed bank transactions to the journal.
type Importer struct {
	parsers *Registry
	poster  Poster
	charts  ChartLoader
	log     zerolog.Logger
}

// New creates an Importer.
func New(parsers *Registry, poster Poster, charts ChartLoader, log zerolog.Logger) *Importer {
	return &Importer{parsers: parsers, poster: poster, charts: charts, log: log}
}

// Options controls how rows are posted.
type Options struct {
	Format  string
	Date    time.Time // for rows without a date; zero = today
	Account string    // category account code or name for every row; "" = per row or designated default
}

// Result summarizes one imported file.
type Result struct {
	File     string  `json:"file,omitempty"`
	Posted   int     `json:"posted"`
	Skipped  int     `json:"skipped"`
	EntryIDs []int64 `json:"entry_ids"`
}

// Import parses r and posts every non-zero row: money in as income, money
// out as expense. Posting stops at the first failing row.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (Result, error) {
	parser := im.parsers.Get(opts.Format)
	if parser == nil {
		return Result{}, model.Invalid("format", "unknown import format %q (known: %s)", opts.Format, strings.Join(im.parsers.Formats(), ", "))
	}
	txns, err := parser.Parse(r)
	if err != nil {
		return Result{}, model.Invalid("file", "%s", err)
	}

	chart, err := im.charts.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	var override int64
	if opts.Account != "" {
		acct, err := chart.Resolve(opts.Account)
		if err != nil {
			return Result{}, err
		}
		override = acct.ID
	}

	res := Result{EntryIDs: []int64{}}
	for i, txn := range txns {
		if txn.Amount.IsZero() {
			res.Skipped++
			continue
		}
		params := journal.TransactionParams{
			Date:        txn.Date,
			Description: txn.Description,
			Amount:      txn.Amount.Abs(),
			Type:        model.TxnIncome,
			AccountID:   override,
			Reference:   txn.Reference,
		}
		if params.Date.IsZero() {
			params.Date = opts.Date
		}
		if txn.Amount.IsNegative() {
			params.Type = model.TxnExpense
		}
		if override == 0 && txn.AccountRef != "" {
			params.AccountID = im.category(chart, txn.AccountRef, params.Type)
		}

		entryID, err := im.poster.PostTransaction(ctx, params)
		if err != nil {
			return res, fmt.Errorf("row %d (%s): %w", i+1, txn.Description, err)
		}
		res.Posted++
		res.EntryIDs = append(res.EntryIDs, entryID)
	}
	return res, nil
}

// category resolves a statement's account reference to an account of the
// matching type, or 0 for the designated default.
func (im *Importer) category(chart *accounts.Service, ref string, txnType model.TxnType) int64 {
	acct, err := chart.Resolve(ref)
	if err != nil {
		var unknown *accounts.UnknownAccountError
		if errors.As(err, &unknown) {
			im.log.Debug().Str("ref", ref).Int("suggestions", len(unknown.Suggestions)).Msg("statement account not in chart, using default")
		}
		return 0
	}
	want := model.AccountTypeIncome
	if txnType == model.TxnExpense {
		want = model.AccountTypeExpense
	}
	if acct.Type != want {
		im.log.Debug().Str("ref", ref).Str("type", string(acct.Type)).Msg("statement account has the wrong type, using default")
		return 0
	}
	return acct.ID
}

// ImportDir imports every CSV in dir and moves each fully imported file to
// dir/processed/. It stops at the first file that fails, leaving it in
// place.
func (im *Importer) ImportDir(ctx context.Context, dir string, opts Options) ([]Result, error) {
	files, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, f := range files {
		res, err := im.importFile(ctx, f.Path, opts)
		res.File = f.Name
		if err != nil {
			return append(results, res), fmt.Errorf("importing %s: %w", f.Name, err)
		}
		moved, err := MarkProcessed(dir, f.Name)
		if err != nil {
			return append(results, res), err
		}
		im.log.Info().Str("file", f.Name).Str("moved_to", moved).Int("posted", res.Posted).Int("skipped", res.Skipped).Msg("statement imported")
		results = append(results, res)
	}
	return results, nil
}

func (im *Importer) importFile(ctx context.Context, path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	return im.Import(ctx, f, opts)
}
