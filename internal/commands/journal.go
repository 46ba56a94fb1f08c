package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/id"
	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/model"
)

func newJournalCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Post and inspect journal entries",
	}
	cmd.AddCommand(
		newJournalAddCommand(flags),
		newJournalShowCommand(flags),
		newJournalListCommand(flags),
		newJournalExportCommand(flags),
	)
	return cmd
}

func newJournalAddCommand(flags *globalFlags) *cobra.Command {
	var description, reference, date string
	var lines []string
	var taxRateID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a multi-line journal entry",
		Long: `Post a multi-line journal entry. Each --line is
ACCOUNT:DEBIT:CREDIT[:MEMO], where ACCOUNT is a code or name and one of
DEBIT or CREDIT is usually empty, e.g.

  crania journal add --description "February rent" \
    --line 6070:1200: --line 1000::1200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseOptionalDate("date", date)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				chart, err := a.Accounts.Load(ctx)
				if err != nil {
					return err
				}
				params := journal.JournalParams{
					Date:        day,
					Description: description,
					Reference:   reference,
					TaxRateID:   taxRateID,
				}
				for i, raw := range lines {
					line, err := parseLine(chart, raw)
					if err != nil {
						return fmt.Errorf("line %d: %w", i+1, err)
					}
					params.Lines = append(params.Lines, line)
				}

				entryID, err := a.Journal.PostJournalEntry(ctx, params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", id.FormatLabel(id.KindJournal, entryID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "entry description (required)")
	cmd.Flags().StringVar(&reference, "reference", "", "external reference")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "ACCOUNT:DEBIT:CREDIT[:MEMO], repeatable")
	cmd.Flags().Int64Var(&taxRateID, "tax-rate", 0, "tax rate id to surcharge income and expense lines")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

// parseLine parses ACCOUNT:DEBIT:CREDIT[:MEMO].
func parseLine(chart *accounts.Service, raw string) (model.Line, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 3 {
		return model.Line{}, model.Invalid("line", "want ACCOUNT:DEBIT:CREDIT[:MEMO], got %q", raw)
	}
	acct, err := chart.Resolve(parts[0])
	if err != nil {
		return model.Line{}, err
	}
	debit, err := parseAmount("debit", strings.TrimSpace(parts[1]))
	if err != nil {
		return model.Line{}, err
	}
	credit, err := parseAmount("credit", strings.TrimSpace(parts[2]))
	if err != nil {
		return model.Line{}, err
	}
	line := model.Line{AccountID: acct.ID, Debit: debit, Credit: credit}
	if len(parts) == 4 {
		line.Memo = strings.TrimSpace(parts[3])
	}
	return line, nil
}

func newJournalShowCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <label|id>",
		Short: "Show an entry and its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			kind, n, err := id.ParseRef(args[0])
			if err != nil {
				return model.Invalid("entry", "%s", err)
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				entry, err := a.Journal.GetKind(ctx, model.EntryKind(kind), n)
				if err != nil {
					return err
				}
				chart, err := a.Accounts.Load(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if format == formatTable {
					fmt.Fprintf(out, "%s  %s  %s\n", entry.Label(), entry.Date.Format(model.DateFormat), entry.Description)
					if entry.Reference != "" {
						fmt.Fprintf(out, "Reference: %s\n", entry.Reference)
					}
					if entry.IsVoid() {
						fmt.Fprintf(out, "VOID: %s\n", entry.VoidedReason)
					}
					fmt.Fprintln(out)
				}

				t := &table{header: []string{"code", "account", "debit", "credit", "memo"}}
				for _, line := range entry.Lines {
					acct, _ := chart.Get(line.AccountID)
					t.add(acct.Code, acct.Name, side(line.Debit), side(line.Credit), line.Memo)
				}
				debit, credit := entry.Totals()
				t.total("", "Total", money(debit), money(credit), "")
				return render(out, format, entry, t)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or csv")
	return cmd
}

func newJournalListCommand(flags *globalFlags) *cobra.Command {
	var from, to, kind, format string
	var includeVoid bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries in date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			filter, err := entryFilter(from, to, kind, includeVoid)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				entries, err := a.Journal.List(ctx, filter)
				if err != nil {
					return err
				}
				if entries == nil {
					entries = []model.Entry{}
				}

				t := &table{header: []string{"label", "date", "status", "description", "reference", "amount"}}
				for _, e := range entries {
					t.add(e.Label(), e.Date.Format(model.DateFormat), string(e.Status), e.Description, e.Reference, money(e.Amount()))
				}
				return render(cmd.OutOrStdout(), format, entries, t)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&kind, "kind", "", "transaction or journal (default both)")
	cmd.Flags().BoolVar(&includeVoid, "include-void", false, "include void entries")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or csv")
	return cmd
}

func newJournalExportCommand(flags *globalFlags) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every entry line as CSV, void entries included",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := entryFilter(from, to, "", true)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				entries, err := a.Journal.List(ctx, filter)
				if err != nil {
					return err
				}
				chart, err := a.Accounts.Load(ctx)
				if err != nil {
					return err
				}
				return writeTo(cmd.OutOrStdout(), args, func(w io.Writer) error {
					return journal.WriteEntries(w, entries, chart)
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	return cmd
}

func entryFilter(from, to, kind string, includeVoid bool) (model.EntryFilter, error) {
	period, err := model.ParsePeriod(from, to, "")
	if err != nil {
		return model.EntryFilter{}, model.Invalid("period", "%s", err)
	}
	k := model.EntryKind(kind)
	if k != "" && !k.Valid() {
		return model.EntryFilter{}, model.Invalid("kind", "want transaction or journal, got %q", kind)
	}
	return model.EntryFilter{Period: period, Kind: k, IncludeVoid: includeVoid}, nil
}
