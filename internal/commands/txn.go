package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/id"
	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/model"
)

func newTxnCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Record simple income and expense transactions",
	}
	cmd.AddCommand(newTxnAddCommand(flags))
	return cmd
}

func newTxnAddCommand(flags *globalFlags) *cobra.Command {
	var description, amount, typ, date, account, reference string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a transaction against the cash account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			day, err := parseOptionalDate("date", date)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				params := journal.TransactionParams{
					Date:        day,
					Description: description,
					Amount:      amt,
					Type:        model.TxnType(typ),
					Reference:   reference,
				}
				if account != "" {
					acct, err := resolveAccount(ctx, a, account)
					if err != nil {
						return err
					}
					params.AccountID = acct.ID
				}
				entryID, err := a.Journal.PostTransaction(ctx, params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", id.FormatLabel(id.KindTransaction, entryID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "what the money was for (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 125.50 (required)")
	cmd.Flags().StringVar(&typ, "type", "", "income or expense (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&account, "account", "", "income or expense account code or name (default designated account)")
	cmd.Flags().StringVar(&reference, "reference", "", "external reference, e.g. an invoice number")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newVoidCommand(flags *globalFlags) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "void <label|id>",
		Short: "Void a transaction or journal entry, e.g. TXN-000012",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, n, err := id.ParseRef(args[0])
			if err != nil {
				return model.Invalid("entry", "%s", err)
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Journal.Void(ctx, model.EntryKind(kind), n, reason); err != nil {
					return err
				}
				entry, err := a.Journal.Get(ctx, n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Voided %s\n", entry.Label())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the entry is voided")
	return cmd
}

// parseAmount parses a money amount; empty means zero.
func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, model.Invalid(field, "not a number: %q", s)
	}
	return d, nil
}

// parseOptionalDate parses a YYYY-MM-DD flag value; empty means unset.
func parseOptionalDate(field, s string) (time.Time, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, model.Invalid(field, "%s", err)
	}
	return d, nil
}
