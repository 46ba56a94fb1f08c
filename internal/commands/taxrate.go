package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/model"
)

func newTaxRateCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxrate",
		Short: "Manage tax rates",
	}
	cmd.AddCommand(
		newTaxRateListCommand(flags),
		newTaxRateAddCommand(flags),
		newTaxRateActiveCommand(flags, "deactivate", false),
		newTaxRateActiveCommand(flags, "activate", true),
	)
	return cmd
}

func newTaxRateListCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tax rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				rates, err := a.TaxRates.List(ctx)
				if err != nil {
					return err
				}
				if rates == nil {
					rates = []model.TaxRate{}
				}
				t := &table{header: []string{"id", "name", "rate", "active"}}
				for _, r := range rates {
					t.add(strconv.FormatInt(r.ID, 10), r.Name, r.Rate.String(), strconv.FormatBool(r.Active))
				}
				return render(cmd.OutOrStdout(), format, rates, t)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or csv")
	return cmd
}

func newTaxRateAddCommand(flags *globalFlags) *cobra.Command {
	var name, rate string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tax rate as a percentage, e.g. --rate 13",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := parseAmount("rate", rate)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				tr, err := a.TaxRates.Create(ctx, name, pct)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tax rate %s %s%% (id %d)\n", tr.Name, tr.Rate.String(), tr.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "tax rate name (required)")
	cmd.Flags().StringVar(&rate, "rate", "", "percentage between 0 and 100 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newTaxRateActiveCommand(flags *globalFlags, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a tax rate %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rateID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return model.Invalid("id", "not a tax rate id: %q", args[0])
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				tr, err := a.TaxRates.SetActive(ctx, rateID, active)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tax rate %s %sd\n", tr.Name, use)
				return nil
			})
		},
	}
}
