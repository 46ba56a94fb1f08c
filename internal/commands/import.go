package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/importer"
)

func newImportCommand(flags *globalFlags) *cobra.Command {
	var format, date, account string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Post bank statement rows as transactions",
		Long: `Post bank statement rows as transactions. Money in is posted as income
and money out as expense. Without a file, every CSV in the import directory
is imported and moved to its processed/ subdirectory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseOptionalDate("date", date)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				opts := importer.Options{Format: format, Date: day, Account: account}
				if opts.Format == "" {
					opts.Format = a.Config.Import.Format
				}
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("opening statement: %w", err)
					}
					defer f.Close()

					res, err := a.Importer.Import(ctx, f, opts)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Posted %d transactions, skipped %d\n", res.Posted, res.Skipped)
					return nil
				}

				results, err := a.Importer.ImportDir(ctx, a.Config.ImportDir(), opts)
				for _, res := range results {
					fmt.Fprintf(out, "%s: posted %d, skipped %d\n", res.File, res.Posted, res.Skipped)
				}
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintf(out, "No statements in %s\n", a.Config.ImportDir())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "statement format: chase or statement (default from config)")
	cmd.Flags().StringVar(&date, "date", "", "date for rows without one, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&account, "account", "", "income or expense account code or name for every row")
	return cmd
}
