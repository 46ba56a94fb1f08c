package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/model"
)

func newAccountCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountListCommand(flags),
		newAccountAddCommand(flags),
		newAccountUpdateCommand(flags),
		newAccountDeactivateCommand(flags),
		newAccountImportCommand(flags),
		newAccountExportCommand(flags),
	)
	return cmd
}

func newAccountListCommand(flags *globalFlags) *cobra.Command {
	var all bool
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				chart, err := a.Accounts.Load(ctx)
				if err != nil {
					return err
				}
				accts := chart.Active()
				if all {
					accts = chart.All()
				}
				if accts == nil {
					accts = []model.Account{}
				}

				t := &table{header: []string{"id", "code", "name", "type", "parent", "active"}}
				for _, acct := range accts {
					var parent string
					if p, ok := chart.Get(acct.ParentID); ok {
						parent = p.Code
					}
					t.add(strconv.FormatInt(acct.ID, 10), acct.Code, acct.Name, string(acct.Type), parent, strconv.FormatBool(acct.Active))
				}
				return render(cmd.OutOrStdout(), format, accts, t)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive accounts")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or csv")
	return cmd
}

func newAccountAddCommand(flags *globalFlags) *cobra.Command {
	var code, name, typ, parent, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accountType, ok := model.ParseAccountType(typ)
			if !ok {
				return model.Invalid("type", "unknown account type %q", typ)
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				params := accounts.CreateParams{
					Code:        code,
					Name:        name,
					Type:        accountType,
					Description: description,
				}
				if parent != "" {
					p, err := resolveAccount(ctx, a, parent)
					if err != nil {
						return err
					}
					params.ParentID = p.ID
				}
				acct, err := a.Accounts.Create(ctx, params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created account %s %s (id %d)\n", acct.Code, acct.Name, acct.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "account code, e.g. 6130")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&typ, "type", "", "asset, liability, equity, income or expense (required)")
	cmd.Flags().StringVar(&parent, "parent", "", "parent account code or name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newAccountUpdateCommand(flags *globalFlags) *cobra.Command {
	var code, name, typ, parent, description string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Update an account by code or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				acct, err := resolveAccount(ctx, a, args[0])
				if err != nil {
					return err
				}

				var params accounts.UpdateParams
				changed := cmd.Flags().Changed
				if changed("code") {
					params.Code = &code
				}
				if changed("name") {
					params.Name = &name
				}
				if changed("description") {
					params.Description = &description
				}
				if changed("active") {
					params.Active = &active
				}
				if changed("type") {
					accountType, ok := model.ParseAccountType(typ)
					if !ok {
						return model.Invalid("type", "unknown account type %q", typ)
					}
					params.Type = &accountType
				}
				if changed("parent") {
					var parentID int64
					if parent != "" {
						p, err := resolveAccount(ctx, a, parent)
						if err != nil {
							return err
						}
						parentID = p.ID
					}
					params.ParentID = &parentID
				}

				updated, err := a.Accounts.Update(ctx, acct.ID, params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s %s\n", updated.Code, updated.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "new account code")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&typ, "type", "", "new type; only allowed before the account is used")
	cmd.Flags().StringVar(&parent, "parent", "", "new parent code or name; empty clears it")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&active, "active", true, "whether the account accepts new postings")
	return cmd
}

func newAccountDeactivateCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <account>",
		Short: "Hide an account from new postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				acct, err := resolveAccount(ctx, a, args[0])
				if err != nil {
					return err
				}
				if _, err := a.Accounts.Deactivate(ctx, acct.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deactivated account %s %s\n", acct.Code, acct.Name)
				return nil
			})
		},
	}
}

func newAccountImportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create accounts from a chart CSV, skipping existing codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening chart: %w", err)
			}
			defer f.Close()

			rows, err := accounts.ReadChart(f)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				created, err := a.Accounts.Import(ctx, rows)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d accounts\n", created, len(rows))
				return nil
			})
		},
	}
}

func newAccountExportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the chart of accounts as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				chart, err := a.Accounts.Load(ctx)
				if err != nil {
					return err
				}
				return writeTo(cmd.OutOrStdout(), args, func(w io.Writer) error {
					return accounts.WriteChart(w, chart.Rows())
				})
			})
		},
	}
}

// resolveAccount finds an account by code or name.
func resolveAccount(ctx context.Context, a *app.App, ref string) (model.Account, error) {
	chart, err := a.Accounts.Load(ctx)
	if err != nil {
		return model.Account{}, err
	}
	return chart.Resolve(ref)
}

// writeTo calls fn with the file named by args, or with stdout when args
// is empty.
func writeTo(stdout io.Writer, args []string, fn func(w io.Writer) error) error {
	if len(args) == 0 {
		return fn(stdout)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[0], err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
