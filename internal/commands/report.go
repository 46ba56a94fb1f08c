package commands

import (
	"context"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/ledger"
	"github.com/cleared-dev/crania/internal/model"
)

// reportFlags are shared by every report subcommand.
type reportFlags struct {
	from   string
	to     string
	asOf   string
	format string
}

func (rf *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&rf.to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&rf.asOf, "as-of", "", "balances as of this date; the earlier of --to and --as-of applies")
	cmd.Flags().StringVar(&rf.format, "format", formatTable, "output format: table, json or csv")
}

func (rf *reportFlags) period() (model.Period, error) {
	if err := checkFormat(rf.format); err != nil {
		return model.Period{}, err
	}
	p, err := model.ParsePeriod(rf.from, rf.to, rf.asOf)
	if err != nil {
		return model.Period{}, model.Invalid("period", "%s", err)
	}
	return p, nil
}

func newReportCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	cmd.AddCommand(
		newBalanceSheetCommand(flags),
		newIncomeStatementCommand(flags),
		newLedgerCommand(flags),
		newBalancesCommand(flags),
		newTrialBalanceCommand(flags),
	)
	return cmd
}

func newBalanceSheetCommand(flags *globalFlags) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets, liabilities and equity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := rf.period()
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				bs, err := a.Reports.BalanceSheet(ctx, period)
				if err != nil {
					return err
				}
				t := &table{header: []string{"section", "code", "account", "balance"}}
				addRows(t, "assets", bs.Assets)
				addRows(t, "liabilities", bs.Liabilities)
				addRows(t, "equity", bs.Equity)
				t.total("", "", "Total assets", money(bs.TotalAssets))
				t.total("", "", "Total liabilities", money(bs.TotalLiabilities))
				t.total("", "", "Total equity", money(bs.TotalEquity))
				return render(cmd.OutOrStdout(), rf.format, bs, t)
			})
		},
	}

	rf.register(cmd)
	return cmd
}

func newIncomeStatementCommand(flags *globalFlags) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "income-statement",
		Short: "Revenue, expenses and net income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := rf.period()
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				is, err := a.Reports.IncomeStatement(ctx, period)
				if err != nil {
					return err
				}
				t := &table{header: []string{"section", "code", "account", "balance"}}
				addRows(t, "revenue", is.Revenue)
				addRows(t, "expenses", is.Expenses)
				t.total("", "", "Total revenue", money(is.TotalRevenue))
				t.total("", "", "Total expenses", money(is.TotalExpenses))
				t.total("", "", "Net income", money(is.NetIncome))
				return render(cmd.OutOrStdout(), rf.format, is, t)
			})
		},
	}

	rf.register(cmd)
	return cmd
}

func addRows(t *table, section string, rows []ledger.Row) {
	for _, r := range rows {
		t.add(section, r.Code, r.Name, money(r.Balance))
	}
}

func newLedgerCommand(flags *globalFlags) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "ledger <account>",
		Short: "Activity and running balance of one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := rf.period()
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				acct, err := resolveAccount(ctx, a, args[0])
				if err != nil {
					return err
				}
				gl, err := a.Reports.GeneralLedger(ctx, acct.ID, period)
				if err != nil {
					return err
				}
				t := &table{header: []string{"date", "label", "description", "debit", "credit", "balance"}}
				for _, l := range gl.Entries {
					t.add(l.Date.Format(model.DateFormat), l.Label, l.Description, side(l.Debit), side(l.Credit), money(l.RunningBalance))
				}
				t.total("", "", gl.Account.Code+" "+gl.Account.Name, "", "", money(gl.Balance))
				return render(cmd.OutOrStdout(), rf.format, gl, t)
			})
		},
	}

	rf.register(cmd)
	return cmd
}

func newBalancesCommand(flags *globalFlags) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "balances [account...]",
		Short: "Signed balances of the given accounts, or all with activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := rf.period()
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				chart, err := a.Accounts.Load(ctx)
				if err != nil {
					return err
				}
				var ids []int64
				for _, ref := range args {
					acct, err := chart.Resolve(ref)
					if err != nil {
						return err
					}
					ids = append(ids, acct.ID)
				}

				balances, err := a.Reports.AccountBalances(ctx, ids, period)
				if err != nil {
					return err
				}
				sorted := make([]model.Account, 0, len(balances))
				for accountID := range balances {
					acct, _ := chart.Get(accountID)
					acct.ID = accountID
					sorted = append(sorted, acct)
				}
				sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

				t := &table{header: []string{"id", "code", "account", "balance"}}
				for _, acct := range sorted {
					t.add(strconv.FormatInt(acct.ID, 10), acct.Code, acct.Name, money(balances[acct.ID]))
				}
				return render(cmd.OutOrStdout(), rf.format, balances, t)
			})
		},
	}

	rf.register(cmd)
	return cmd
}

func newTrialBalanceCommand(flags *globalFlags) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Per-account debit and credit totals with the accounting equation check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := rf.period()
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(ctx context.Context, a *app.App) error {
				tb, err := a.Reports.TrialBalance(ctx, period)
				if err != nil {
					return err
				}
				t := &table{header: []string{"code", "account", "type", "debit", "credit", "balance"}}
				for _, r := range tb.Rows {
					t.add(r.Code, r.Name, string(r.Type), money(r.Debit), money(r.Credit), money(r.Balance))
				}
				t.total("", "Total", "", money(tb.TotalDebit), money(tb.TotalCredit), "")
				t.total("", "Equation difference", "", "", "", money(tb.Equation.Difference()))
				t.total("", "Balanced", "", "", "", yesNo(tb.Balanced() && tb.Equation.Holds()))
				return render(cmd.OutOrStdout(), rf.format, trialView{tb, tb.Balanced() && tb.Equation.Holds()}, t)
			})
		},
	}

	rf.register(cmd)
	return cmd
}

// trialView adds the balanced flag to the JSON form of a trial balance.
type trialView struct {
	ledger.TrialBalance
	Balanced bool `json:"balanced"`
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
