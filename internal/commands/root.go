package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/crania/internal/app"
	"github.com/cleared-dev/crania/internal/buildinfo"
	"github.com/cleared-dev/crania/internal/config"
	"github.com/cleared-dev/crania/internal/logging"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "crania",
		Short:   "Double-entry bookkeeping for a small business",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", config.FileName, "path to the config file")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the database (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(flags),
		newTxnCommand(flags),
		newJournalCommand(flags),
		newVoidCommand(flags),
		newTaxRateCommand(flags),
		newReportCommand(flags),
		newImportCommand(flags),
		newServeCommand(flags),
	)

	return rootCmd
}

// loadConfig reads the config file, if any, then applies .env and
// environment overrides and the --db flag.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(f.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(filepath.Join(filepath.Dir(f.configPath), ".env")); err != nil {
		return nil, err
	}
	if f.dbPath != "" {
		abs, err := filepath.Abs(f.dbPath)
		if err != nil {
			return nil, fmt.Errorf("resolving database path: %w", err)
		}
		cfg.Database.Path = abs
	}
	return cfg, nil
}

// withApp opens the book for the duration of fn. Logs go to stderr so that
// report output on stdout stays clean.
func (f *globalFlags) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
