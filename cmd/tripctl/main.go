package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/logging"
)

var version = "dev"

// app carries state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tripctl",
		Short: "Inspect trip ledgers from the command line",
		Long: `tripctl reads a tripsplit database directly and prints balances,
settlement plans and outstanding debts, or exports a trip to Excel.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./tripsplit.yaml or $HOME/.config/tripsplit/tripsplit.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database (env DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag(config.KeyDBPath, rootCmd.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(a.tripsCmd())
	rootCmd.AddCommand(a.balancesCmd())
	rootCmd.AddCommand(a.suggestCmd())
	rootCmd.AddCommand(a.outstandingCmd())
	rootCmd.AddCommand(a.individualCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logging.SetupWithLevel(level)
	return nil
}

// openLedger opens the configured database. The caller closes the returned store.
func (a *app) openLedger() (*service.LedgerService, *sqlite.SQLiteStore, error) {
	if _, err := os.Stat(a.cfg.DBPath); err != nil {
		return nil, nil, fmt.Errorf("database %s: %w", a.cfg.DBPath, err)
	}
	store, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Debug("Storage opened", "database", a.cfg.DBPath)
	return service.NewLedgerService(store, nil), store, nil
}

func closeStore(store *sqlite.SQLiteStore) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tripctl %s\n", version)
		},
	}
}
