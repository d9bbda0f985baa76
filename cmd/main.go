package main

import (
	"context"
	"fmt"
	"os"

	"stocky/internal/analytics"
	"stocky/internal/caching"
	"stocky/internal/config"
	"stocky/internal/repositories"
	"stocky/pkg/database"
	"stocky/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "stocky",
		Short:         "Stocky natural-language inventory assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.AddCommand(serveCmd, migrateCmd, reportCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server and background jobs.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the postgres store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.Store.Driver != "postgres" {
			return fmt.Errorf("migrate requires store.driver=postgres, got %q", cfg.Store.Driver)
		}
		if err := database.Migrate(cfg.Store.DatabaseURL, cfg.Store.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the daily and weekly stock summary.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		report, err := analytics.NewService(store, caching.NewMemoryCacheService(), 0, log).Report(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, period := range []analytics.PeriodSummary{report.Daily, report.Weekly} {
			fmt.Fprintf(out, "%s summary\n", period.Label)
			fmt.Fprintf(out, "  sold: %d  received: %d  transactions: %d\n", period.UnitsSold, period.UnitsReceived, period.Transactions)
			fmt.Fprintf(out, "  revenue: %s  profit: %s\n", period.Revenue.StringFixed(2), period.Profit.StringFixed(2))
			for _, top := range period.TopItems {
				fmt.Fprintf(out, "  %s: %d\n", top.Item, top.Quantity)
			}
		}
		fmt.Fprintf(out, "Low stock items: %d\n", len(report.LowStock))
		return nil
	},
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(os.Getenv("STOCKY_CONFIG"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewLogger(cfg.App.Env), nil
}

// openStore returns the configured backend and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.StoreRepository, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		if err := database.Migrate(cfg.Store.DatabaseURL, cfg.Store.MigrationsPath, log); err != nil {
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		pool, err := database.NewPool(ctx, cfg.Store.DatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		return repositories.NewPostgresStore(pool), pool.Close, nil
	default:
		store, err := repositories.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using file store", zap.String("dir", cfg.Store.DataDir))
		return store, func() {}, nil
	}
}
