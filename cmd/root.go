package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/solarlink-recon/config"
	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/reconcile"
	"github.com/yourusername/solarlink-recon/settings"
	"gorm.io/gorm"
)

var version = "0.1.0"

// cfg is set by Execute before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "solarlink",
	Short: "SolarLink payment reconciliation service",
	Long: `SolarLink matches incoming bank transfers to member invoices and invoice
bundles, records payments, and confirms the orders they settle.

Run "solarlink serve" for the HTTP API or "solarlink auto-match" for a single
reconciliation pass from cron.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(c *config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	shutdownTracing, err := setupTracing(c.OTelExporter, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring tracing: %v\n", err)
		os.Exit(1)
	}

	err = rootCmd.Execute()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if serr := shutdownTracing(flushCtx); serr != nil {
		log.Warn().Err(serr).Msg("Could not flush spans")
	}
	cancel()

	if err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// openDB connects to the configured database.
func openDB() (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return config.InitDB(cfg)
}

func settingsStore(db *gorm.DB) *settings.Store {
	return settings.NewStore(db, settings.Defaults{
		PaymentTolerance: cfg.PaymentTolerance,
		TaxRate:          cfg.TaxRate,
	})
}

func newService(db *gorm.DB) *reconcile.Service {
	return reconcile.NewService(ledger.NewStore(db), settingsStore(db), reconcile.LogNotifier{})
}

func closeDB(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.WithContext(ctx).DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
