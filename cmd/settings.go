package cmd

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
)

var settingKeys = []string{models.SettingPaymentTolerance, models.SettingTaxRate}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change business settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the effective payment tolerance and tax rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(cmd.Context(), db)

		store := settingsStore(db)
		tolerance, err := store.PaymentTolerance(cmd.Context())
		if err != nil {
			return err
		}
		taxRate, err := store.TaxRate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n%s=%s\n",
			models.SettingPaymentTolerance, tolerance, models.SettingTaxRate, taxRate)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Override a setting",
	Example: `  solarlink settings set payment_tolerance 1500`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !slices.Contains(settingKeys, key) {
			return fmt.Errorf("unknown setting %q (known: %v)", key, settingKeys)
		}
		value, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", key)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(cmd.Context(), db)

		if err := settingsStore(db).Set(cmd.Context(), key, value); err != nil {
			return err
		}
		log := logger.WithComponent("settings")
		log.Info().Str("key", key).Str("value", value.String()).Msg("Setting updated")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
