package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var autoMatchCmd = &cobra.Command{
	Use:   "auto-match",
	Short: "Run one auto-match pass over unmatched bank transactions",
	Long: `Pairs every unmatched bank transaction with an unpaid invoice bundle or
invoice of exactly the same amount, settles each pair in its own database
transaction, and prints the run summary as JSON.`,
	Example: `  # From cron
  solarlink auto-match

  # Attribute the run to a user
  solarlink auto-match --user 3`,
	RunE: runAutoMatch,
}

func init() {
	rootCmd.AddCommand(autoMatchCmd)
	autoMatchCmd.Flags().Uint("user", 0, "User id recorded as the run's trigger")
}

func runAutoMatch(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(cmd.Context(), db)

	var triggeredBy *uint
	if user, _ := cmd.Flags().GetUint("user"); user != 0 {
		triggeredBy = &user
	}

	summary, err := newService(db).RunAutoMatch(cmd.Context(), triggeredBy)
	if err != nil {
		return fmt.Errorf("auto-match: %w", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
