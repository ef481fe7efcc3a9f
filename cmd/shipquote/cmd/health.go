package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthOutput string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the catalog store and cache",
	Long: `Ping every configured remote dependency (MongoDB or PostgreSQL, and
Redis when REDIS_ADDR is set). Exits non-zero when any of them is down.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().StringVarP(&healthOutput, "output", "o", formatTable, "output format (table, json)")
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(healthOutput); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer a.close()

	report := a.health.Check(cmd.Context())

	if healthOutput == formatJSON {
		err = writeJSON(cmd.OutOrStdout(), report)
	} else {
		err = writeHealth(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}
	if !report.Healthy() {
		return errors.New("one or more dependencies are unhealthy")
	}
	return nil
}
