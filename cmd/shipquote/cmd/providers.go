package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

var (
	providersRegion string
	providersOutput string
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the providers that deliver to a region",
	Long: `List active providers with at least one service available in the
region. Only the services available there are shown.

Examples:
  shipquote providers --region sabah
  shipquote providers --region brunei --output json`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	providersCmd.Flags().StringVarP(&providersRegion, "region", "r", "", "pricing region")
	providersCmd.Flags().StringVarP(&providersOutput, "output", "o", formatTable, "output format (table, json)")

	providersCmd.MarkFlagRequired("region")
}

func runProviders(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(providersOutput); err != nil {
		return err
	}
	if err := checkRegion(providersRegion); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer a.close()

	providers, err := a.service.ProvidersForRegion(cmd.Context(), domain.Region(strings.ToLower(providersRegion)))
	if err != nil {
		return err
	}

	if providersOutput == formatJSON {
		return writeJSON(cmd.OutOrStdout(), providers)
	}
	return writeProviders(cmd.OutOrStdout(), providers)
}
