package cmd

import (
	"github.com/spf13/cobra"

	"github.com/borneomart/shipping-quote/internal/core/service"
)

var detectOutput string

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Resolve an address to a pricing region",
	Long: `Run region detection alone. The state is tried first, then the postal
code when POSTAL_CODE_FALLBACK is enabled, then the country.

Examples:
  shipquote detect --state "Pulau Pinang"
  shipquote detect --country BN
  POSTAL_CODE_FALLBACK=true shipquote detect --postal-code 93050`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	addDestinationFlags(detectCmd)
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", formatTable, "output format (table, json)")
}

func runDetect(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(detectOutput); err != nil {
		return err
	}

	// Detection needs no catalog, so no backend is connected.
	var opts []service.DetectorOption
	if cfg.Quote.PostalCodeFallback {
		opts = append(opts, service.WithPostalCodeFallback())
	}
	result := service.NewRegionDetector(opts...).DetectRegionFromAddress(&dest)

	if detectOutput == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	writeDetection(cmd.OutOrStdout(), result)
	return nil
}
