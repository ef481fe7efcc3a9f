// Package cmd provides the CLI commands for shipquote.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/borneomart/shipping-quote/internal/infrastructure/config"
	"github.com/borneomart/shipping-quote/internal/infrastructure/metrics"
	"github.com/borneomart/shipping-quote/pkg/logger"
)

var (
	catalogFile string
	backend     string
	verbose     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shipquote",
	Short: "Quote shipping costs for Malaysia, Singapore and Brunei",
	Long: `shipquote prices parcels against a catalog of shipping providers.

The destination address is resolved to one of five pricing regions
(semenanjung, sabah, sarawak, singapore, brunei) and every active service
that delivers there is quoted, cheapest first.

Examples:
  shipquote quote --state SBH --country MY --weight 2.5
  shipquote quote --country BN --weight 1 --length 40 --width 30 --height 20
  shipquote detect --postal-code 88000
  shipquote batch requests.yaml --output json`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return withMetricsExport(func() error {
		return rootCmd.ExecuteContext(ctx)
	})
}

// withMetricsExport writes METRICS_FILE after run returns, whether or not
// the command failed. The command's own error takes precedence.
func withMetricsExport(run func() error) error {
	err := run()
	if mErr := exportMetrics(); mErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", mErr)
		if err == nil {
			err = mErr
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "provider catalog file (overrides CATALOG_FILE)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "catalog backend: file, mongo or postgres (overrides CATALOG_BACKEND)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(catalogCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	if catalogFile != "" {
		os.Setenv("CATALOG_FILE", catalogFile)
	}
	if backend != "" {
		os.Setenv("CATALOG_BACKEND", backend)
	}

	c, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if verbose {
		c.LogLevel = "debug"
	}
	cfg = c

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "shipquote",
	})
	return nil
}

func exportMetrics() error {
	if cfg == nil || cfg.Quote.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(cfg.Quote.MetricsFile); err != nil {
		return fmt.Errorf("failed to export metrics: %w", err)
	}
	return nil
}
