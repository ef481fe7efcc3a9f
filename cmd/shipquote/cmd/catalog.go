package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/borneomart/shipping-quote/internal/infrastructure/catalog"
	"github.com/borneomart/shipping-quote/pkg/logger"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Provider catalog maintenance commands",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Report records the quote engine would drop from a catalog file",
	Long: `Parse a YAML or JSON catalog file and run it through the same checks
applied on every load. Each dropped record is listed with the reason.
Exits non-zero when anything would be dropped.

The file defaults to CATALOG_FILE.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogValidate,
}

var catalogInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop the cached catalog snapshot from Redis",
	Args:  cobra.NoArgs,
	RunE:  runCatalogInvalidate,
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogInvalidateCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	path := cfg.Catalog.File
	if len(args) > 0 {
		path = args[0]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	doc, err := catalog.Parse(raw)
	if err != nil {
		return err
	}

	kept, issues := catalog.NewSanitizer(logger.Component("catalog")).Sanitize(doc.Providers)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Providers: %d read, %d kept\n", len(doc.Providers), len(kept))
	if len(issues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}
	fmt.Fprintf(out, "Issues (%d):\n", len(issues))
	for _, i := range issues {
		fmt.Fprintf(out, "  %s\n", i)
	}
	return errors.New("catalog has invalid records")
}

func runCatalogInvalidate(cmd *cobra.Command, _ []string) error {
	if !cfg.CacheEnabled() {
		return errors.New("no catalog cache configured (set REDIS_ADDR)")
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer a.close()

	if err := a.cache.Invalidate(cmd.Context()); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Catalog cache cleared.")
	return nil
}
