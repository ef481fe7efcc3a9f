package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/borneomart/shipping-quote/internal/core/ports"
	"github.com/borneomart/shipping-quote/internal/infrastructure/queue"
	"github.com/borneomart/shipping-quote/pkg/logger"
)

var (
	batchWorkers int
	batchOutput  string
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Quote a file of requests concurrently",
	Long: `Quote every request in a YAML or JSON file. The file holds a list of
requests:

  - id: order-1001
    input:
      destination: {state: SBH, country: MY}
      weight: 2.5
  - input:
      destination: {country: BN}
      weight: 1
      dimensions: {length: 40, width: 30, height: 20}

Results are printed in file order. A failed request does not stop the batch.

Examples:
  shipquote batch requests.yaml
  shipquote batch requests.json --workers 16 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of workers (default QUOTE_WORKERS)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", formatTable, "output format (table, json)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(batchOutput); err != nil {
		return err
	}

	reqs, err := readRequests(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer a.close()

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Quote.Workers
	}
	results := queue.NewDispatcher(workers, a.service, logger.Component("batch")).Run(cmd.Context(), reqs)

	failed := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
		}
	}
	log := logger.Get()
	log.Info().
		Int("requests", len(reqs)).
		Int("failed", failed).
		Int("workers", workers).
		Msg("batch finished")

	if batchOutput == formatJSON {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	return writeBatch(cmd.OutOrStdout(), results)
}

// readRequests decodes a request list, choosing JSON or YAML by extension.
func readRequests(path string) ([]ports.QuoteRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	var reqs []ports.QuoteRequest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &reqs)
	} else {
		err = yaml.Unmarshal(raw, &reqs)
	}
	if err != nil {
		return nil, fmt.Errorf("parse requests %s: %w", path, err)
	}
	return reqs, nil
}
