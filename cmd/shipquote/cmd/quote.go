package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
)

var (
	dest        domain.Destination
	weight      float64
	length      float64
	width       float64
	height      float64
	quoteRegion string
	quoteID     string
	quoteOutput string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote every available service for one parcel",
	Long: `Resolve the destination to a pricing region and quote every active
service that delivers there, cheapest first.

When all three dimensions are given the chargeable weight is the larger of
the actual and volumetric weight (L x W x H / 5000), never below 0.5 kg.

Examples:
  shipquote quote --state Sabah --country MY --weight 2
  shipquote quote --country SG --weight 0.3 --output json
  shipquote quote --region sarawak --weight 4 --length 50 --width 40 --height 30`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	addDestinationFlags(quoteCmd)
	quoteCmd.Flags().Float64VarP(&weight, "weight", "w", 0, "actual weight in kg")
	quoteCmd.Flags().Float64Var(&length, "length", 0, "parcel length in cm")
	quoteCmd.Flags().Float64Var(&width, "width", 0, "parcel width in cm")
	quoteCmd.Flags().Float64Var(&height, "height", 0, "parcel height in cm")
	quoteCmd.Flags().StringVarP(&quoteRegion, "region", "r", "", "pricing region, skips address detection")
	quoteCmd.Flags().StringVar(&quoteID, "id", "", "quote id (generated when empty)")
	quoteCmd.Flags().StringVarP(&quoteOutput, "output", "o", formatTable, "output format (table, json)")

	quoteCmd.MarkFlagRequired("weight")
}

func addDestinationFlags(c *cobra.Command) {
	c.Flags().StringVarP(&dest.State, "state", "s", "", "state code or name (e.g. SGR, Penang)")
	c.Flags().StringVarP(&dest.Country, "country", "c", "", "ISO country code (MY, SG, BN)")
	c.Flags().StringVarP(&dest.PostalCode, "postal-code", "p", "", "postal code")
	c.Flags().StringVar(&dest.City, "city", "", "city")
}

// checkRegion accepts an empty region (detect from the address) or a priced
// region code.
func checkRegion(r string) error {
	if r == "" || domain.Region(strings.ToLower(r)).IsKnown() {
		return nil
	}
	return fmt.Errorf("unknown region: %s (use one of %v)", r, domain.KnownRegions())
}

// checkAmount rejects negative and non-finite measurements. pflag parses
// "NaN" and "Inf" as valid floats.
func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number: %v", name, v)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative: %v", name, v)
	}
	return nil
}

func runQuote(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(quoteOutput); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		value float64
	}{{"weight", weight}, {"length", length}, {"width", width}, {"height", height}} {
		if err := checkAmount(f.name, f.value); err != nil {
			return err
		}
	}
	if err := checkRegion(quoteRegion); err != nil {
		return err
	}

	input := domain.ShippingCalculationInput{
		Destination: dest,
		Weight:      weight,
		Region:      domain.Region(quoteRegion),
	}
	if length > 0 || width > 0 || height > 0 {
		input.Dimensions = &domain.Dimensions{Length: length, Width: width, Height: height}
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer a.close()

	q, err := a.service.Quote(cmd.Context(), ports.QuoteRequest{ID: quoteID, Input: input})
	if err != nil {
		return err
	}

	if quoteOutput == formatJSON {
		return writeJSON(cmd.OutOrStdout(), q)
	}
	return writeQuote(cmd.OutOrStdout(), q)
}
