package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
	"github.com/borneomart/shipping-quote/internal/infrastructure/health"
	"github.com/borneomart/shipping-quote/internal/infrastructure/queue"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (use table or json)", f)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeDetection(w io.Writer, d domain.RegionDetectionResult) {
	fmt.Fprintf(w, "Region:      %s (%s)\n", d.RegionName, d.Region)
	fmt.Fprintf(w, "Confidence:  %s\n", d.Confidence)
	fmt.Fprintf(w, "Source:      %s\n", d.Source)
	if d.MatchedInput != "" {
		fmt.Fprintf(w, "Matched:     %s\n", d.MatchedInput)
	}
}

func writeQuote(w io.Writer, q *ports.Quote) error {
	fmt.Fprintf(w, "Quote:       %s\n", q.ID)
	writeDetection(w, q.Detection)
	fmt.Fprintf(w, "Chargeable:  %s kg\n\n", formatAmount(q.ChargeableWeight))

	if len(q.Options) == 0 {
		fmt.Fprintln(w, "No shipping options available for this destination.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "PROVIDER\tSERVICE\tCOST\tPER KG\tDAYS\tTRACKING\tINSURED\tPRICING")
	for _, o := range q.Options {
		perKg := "-"
		if o.CostPerKg != nil {
			perKg = formatAmount(*o.CostPerKg)
		}
		pricing := "flat"
		if o.UsedRegionalPricing {
			pricing = "regional"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\t%s\n",
			o.ProviderName, o.ServiceName, o.Currency, formatAmount(o.Cost), perKg,
			o.EstimatedDays, yesNo(o.TrackingAvailable), yesNo(o.IncludesInsurance), pricing)
	}
	return tw.Flush()
}

func writeProviders(w io.Writer, providers []domain.ShippingProvider) error {
	if len(providers) == 0 {
		fmt.Fprintln(w, "No providers deliver to this region.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tPROVIDER\tSERVICE\tDAYS\tREGIONAL")
	for _, p := range providers {
		for _, s := range p.Services {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Code, p.Name, s.Name, s.EstimatedDays, yesNo(s.HasRegionalPricing()))
		}
	}
	return tw.Flush()
}

func writeRegions(w io.Writer, malay bool) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "REGION\tNAME\tCOUNTRY\tSTATES")
	for _, info := range domain.AllRegions() {
		name := info.Name
		if malay {
			name = info.NameMalay
		}
		states := domain.StatesInRegion(info.Code)
		codes := make([]string, len(states))
		for i, s := range states {
			codes[i] = s.Code
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Code, name, info.CountryCode, strings.Join(codes, ","))
	}
	return tw.Flush()
}

func writeBatch(w io.Writer, results []queue.Result) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tREGION\tOPTIONS\tCHEAPEST\tERROR")
	for _, r := range results {
		if r.Quote == nil {
			fmt.Fprintf(tw, "%d\t%s\t-\t-\t-\t%s\n", r.Index, r.ID, r.Err)
			continue
		}
		cheapest := "-"
		if len(r.Quote.Options) > 0 {
			o := r.Quote.Options[0]
			cheapest = fmt.Sprintf("%s %s (%s)", o.Currency, formatAmount(o.Cost), o.ProviderCode)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t\n", r.Index, r.ID, r.Quote.Detection.Region, len(r.Quote.Options), cheapest)
	}
	return tw.Flush()
}

func writeHealth(w io.Writer, r health.Report) error {
	fmt.Fprintf(w, "Status: %s\n", r.Status)
	if len(r.Dependencies) == 0 {
		fmt.Fprintln(w, "No remote dependencies configured.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DEPENDENCY\tSTATUS\tERROR")
	for _, name := range r.Names() {
		d := r.Dependencies[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, d.Status, d.Error)
	}
	return tw.Flush()
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
