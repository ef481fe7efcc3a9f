package cmd

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
	"github.com/borneomart/shipping-quote/internal/infrastructure/health"
	"github.com/borneomart/shipping-quote/internal/infrastructure/queue"
)

func f64(v float64) *float64 { return &v }

// ---------------------------------------------------------------------------
// Flags
// ---------------------------------------------------------------------------

func TestCheckFormat(t *testing.T) {
	for _, f := range []string{"table", "json"} {
		if err := checkFormat(f); err != nil {
			t.Errorf("checkFormat(%q): %v", f, err)
		}
	}
	if err := checkFormat("html"); err == nil {
		t.Error("expected an error for html")
	}
}

func TestCheckRegion(t *testing.T) {
	for _, r := range []string{"", "sabah", "BRUNEI"} {
		if err := checkRegion(r); err != nil {
			t.Errorf("checkRegion(%q): %v", r, err)
		}
	}
	for _, r := range []string{"unknown", "johor"} {
		if err := checkRegion(r); err == nil {
			t.Errorf("expected an error for %q", r)
		}
	}
}

func TestCheckAmount(t *testing.T) {
	for _, v := range []float64{0, 0.5, 120} {
		if err := checkAmount("weight", v); err != nil {
			t.Errorf("checkAmount(%v): %v", v, err)
		}
	}
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := checkAmount("weight", v); err == nil {
			t.Errorf("expected an error for %v", v)
		}
	}
}

// ---------------------------------------------------------------------------
// Request files
// ---------------------------------------------------------------------------

func TestReadRequests_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "requests.yaml")
	jsonPath := filepath.Join(dir, "requests.json")

	yamlDoc := `
- id: order-1
  input:
    destination: {state: SBH, country: MY}
    weight: 2.5
- input:
    destination: {country: BN}
    weight: 1
    dimensions: {length: 40, width: 30, height: 20}
    region: brunei
`
	jsonDoc := `[
  {"id": "order-1", "input": {"destination": {"state": "SBH", "country": "MY"}, "weight": 2.5}},
  {"input": {"destination": {"country": "BN"}, "weight": 1, "dimensions": {"length": 40, "width": 30, "height": 20}, "region": "brunei"}}
]`
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	want := []ports.QuoteRequest{
		{ID: "order-1", Input: domain.ShippingCalculationInput{
			Destination: domain.Destination{State: "SBH", Country: "MY"},
			Weight:      2.5,
		}},
		{Input: domain.ShippingCalculationInput{
			Destination: domain.Destination{Country: "BN"},
			Weight:      1,
			Dimensions:  &domain.Dimensions{Length: 40, Width: 30, Height: 20},
			Region:      domain.RegionBrunei,
		}},
	}

	for _, path := range []string{yamlPath, jsonPath} {
		got, err := readRequests(path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
		}
	}
}

func TestReadRequests_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"id": `), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readRequests(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func TestWriteQuote_Table(t *testing.T) {
	q := &ports.Quote{
		ID: "order-1",
		Detection: domain.RegionDetectionResult{
			Region: domain.RegionSabah, RegionName: "Sabah",
			Confidence: domain.ConfidenceHigh, Source: domain.SourceStateCode, MatchedInput: "SBH",
		},
		ChargeableWeight: 2,
		Options: []domain.ShippingCalculationResult{
			{ProviderName: "Pos Laju", ServiceName: "Standard", Cost: 14, Currency: "BND", UsedRegionalPricing: true, CostPerKg: f64(7)},
			{ProviderName: "SkyNet", ServiceName: "Express", Cost: 20.5, Currency: "BND", TrackingAvailable: true},
		},
	}

	var buf bytes.Buffer
	if err := writeQuote(&buf, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"order-1", "Sabah (sabah)", "Chargeable:  2.00 kg", "BND 14.00", "7.00", "regional", "BND 20.50", "flat"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteQuote_NoOptions(t *testing.T) {
	var buf bytes.Buffer
	if err := writeQuote(&buf, &ports.Quote{ID: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No shipping options") {
		t.Errorf("expected empty notice, got:\n%s", buf.String())
	}
}

func TestWriteBatch_ShowsErrorsInOrder(t *testing.T) {
	results := []queue.Result{
		{Index: 0, ID: "a", Quote: &ports.Quote{
			Detection: domain.RegionDetectionResult{Region: domain.RegionBrunei},
			Options:   []domain.ShippingCalculationResult{{ProviderCode: "post", Cost: 4, Currency: "BND"}},
		}},
		{Index: 1, ID: "b", Err: "catalog unavailable"},
	}

	var buf bytes.Buffer
	if err := writeBatch(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	ia, ib := strings.Index(out, "BND 4.00 (post)"), strings.Index(out, "catalog unavailable")
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("unexpected batch output:\n%s", out)
	}
}

func TestWriteRegions_Malay(t *testing.T) {
	var buf bytes.Buffer
	if err := writeRegions(&buf, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Semenanjung Malaysia") || !strings.Contains(out, "Singapura") {
		t.Errorf("expected Malay names:\n%s", out)
	}
	if strings.Contains(out, "Kawasan Tidak Diketahui") {
		t.Errorf("unknown region must not be listed:\n%s", out)
	}
}

func TestWriteHealth(t *testing.T) {
	var buf bytes.Buffer
	err := writeHealth(&buf, health.Report{
		Status: health.StatusDegraded,
		Dependencies: map[string]health.DependencyStatus{
			"redis":    {Status: health.StatusUnhealthy, Error: "connection refused"},
			"postgres": {Status: health.StatusOK},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Status: degraded") || strings.Index(out, "postgres") > strings.Index(out, "redis") {
		t.Errorf("unexpected health output:\n%s", out)
	}
}
