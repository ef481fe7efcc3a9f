package service

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func f64(v float64) *float64 { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// tieredService prices sabah at 1000/kg with a 5000 floor and nothing else.
func tieredService() domain.ShippingService {
	return domain.ShippingService{
		ID:       "svc-tiered",
		Name:     "Tiered",
		BaseCost: 100,
		RegionalPricing: []domain.RegionalPricing{
			{Region: domain.RegionSabah, CostPerKg: 1000, MinCost: f64(5000)},
		},
	}
}

func flatService() domain.ShippingService {
	return domain.ShippingService{ID: "svc-flat", Name: "Flat", BaseCost: 300, CostPerKg: f64(50)}
}

func catalog() []domain.ShippingProvider {
	return []domain.ShippingProvider{
		{
			ID: "p1", Code: "skynet", Name: "Skynet", IsActive: true,
			Services: []domain.ShippingService{
				{
					ID: "s1", Name: "Standard", BaseCost: 2000, CostPerKg: f64(500),
					EstimatedDays: "3-5", TrackingAvailable: true,
					RegionalPricing: []domain.RegionalPricing{{Region: domain.RegionBrunei, CostPerKg: 1000}},
				},
			},
		},
		{
			ID: "p2", Code: "post", Name: "Pos", IsActive: true,
			Services: []domain.ShippingService{flatService(), tieredService()},
		},
		{
			ID: "p3", Code: "dormant", Name: "Dormant", IsActive: false,
			Services: []domain.ShippingService{flatService()},
		},
	}
}

// ---------------------------------------------------------------------------
// CalculateShipping
// ---------------------------------------------------------------------------

func TestCalculateShipping_EndToEndBrunei(t *testing.T) {
	calc := NewShippingCalculator(nil)
	providers := []domain.ShippingProvider{catalog()[0]}

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Destination: domain.Destination{State: "BM", Country: "BN"},
		Weight:      2,
	}, providers)

	want := []domain.ShippingCalculationResult{{
		ProviderCode:        "skynet",
		ProviderName:        "Skynet",
		ServiceName:         "Standard",
		Cost:                2000,
		Currency:            "BND",
		EstimatedDays:       "3-5",
		TrackingAvailable:   true,
		Region:              domain.RegionBrunei,
		RegionName:          "Brunei Darussalam",
		UsedRegionalPricing: true,
		CostPerKg:           f64(1000),
	}}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateShipping_SkipsInactiveProviders(t *testing.T) {
	calc := NewShippingCalculator(nil)

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Destination: domain.Destination{Country: "SG"},
		Weight:      1,
	}, catalog())

	for _, r := range results {
		if r.ProviderCode == "dormant" {
			t.Fatal("inactive provider must not be quoted")
		}
	}
}

func TestCalculateShipping_SortedAscending(t *testing.T) {
	calc := NewShippingCalculator(nil)

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Destination: domain.Destination{State: "SBH"},
		Weight:      3,
	}, catalog())

	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for i := 0; i+1 < len(results); i++ {
		if results[i].Cost > results[i+1].Cost {
			t.Fatalf("results not sorted at %d: %v > %v", i, results[i].Cost, results[i+1].Cost)
		}
	}
}

func TestCalculateShipping_EqualCostsKeepCatalogOrder(t *testing.T) {
	calc := NewShippingCalculator(nil)
	providers := []domain.ShippingProvider{
		{Code: "a", IsActive: true, Services: []domain.ShippingService{{Name: "one", BaseCost: 10}}},
		{Code: "b", IsActive: true, Services: []domain.ShippingService{{Name: "two", BaseCost: 10}}},
	}

	results := calc.CalculateShipping(domain.ShippingCalculationInput{Region: domain.RegionSarawak, Weight: 1}, providers)

	if len(results) != 2 || results[0].ProviderCode != "a" || results[1].ProviderCode != "b" {
		t.Fatalf("expected stable order a,b, got %+v", results)
	}
}

func TestCalculateShipping_WeightFloor(t *testing.T) {
	calc := NewShippingCalculator(nil)
	providers := []domain.ShippingProvider{{
		Code: "x", IsActive: true,
		Services: []domain.ShippingService{{Name: "per-kg", CostPerKg: f64(10)}},
	}}

	for _, w := range []float64{0, 0.1, 0.49, -3} {
		results := calc.CalculateShipping(domain.ShippingCalculationInput{Region: domain.RegionSabah, Weight: w}, providers)
		if len(results) != 1 || !approx(results[0].Cost, 5) {
			t.Errorf("weight %v: expected cost 5 (0.5kg x 10), got %+v", w, results)
		}
	}
}

func TestCalculateShipping_VolumetricDominance(t *testing.T) {
	calc := NewShippingCalculator(nil)
	providers := []domain.ShippingProvider{{
		Code: "x", IsActive: true,
		Services: []domain.ShippingService{{Name: "per-kg", CostPerKg: f64(2)}},
	}}

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Region:     domain.RegionSemenanjung,
		Weight:     1,
		Dimensions: &domain.Dimensions{Length: 50, Width: 50, Height: 50},
	}, providers)

	if len(results) != 1 || !approx(results[0].Cost, 50) {
		t.Fatalf("expected 25kg x 2 = 50, got %+v", results)
	}
}

func TestCalculateShipping_UnknownRegionHidesTieredServices(t *testing.T) {
	calc := NewShippingCalculator(nil)

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Destination: domain.Destination{Country: "US"},
		Weight:      1,
	}, catalog())

	if len(results) != 1 {
		t.Fatalf("expected only the flat service, got %+v", results)
	}
	if results[0].ServiceName != "Flat" || results[0].Region != domain.RegionUnknown {
		t.Errorf("unexpected result %+v", results[0])
	}
	if results[0].RegionName != domain.RegionName(domain.RegionUnknown, false) {
		t.Errorf("unexpected region name %q", results[0].RegionName)
	}
}

func TestCalculateShipping_ExplicitRegionSkipsDetection(t *testing.T) {
	calc := NewShippingCalculator(nil)

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Destination: domain.Destination{State: "KUL", Country: "MY"},
		Region:      domain.RegionSabah,
		Weight:      1,
	}, catalog())

	for _, r := range results {
		if r.Region != domain.RegionSabah {
			t.Fatalf("expected sabah on every result, got %q", r.Region)
		}
	}
}

func TestCalculateShipping_NoEligibleServicesIsEmpty(t *testing.T) {
	calc := NewShippingCalculator(nil)

	results := calc.CalculateShipping(domain.ShippingCalculationInput{Weight: 1}, []domain.ShippingProvider{catalog()[0]})

	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", results)
	}
	if got := calc.CalculateShipping(domain.ShippingCalculationInput{Weight: 1}, nil); len(got) != 0 {
		t.Fatalf("expected no results for empty catalog, got %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Cost rule
// ---------------------------------------------------------------------------

func TestCalculateServiceCost_RegionalMinCost(t *testing.T) {
	got := CalculateServiceCost(tieredService(), domain.RegionSabah, 1)

	if !approx(got.Cost, 5000) {
		t.Errorf("expected min cost 5000, got %v", got.Cost)
	}
	if !got.UsedRegionalPricing {
		t.Error("expected regional pricing to be used")
	}
	if got.CostPerKg == nil || *got.CostPerKg != 1000 {
		t.Errorf("expected cost per kg 1000, got %v", got.CostPerKg)
	}
}

func TestCalculateServiceCost_RegionalAboveMinCost(t *testing.T) {
	got := CalculateServiceCost(tieredService(), domain.RegionSabah, 7.5)
	if !approx(got.Cost, 7500) {
		t.Errorf("expected 7500, got %v", got.Cost)
	}
}

func TestCalculateServiceCost_FallbackWithoutServiceRate(t *testing.T) {
	// base 100, synthesized rate 10/kg.
	got := CalculateServiceCost(tieredService(), domain.RegionSingapore, 1)

	if !approx(got.Cost, 110) {
		t.Errorf("expected 100 + 10 x 1 = 110, got %v", got.Cost)
	}
	if got.UsedRegionalPricing {
		t.Error("expected fallback pricing")
	}
	if got.CostPerKg != nil {
		t.Errorf("fallback must not report cost per kg, got %v", *got.CostPerKg)
	}
}

func TestCalculateServiceCost_FallbackWithServiceRate(t *testing.T) {
	got := CalculateServiceCost(flatService(), domain.RegionSarawak, 2)
	if !approx(got.Cost, 400) {
		t.Errorf("expected 300 + 50 x 2 = 400, got %v", got.Cost)
	}
}

func TestCalculateServiceCost_NegativeValuesClamped(t *testing.T) {
	svc := domain.ShippingService{
		BaseCost:  -500,
		CostPerKg: f64(10),
		RegionalPricing: []domain.RegionalPricing{
			{Region: domain.RegionBrunei, CostPerKg: -20},
		},
	}

	regional := CalculateServiceCost(svc, domain.RegionBrunei, 3)
	if regional.Cost != 0 || regional.CostPerKg == nil || *regional.CostPerKg != 0 {
		t.Errorf("expected clamped regional quote, got %+v", regional)
	}

	fallback := CalculateServiceCost(svc, domain.RegionSabah, 3)
	if fallback.Cost != 0 {
		t.Errorf("expected clamped fallback quote, got %v", fallback.Cost)
	}
}

func TestCalculateServiceCost_ZeroServiceIsFree(t *testing.T) {
	got := CalculateServiceCost(domain.ShippingService{Name: "empty"}, domain.RegionSabah, 10)
	if got.Cost != 0 {
		t.Errorf("expected zero quote, got %v", got.Cost)
	}
}

func TestCalculateServiceCost_NonFiniteCatalogValuesReadAsZero(t *testing.T) {
	inf := CalculateServiceCost(domain.ShippingService{BaseCost: math.Inf(1)}, domain.RegionSabah, 1)
	if inf.Cost != 0 {
		t.Errorf("expected +Inf base cost to price at 0, got %v", inf.Cost)
	}

	nanRate := CalculateServiceCost(domain.ShippingService{BaseCost: 300, CostPerKg: f64(math.NaN())}, domain.RegionSabah, 2)
	if nanRate.Cost != 300 {
		t.Errorf("expected NaN rate to price at base cost 300, got %v", nanRate.Cost)
	}

	regional := domain.ShippingService{RegionalPricing: []domain.RegionalPricing{
		{Region: domain.RegionSabah, CostPerKg: math.Inf(1), MinCost: f64(8)},
	}}
	got := CalculateServiceCost(regional, domain.RegionSabah, 3)
	if got.Cost != 8 || got.CostPerKg == nil || *got.CostPerKg != 0 {
		t.Errorf("expected min cost 8 at rate 0, got %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Availability and weight
// ---------------------------------------------------------------------------

func TestIsServiceAvailableInRegion(t *testing.T) {
	cases := []struct {
		name   string
		svc    domain.ShippingService
		region domain.Region
		want   bool
	}{
		{"flat everywhere", flatService(), domain.RegionBrunei, true},
		{"flat for unknown", flatService(), domain.RegionUnknown, true},
		{"tiered matching", tieredService(), domain.RegionSabah, true},
		{"tiered other region", tieredService(), domain.RegionSarawak, false},
		{"tiered unknown", tieredService(), domain.RegionUnknown, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsServiceAvailableInRegion(tc.svc, tc.region); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestChargeableWeight(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		dims   *domain.Dimensions
		want   float64
	}{
		{"actual weight", 2, nil, 2},
		{"floor", 0.2, nil, 0.5},
		{"volumetric wins", 1, &domain.Dimensions{Length: 50, Width: 50, Height: 50}, 25},
		{"actual wins", 30, &domain.Dimensions{Length: 50, Width: 50, Height: 50}, 30},
		{"zero dimensions", 0, &domain.Dimensions{}, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChargeableWeight(tc.weight, tc.dims); !approx(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestChargeableWeight_NonFiniteInputs(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		dims   *domain.Dimensions
		want   float64
	}{
		{"nan weight", math.NaN(), nil, MinChargeableWeightKg},
		{"inf weight", math.Inf(1), nil, MinChargeableWeightKg},
		{"negative inf weight", math.Inf(-1), nil, MinChargeableWeightKg},
		{"inf length", 2, &domain.Dimensions{Length: math.Inf(1), Width: 10, Height: 10}, 2},
		{"nan height", 3, &domain.Dimensions{Length: 50, Width: 50, Height: math.NaN()}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChargeableWeight(tc.weight, tc.dims); !approx(got, tc.want) {
				t.Errorf("ChargeableWeight = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCalculateShipping_NaNWeightUsesFloor(t *testing.T) {
	calc := NewShippingCalculator(nil)

	results := calc.CalculateShipping(domain.ShippingCalculationInput{
		Destination: domain.Destination{State: "BM"},
		Weight:      math.NaN(),
		Dimensions:  &domain.Dimensions{Length: math.Inf(1), Width: 1, Height: 1},
	}, []domain.ShippingProvider{catalog()[0]})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	// 1000/kg at the 0.5 kg floor.
	if !approx(results[0].Cost, 500) {
		t.Errorf("expected cost 500, got %v", results[0].Cost)
	}
}

func TestCalculateForRegion_DoesNotRedetect(t *testing.T) {
	calc := NewShippingCalculator(nil)
	input := domain.ShippingCalculationInput{
		Destination: domain.Destination{State: "SBH", Country: "MY"},
		Weight:      1,
	}
	providers := []domain.ShippingProvider{{
		ID: "p", Code: "post", Name: "Pos", IsActive: true,
		Services: []domain.ShippingService{flatService(), tieredService()},
	}}

	results := calc.CalculateForRegion(domain.RegionUnknown, input, providers)

	if len(results) != 1 || results[0].ServiceName != "Flat" || results[0].Region != domain.RegionUnknown {
		t.Fatalf("expected only the flat service priced as unknown, got %+v", results)
	}
}

// ---------------------------------------------------------------------------
// FilterProvidersByRegion
// ---------------------------------------------------------------------------

func TestFilterProvidersByRegion(t *testing.T) {
	calc := NewShippingCalculator(nil)
	providers := catalog()

	got := calc.FilterProvidersByRegion(providers, domain.RegionSarawak)

	// skynet only prices brunei, pos keeps its flat service, dormant is inactive.
	if len(got) != 1 || got[0].Code != "post" {
		t.Fatalf("expected only pos, got %+v", got)
	}
	if len(got[0].Services) != 1 || got[0].Services[0].Name != "Flat" {
		t.Fatalf("expected flat service only, got %+v", got[0].Services)
	}
	if len(providers[1].Services) != 2 {
		t.Fatal("input providers must not be modified")
	}
}

func TestFilterProvidersByRegion_Brunei(t *testing.T) {
	calc := NewShippingCalculator(nil)

	got := calc.FilterProvidersByRegion(catalog(), domain.RegionBrunei)

	codes := make([]string, 0, len(got))
	for _, p := range got {
		codes = append(codes, p.Code)
	}
	if diff := cmp.Diff([]string{"skynet", "post"}, codes); diff != "" {
		t.Fatalf("providers mismatch (-want +got):\n%s", diff)
	}
}
