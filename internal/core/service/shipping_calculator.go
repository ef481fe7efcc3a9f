package service

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

const (
	// Currency is the tag attached to every calculated quote.
	Currency = "BND"

	// MinChargeableWeightKg is the floor applied to every parcel.
	MinChargeableWeightKg = 0.5

	// VolumetricDivisor converts cm³ to volumetric kilograms.
	VolumetricDivisor = 5000

	// FallbackRateFactor derives a per-kg rate from base_cost when a service
	// declares none.
	FallbackRateFactor = 0.1
)

var (
	minWeight      = decimal.NewFromFloat(MinChargeableWeightKg)
	volumetricDiv  = decimal.NewFromInt(VolumetricDivisor)
	fallbackFactor = decimal.NewFromFloat(FallbackRateFactor)
)

// ServiceCost is the priced outcome for one service in one region.
type ServiceCost struct {
	Cost                float64
	UsedRegionalPricing bool
	CostPerKg           *float64
}

// ShippingCalculator prices every eligible provider service for a request.
// It holds no mutable state and is safe for concurrent use.
type ShippingCalculator struct {
	detector *RegionDetector
}

func NewShippingCalculator(detector *RegionDetector) *ShippingCalculator {
	if detector == nil {
		detector = NewRegionDetector()
	}
	return &ShippingCalculator{detector: detector}
}

// CalculateShipping returns one quote per available service of every active
// provider, cheapest first. An empty slice means nothing ships there.
func (c *ShippingCalculator) CalculateShipping(input domain.ShippingCalculationInput, providers []domain.ShippingProvider) []domain.ShippingCalculationResult {
	return c.CalculateForRegion(c.ResolveRegion(input), input, providers)
}

// CalculateForRegion prices input for an already resolved region. The
// region is used as given, RegionUnknown included; no detection runs.
func (c *ShippingCalculator) CalculateForRegion(region domain.Region, input domain.ShippingCalculationInput, providers []domain.ShippingProvider) []domain.ShippingCalculationResult {
	weight := ChargeableWeight(input.Weight, input.Dimensions)
	regionName := domain.RegionName(region, false)

	results := make([]domain.ShippingCalculationResult, 0)
	for _, p := range providers {
		if !p.IsActive {
			continue
		}
		for _, svc := range p.Services {
			if !IsServiceAvailableInRegion(svc, region) {
				continue
			}
			sc := CalculateServiceCost(svc, region, weight)
			results = append(results, domain.ShippingCalculationResult{
				ProviderCode:        p.Code,
				ProviderName:        p.Name,
				ServiceName:         svc.Name,
				Cost:                sc.Cost,
				Currency:            Currency,
				EstimatedDays:       svc.EstimatedDays,
				TrackingAvailable:   svc.TrackingAvailable,
				IncludesInsurance:   svc.IncludesInsurance,
				Region:              region,
				RegionName:          regionName,
				UsedRegionalPricing: sc.UsedRegionalPricing,
				CostPerKg:           sc.CostPerKg,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Cost < results[j].Cost
	})
	return results
}

// ResolveRegion returns input.Region when it is a known region, otherwise the
// region detected from the destination.
func (c *ShippingCalculator) ResolveRegion(input domain.ShippingCalculationInput) domain.Region {
	if input.Region != "" && input.Region != domain.RegionUnknown {
		return input.Region
	}
	dest := input.Destination
	return c.detector.DetectRegionFromAddress(&dest).Region
}

// FilterProvidersByRegion returns the active providers that can serve region,
// each trimmed to its available services. Providers left without services are
// dropped. The input slice is not modified.
func (c *ShippingCalculator) FilterProvidersByRegion(providers []domain.ShippingProvider, region domain.Region) []domain.ShippingProvider {
	out := make([]domain.ShippingProvider, 0, len(providers))
	for _, p := range providers {
		if !p.IsActive {
			continue
		}
		var services []domain.ShippingService
		for _, svc := range p.Services {
			if IsServiceAvailableInRegion(svc, region) {
				services = append(services, svc)
			}
		}
		if len(services) == 0 {
			continue
		}
		p.Services = services
		out = append(out, p)
	}
	return out
}

// ChargeableWeight is the larger of actual and volumetric weight, never below
// MinChargeableWeightKg.
func ChargeableWeight(weight float64, dims *domain.Dimensions) float64 {
	w := fromFloat(weight)
	if dims != nil {
		vol := fromFloat(dims.Length).
			Mul(fromFloat(dims.Width)).
			Mul(fromFloat(dims.Height)).
			Div(volumetricDiv)
		w = decimal.Max(w, vol)
	}
	w = decimal.Max(w, minWeight)
	f, _ := w.Float64()
	return f
}

// IsServiceAvailableInRegion applies the availability rule. For an unknown
// region only region-agnostic services are offered, so a tiered service never
// falls back to its base price for an address nobody could place.
func IsServiceAvailableInRegion(svc domain.ShippingService, region domain.Region) bool {
	if region == domain.RegionUnknown {
		return !svc.HasRegionalPricing()
	}
	if !svc.HasRegionalPricing() {
		return true
	}
	_, ok := svc.PricingFor(region)
	return ok
}

// CalculateServiceCost prices svc for region at the given chargeable weight.
func CalculateServiceCost(svc domain.ShippingService, region domain.Region, weight float64) ServiceCost {
	w := fromFloat(weight)

	if rp, ok := svc.PricingFor(region); ok {
		rate := clamp(fromFloat(rp.CostPerKg))
		cost := rate.Mul(w)
		if rp.MinCost != nil {
			cost = decimal.Max(cost, fromFloat(*rp.MinCost))
		}
		perKg, _ := rate.Float64()
		return ServiceCost{
			Cost:                toFloat(clamp(cost)),
			UsedRegionalPricing: true,
			CostPerKg:           &perKg,
		}
	}

	base := fromFloat(svc.BaseCost)
	rate := base.Mul(fallbackFactor)
	if svc.CostPerKg != nil {
		rate = fromFloat(*svc.CostPerKg)
	}
	cost := base.Add(rate.Mul(w))
	return ServiceCost{Cost: toFloat(clamp(cost))}
}

// fromFloat converts f to a decimal, reading NaN and ±Inf as zero.
func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
