package domain

// RegionalPricing overrides a service's flat pricing for one region.
type RegionalPricing struct {
	Region     Region   `json:"region" bson:"region" yaml:"region" validate:"required,oneof=semenanjung sabah sarawak singapore brunei"`
	CostPerKg  float64  `json:"cost_per_kg" bson:"cost_per_kg" yaml:"cost_per_kg" validate:"finite,gte=0"`
	MinCost    *float64 `json:"min_cost,omitempty" bson:"min_cost,omitempty" yaml:"min_cost,omitempty" validate:"omitempty,finite,gte=0"`
	StateCodes []string `json:"state_codes,omitempty" bson:"state_codes,omitempty" yaml:"state_codes,omitempty"`
}

// ShippingService is one priced product of a provider (e.g. "Express").
// When RegionalPricing has an entry for the destination region it wins;
// otherwise the service charges BaseCost plus a per-kg multiplier.
type ShippingService struct {
	ID                string            `json:"id" bson:"id" yaml:"id" validate:"required"`
	Name              string            `json:"name" bson:"name" yaml:"name" validate:"required"`
	BaseCost          float64           `json:"base_cost" bson:"base_cost" yaml:"base_cost" validate:"finite,gte=0"`
	CostPerKg         *float64          `json:"cost_per_kg,omitempty" bson:"cost_per_kg,omitempty" yaml:"cost_per_kg,omitempty" validate:"omitempty,finite,gte=0"`
	EstimatedDays     string            `json:"estimated_days" bson:"estimated_days" yaml:"estimated_days"`
	TrackingAvailable bool              `json:"tracking_available" bson:"tracking_available" yaml:"tracking_available"`
	IncludesInsurance bool              `json:"includes_insurance" bson:"includes_insurance" yaml:"includes_insurance"`
	RegionalPricing   []RegionalPricing `json:"regional_pricing,omitempty" bson:"regional_pricing,omitempty" yaml:"regional_pricing,omitempty" validate:"omitempty,dive"`
	DisplayOrder      int               `json:"display_order" bson:"display_order" yaml:"display_order"`
}

// HasRegionalPricing reports whether the service is tiered by region.
func (s ShippingService) HasRegionalPricing() bool {
	return len(s.RegionalPricing) > 0
}

// PricingFor returns the first regional entry for r. Duplicate entries for
// the same region are not expected; when present the first one wins.
func (s ShippingService) PricingFor(r Region) (RegionalPricing, bool) {
	for _, p := range s.RegionalPricing {
		if p.Region == r {
			return p, true
		}
	}
	return RegionalPricing{}, false
}

// ShippingProvider is a carrier together with the services it sells. It is
// supplied wholesale by the catalog for every calculation.
type ShippingProvider struct {
	ID           string            `json:"id" bson:"_id" yaml:"id" validate:"required"`
	Code         string            `json:"code" bson:"code" yaml:"code" validate:"required"`
	Name         string            `json:"name" bson:"name" yaml:"name" validate:"required"`
	LogoURL      *string           `json:"logo_url,omitempty" bson:"logo_url,omitempty" yaml:"logo_url,omitempty" validate:"omitempty,url"`
	IsActive     bool              `json:"is_active" bson:"is_active" yaml:"is_active"`
	Services     []ShippingService `json:"services" bson:"services" yaml:"services"`
	DisplayOrder int               `json:"display_order" bson:"display_order" yaml:"display_order"`
}

// Destination is the loosely structured address a quote is priced for.
type Destination struct {
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	Country    string `json:"country" yaml:"country"`
	PostalCode string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
}

// IsEmpty reports whether no address field is set.
func (d Destination) IsEmpty() bool {
	return d.State == "" && d.Country == "" && d.PostalCode == "" && d.City == ""
}

// Dimensions of a parcel in centimetres.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ShippingCalculationInput is one quote request. Region, when set to a known
// region, skips address detection.
type ShippingCalculationInput struct {
	Destination Destination `json:"destination" yaml:"destination"`
	Weight      float64     `json:"weight" yaml:"weight"`
	Dimensions  *Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Region      Region      `json:"region,omitempty" yaml:"region,omitempty"`
}

// ShippingCalculationResult is the quote for one (provider, service) pair.
type ShippingCalculationResult struct {
	ProviderCode        string   `json:"provider_code"`
	ProviderName        string   `json:"provider_name"`
	ServiceName         string   `json:"service_name"`
	Cost                float64  `json:"cost"`
	Currency            string   `json:"currency"`
	EstimatedDays       string   `json:"estimated_days"`
	TrackingAvailable   bool     `json:"tracking_available"`
	IncludesInsurance   bool     `json:"includes_insurance"`
	Region              Region   `json:"region"`
	RegionName          string   `json:"region_name"`
	UsedRegionalPricing bool     `json:"used_regional_pricing"`
	CostPerKg           *float64 `json:"cost_per_kg,omitempty"`
}
