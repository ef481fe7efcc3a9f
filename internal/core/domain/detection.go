package domain

// Confidence states how far a detected region can be trusted.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
	ConfidenceNone Confidence = "none"
)

// DetectionSource names the address field a region was inferred from.
type DetectionSource string

const (
	SourceStateCode   DetectionSource = "state_code"
	SourceCountryCode DetectionSource = "country_code"
	SourcePostalCode  DetectionSource = "postal_code"
	SourceManual      DetectionSource = "manual"
	SourceFallback    DetectionSource = "fallback"
)

// RegionDetectionResult is produced fresh by every detection call.
type RegionDetectionResult struct {
	Region       Region          `json:"region"`
	Confidence   Confidence      `json:"confidence"`
	Source       DetectionSource `json:"source"`
	RegionName   string          `json:"region_name"`
	MatchedInput string          `json:"matched_input,omitempty"`
}
