package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

var bruneiPostcode = regexp.MustCompile(`^[A-Z]{2}\d{4}$`)

// RegionDetector infers a pricing region from a partial address. It never
// fails: every path ends in a result, RegionUnknown at worst.
type RegionDetector struct {
	usePostalCode bool
}

// DetectorOption configures a RegionDetector.
type DetectorOption func(*RegionDetector)

// WithPostalCodeFallback makes DetectRegionFromAddress consult the postcode
// after the state and before the country.
func WithPostalCodeFallback() DetectorOption {
	return func(d *RegionDetector) { d.usePostalCode = true }
}

func NewRegionDetector(opts ...DetectorOption) *RegionDetector {
	d := &RegionDetector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectRegionFromAddress runs the detection cascade. A matched state always
// beats the country because a country cannot tell the Malaysian regions apart.
func (d *RegionDetector) DetectRegionFromAddress(addr *domain.Destination) domain.RegionDetectionResult {
	if addr == nil || addr.IsEmpty() {
		return fallbackResult()
	}

	if state := strings.TrimSpace(addr.State); state != "" {
		if r := domain.StateToRegion(state); r != domain.RegionUnknown {
			return newResult(r, domain.ConfidenceHigh, domain.SourceStateCode, state)
		}
	}

	if d.usePostalCode {
		if pc := strings.TrimSpace(addr.PostalCode); pc != "" {
			if r := d.DetectRegionFromPostalCode(pc); r != domain.RegionUnknown {
				return newResult(r, domain.ConfidenceLow, domain.SourcePostalCode, pc)
			}
		}
	}

	if country := strings.TrimSpace(addr.Country); country != "" {
		if r := domain.CountryToRegion(country); r != domain.RegionUnknown {
			return newResult(r, domain.ConfidenceLow, domain.SourceCountryCode, country)
		}
	}

	return fallbackResult()
}

// RegionFromStateCode resolves a single state code or name.
func (d *RegionDetector) RegionFromStateCode(code string) domain.Region {
	if strings.TrimSpace(code) == "" {
		return domain.RegionUnknown
	}
	return domain.StateToRegion(code)
}

// ValidateRegion reports whether code names a priced region.
func (d *RegionDetector) ValidateRegion(code string) bool {
	return domain.Region(strings.ToLower(strings.TrimSpace(code))).IsKnown()
}

// ValidRegions returns every region except RegionUnknown.
func (d *RegionDetector) ValidRegions() []domain.Region {
	return domain.KnownRegions()
}

// CreateManualResult records an operator override. Invalid codes produce an
// unknown result that still carries the manual source.
func (d *RegionDetector) CreateManualResult(code string) domain.RegionDetectionResult {
	if !d.ValidateRegion(code) {
		return newResult(domain.RegionUnknown, domain.ConfidenceNone, domain.SourceManual, "")
	}
	r := domain.Region(strings.ToLower(strings.TrimSpace(code)))
	return newResult(r, domain.ConfidenceHigh, domain.SourceManual, "")
}

// DetectRegionFromPostalCode guesses a region from postcode conventions:
// Brunei "AA9999", Singapore six digits, Malaysia five digits whose first two
// digits select the peninsula (01-35), Sabah (87-91) or Sarawak (93-98).
func (d *RegionDetector) DetectRegionFromPostalCode(postalCode string) domain.Region {
	raw := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(postalCode), " ", ""))
	if bruneiPostcode.MatchString(raw) {
		return domain.RegionBrunei
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) < 5 {
		return domain.RegionUnknown
	}

	switch len(digits) {
	case 6:
		return domain.RegionSingapore
	case 5:
		prefix, err := strconv.Atoi(digits[:2])
		if err != nil {
			return domain.RegionUnknown
		}
		switch {
		case prefix >= 1 && prefix <= 35:
			return domain.RegionSemenanjung
		case prefix >= 87 && prefix <= 91:
			return domain.RegionSabah
		case prefix >= 93 && prefix <= 98:
			return domain.RegionSarawak
		}
	}
	return domain.RegionUnknown
}

func newResult(r domain.Region, c domain.Confidence, src domain.DetectionSource, matched string) domain.RegionDetectionResult {
	return domain.RegionDetectionResult{
		Region:       r,
		Confidence:   c,
		Source:       src,
		RegionName:   domain.RegionName(r, false),
		MatchedInput: matched,
	}
}

func fallbackResult() domain.RegionDetectionResult {
	return newResult(domain.RegionUnknown, domain.ConfidenceNone, domain.SourceFallback, "")
}
