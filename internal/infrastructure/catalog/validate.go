package catalog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/infrastructure/metrics"
)

// Issue describes one catalog record dropped or corrected during ingestion.
type Issue struct {
	Kind     string // "provider", "service" or "regional_pricing"
	Provider string
	Service  string
	Reason   string
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.Kind)
	if i.Provider != "" {
		b.WriteString(" provider=" + i.Provider)
	}
	if i.Service != "" {
		b.WriteString(" service=" + i.Service)
	}
	b.WriteString(": " + i.Reason)
	return b.String()
}

// Sanitizer validates catalog records coming from any backing store before
// they reach the calculator. Invalid records are dropped rather than failing
// the whole catalog.
type Sanitizer struct {
	v   *validator.Validate
	log zerolog.Logger
}

func NewSanitizer(log zerolog.Logger) *Sanitizer {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("finite", isFinite)
	return &Sanitizer{v: v, log: log}
}

// isFinite rejects NaN and ±Inf, which gte alone lets through.
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Sanitize returns the usable providers ordered by display order, together
// with every issue found. Rules:
//   - a provider failing validation, or repeating an earlier code, is dropped;
//   - an invalid regional entry is dropped, and so is a repeated region
//     (the first entry wins, matching the calculator's lookup);
//   - a tiered service that loses all of its regional entries is dropped so
//     that it does not silently become available everywhere;
//   - a service failing validation is dropped.
func (s *Sanitizer) Sanitize(providers []domain.ShippingProvider) ([]domain.ShippingProvider, []Issue) {
	var issues []Issue
	reject := func(i Issue) {
		issues = append(issues, i)
		metrics.CatalogRejectedTotal.WithLabelValues(i.Kind).Inc()
		s.log.Warn().Str("kind", i.Kind).Str("provider", i.Provider).Str("service", i.Service).Msg(i.Reason)
	}

	out := make([]domain.ShippingProvider, 0, len(providers))
	seenCodes := make(map[string]bool, len(providers))
	for _, p := range providers {
		if err := s.v.Struct(p); err != nil {
			reject(Issue{Kind: "provider", Provider: p.Code, Reason: describe(err)})
			continue
		}
		code := strings.ToLower(p.Code)
		if seenCodes[code] {
			reject(Issue{Kind: "provider", Provider: p.Code, Reason: "duplicate provider code"})
			continue
		}
		seenCodes[code] = true

		services := make([]domain.ShippingService, 0, len(p.Services))
		for _, svc := range p.Services {
			clean, ok := s.sanitizeService(p.Code, svc, reject)
			if ok {
				services = append(services, clean)
			}
		}
		sort.SliceStable(services, func(i, j int) bool {
			return services[i].DisplayOrder < services[j].DisplayOrder
		})
		p.Services = services
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, issues
}

func (s *Sanitizer) sanitizeService(provider string, svc domain.ShippingService, reject func(Issue)) (domain.ShippingService, bool) {
	if len(svc.RegionalPricing) > 0 {
		kept := make([]domain.RegionalPricing, 0, len(svc.RegionalPricing))
		seen := make(map[domain.Region]bool, len(svc.RegionalPricing))
		for _, rp := range svc.RegionalPricing {
			if err := s.v.Struct(rp); err != nil {
				reject(Issue{Kind: "regional_pricing", Provider: provider, Service: svc.Name, Reason: describe(err)})
				continue
			}
			if seen[rp.Region] {
				reject(Issue{Kind: "regional_pricing", Provider: provider, Service: svc.Name,
					Reason: fmt.Sprintf("duplicate entry for region %s, keeping the first", rp.Region)})
				continue
			}
			seen[rp.Region] = true
			kept = append(kept, rp)
		}
		if len(kept) == 0 {
			reject(Issue{Kind: "service", Provider: provider, Service: svc.Name, Reason: "no valid regional pricing left"})
			return svc, false
		}
		svc.RegionalPricing = kept
	}

	if err := s.v.Struct(svc); err != nil {
		reject(Issue{Kind: "service", Provider: provider, Service: svc.Name, Reason: describe(err)})
		return svc, false
	}
	return svc, true
}

// describe flattens validator errors the same way for every record kind.
func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "finite":
		return field + " must be a finite number"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
