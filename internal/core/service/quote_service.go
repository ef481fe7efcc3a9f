package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
)

type quoteService struct {
	repo       ports.ProviderRepository
	cache      ports.CatalogCache
	observer   ports.QuoteObserver
	detector   *RegionDetector
	calculator *ShippingCalculator
	log        zerolog.Logger
	now        func() time.Time
}

// NewQuoteService returns a QuoteService implementation. cache and observer
// may be nil.
func NewQuoteService(
	repo ports.ProviderRepository,
	cache ports.CatalogCache,
	observer ports.QuoteObserver,
	detector *RegionDetector,
	log zerolog.Logger,
) ports.QuoteService {
	if detector == nil {
		detector = NewRegionDetector()
	}
	return &quoteService{
		repo:       repo,
		cache:      cache,
		observer:   observer,
		detector:   detector,
		calculator: NewShippingCalculator(detector),
		log:        log,
		now:        time.Now,
	}
}

// Quote loads the catalog and prices the request. The only error source is
// the catalog: an address that cannot be placed yields an empty option list.
func (s *quoteService) Quote(ctx context.Context, req ports.QuoteRequest) (*ports.Quote, error) {
	start := s.now()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	providers, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", id, err)
	}

	input := req.Input
	detection := s.resolveDetection(input)

	// Options are priced for the reported region, so an unrecognised manual
	// region prices as unknown instead of falling back to the address.
	q := &ports.Quote{
		ID:               id,
		Detection:        detection,
		ChargeableWeight: ChargeableWeight(input.Weight, input.Dimensions),
		Options:          s.calculator.CalculateForRegion(detection.Region, input, providers),
		CalculatedAt:     start.UTC(),
	}

	if s.observer != nil {
		s.observer.ObserveQuote(q, s.now().Sub(start))
	}

	evt := s.log.Info()
	if len(q.Options) == 0 {
		evt = s.log.Warn()
	}
	evt.Str("quote_id", id).
		Str("region", string(detection.Region)).
		Str("confidence", string(detection.Confidence)).
		Str("source", string(detection.Source)).
		Float64("chargeable_weight", q.ChargeableWeight).
		Int("options", len(q.Options)).
		Msg("quote calculated")

	return q, nil
}

// Detect runs region detection alone.
func (s *quoteService) Detect(dest domain.Destination) domain.RegionDetectionResult {
	return s.detector.DetectRegionFromAddress(&dest)
}

// ProvidersForRegion lists the active providers with at least one service
// available in region.
func (s *quoteService) ProvidersForRegion(ctx context.Context, region domain.Region) ([]domain.ShippingProvider, error) {
	providers, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("providers for %s: %w", region, err)
	}
	return s.calculator.FilterProvidersByRegion(providers, region), nil
}

// resolveDetection honours a caller-supplied region as a manual override.
func (s *quoteService) resolveDetection(input domain.ShippingCalculationInput) domain.RegionDetectionResult {
	if input.Region != "" && input.Region != domain.RegionUnknown {
		return s.detector.CreateManualResult(string(input.Region))
	}
	return s.detector.DetectRegionFromAddress(&input.Destination)
}

// loadCatalog reads through the cache. Cache failures are logged and never
// fail the quote.
func (s *quoteService) loadCatalog(ctx context.Context) ([]domain.ShippingProvider, error) {
	if s.cache != nil {
		providers, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			s.observeCatalog("cache", nil)
			return providers, nil
		case errors.Is(err, domain.ErrCacheMiss):
			s.log.Debug().Msg("catalog cache miss")
		default:
			s.log.Warn().Err(err).Msg("catalog cache read failed, loading from store")
		}
	}

	providers, err := s.repo.ListProviders(ctx)
	s.observeCatalog("store", err)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load provider catalog")
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, providers); err != nil {
			s.log.Warn().Err(err).Msg("failed to store catalog snapshot")
		}
	}
	return providers, nil
}

func (s *quoteService) observeCatalog(source string, err error) {
	if s.observer != nil {
		s.observer.ObserveCatalogLoad(source, err)
	}
}
