package ports

import (
	"context"
	"time"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

// QuoteRequest is the DTO passed from the CLI/batch layer to QuoteService.
type QuoteRequest struct {
	// ID correlates the request in logs and batch output; generated when empty.
	ID    string                          `json:"id,omitempty" yaml:"id,omitempty"`
	Input domain.ShippingCalculationInput `json:"input" yaml:"input"`
}

// Quote is the priced answer to a QuoteRequest.
type Quote struct {
	ID               string                             `json:"id"`
	Detection        domain.RegionDetectionResult       `json:"detection"`
	ChargeableWeight float64                            `json:"chargeable_weight"`
	Options          []domain.ShippingCalculationResult `json:"options"`
	CalculatedAt     time.Time                          `json:"calculated_at"`
}

// QuoteObserver receives the outcome of every quote. Metrics live behind it.
type QuoteObserver interface {
	ObserveQuote(q *Quote, elapsed time.Duration)
	ObserveCatalogLoad(source string, err error)
}

// QuoteService defines the use-case operations around the calculator.
type QuoteService interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	Detect(dest domain.Destination) domain.RegionDetectionResult
	ProvidersForRegion(ctx context.Context, region domain.Region) ([]domain.ShippingProvider, error)
}
