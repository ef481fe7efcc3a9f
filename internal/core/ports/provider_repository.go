package ports

import (
	"context"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

// ProviderRepository supplies the provider catalog. Implementations are
// read-only: the quote engine never writes pricing tables.
type ProviderRepository interface {
	// ListProviders returns every provider, active or not, ordered by
	// display order.
	ListProviders(ctx context.Context) ([]domain.ShippingProvider, error)
}

// CatalogCache keeps a short-lived snapshot of the catalog so repeated quotes
// do not hit the backing store.
type CatalogCache interface {
	// Get returns domain.ErrCacheMiss when no snapshot is stored.
	Get(ctx context.Context) ([]domain.ShippingProvider, error)
	Set(ctx context.Context, providers []domain.ShippingProvider) error
}
