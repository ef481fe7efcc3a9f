package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
	"github.com/borneomart/shipping-quote/internal/infrastructure/catalog"
)

const listProvidersSQL = `
SELECT id::text, code, name, logo_url, is_active, services, display_order
FROM shipping_providers
ORDER BY display_order, code`

// ProviderRepository implements ports.ProviderRepository over the
// shipping_providers table, whose services column is JSONB.
type ProviderRepository struct {
	pool      *pgxpool.Pool
	sanitizer *catalog.Sanitizer
}

var _ ports.ProviderRepository = (*ProviderRepository)(nil)

func NewProviderRepository(pool *pgxpool.Pool, sanitizer *catalog.Sanitizer) *ProviderRepository {
	return &ProviderRepository{pool: pool, sanitizer: sanitizer}
}

func (r *ProviderRepository) ListProviders(ctx context.Context) ([]domain.ShippingProvider, error) {
	rows, err := r.pool.Query(ctx, listProvidersSQL)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	providers, err := pgx.CollectRows(rows, scanProvider)
	if err != nil {
		return nil, fmt.Errorf("scan providers: %w", err)
	}
	clean, _ := r.sanitizer.Sanitize(providers)
	return clean, nil
}

func scanProvider(row pgx.CollectableRow) (domain.ShippingProvider, error) {
	var (
		p        domain.ShippingProvider
		services []byte
	)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.LogoURL, &p.IsActive, &services, &p.DisplayOrder); err != nil {
		return p, err
	}
	var err error
	p.Services, err = decodeServices(services)
	if err != nil {
		return p, fmt.Errorf("provider %s: %w", p.Code, err)
	}
	return p, nil
}

// decodeServices parses the JSONB services column. NULL means no services.
func decodeServices(raw []byte) ([]domain.ShippingService, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var services []domain.ShippingService
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, fmt.Errorf("%w: services column: %w", domain.ErrInvalidCatalog, err)
	}
	return services, nil
}
