package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
	"github.com/borneomart/shipping-quote/internal/infrastructure/catalog"
)

const defaultCollection = "shipping_providers"

// ProviderRepository implements ports.ProviderRepository over a collection
// holding one document per provider with its services embedded.
type ProviderRepository struct {
	col       *mongo.Collection
	sanitizer *catalog.Sanitizer
}

var _ ports.ProviderRepository = (*ProviderRepository)(nil)

func NewProviderRepository(db *mongo.Database, collection string, sanitizer *catalog.Sanitizer) *ProviderRepository {
	if collection == "" {
		collection = defaultCollection
	}
	return &ProviderRepository{col: db.Collection(collection), sanitizer: sanitizer}
}

// ListProviders reads every provider ordered by display_order.
func (r *ProviderRepository) ListProviders(ctx context.Context) ([]domain.ShippingProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find providers: %w", err)
	}
	defer cur.Close(ctx)

	var providers []domain.ShippingProvider
	if err := cur.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}

	clean, _ := r.sanitizer.Sanitize(providers)
	return clean, nil
}
