package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/borneomart/shipping-quote/internal/core/ports"
	"github.com/borneomart/shipping-quote/internal/core/service"
	"github.com/borneomart/shipping-quote/internal/infrastructure/catalog"
	"github.com/borneomart/shipping-quote/internal/infrastructure/config"
	mongodb "github.com/borneomart/shipping-quote/internal/infrastructure/db/mongo"
	"github.com/borneomart/shipping-quote/internal/infrastructure/db/postgres"
	redisdb "github.com/borneomart/shipping-quote/internal/infrastructure/db/redis"
	"github.com/borneomart/shipping-quote/internal/infrastructure/health"
	"github.com/borneomart/shipping-quote/internal/infrastructure/metrics"
	"github.com/borneomart/shipping-quote/pkg/logger"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	service ports.QuoteService
	cache   *redisdb.CatalogCache
	health  *health.Checker
	log     zerolog.Logger
	closers []func()
}

// newApp connects the configured catalog backend and, when REDIS_ADDR is
// set, the catalog cache.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{
		health: health.NewChecker(0),
		log:    logger.Component("app"),
	}
	sanitizer := catalog.NewSanitizer(logger.Component("catalog"))

	var repo ports.ProviderRepository
	switch cfg.Catalog.Backend {
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			Timeout:     cfg.Mongo.Timeout,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
		a.health.Register("mongodb", health.MongoProbe(db))
		repo = mongodb.NewProviderRepository(db, cfg.Mongo.Collection, sanitizer)
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.health.Register("postgres", health.PostgresProbe(pool))
		repo = postgres.NewProviderRepository(pool, sanitizer)
	default:
		repo = catalog.NewFileRepository(cfg.Catalog.File, sanitizer)
	}

	var cache ports.CatalogCache
	if cfg.CacheEnabled() {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.health.Register("redis", health.RedisProbe(client))
		a.cache = redisdb.NewCatalogCache(client, cfg.Redis.CacheTTL)
		cache = a.cache
	}

	var opts []service.DetectorOption
	if cfg.Quote.PostalCodeFallback {
		opts = append(opts, service.WithPostalCodeFallback())
	}

	a.service = service.NewQuoteService(
		repo,
		cache,
		metrics.Observer{},
		service.NewRegionDetector(opts...),
		logger.Component("quote"),
	)

	a.log.Debug().
		Str("backend", cfg.Catalog.Backend).
		Bool("cache", cfg.CacheEnabled()).
		Bool("postal_code_fallback", cfg.Quote.PostalCodeFallback).
		Msg("app ready")
	return a, nil
}

// close releases connections in reverse order of creation.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
