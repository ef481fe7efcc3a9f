package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/borneomart/shipping-quote/internal/core/domain"
)

// Catalog backends.
const (
	BackendFile     = "file"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Catalog  CatalogConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Quote    QuoteConfig
}

type CatalogConfig struct {
	Backend string `env:"CATALOG_BACKEND, default=file"`
	File    string `env:"CATALOG_FILE,    default=providers.yaml"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=storefront"`
	Collection  string        `env:"MONGO_COLLECTION,    default=shipping_providers"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=10"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

// RedisConfig enables the catalog cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,          default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE,   default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,     default=5s"`
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL, default=5m"`
}

type QuoteConfig struct {
	Workers            int    `env:"QUOTE_WORKERS,        default=8"`
	PostalCodeFallback bool   `env:"POSTAL_CODE_FALLBACK, default=false"`
	MetricsFile        string `env:"METRICS_FILE"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Catalog.Backend = strings.ToLower(strings.TrimSpace(cfg.Catalog.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("config: CATALOG_FILE is required for the file backend")
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("config: MONGO_URI is required for the mongo backend")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: %w %q", domain.ErrUnknownBackend, c.Catalog.Backend)
	}
	if c.Quote.Workers <= 0 {
		return fmt.Errorf("config: QUOTE_WORKERS must be positive, got %d", c.Quote.Workers)
	}
	return nil
}

// CacheEnabled reports whether a Redis catalog cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}
