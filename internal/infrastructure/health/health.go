// Package health checks the connectivity of the catalog's backing stores.
package health

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	defaultTimeout = 3 * time.Second
)

// Probe checks a single dependency.
type Probe func(ctx context.Context) error

type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Report struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Healthy reports whether every dependency answered.
func (r Report) Healthy() bool {
	return r.Status == StatusOK
}

// Names returns the dependency names in a stable order.
func (r Report) Names() []string {
	names := make([]string, 0, len(r.Dependencies))
	for name := range r.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Checker struct {
	probes  map[string]Probe
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Checker{probes: make(map[string]Probe), timeout: timeout}
}

// Register adds a named probe. A later probe with the same name replaces
// the earlier one.
func (c *Checker) Register(name string, p Probe) {
	c.probes[name] = p
}

// Check runs every probe under one shared timeout. With no probes
// registered the report is ok.
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	deps := make(map[string]DependencyStatus, len(c.probes))
	healthy := true

	for name, probe := range c.probes {
		if err := probe(ctx); err != nil {
			deps[name] = DependencyStatus{Status: StatusUnhealthy, Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = DependencyStatus{Status: StatusOK}
	}

	status := StatusOK
	if !healthy {
		status = StatusDegraded
	}
	return Report{Status: status, Dependencies: deps}
}

// MongoProbe pings the server, then runs a ping command against db.
func MongoProbe(db *mongo.Database) Probe {
	return func(ctx context.Context) error {
		if err := db.Client().Ping(ctx, nil); err != nil {
			return err
		}
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}
}

func PostgresProbe(pool *pgxpool.Pool) Probe {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

func RedisProbe(client redis.Cmdable) Probe {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
