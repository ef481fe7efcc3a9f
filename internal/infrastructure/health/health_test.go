package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChecker_AllHealthy(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("mongodb", func(context.Context) error { return nil })
	c.Register("redis", func(context.Context) error { return nil })

	r := c.Check(context.Background())

	if !r.Healthy() {
		t.Fatalf("expected ok, got %+v", r)
	}
	if len(r.Dependencies) != 2 {
		t.Errorf("expected 2 dependencies, got %d", len(r.Dependencies))
	}
}

func TestChecker_OneFailureDegrades(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("postgres", func(context.Context) error { return nil })
	c.Register("redis", func(context.Context) error { return errors.New("connection refused") })

	r := c.Check(context.Background())

	if r.Status != StatusDegraded {
		t.Fatalf("expected degraded, got %q", r.Status)
	}
	if got := r.Dependencies["redis"]; got.Status != StatusUnhealthy || got.Error != "connection refused" {
		t.Errorf("unexpected redis status %+v", got)
	}
	if got := r.Dependencies["postgres"]; got.Status != StatusOK {
		t.Errorf("unexpected postgres status %+v", got)
	}
}

func TestChecker_ProbesShareTimeout(t *testing.T) {
	c := NewChecker(10 * time.Millisecond)
	c.Register("mongodb", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	r := c.Check(context.Background())

	if r.Dependencies["mongodb"].Error != context.DeadlineExceeded.Error() {
		t.Fatalf("expected deadline exceeded, got %+v", r.Dependencies["mongodb"])
	}
}

func TestChecker_NoProbes(t *testing.T) {
	r := NewChecker(0).Check(context.Background())
	if !r.Healthy() || len(r.Dependencies) != 0 {
		t.Fatalf("expected empty ok report, got %+v", r)
	}
}

func TestReport_NamesSorted(t *testing.T) {
	r := Report{Dependencies: map[string]DependencyStatus{"redis": {}, "mongodb": {}, "postgres": {}}}
	got := r.Names()
	if len(got) != 3 || got[0] != "mongodb" || got[1] != "postgres" || got[2] != "redis" {
		t.Fatalf("unexpected order %v", got)
	}
}
