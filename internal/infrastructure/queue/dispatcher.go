package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/borneomart/shipping-quote/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 64
)

// Result pairs a batch request with its quote or error. Index is the
// request's position in the submitted batch.
type Result struct {
	Index int          `json:"index"`
	ID    string       `json:"id"`
	Quote *ports.Quote `json:"quote,omitempty"`
	Err   string       `json:"error,omitempty"`
}

type job struct {
	index int
	req   ports.QuoteRequest
}

// Dispatcher prices a batch of quote requests on a fixed set of workers.
// Requests are sharded by id, so repeated ids land on the same worker in
// submission order.
type Dispatcher struct {
	numWorkers int
	service    ports.QuoteService
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.QuoteService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{numWorkers: numWorkers, service: service, log: log}
}

// Run quotes every request and returns results in request order. It blocks
// until all workers finish; requests not started before ctx is cancelled
// are reported with the context error.
func (d *Dispatcher) Run(ctx context.Context, reqs []ports.QuoteRequest) []Result {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results
	}

	workers := make([]chan job, min(d.numWorkers, len(reqs)))
	for i := range workers {
		workers[i] = make(chan job, channelBuffer)
	}

	var wg sync.WaitGroup
	for i, ch := range workers {
		i, ch := i, ch
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runWorker(ctx, i, ch, results)
		}()
	}

	for i, req := range reqs {
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		workers[d.shardIndex(req.ID, len(workers))] <- job{index: i, req: req}
	}
	for _, ch := range workers {
		close(ch)
	}
	wg.Wait()

	return results
}

// shardIndex maps a request id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(n))
}

// runWorker drains ch until it is closed. Each job writes only its own slot
// of results.
func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job, results []Result) {
	for j := range ch {
		res := Result{Index: j.index, ID: j.req.ID}
		if err := ctx.Err(); err != nil {
			res.Err = err.Error()
			results[j.index] = res
			continue
		}

		q, err := d.service.Quote(ctx, j.req)
		if err != nil {
			d.log.Error().Err(err).
				Str("quote_id", j.req.ID).
				Int("worker_id", id).
				Msg("batch quote failed")
			res.Err = err.Error()
		} else {
			res.Quote = q
		}
		results[j.index] = res
	}
}
