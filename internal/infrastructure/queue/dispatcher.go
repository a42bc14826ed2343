package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/onedocs/tracker/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrClosed is recorded for jobs enqueued after Close.
var ErrClosed = errors.New("dispatcher closed")

// Job is a unit of work. Jobs with the same Key run on the same worker, in
// the order they were enqueued.
type Job struct {
	Key string
	Run func(ctx context.Context) error
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing
// on the job key.
type Dispatcher struct {
	workers []chan Job
	log     zerolog.Logger

	ctx     context.Context
	pending sync.WaitGroup
	mu      sync.Mutex
	errs    []error

	// sending is held for reading while a job is handed to a worker and
	// for writing by Close, so no send races a closed channel.
	sending sync.RWMutex
	closed  bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Once ctx is cancelled, queued and
// newly enqueued jobs are failed with ctx's error instead of run. Workers
// exit after Close.
func (d *Dispatcher) Start(ctx context.Context) {
	d.sending.Lock()
	d.ctx = ctx
	d.sending.Unlock()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its key.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job Job) {
	d.sending.RLock()
	defer d.sending.RUnlock()

	switch {
	case d.closed:
		d.fail(fmt.Errorf("%s: %w", job.Key, ErrClosed))
		return
	case d.ctx != nil && d.ctx.Err() != nil:
		d.fail(fmt.Errorf("%s: %w", job.Key, d.ctx.Err()))
		return
	}

	d.pending.Add(1)
	idx := d.shardIndex(job.Key)
	d.workers[idx] <- job
	metrics.JobsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple jobs preserving per-key ordering.
func (d *Dispatcher) EnqueueBatch(jobs []Job) {
	for _, j := range jobs {
		d.Enqueue(j)
	}
}

// Wait blocks until every enqueued job has finished and returns their
// failures joined together.
func (d *Dispatcher) Wait() error {
	d.pending.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.errs...)
}

// Close stops accepting jobs; workers exit after draining their queues.
func (d *Dispatcher) Close() {
	d.sending.Lock()
	defer d.sending.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	for job := range ch {
		if err := ctx.Err(); err != nil {
			d.fail(fmt.Errorf("%s: %w", job.Key, err))
			metrics.JobsProcessedTotal.WithLabelValues(job.Key, "cancelled").Inc()
			d.pending.Done()
			continue
		}
		d.run(ctx, id, job)
	}
}

func (d *Dispatcher) run(ctx context.Context, id int, job Job) {
	defer d.pending.Done()

	err := job.Run(ctx)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("key", job.Key).
			Int("worker_id", id).
			Msg("job failed")
		d.fail(fmt.Errorf("%s: %w", job.Key, err))
	}
	metrics.JobsProcessedTotal.WithLabelValues(job.Key, result).Inc()
}

func (d *Dispatcher) fail(err error) {
	d.mu.Lock()
	d.errs = append(d.errs, err)
	d.mu.Unlock()
}
