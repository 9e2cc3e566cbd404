// Package worker runs recompute jobs off the queue.
//
// The pool defaults to a single worker, which keeps recomputations for a
// competition strictly ordered behind one another. Running a job twice is
// harmless (recomputation is idempotent), so crash-and-retry needs no extra
// bookkeeping.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/fieldday/internal/adapters/mq/queue"
	"github.com/okian/fieldday/pkg/logger"
	"github.com/okian/fieldday/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
)

// Recomputer re-derives a competition's point records and totals.
type Recomputer interface {
	Recompute(ctx context.Context, competitionID string) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker consumes recompute jobs until stopped.
type Worker struct {
	queue      Queue
	recomputer Recomputer
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(q Queue, r Recomputer, opts ...Option) *Worker {
	w := &Worker{
		queue:      q,
		recomputer: r,
		name:       "recompute",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight job to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	err := w.recomputer.Recompute(ctx, job.CompetitionID)
	metrics.RecordRecomputeDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRecomputeError()
		w.logger.Error(ctx, "recompute failed",
			logger.String("competitionID", job.CompetitionID),
			logger.String("reason", job.Reason),
			logger.Error(err),
		)
		return
	}
	metrics.RecordRecomputeRun()
	w.logger.Debug(ctx, "recompute finished",
		logger.String("competitionID", job.CompetitionID),
		logger.String("reason", job.Reason),
	)
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
}

// NewPool creates and wires workerCount workers. Counts below one collapse
// to a single worker to preserve job ordering guarantees.
func NewPool(workerCount int, q Queue, r Recomputer) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{workers: make([]*Worker, workerCount)}
	for i := range p.workers {
		p.workers[i] = New(q, r, WithName(fmt.Sprintf("recompute-%d", i)))
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, bounding the wait per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
}
