package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// task is one queued pipeline run.
type task func(ctx context.Context)

// Pool is a bounded worker pool for pipeline runs. All workers pull from a
// single shared queue; admission is the queue capacity — a full queue
// rejects the submission instead of spawning an unbounded goroutine per
// job.
type Pool struct {
	logger  *slog.Logger
	workers int
	queue   chan task

	inFlight atomic.Int32
}

// PoolConfig configures a new pool.
type PoolConfig struct {
	Logger    *slog.Logger
	Workers   int // worker goroutines (default 2)
	QueueSize int // queued runs beyond in-flight ones (default 32)
}

// NewPool creates a pool. Call Start before submitting.
func NewPool(cfg PoolConfig) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 32
	}

	return &Pool{
		logger:  logger.With("component", "pool", "workers", workers),
		workers: workers,
		queue:   make(chan task, queueSize),
	}
}

// Start launches the workers and blocks until the context is cancelled.
// Call it in a goroutine.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("job pool started")
	for i := 0; i < p.workers; i++ {
		go p.worker(ctx, i)
	}
	<-ctx.Done()
	p.logger.Info("job pool stopping")
}

// Submit enqueues a run. Returns ErrQueueFull when the queue is at
// capacity.
func (p *Pool) Submit(t task) error {
	select {
	case p.queue <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// InFlight returns the number of runs currently executing.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// QueueDepth returns the number of queued, not yet started runs.
func (p *Pool) QueueDepth() int {
	return len(p.queue)
}

func (p *Pool) worker(ctx context.Context, id int) {
	logger := p.logger.With("worker", id)
	logger.Debug("worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker stopping")
			return
		case t := <-p.queue:
			p.inFlight.Add(1)
			t(ctx)
			p.inFlight.Add(-1)
		}
	}
}
