package jobs

import (
	"context"
	"log/slog"
	"os"
	"time"
)

const (
	// DefaultRetention is how long a job's registry entry and on-disk
	// state are kept, measured from creation regardless of outcome.
	DefaultRetention = time.Hour

	// DefaultSweepInterval is how often the sweeper scans the registry.
	DefaultSweepInterval = 5 * time.Minute
)

// Sweeper evicts expired jobs: registry entry plus the whole work dir
// (archive, images, markup, artifact). It only touches terminal jobs, so
// it can never race a pipeline run's writes to the same entry.
type Sweeper struct {
	registry  Registry
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewSweeper creates a sweeper. Non-positive durations fall back to the
// defaults.
func NewSweeper(registry Registry, retention, interval time.Duration, logger *slog.Logger) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		registry:  registry,
		retention: retention,
		interval:  interval,
		logger:    logger.With("component", "sweeper"),
	}
}

// Run sweeps on a fixed interval until the context is cancelled. Call it
// in a goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce evicts every terminal job older than the retention window.
func (s *Sweeper) SweepOnce() {
	removed := s.registry.Sweep(time.Now().UTC().Add(-s.retention))
	for _, job := range removed {
		if job.WorkDir != "" {
			if err := os.RemoveAll(job.WorkDir); err != nil {
				s.logger.Warn("failed to remove job work dir", "job_id", job.ID, "error", err)
			}
		}
		s.logger.Info("job evicted", "job_id", job.ID, "status", job.Status, "age", time.Since(job.CreatedAt).Round(time.Second))
	}
}
