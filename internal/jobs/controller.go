package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/cookbook/internal/home"
	"github.com/jackzampolin/cookbook/internal/render"
)

// Options carries the pipeline tunables the controller passes down to its
// stages.
type Options struct {
	// CategoryPriority is the ordered list of canonical categories that
	// chapter first, in this order.
	CategoryPriority []string

	// MaxImageWidth and JPEGQuality parameterize image normalization.
	MaxImageWidth int
	JPEGQuality   int
}

// Controller owns job submission and the status/result reads. It never
// blocks a caller on pipeline work: Submit registers the job and hands the
// run to the pool; Status and Result only read registry state.
type Controller struct {
	registry Registry
	pool     *Pool
	renderer render.Renderer
	home     *home.Dir
	opts     Options
	logger   *slog.Logger
}

// NewController wires a controller.
func NewController(registry Registry, pool *Pool, renderer render.Renderer, homeDir *home.Dir, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		registry: registry,
		pool:     pool,
		renderer: renderer,
		home:     homeDir,
		opts:     opts,
		logger:   logger.With("component", "jobs"),
	}
}

// Submit persists the uploaded archive, registers a queued job, and
// enqueues its pipeline run. It returns the job id immediately.
func (c *Controller) Submit(archive io.Reader, displayName string) (string, error) {
	id := uuid.NewString()
	workDir := c.home.JobDir(id)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}

	archivePath := filepath.Join(workDir, "archive.zip")
	if err := writeFileFrom(archivePath, archive); err != nil {
		os.RemoveAll(workDir)
		return "", fmt.Errorf("store archive: %w", err)
	}

	c.registry.Put(Job{
		ID:          id,
		Status:      StatusQueued,
		Message:     "Waiting for a worker",
		CreatedAt:   time.Now().UTC(),
		WorkDir:     workDir,
		ArchivePath: archivePath,
	})

	if err := c.pool.Submit(func(ctx context.Context) { c.run(ctx, id, displayName) }); err != nil {
		c.registry.Delete(id)
		os.RemoveAll(workDir)
		return "", err
	}

	c.logger.Info("job submitted", "job_id", id, "name", displayName)
	return id, nil
}

// Status returns a snapshot of the job. ErrJobNotFound covers unknown and
// already-evicted ids alike.
func (c *Controller) Status(id string) (Job, error) {
	job, ok := c.registry.Get(id)
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

// Result returns the artifact path once the job is complete.
func (c *Controller) Result(id string) (Job, error) {
	job, ok := c.registry.Get(id)
	if !ok {
		return Job{}, ErrJobNotFound
	}
	if job.Status != StatusComplete {
		return Job{}, ErrJobNotReady
	}
	return job, nil
}

func writeFileFrom(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
