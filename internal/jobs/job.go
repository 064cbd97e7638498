// Package jobs owns the cookbook job lifecycle: submission, the background
// pipeline run, progress publication, status/result reads, and eviction.
//
// One job is one asynchronous run of the full pipeline for one submitted
// archive. A job's mutable fields are written only by its own pipeline run
// (and the eviction sweep, once the job is terminal); any number of status
// pollers read concurrently through the registry.
package jobs

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

var (
	// ErrJobNotFound is returned for unknown (or already evicted) job ids.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotReady is returned when the artifact is requested before the
	// job reaches the complete state.
	ErrJobNotReady = errors.New("job not ready")

	// ErrQueueFull is returned by Submit when the run queue is at capacity.
	ErrQueueFull = errors.New("job queue full")
)

// Job tracks one submitted archive through the pipeline.
//
// Progress is advisory: monotonically non-decreasing while the job is not
// terminal, reaching 100 only on complete.
type Job struct {
	ID           string    `json:"id"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	WorkDir      string    `json:"-"`
	ArchivePath  string    `json:"-"`
	ArtifactPath string    `json:"-"` // set only on complete
	MarkupPath   string    `json:"-"` // rendered HTML kept next to the PDF
	Error        string    `json:"error,omitempty"`
}
