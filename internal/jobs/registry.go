package jobs

import (
	"sync"
	"time"
)

// Registry is the shared job table. It is injected into the controller,
// the sweeper, and the HTTP surface rather than living in a package-level
// variable, so tests can supply their own.
//
// Reads return snapshots: a status poll never observes a half-applied
// update.
type Registry interface {
	// Get returns a snapshot of the job, if present.
	Get(id string) (Job, bool)

	// Put inserts or replaces a job entry.
	Put(job Job)

	// Update applies fn to the stored entry under the registry lock.
	// It is a no-op for unknown ids.
	Update(id string, fn func(*Job))

	// Delete removes a job entry.
	Delete(id string)

	// Sweep removes terminal jobs created before the cutoff and returns
	// their final snapshots so the caller can delete on-disk state.
	// Non-terminal jobs are never swept; their worker still owns them.
	Sweep(cutoff time.Time) []Job

	// Len returns the number of tracked jobs.
	Len() int
}

// MemoryRegistry is the process-local Registry used in production. Jobs
// are ephemeral by design; nothing survives a restart.
type MemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{jobs: make(map[string]*Job)}
}

func (r *MemoryRegistry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (r *MemoryRegistry) Put(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = &job
}

func (r *MemoryRegistry) Update(id string, fn func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		fn(j)
	}
}

func (r *MemoryRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

func (r *MemoryRegistry) Sweep(cutoff time.Time) []Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []Job
	for id, j := range r.jobs {
		if j.Status.Terminal() && j.CreatedAt.Before(cutoff) {
			removed = append(removed, *j)
			delete(r.jobs, id)
		}
	}
	return removed
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
