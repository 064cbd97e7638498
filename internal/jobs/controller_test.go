package jobs

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackzampolin/cookbook/internal/home"
)

// stubRenderer writes a placeholder artifact instead of driving a browser.
type stubRenderer struct {
	fail bool
}

func (s *stubRenderer) Render(ctx context.Context, htmlPath, pdfPath string) error {
	if s.fail {
		return errors.New("render blew up")
	}
	return os.WriteFile(pdfPath, []byte("%PDF-1.4 stub"), 0o644)
}

// recordingRegistry captures every job snapshot after an update so tests can
// check progress behavior over the whole run.
type recordingRegistry struct {
	*MemoryRegistry
	mu        sync.Mutex
	snapshots []Job
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{MemoryRegistry: NewMemoryRegistry()}
}

func (r *recordingRegistry) Update(id string, fn func(*Job)) {
	r.MemoryRegistry.Update(id, fn)
	if j, ok := r.MemoryRegistry.Get(id); ok {
		r.mu.Lock()
		r.snapshots = append(r.snapshots, j)
		r.mu.Unlock()
	}
}

func (r *recordingRegistry) Snapshots() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Job, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

func archiveWith(t *testing.T, recipes map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range recipes {
		w, err := zw.Create(name + ".paprikarecipe")
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		gz := gzip.NewWriter(w)
		if _, err := gz.Write([]byte(body)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("close gzip: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func emptyArchive(t *testing.T) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("readme.txt"); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func testController(t *testing.T, registry Registry, renderer *stubRenderer) *Controller {
	t.Helper()

	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("ensure home: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pool := NewPool(PoolConfig{Workers: 1, QueueSize: 4})
	go pool.Start(ctx)

	return NewController(registry, pool, renderer, h, Options{
		CategoryPriority: []string{"Soups", "Desserts"},
	}, nil)
}

func waitTerminal(t *testing.T, registry Registry, id string) Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if job, ok := registry.Get(id); ok && job.Status.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return Job{}
}

func TestControllerLifecycle(t *testing.T) {
	registry := newRecordingRegistry()
	c := testController(t, registry, &stubRenderer{})

	id, err := c.Submit(archiveWith(t, map[string]string{
		"soup":  `{"name":"Minestrone","categories":["Soups"],"ingredients":"Beans","directions":"Simmer"}`,
		"cake":  `{"name":"Cake","categories":["Desserts"]}`,
		"toast": `{"name":"Toast"}`,
	}), "Avery")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Result before completion is a distinct error from not-found.
	if _, err := c.Result(id); !errors.Is(err, ErrJobNotReady) {
		t.Errorf("expected ErrJobNotReady mid-run, got %v", err)
	}

	job := waitTerminal(t, registry, id)
	if job.Status != StatusComplete {
		t.Fatalf("expected complete, got %s (%s)", job.Status, job.Error)
	}
	if job.Progress != 100 {
		t.Errorf("complete job must report progress 100, got %d", job.Progress)
	}
	if job.ArtifactPath == "" || job.MarkupPath == "" {
		t.Fatalf("expected artifact and markup paths, got %+v", job)
	}
	if _, err := os.Stat(job.ArtifactPath); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
	if _, err := os.Stat(job.MarkupPath); err != nil {
		t.Errorf("markup missing: %v", err)
	}

	// Progress never decreases, and 100 appears only on the final snapshot.
	prev := -1
	for i, snap := range registry.Snapshots() {
		if snap.Progress < prev {
			t.Fatalf("progress regressed at snapshot %d: %d -> %d", i, prev, snap.Progress)
		}
		if snap.Progress == 100 && snap.Status != StatusComplete {
			t.Fatalf("progress hit 100 before completion (status %s)", snap.Status)
		}
		prev = snap.Progress
	}

	got, err := c.Result(id)
	if err != nil {
		t.Fatalf("result after completion: %v", err)
	}
	if got.ArtifactPath != job.ArtifactPath {
		t.Errorf("result artifact mismatch")
	}
}

func TestControllerEmptyArchiveFails(t *testing.T) {
	registry := NewMemoryRegistry()
	c := testController(t, registry, &stubRenderer{})

	id, err := c.Submit(emptyArchive(t), "Avery")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	job := waitTerminal(t, registry, id)
	if job.Status != StatusError {
		t.Fatalf("expected error state, got %s", job.Status)
	}
	if job.Error == "" {
		t.Error("expected a failure reason")
	}
	if job.Progress == 100 {
		t.Error("failed job must not report progress 100")
	}

	if _, err := c.Result(id); !errors.Is(err, ErrJobNotReady) {
		t.Errorf("expected ErrJobNotReady for failed job, got %v", err)
	}
}

func TestControllerRenderFailure(t *testing.T) {
	registry := NewMemoryRegistry()
	c := testController(t, registry, &stubRenderer{fail: true})

	id, err := c.Submit(archiveWith(t, map[string]string{
		"soup": `{"name":"Minestrone"}`,
	}), "Avery")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	job := waitTerminal(t, registry, id)
	if job.Status != StatusError {
		t.Fatalf("expected error state, got %s", job.Status)
	}
}

func TestControllerStatusUnknown(t *testing.T) {
	c := testController(t, NewMemoryRegistry(), &stubRenderer{})

	if _, err := c.Status("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := c.Result("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestControllerQueueFull(t *testing.T) {
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("ensure home: %v", err)
	}

	registry := NewMemoryRegistry()
	// Pool is never started; one slot fills the queue.
	pool := NewPool(PoolConfig{Workers: 1, QueueSize: 1})
	c := NewController(registry, pool, &stubRenderer{}, h, Options{}, nil)

	if _, err := c.Submit(archiveWith(t, map[string]string{"a": `{"name":"A"}`}), "x"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err = c.Submit(archiveWith(t, map[string]string{"b": `{"name":"B"}`}), "x")
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	// The rejected submission leaves no registry entry behind.
	if registry.Len() != 1 {
		t.Errorf("expected 1 registered job, got %d", registry.Len())
	}
}

func TestArtifactBase(t *testing.T) {
	if got := artifactBase("0123456789abcdef"); got != "Cookbook_01234567" {
		t.Errorf("unexpected artifact base %q", got)
	}
	if got := artifactBase("abc"); got != "Cookbook_abc" {
		t.Errorf("short ids pass through, got %q", got)
	}
}

func TestSweeperEvictsWorkDir(t *testing.T) {
	registry := NewMemoryRegistry()

	workDir := t.TempDir()
	marker := fmt.Sprintf("%s/archive.zip", workDir)
	if err := os.WriteFile(marker, []byte("zip"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	registry.Put(Job{
		ID:        "old",
		Status:    StatusComplete,
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		WorkDir:   workDir,
	})
	registry.Put(Job{
		ID:        "busy",
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	})

	s := NewSweeper(registry, time.Hour, time.Minute, nil)
	s.SweepOnce()

	if _, ok := registry.Get("old"); ok {
		t.Error("expected expired job evicted from registry")
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("expected work dir removed, stat err = %v", err)
	}
	if _, ok := registry.Get("busy"); !ok {
		t.Error("in-flight job must survive eviction")
	}
}
