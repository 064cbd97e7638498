package jobs

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackzampolin/cookbook/internal/assemble"
	"github.com/jackzampolin/cookbook/internal/categorize"
	"github.com/jackzampolin/cookbook/internal/extract"
	"github.com/jackzampolin/cookbook/internal/images"
)

// Progress checkpoints. Values are advisory; the only hard rules are
// monotonicity and that 100 appears only on complete.
const (
	progressExtractStart = 5
	progressExtractEnd   = 50
	progressImagesEnd    = 70
	progressSorting      = 75
	progressAssembling   = 85
	progressRendering    = 90
)

// progressEvent is one update flowing from the pipeline run to the
// registry. The run emits events on a channel and a drainer goroutine
// applies them, so polling only ever reads last-known state.
type progressEvent struct {
	progress int
	message  string
}

// run drives one job through the pipeline. It is the only writer of the
// job's mutable fields until it reaches a terminal state, exactly once.
func (c *Controller) run(ctx context.Context, id, displayName string) {
	logger := c.logger.With("job_id", id)

	job, ok := c.registry.Get(id)
	if !ok {
		logger.Warn("job vanished before run start")
		return
	}

	events := make(chan progressEvent, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range events {
			c.registry.Update(id, func(j *Job) {
				if j.Status.Terminal() {
					return
				}
				j.Status = StatusProcessing
				if ev.progress > j.Progress {
					j.Progress = ev.progress
				}
				if ev.message != "" {
					j.Message = ev.message
				}
			})
		}
	}()

	artifact, markup, err := c.execute(ctx, &job, displayName, events)
	close(events)
	<-drained

	if err != nil {
		logger.Error("job failed", "error", err)
		c.registry.Update(id, func(j *Job) {
			if j.Status.Terminal() {
				return
			}
			j.Status = StatusError
			j.Error = err.Error()
			j.Message = "Failed"
		})
		return
	}

	logger.Info("job complete", "artifact", artifact)
	c.registry.Update(id, func(j *Job) {
		if j.Status.Terminal() {
			return
		}
		j.Status = StatusComplete
		j.Progress = 100
		j.Message = "Cookbook ready"
		j.ArtifactPath = artifact
		j.MarkupPath = markup
	})
}

// execute runs the pipeline stages in order and returns the artifact and
// markup paths. Stage errors abort the job; per-record and per-image
// problems are handled inside the stages and never surface here.
func (c *Controller) execute(ctx context.Context, job *Job, displayName string, events chan<- progressEvent) (string, string, error) {
	logger := c.logger.With("job_id", job.ID)

	events <- progressEvent{progressExtractStart, "Reading archive"}
	zr, err := zip.OpenReader(job.ArchivePath)
	if err != nil {
		return "", "", fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	extractor := extract.New(logger)
	recipes, skipped, err := extractor.Extract(&zr.Reader, func(done, total int) {
		p := progressExtractStart + (progressExtractEnd-progressExtractStart)*done/total
		events <- progressEvent{p, fmt.Sprintf("Extracting recipes (%d/%d)", done, total)}
	})
	if err != nil {
		return "", "", err
	}
	if skipped > 0 {
		logger.Warn("some entries skipped", "skipped", skipped, "extracted", len(recipes))
	}

	events <- progressEvent{progressExtractEnd, "Processing images"}
	normalizer := images.NewNormalizer(c.opts.MaxImageWidth, c.opts.JPEGQuality, logger)
	store := images.NewStore(job.WorkDir)
	withImages := 0
	for i := range recipes {
		if len(recipes[i].ImageData) == 0 {
			continue
		}
		ref, err := store.Put(normalizer.Normalize(recipes[i].ImageData))
		if err != nil {
			// Best-effort, like normalization itself: the card just
			// renders without its photo.
			logger.Warn("image store failed", "recipe", recipes[i].Name, "error", err)
		} else {
			recipes[i].ImageRef = ref
			withImages++
		}
		recipes[i].ImageData = nil
		p := progressExtractEnd + (progressImagesEnd-progressExtractEnd)*(i+1)/len(recipes)
		events <- progressEvent{p, "Processing images"}
	}
	logger.Debug("images normalized", "with_images", withImages, "recipes", len(recipes))

	events <- progressEvent{progressSorting, "Sorting recipes"}
	for i := range recipes {
		recipes[i].Category = categorize.Primary(recipes[i].Categories, c.opts.CategoryPriority)
	}

	events <- progressEvent{progressAssembling, "Assembling cookbook"}
	doc := assemble.Assemble(recipes, displayName, c.opts.CategoryPriority)
	markupPath := filepath.Join(job.WorkDir, artifactBase(job.ID)+".html")
	if err := os.WriteFile(markupPath, []byte(assemble.Markup(doc)), 0o644); err != nil {
		return "", "", fmt.Errorf("write markup: %w", err)
	}

	events <- progressEvent{progressRendering, "Rendering PDF"}
	artifactPath := filepath.Join(job.WorkDir, artifactBase(job.ID)+".pdf")
	if err := c.renderer.Render(ctx, markupPath, artifactPath); err != nil {
		return "", "", fmt.Errorf("render: %w", err)
	}

	return artifactPath, markupPath, nil
}

// artifactBase names the job's output files the way the download filename
// reads: Cookbook_<short id>.
func artifactBase(jobID string) string {
	short := jobID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Cookbook_" + short
}
