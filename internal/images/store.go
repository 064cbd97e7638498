package images

import (
	"fmt"
	"os"
	"path/filepath"
)

// imagesDir is the subdirectory of a job work dir that holds normalized
// images.
const imagesDir = "images"

// Store writes normalized image bytes under the job work dir and returns
// the reference path relative to that dir. The assembler embeds images by
// reference so a large archive never holds every photo in memory at once.
type Store struct {
	workDir string
	next    int
}

// NewStore creates a Store rooted at the given job work dir.
func NewStore(workDir string) *Store {
	return &Store{workDir: workDir}
}

// Put persists one image and returns its relative reference.
func (s *Store) Put(data []byte) (string, error) {
	dir := filepath.Join(s.workDir, imagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}

	s.next++
	ref := filepath.Join(imagesDir, fmt.Sprintf("%04d.jpg", s.next))
	if err := os.WriteFile(filepath.Join(s.workDir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return ref, nil
}
