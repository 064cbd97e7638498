// Package home manages the cookbook home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the cookbook home directory.
	DefaultDirName = ".cookbook"

	// JobsDirName is the subdirectory holding per-job working state.
	JobsDirName = "jobs"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// LogFileName is the JSON log file written next to the config.
	LogFileName = "cookbook.log"
)

// Dir represents the cookbook home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.cookbook).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// JobsPath returns the directory that holds all job work dirs.
func (d *Dir) JobsPath() string {
	return filepath.Join(d.path, JobsDirName)
}

// JobDir returns the work dir for one job: uploaded archive, normalized
// images, rendered markup, and the final artifact all live here, so
// eviction is a single RemoveAll.
func (d *Dir) JobDir(jobID string) string {
	return filepath.Join(d.JobsPath(), jobID)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// LogPath returns the path to the JSON log file.
func (d *Dir) LogPath() string {
	return filepath.Join(d.path, LogFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.JobsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create jobs directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
