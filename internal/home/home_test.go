package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-cookbook")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-cookbook" {
			t.Errorf("expected path /tmp/test-cookbook, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestPaths(t *testing.T) {
	dir, err := New("/tmp/cb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := dir.JobsPath(); got != "/tmp/cb/jobs" {
		t.Errorf("unexpected jobs path %s", got)
	}
	if got := dir.JobDir("abc"); got != "/tmp/cb/jobs/abc" {
		t.Errorf("unexpected job dir %s", got)
	}
	if got := dir.ConfigPath(); got != "/tmp/cb/config.yaml" {
		t.Errorf("unexpected config path %s", got)
	}
	if got := dir.LogPath(); got != "/tmp/cb/cookbook.log" {
		t.Errorf("unexpected log path %s", got)
	}
}

func TestEnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "home")
	dir, err := New(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Fatal("directory should not exist yet")
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	info, err := os.Stat(dir.JobsPath())
	if err != nil || !info.IsDir() {
		t.Errorf("jobs subdirectory missing: %v", err)
	}

	// Idempotent.
	if err := dir.EnsureExists(); err != nil {
		t.Errorf("second EnsureExists: %v", err)
	}
}

func TestConfigExists(t *testing.T) {
	dir, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.ConfigExists() {
		t.Fatal("config should not exist yet")
	}
	if err := os.WriteFile(dir.ConfigPath(), []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if !dir.ConfigExists() {
		t.Error("config should be detected")
	}
}
