package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepOnceRemovesOnlyStaleEntries(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "1700000000-old.jpg")
	fresh := filepath.Join(dir, "1800000000-new.jpg")
	for _, path := range []string{stale, fresh} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	NewSweeper(time.Hour, dir).SweepOnce()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale upload not swept")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh upload must survive: %v", err)
	}
}

func TestSweepOnceRemovesStaleFrameDirs(t *testing.T) {
	dir := t.TempDir()
	frameDir := filepath.Join(dir, "frames-abc123")
	if err := os.Mkdir(frameDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(frameDir, "frame_0.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(frameDir, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	NewSweeper(30*time.Minute, dir).SweepOnce()

	if _, err := os.Stat(frameDir); !os.IsNotExist(err) {
		t.Fatalf("stale frame dir not swept")
	}
}

func TestSweepMissingDirIsQuiet(t *testing.T) {
	NewSweeper(time.Hour, filepath.Join(t.TempDir(), "absent")).SweepOnce()
}
