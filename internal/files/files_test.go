package files

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("failed to age %s: %v", name, err)
	}
	return path
}

func TestSweepRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "old.audio", 25*time.Hour)
	fresh := writeAged(t, dir, "fresh.audio", time.Hour)

	NewCleaner(dir).Sweep()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired file should have been removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file should survive the sweep: %v", err)
	}
}

func TestSweepRemovesPartialDownloads(t *testing.T) {
	dir := t.TempDir()
	part := writeAged(t, dir, "abc.audio.part", time.Minute)

	NewCleaner(dir).Sweep()

	if _, err := os.Stat(part); !os.IsNotExist(err) {
		t.Error("partial download should have been removed")
	}
}

func TestSweepEvictsOldestPastCap(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < maxFileCount+5; i++ {
		// older files get higher indexes
		writeAged(t, dir, fmt.Sprintf("f%03d.audio", i), time.Duration(i)*time.Minute)
	}

	NewCleaner(dir).Sweep()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != maxFileCount {
		t.Fatalf("kept %d files, want %d", len(entries), maxFileCount)
	}
	for i := maxFileCount; i < maxFileCount+5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%03d.audio", i))
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("oldest file f%03d.audio should have been evicted", i)
		}
	}
}

func TestSweepMissingDir(t *testing.T) {
	NewCleaner(filepath.Join(t.TempDir(), "missing")).Sweep()
}

func TestStartAndStop(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "old.audio", 25*time.Hour)

	c := NewCleaner(dir)
	c.Start()
	defer c.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := os.Stat(old); os.IsNotExist(err) {
			return
		}
		select {
		case <-deadline:
			t.Fatal("initial sweep did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
