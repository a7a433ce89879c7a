// Package files keeps the download directory from growing without bound.
// Cached audio files age out after a day, and the directory is capped at a
// fixed file count with the oldest files evicted first.
package files

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	maxFileAge   = 24 * time.Hour
	maxFileCount = 100
	sweepEvery   = time.Hour
)

// Cleaner periodically sweeps a directory of cached audio files.
type Cleaner struct {
	dir  string
	stop chan struct{}
}

// NewCleaner creates a Cleaner for dir. Call Start to begin sweeping.
func NewCleaner(dir string) *Cleaner {
	return &Cleaner{
		dir:  dir,
		stop: make(chan struct{}),
	}
}

// Start sweeps immediately and then on a fixed interval until Stop is
// called.
func (c *Cleaner) Start() {
	go func() {
		c.Sweep()

		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Stop ends the sweep loop.
func (c *Cleaner) Stop() {
	close(c.stop)
}

type cachedFile struct {
	path    string
	modTime time.Time
}

// Sweep removes expired files, then evicts the oldest files past the
// count cap. Partial downloads are always removed.
func (c *Cleaner) Sweep() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] Failed to read download dir %s: %v", c.dir, err)
		}
		return
	}

	now := time.Now()
	var kept []cachedFile

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if filepath.Ext(entry.Name()) == ".part" || now.Sub(info.ModTime()) > maxFileAge {
			c.remove(path)
			continue
		}
		kept = append(kept, cachedFile{path: path, modTime: info.ModTime()})
	}

	if len(kept) <= maxFileCount {
		return
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].modTime.Before(kept[j].modTime)
	})
	for _, f := range kept[:len(kept)-maxFileCount] {
		c.remove(f.path)
	}
}

func (c *Cleaner) remove(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("[WARN] Failed to remove cached file %s: %v", path, err)
		return
	}
	log.Printf("[INFO] Removed cached file %s", path)
}
