// Package precache downloads upcoming queue tracks to local disk ahead of
// playback, so the player can stream them without hitting the network.
package precache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/auroramusic/aurora/internal/music/parsers/ytdlp"
)

const (
	// rescanEvery is how often a guild's queue is re-examined for
	// tracks worth downloading.
	rescanEvery = 30 * time.Second

	// downloadInterval paces downloads across all guilds so a burst of
	// large playlists does not saturate the host.
	downloadInterval = 5 * time.Second
)

// QueueSource exposes the URLs a guild is about to play.
type QueueSource interface {
	UpcomingURLs() []string
}

// Cache manages per-guild background download jobs and answers lookups
// from the player.
type Cache struct {
	dir     string
	limiter *rate.Limiter

	// download is swappable for tests.
	download func(ctx context.Context, url, destPath string) error

	mu   sync.Mutex
	jobs map[string]context.CancelFunc
}

// New creates a Cache rooted at dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}
	return &Cache{
		dir:      dir,
		limiter:  rate.NewLimiter(rate.Every(downloadInterval), 1),
		download: ytdlp.Download,
		jobs:     make(map[string]context.CancelFunc),
	}, nil
}

// Dir returns the cache's download directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Lookup reports the local file for a track URL, if it has been fully
// downloaded.
func (c *Cache) Lookup(url string) (string, bool) {
	path := c.pathFor(url)
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Watch starts a background job that keeps the head of the guild's queue
// downloaded. Calling it again for a running guild is a no-op.
func (c *Cache) Watch(guildID string, queue QueueSource) {
	c.mu.Lock()
	if _, exists := c.jobs[guildID]; exists {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.jobs[guildID] = cancel
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.jobs, guildID)
			c.mu.Unlock()
		}()

		ticker := time.NewTicker(rescanEvery)
		defer ticker.Stop()

		c.pass(ctx, guildID, queue)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.pass(ctx, guildID, queue)
			}
		}
	}()
}

// Stop cancels the guild's download job if one is running.
func (c *Cache) Stop(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cancel, ok := c.jobs[guildID]; ok {
		cancel()
		delete(c.jobs, guildID)
	}
}

// StopAll cancels every running download job.
func (c *Cache) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for guildID, cancel := range c.jobs {
		cancel()
		delete(c.jobs, guildID)
	}
}

// Active returns the guild IDs with running download jobs.
func (c *Cache) Active() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.jobs))
	for guildID := range c.jobs {
		out = append(out, guildID)
	}
	return out
}

// pass downloads the missing head of the queue, up to the depth the queue
// size warrants.
func (c *Cache) pass(ctx context.Context, guildID string, queue QueueSource) {
	urls := queue.UpcomingURLs()
	depth := cacheDepth(len(urls))
	if depth > len(urls) {
		depth = len(urls)
	}

	for _, url := range urls[:depth] {
		if _, ok := c.Lookup(url); ok {
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		dest := c.pathFor(url)
		tmp := dest + ".part"
		if err := c.download(ctx, url, tmp); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] Pre-cache download failed for guild %s url %s: %v", guildID, url, err)
			os.Remove(tmp)
			continue
		}
		if err := os.Rename(tmp, dest); err != nil {
			log.Printf("[WARN] Pre-cache rename failed for %s: %v", tmp, err)
			os.Remove(tmp)
			continue
		}
		log.Printf("[INFO] Pre-cached track for guild %s: %s", guildID, url)
	}
}

// cacheDepth decides how far ahead to download: short queues get a small
// head start, long queues a deeper one.
func cacheDepth(queueLen int) int {
	switch {
	case queueLen <= 5:
		return 2
	case queueLen <= 20:
		return 3
	default:
		return 5
	}
}

// pathFor derives a stable on-disk name from the track URL.
func (c *Cache) pathFor(url string) string {
	sum := sha1.Sum([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".audio")
}
