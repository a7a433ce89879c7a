package precache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

type staticQueue struct {
	urls []string
}

func (q *staticQueue) UpcomingURLs() []string {
	return q.urls
}

func TestCacheDepth(t *testing.T) {
	cases := []struct {
		queueLen int
		want     int
	}{
		{0, 2},
		{3, 2},
		{5, 2},
		{6, 3},
		{20, 3},
		{21, 5},
		{100, 5},
	}
	for _, tc := range cases {
		if got := cacheDepth(tc.queueLen); got != tc.want {
			t.Errorf("cacheDepth(%d) = %d, want %d", tc.queueLen, got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	cache, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	url := "https://youtube.com/watch?v=abc"
	if _, ok := cache.Lookup(url); ok {
		t.Error("Lookup should miss before a download")
	}

	if err := os.WriteFile(cache.pathFor(url), []byte("audio"), 0o644); err != nil {
		t.Fatalf("failed to seed cache file: %v", err)
	}
	path, ok := cache.Lookup(url)
	if !ok {
		t.Fatal("Lookup should hit after the file exists")
	}
	if path != cache.pathFor(url) {
		t.Errorf("Lookup path = %q, want %q", path, cache.pathFor(url))
	}

	// empty files are treated as failed downloads
	empty := "https://youtube.com/watch?v=def"
	if err := os.WriteFile(cache.pathFor(empty), nil, 0o644); err != nil {
		t.Fatalf("failed to seed empty file: %v", err)
	}
	if _, ok := cache.Lookup(empty); ok {
		t.Error("Lookup should miss on an empty file")
	}
}

func TestPathForIsStable(t *testing.T) {
	cache, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	url := "https://youtube.com/watch?v=abc"
	if cache.pathFor(url) != cache.pathFor(url) {
		t.Error("pathFor should be deterministic")
	}
	if cache.pathFor(url) == cache.pathFor(url+"x") {
		t.Error("different URLs should map to different files")
	}
}

func TestPassDownloadsQueueHead(t *testing.T) {
	cache, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	cache.limiter = rate.NewLimiter(rate.Inf, 1)

	var mu sync.Mutex
	var downloaded []string
	cache.download = func(ctx context.Context, url, destPath string) error {
		mu.Lock()
		downloaded = append(downloaded, url)
		mu.Unlock()
		return os.WriteFile(destPath, []byte("audio"), 0o644)
	}

	queue := &staticQueue{urls: []string{"u1", "u2", "u3", "u4"}}
	cache.pass(context.Background(), "guild1", queue)

	mu.Lock()
	defer mu.Unlock()
	// four queued tracks means a depth of two
	if len(downloaded) != 2 {
		t.Fatalf("downloaded %d tracks, want 2", len(downloaded))
	}
	if downloaded[0] != "u1" || downloaded[1] != "u2" {
		t.Errorf("downloaded %v, want head of queue first", downloaded)
	}

	if _, ok := cache.Lookup("u1"); !ok {
		t.Error("downloaded track should be a cache hit")
	}

	// a second pass should not re-download
	cache.pass(context.Background(), "guild1", queue)
	if len(downloaded) != 2 {
		t.Errorf("second pass re-downloaded: %v", downloaded)
	}
}

func TestWatchAndStop(t *testing.T) {
	cache, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	cache.download = func(ctx context.Context, url, destPath string) error {
		return os.WriteFile(destPath, []byte("audio"), 0o644)
	}

	cache.Watch("guild1", &staticQueue{})
	cache.Watch("guild1", &staticQueue{}) // duplicate is a no-op

	if got := len(cache.Active()); got != 1 {
		t.Fatalf("active jobs = %d, want 1", got)
	}

	cache.Stop("guild1")
	deadline := time.After(2 * time.Second)
	for len(cache.Active()) != 0 {
		select {
		case <-deadline:
			t.Fatal("job did not stop in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// stopping an unknown guild is harmless
	cache.Stop("guild2")
	cache.StopAll()
}
