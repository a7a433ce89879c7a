package player

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/auroramusic/aurora/internal/music/parsers"
	"github.com/auroramusic/aurora/internal/music/sources"
	"github.com/auroramusic/aurora/internal/storage"
)

func TestNextLoopMode(t *testing.T) {
	if got := NextLoopMode(LoopOff); got != LoopTrack {
		t.Errorf("NextLoopMode(off) = %q, want %q", got, LoopTrack)
	}
	if got := NextLoopMode(LoopTrack); got != LoopQueue {
		t.Errorf("NextLoopMode(track) = %q, want %q", got, LoopQueue)
	}
	if got := NextLoopMode(LoopQueue); got != LoopOff {
		t.Errorf("NextLoopMode(queue) = %q, want %q", got, LoopOff)
	}
	if got := NextLoopMode(LoopMode("bogus")); got != LoopOff {
		t.Errorf("NextLoopMode(bogus) = %q, want %q", got, LoopOff)
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)

	if p.Volume() != 100 {
		t.Errorf("default volume = %d, want 100", p.Volume())
	}
	if p.LoopMode() != LoopOff {
		t.Errorf("default loop mode = %q, want %q", p.LoopMode(), LoopOff)
	}
	if p.Autoplay() {
		t.Error("autoplay should default to off")
	}
	if p.IsPlaying() || p.IsPaused() {
		t.Error("new player should be idle")
	}
}

func TestNewRestoresPersistedSettings(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "aurora.json"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer store.Close()

	if err := store.SetVolume("guild1", 60); err != nil {
		t.Fatalf("failed to set volume: %v", err)
	}
	if err := store.SetLoopMode("guild1", string(LoopQueue)); err != nil {
		t.Fatalf("failed to set loop mode: %v", err)
	}
	if err := store.SetAutoplay("guild1", true); err != nil {
		t.Fatalf("failed to set autoplay: %v", err)
	}

	p := New(nil, "guild1", store, nil, nil)

	if p.Volume() != 60 {
		t.Errorf("restored volume = %d, want 60", p.Volume())
	}
	if p.LoopMode() != LoopQueue {
		t.Errorf("restored loop mode = %q, want %q", p.LoopMode(), LoopQueue)
	}
	if !p.Autoplay() {
		t.Error("restored autoplay should be on")
	}
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "aurora.json"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer store.Close()

	p := New(nil, "guild1", store, nil, nil)

	if got := p.SetVolume(500); got != 200 {
		t.Errorf("SetVolume(500) = %d, want clamp to 200", got)
	}
	if got := p.SetVolume(0); got != 10 {
		t.Errorf("SetVolume(0) = %d, want clamp to 10", got)
	}
	if got := p.AdjustVolume(15); got != 25 {
		t.Errorf("AdjustVolume(+15) = %d, want 25", got)
	}

	persisted, err := store.GetVolume("guild1")
	if err != nil {
		t.Fatalf("failed to read back volume: %v", err)
	}
	if persisted != 25 {
		t.Errorf("persisted volume = %d, want 25", persisted)
	}
}

func TestShuffleKeepsQueueContents(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)
	p.queue = []parsers.Track{
		{URL: "u1", Title: "one"},
		{URL: "u2", Title: "two"},
		{URL: "u3", Title: "three"},
	}

	if n := p.Shuffle(); n != 3 {
		t.Fatalf("Shuffle() = %d, want 3", n)
	}

	seen := map[string]bool{}
	for _, track := range p.Queue() {
		seen[track.URL] = true
	}
	for _, url := range []string{"u1", "u2", "u3"} {
		if !seen[url] {
			t.Errorf("track %q missing after shuffle", url)
		}
	}
}

func TestClearQueue(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)
	p.queue = []parsers.Track{{URL: "u1"}, {URL: "u2"}}

	if n := p.ClearQueue(); n != 2 {
		t.Errorf("ClearQueue() = %d, want 2", n)
	}
	if len(p.Queue()) != 0 {
		t.Error("queue should be empty after ClearQueue")
	}
}

func TestUpcomingURLsSkipsUnconverted(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)
	p.queue = []parsers.Track{
		{URL: "https://youtube.com/watch?v=a"},
		{SourceInfo: sources.TrackInfo{NeedsConversion: true, ConversionQuery: "song artist"}},
		{URL: "https://youtube.com/watch?v=b"},
	}

	urls := p.UpcomingURLs()
	want := []string{"https://youtube.com/watch?v=a", "https://youtube.com/watch?v=b"}
	if len(urls) != len(want) {
		t.Fatalf("UpcomingURLs() returned %d urls, want %d", len(urls), len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestControlsErrorsWhenIdle(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)

	if err := p.Pause(); !errors.Is(err, ErrNoTrackPlaying) {
		t.Errorf("Pause() on idle player = %v, want %v", err, ErrNoTrackPlaying)
	}
	if err := p.Resume(); !errors.Is(err, ErrNoTrackPlaying) {
		t.Errorf("Resume() on idle player = %v, want %v", err, ErrNoTrackPlaying)
	}
	if err := p.Skip(); !errors.Is(err, ErrNoTrackPlaying) {
		t.Errorf("Skip() on idle player = %v, want %v", err, ErrNoTrackPlaying)
	}
	if err := p.Previous(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Previous() with no history = %v, want %v", err, ErrNoHistory)
	}
	if _, err := p.CurrentTrack(); !errors.Is(err, ErrNoTrackPlaying) {
		t.Errorf("CurrentTrack() on idle player = %v, want %v", err, ErrNoTrackPlaying)
	}
}

func TestResumeNotPaused(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)
	p.current = &parsers.Track{Title: "one"}
	p.playing = true

	if err := p.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Errorf("Resume() while playing = %v, want %v", err, ErrNotPaused)
	}
}

func TestSeekValidation(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)

	if err := p.Seek(10 * time.Second); !errors.Is(err, ErrNoTrackPlaying) {
		t.Errorf("Seek() on idle player = %v, want %v", err, ErrNoTrackPlaying)
	}

	p.current = &parsers.Track{Title: "one", Duration: time.Minute}
	if err := p.Seek(2 * time.Minute); err == nil {
		t.Error("Seek() past the track's end should fail")
	}
}

// startFakePlayback puts p into a playing state backed by a goroutine
// that terminates when the session's stop channel closes, the way the
// real playback loop does.
func startFakePlayback(p *Player) {
	sess := newPlaybackSession()
	p.mu.Lock()
	p.session = sess
	p.playing = true
	p.current = &parsers.Track{Title: "fake"}
	p.mu.Unlock()

	go func() {
		<-sess.stop
		close(sess.done)
	}()
}

func TestStopConcurrentAndRepeated(t *testing.T) {
	p := New(nil, "guild1", nil, nil, nil)

	for cycle := 0; cycle < 3; cycle++ {
		startFakePlayback(p)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = p.Stop(true)
			}()
		}
		wg.Wait()

		if p.IsPlaying() {
			t.Fatalf("cycle %d: player still playing after Stop", cycle)
		}
	}

	// stopping an already idle player must not panic either
	if err := p.Stop(true); err != nil {
		t.Errorf("Stop(true) on idle player = %v, want nil", err)
	}
}

func TestStatusStringEmoji(t *testing.T) {
	if StatusPlaying.StringEmoji() == "" {
		t.Error("StatusPlaying should map to an emoji")
	}
	if Status("unknown").StringEmoji() != "" {
		t.Error("unknown status should map to an empty string")
	}
}
