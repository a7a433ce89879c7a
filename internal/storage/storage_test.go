package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGuildRecordDefaults(t *testing.T) {
	s := newTestStorage(t)

	volume, err := s.GetVolume("guild1")
	if err != nil {
		t.Fatalf("GetVolume: %v", err)
	}
	if volume != 100 {
		t.Errorf("default volume = %d, want 100", volume)
	}

	mode, err := s.GetLoopMode("guild1")
	if err != nil {
		t.Fatalf("GetLoopMode: %v", err)
	}
	if mode != "off" {
		t.Errorf("default loop mode = %q, want \"off\"", mode)
	}

	autoplay, err := s.GetAutoplay("guild1")
	if err != nil {
		t.Fatalf("GetAutoplay: %v", err)
	}
	if autoplay {
		t.Error("autoplay should default to false")
	}
}

func TestControllerBinding(t *testing.T) {
	s := newTestStorage(t)

	if _, err := s.GetController("guild1"); err == nil {
		t.Fatal("expected error for unset controller")
	}

	want := Controller{ChannelID: "chan1", MessageID: "msg1"}
	if err := s.SetController("guild1", want); err != nil {
		t.Fatalf("SetController: %v", err)
	}

	got, err := s.GetController("guild1")
	if err != nil {
		t.Fatalf("GetController: %v", err)
	}
	if got.ChannelID != want.ChannelID || got.MessageID != want.MessageID {
		t.Errorf("GetController = %+v, want %+v", got, want)
	}

	if err := s.ClearController("guild1"); err != nil {
		t.Fatalf("ClearController: %v", err)
	}
	if _, err := s.GetController("guild1"); err == nil {
		t.Fatal("expected error after ClearController")
	}
}

func TestTrackHistoryCap(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < trackHistoryLimit+10; i++ {
		err := s.AppendTrackToHistory("guild1", TrackHistoryRecord{
			Title:    "track",
			URL:      "https://example.com",
			PlayedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendTrackToHistory: %v", err)
		}
	}

	history, err := s.FetchTrackHistory("guild1")
	if err != nil {
		t.Fatalf("FetchTrackHistory: %v", err)
	}
	if len(history) != trackHistoryLimit {
		t.Errorf("history length = %d, want %d", len(history), trackHistoryLimit)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SetVolume("guild1", 150); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	volume, err := s2.GetVolume("guild1")
	if err != nil {
		t.Fatalf("GetVolume: %v", err)
	}
	if volume != 150 {
		t.Errorf("volume after reopen = %d, want 150", volume)
	}
}
