package controller

import (
	"testing"
	"time"

	"github.com/auroramusic/aurora/internal/music/parsers"
)

func TestIsControllerComponent(t *testing.T) {
	for _, id := range []string{IDPrevious, IDPlayPause, IDSkip, IDStop, IDVolumeDown, IDVolumeUp, IDLoop, IDShuffle, IDAutoplay} {
		if !IsControllerComponent(id) {
			t.Errorf("%s should be recognized as a controller component", id)
		}
	}
	if IsControllerComponent("confess_button") {
		t.Error("foreign custom IDs should not match")
	}
}

func TestCooldown(t *testing.T) {
	m := NewManager(nil, nil, nil)

	if m.onCooldown("g1", "u1") {
		t.Error("first press should pass")
	}
	if !m.onCooldown("g1", "u1") {
		t.Error("immediate second press should be blocked")
	}
	if m.onCooldown("g1", "u2") {
		t.Error("cooldown is per user")
	}
	if m.onCooldown("g2", "u1") {
		t.Error("cooldown is per guild")
	}

	m.mu.Lock()
	m.cooldowns["g1:u1"] = time.Now().Add(-2 * buttonCooldown)
	m.mu.Unlock()
	if m.onCooldown("g1", "u1") {
		t.Error("press after the cooldown window should pass")
	}
}

func TestTrackLink(t *testing.T) {
	got := trackLink(parsers.Track{Title: "Song", Artist: "Band", URL: "https://x"})
	if got != "[Band - Song](https://x)" {
		t.Errorf("trackLink = %q", got)
	}
	if trackLink(parsers.Track{}) != "Unknown track" {
		t.Error("empty track should render a placeholder")
	}
}

func TestTrackDetail(t *testing.T) {
	track := parsers.Track{Requester: "42"}
	track.SourceInfo.SourceName = "youtube"
	if got := trackDetail(track); got != "youtube · requested by <@42>" {
		t.Errorf("trackDetail = %q", got)
	}
	if trackDetail(parsers.Track{}) != "" {
		t.Error("tracks without metadata should render no detail line")
	}
}
