package stream

import (
	"testing"
	"time"
)

func TestClampVolume(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{5, MinVolume},
		{10, 10},
		{100, 100},
		{200, 200},
		{250, MaxVolume},
		{-1, MinVolume},
	}
	for _, tt := range tests {
		if got := ClampVolume(tt.in); got != tt.want {
			t.Errorf("ClampVolume(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestControls(t *testing.T) {
	c := NewControls(500)
	if c.Volume() != MaxVolume {
		t.Errorf("volume = %d, want clamped to %d", c.Volume(), MaxVolume)
	}

	c.SetPaused(true)
	if !c.Paused() {
		t.Error("expected paused")
	}

	c.SetElapsed(30 * time.Second)
	c.addFrame(frameDuration)
	if got := c.Elapsed(); got != 30*time.Second+frameDuration {
		t.Errorf("elapsed = %v", got)
	}
}

func TestScaleSample(t *testing.T) {
	if got := scaleSample(1000, 100); got != 1000 {
		t.Errorf("unity volume changed sample: %d", got)
	}
	if got := scaleSample(1000, 50); got != 500 {
		t.Errorf("half volume = %d, want 500", got)
	}
	if got := scaleSample(30000, 200); got != 32767 {
		t.Errorf("clipping high = %d, want 32767", got)
	}
	if got := scaleSample(-30000, 200); got != -32768 {
		t.Errorf("clipping low = %d, want -32768", got)
	}
}
