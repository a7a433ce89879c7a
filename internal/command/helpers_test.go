package command

import (
	"testing"
	"time"

	"github.com/auroramusic/aurora/internal/music/parsers"
)

func TestParsePosition(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"90", 90 * time.Second, false},
		{"1:30", 90 * time.Second, false},
		{"01:02:03", time.Hour + 2*time.Minute + 3*time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{" 45 ", 45 * time.Second, false},
		{"-5", 0, true},
		{"1:2:3:4", 0, true},
		{"1:xx", 0, true},
		{"potato", 0, true},
	}
	for _, tc := range cases {
		got, err := parsePosition(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parsePosition(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePosition(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parsePosition(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFmtDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{5 * time.Second, "0:05"},
		{90 * time.Second, "1:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range cases {
		if got := fmtDuration(tc.in); got != tc.want {
			t.Errorf("fmtDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrackLine(t *testing.T) {
	cases := []struct {
		track parsers.Track
		want  string
	}{
		{parsers.Track{Title: "Song", URL: "https://x"}, "[Song](https://x)"},
		{parsers.Track{Title: "Song", Artist: "Band", URL: "https://x"}, "[Band - Song](https://x)"},
		{parsers.Track{Title: "Song"}, "Song"},
		{parsers.Track{URL: "https://x"}, "https://x"},
		{parsers.Track{}, "Unknown track"},
	}
	for _, tc := range cases {
		if got := trackLine(tc.track); got != tc.want {
			t.Errorf("trackLine(%+v) = %q, want %q", tc.track, got, tc.want)
		}
	}
}

func TestRegistryAliases(t *testing.T) {
	registry = map[string]Command{}
	Register(&SkipCommand{})

	if _, ok := Get("skip"); !ok {
		t.Error("skip should be registered under its name")
	}
	if _, ok := Get("next"); !ok {
		t.Error("skip should be registered under its alias")
	}
	if got := len(All()); got != 1 {
		t.Errorf("All() returned %d commands, want 1 (aliases deduplicated)", got)
	}
}
