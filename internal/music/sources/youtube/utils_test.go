package youtube

import (
	"reflect"
	"testing"
)

func TestCleanVideoURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips tracking params",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=RDdQw4w9WgXcQ&index=1",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			"short link keeps only id",
			"https://youtu.be/dQw4w9WgXcQ?t=43",
			"https://youtu.be/dQw4w9WgXcQ",
		},
		{
			"shorts rewritten to watch",
			"https://www.youtube.com/shorts/dQw4w9WgXcQ",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			"music host preserved",
			"https://music.youtube.com/watch?v=dQw4w9WgXcQ&feature=share",
			"https://music.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			"non-youtube passthrough",
			"https://example.com/watch?v=abc",
			"https://example.com/watch?v=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanVideoURL(tt.in); got != tt.want {
				t.Errorf("CleanVideoURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsYouTubeURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
	}
	for _, u := range valid {
		if !isYouTubeURL(u) {
			t.Errorf("isYouTubeURL(%q) = false, want true", u)
		}
	}

	if isYouTubeURL("https://soundcloud.com/artist/track") {
		t.Error("soundcloud URL must not match")
	}
}

func TestIsYouTubePlaylistURL(t *testing.T) {
	if !isYouTubePlaylistURL("https://www.youtube.com/playlist?list=PLx") {
		t.Error("playlist URL not detected")
	}
	if isYouTubePlaylistURL("https://www.youtube.com/watch?v=abc&list=PLx") {
		t.Error("watch URL with list param is not a playlist page")
	}
}

func TestMoveToFront(t *testing.T) {
	got := MoveToFront([]string{"a", "b", "c"}, "c")
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MoveToFront = %v, want %v", got, want)
	}

	same := MoveToFront([]string{"a", "b"}, "a")
	if !reflect.DeepEqual(same, []string{"a", "b"}) {
		t.Errorf("MoveToFront no-op failed: %v", same)
	}
}
