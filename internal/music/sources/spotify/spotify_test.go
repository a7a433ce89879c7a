package spotify

import "testing"

func TestParseSpotifyURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantKind string
		wantID   string
		wantErr  bool
	}{
		{
			"track link",
			"https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT?si=abc123",
			"track", "4cOdK2wGLETKBW3PvgPWqT", false,
		},
		{
			"playlist link",
			"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			"playlist", "37i9dQZF1DXcBWIGoYBM5M", false,
		},
		{
			"album link",
			"https://open.spotify.com/album/6dVIqQ8qmQ5GBnJ9shOYGE",
			"album", "6dVIqQ8qmQ5GBnJ9shOYGE", false,
		},
		{
			"locale segment",
			"https://open.spotify.com/intl-fr/track/4cOdK2wGLETKBW3PvgPWqT",
			"track", "4cOdK2wGLETKBW3PvgPWqT", false,
		},
		{
			"artist link unsupported",
			"https://open.spotify.com/artist/0OdUWJ0sBjDrqHygGUXeCF",
			"", "", true,
		},
		{
			"not a spotify path",
			"https://open.spotify.com/",
			"", "", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, id, err := parseSpotifyURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got kind=%q id=%q", kind, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSpotifyURL: %v", err)
			}
			if kind != tt.wantKind || id != tt.wantID {
				t.Errorf("parseSpotifyURL = (%q, %q), want (%q, %q)", kind, id, tt.wantKind, tt.wantID)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	s := &SpotifySource{}
	if !s.Match("https://open.spotify.com/track/abc") {
		t.Error("spotify link must match")
	}
	if s.Match("https://www.youtube.com/watch?v=abc") {
		t.Error("youtube link must not match")
	}
}

func TestSearchQuery(t *testing.T) {
	if got := searchQuery("Song", "Artist"); got != "Song Artist" {
		t.Errorf("searchQuery = %q", got)
	}
	if got := searchQuery("Song", ""); got != "Song" {
		t.Errorf("searchQuery without artist = %q", got)
	}
}
