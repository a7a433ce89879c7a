package ytdlp

import "testing"

func TestParsePlaylistEntries(t *testing.T) {
	output := []byte(`{"id":"abc12345678","title":"First"}
{"url":"https://www.youtube.com/watch?v=def12345678","title":"Second"}
not json
{"title":"no url or id"}
`)

	urls := parsePlaylistEntries(output)
	want := []string{
		"https://www.youtube.com/watch?v=abc12345678",
		"https://www.youtube.com/watch?v=def12345678",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestParsePlaylistEntriesEmpty(t *testing.T) {
	if urls := parsePlaylistEntries(nil); len(urls) != 0 {
		t.Errorf("empty output should yield no urls, got %v", urls)
	}
}
