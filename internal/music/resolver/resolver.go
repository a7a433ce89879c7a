package resolver

import (
	"errors"
	"log"
	"strings"

	"github.com/auroramusic/aurora/internal/music/sources"
	"github.com/auroramusic/aurora/internal/music/sources/spotify"
	"github.com/auroramusic/aurora/internal/music/sources/stream"
	"github.com/auroramusic/aurora/internal/music/sources/youtube"
)

// Resolver routes an input string to the source that can handle it.
// Free-text queries go to YouTube search; unmatched URLs fall back to the
// direct-stream source.
type Resolver struct {
	youtube *youtube.YouTubeSource
	spotify *spotify.SpotifySource
	stream  *stream.StreamSource

	Sources map[string]sources.Source
}

// New builds a Resolver. Spotify support is enabled only when credentials
// are provided; without them Spotify links resolve to an error.
func New(spotifyClientID, spotifyClientSecret string) *Resolver {
	youtubeSource := youtube.New()
	streamSource := stream.New()

	r := &Resolver{
		youtube: youtubeSource,
		stream:  streamSource,
		Sources: map[string]sources.Source{
			youtubeSource.SourceName(): youtubeSource,
			streamSource.SourceName():  streamSource,
		},
	}

	if spotifyClientID != "" && spotifyClientSecret != "" {
		spotifySource, err := spotify.New(spotifyClientID, spotifyClientSecret, youtubeSource)
		if err != nil {
			log.Printf("[WARN] Spotify source disabled: %v", err)
		} else {
			r.spotify = spotifySource
			r.Sources[spotifySource.SourceName()] = spotifySource
		}
	}

	return r
}

func (r *Resolver) Resolve(input, selectedSource, selectedParser string) ([]sources.TrackInfo, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty input")
	}

	// Direct source selection
	if selectedSource != "" {
		src, ok := r.Sources[selectedSource]
		if !ok {
			return nil, errors.New("unknown source: " + selectedSource)
		}
		if !isURL(input) && selectedSource != sources.SourceYouTube {
			return nil, errors.New("title search is only supported on " + sources.SourceYouTube)
		}
		if isURL(input) && !src.Match(input) {
			return nil, errors.New("input does not match selected source: " + selectedSource)
		}
		return src.Resolve(input, selectedParser)
	}

	// Automatic detection: free text is a YouTube search.
	if !isURL(input) {
		return r.youtube.Resolve(input, selectedParser)
	}

	if r.youtube.Match(input) {
		return r.youtube.Resolve(input, selectedParser)
	}
	if r.spotify != nil && r.spotify.Match(input) {
		return r.spotify.Resolve(input, selectedParser)
	}
	if strings.Contains(input, "open.spotify.com/") {
		return nil, errors.New("spotify support is not configured")
	}

	// Anything else gets a shot as a direct stream.
	return r.stream.Resolve(input, selectedParser)
}

// Convert fills in a playable URL for a lazily-resolved entry.
func (r *Resolver) Convert(info *sources.TrackInfo) error {
	if !info.NeedsConversion {
		return nil
	}
	if info.SourceName == sources.SourceSpotify && r.spotify != nil {
		return r.spotify.Convert(info)
	}

	videoURL, err := r.youtube.SearchFirstVideoURL(info.ConversionQuery)
	if err != nil {
		return err
	}
	info.URL = videoURL
	info.NeedsConversion = false
	return nil
}

// SearchRelated finds a follow-up video for autoplay, skipping excluded URLs.
func (r *Resolver) SearchRelated(query string, exclude []string) (string, error) {
	return r.youtube.SearchRelatedVideoURL(query, exclude)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
