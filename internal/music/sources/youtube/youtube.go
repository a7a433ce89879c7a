package youtube

import (
	"errors"
	"slices"
	"strings"

	"github.com/auroramusic/aurora/internal/music/parsers/ytdlp"
	source "github.com/auroramusic/aurora/internal/music/sources"
)

const SourceYouTube string = "youtube"

type YouTubeSource struct {
	resolver *Resolver
}

func New() *YouTubeSource {
	return &YouTubeSource{
		resolver: NewResolver(),
	}
}

func (y *YouTubeSource) Match(input string) bool {
	return isYouTubeURL(input)
}

func (y *YouTubeSource) Resolve(input string, selectedParser string) ([]source.TrackInfo, error) {
	parsers := y.AvailableParsers()

	if selectedParser == "" {
		selectedParser = parsers[0]
	}
	if !slices.Contains(parsers, selectedParser) {
		return nil, errors.New(SourceYouTube + " source does not support " + selectedParser + " parser")
	}
	parsers = MoveToFront(parsers, selectedParser)

	input = strings.TrimSpace(input)

	if isYouTubePlaylistURL(input) {
		// Flat extraction sees the whole playlist; the page scrape only
		// covers the first rendered chunk, so it stays a fallback.
		urls, err := ytdlp.PlaylistVideoURLs(input)
		if err != nil {
			urls, err = y.resolver.ExtractPlaylistVideos(input)
			if err != nil {
				return nil, err
			}
		}
		tracks := make([]source.TrackInfo, 0, len(urls))
		for _, u := range urls {
			tracks = append(tracks, source.TrackInfo{
				URL:              u,
				SourceName:       SourceYouTube,
				AvailableParsers: parsers,
			})
		}
		return tracks, nil
	}

	// direct video URL
	if isYouTubeVideoURL(input) {
		return []source.TrackInfo{
			{
				URL:              CleanVideoURL(input),
				SourceName:       SourceYouTube,
				AvailableParsers: parsers,
			},
		}, nil
	}

	if isURL(input) {
		return nil, errors.New("invalid YouTube URL format")
	}

	// by title
	videoURL, err := y.resolver.SearchFirstVideoURL(input)
	if err != nil {
		return nil, errors.New("could not find YouTube video for query")
	}

	return []source.TrackInfo{
		{
			URL:              videoURL,
			Title:            input,
			SourceName:       SourceYouTube,
			AvailableParsers: parsers,
		},
	}, nil
}

func (y *YouTubeSource) SourceName() string {
	return SourceYouTube
}

func (y *YouTubeSource) AvailableParsers() []string {
	return []string{"kkdai-link", "kkdai-pipe", "ytdlp-link", "ytdlp-pipe"}
}

// SearchFirstVideoURL exposes title search for conversion and autoplay.
func (y *YouTubeSource) SearchFirstVideoURL(query string) (string, error) {
	return y.resolver.SearchFirstVideoURL(query)
}

// SearchRelatedVideoURL finds a video for the query whose URL differs from
// every excluded URL. Used by autoplay to avoid replaying the same track.
func (y *YouTubeSource) SearchRelatedVideoURL(query string, exclude []string) (string, error) {
	urls, err := y.resolver.SearchVideoURLs(query)
	if err != nil {
		return "", err
	}
	for _, u := range urls {
		if !slices.Contains(exclude, CleanVideoURL(u)) {
			return u, nil
		}
	}
	return "", ErrNoVideoMatch
}
