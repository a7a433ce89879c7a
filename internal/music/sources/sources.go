package sources

import "time"

const (
	SourceYouTube = "youtube"
	SourceSpotify = "spotify"
	SourceStream  = "stream"
)

// TrackInfo describes a resolved (or resolvable) track. Entries coming
// from Spotify playlists carry NeedsConversion and a search query instead
// of a playable URL; conversion happens when the track is about to play.
type TrackInfo struct {
	URL              string
	Title            string
	Artist           string
	Duration         time.Duration
	SourceName       string
	AvailableParsers []string
	NeedsConversion  bool
	ConversionQuery  string
}

type Source interface {
	// Match checks if this source can handle the given input
	Match(input string) bool

	// Resolve turns an input into one or more playable tracks
	Resolve(input string, selectedParser string) ([]TrackInfo, error)

	// SourceName returns the string identifier ("youtube", "spotify", ...)
	SourceName() string

	// AvailableParsers returns the list of parsers supported by this source
	AvailableParsers() []string
}
