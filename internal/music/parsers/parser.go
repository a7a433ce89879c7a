package parsers

import (
	"io"
	"time"

	"github.com/auroramusic/aurora/internal/music/sources"
)

// Track is the unit of playback. Position tracks the current offset so a
// stream can be reopened mid-track (seek, recovery).
type Track struct {
	URL           string
	Title         string
	Artist        string
	Duration      time.Duration
	Position      time.Duration
	CurrentParser string
	Requester     string
	LocalPath     string // set when the audio was pre-downloaded
	SourceInfo    sources.TrackInfo
}

// Streamer turns a track into a 48kHz stereo s16le PCM stream.
// Link mode hands ffmpeg a direct media URL; pipe mode feeds the media
// bytes through stdin.
type Streamer interface {
	GetLinkStream(track *Track, seekSec float64) (io.ReadCloser, func(), error)
	GetPipeStream(track *Track, seekSec float64) (io.ReadCloser, func(), error)
	SupportsPipe() bool
}

// Settings carries optional extraction knobs shared by all parsers.
// Configure is called once at startup before any stream is opened.
type Settings struct {
	CookiesPath string
	ProxyURL    string
}

var settings Settings

func Configure(s Settings) {
	settings = s
}

func CurrentSettings() Settings {
	return settings
}
