package stream

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/auroramusic/aurora/internal/music/parsers"
	"github.com/auroramusic/aurora/internal/music/parsers/ffmpeg"
	"github.com/auroramusic/aurora/internal/music/parsers/kkdai"
	"github.com/auroramusic/aurora/internal/music/parsers/ytdlp"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

var StreamersRegistry = map[string]parsers.Streamer{
	"ytdlp-link":  &ytdlp.YTDLPStreamer{},
	"ytdlp-pipe":  &ytdlp.YTDLPStreamer{},
	"kkdai-link":  &kkdai.KKDAIStreamer{},
	"kkdai-pipe":  &kkdai.KKDAIStreamer{},
	"ffmpeg-link": &ffmpeg.FFMPEGStreamer{},
}

func isPipeMode(parser string) bool {
	return parser == "ytdlp-pipe" || parser == "kkdai-pipe"
}

type TrackStream struct {
	io.ReadCloser
	track  *parsers.Track
	parser string
}

func (m *TrackStream) GetTrack() *parsers.Track {
	return m.track
}

func (m *TrackStream) GetParser() string {
	return m.parser
}

func OpenStream(track *parsers.Track, parser string, seekSec float64) (*TrackStream, func(), error) {
	var (
		r       io.ReadCloser
		cleanup func()
		err     error
	)

	streamer, ok := StreamersRegistry[parser]
	if !ok {
		return nil, nil, fmt.Errorf("streamer not found for parser: %v", parser)
	}

	if isPipeMode(parser) && streamer.SupportsPipe() {
		r, cleanup, err = streamer.GetPipeStream(track, seekSec)
	} else {
		r, cleanup, err = streamer.GetLinkStream(track, seekSec)
	}

	if err != nil {
		return nil, nil, err
	}

	stream := &TrackStream{
		ReadCloser: r,
		track:      track,
		parser:     parser,
	}

	return stream, cleanup, nil
}

// AutoOpenStream walks the track's parsers until one of them opens.
// A pre-downloaded local file short-circuits straight to ffmpeg.
func AutoOpenStream(track *parsers.Track, seekSec float64) (*TrackStream, func(), error) {
	if track.LocalPath != "" {
		if _, err := os.Stat(track.LocalPath); err == nil {
			stream, cleanup, err := OpenStream(track, "ffmpeg-link", seekSec)
			if err == nil {
				track.CurrentParser = "ffmpeg-link"
				return stream, cleanup, nil
			}
			log.Printf("[WARN] Local file playback failed for %q: %v, falling back to remote", track.Title, err)
		}
		track.LocalPath = ""
	}

	var errs []error
	for _, parser := range track.SourceInfo.AvailableParsers {
		stream, cleanup, err := OpenStream(track, parser, seekSec)
		if err == nil {
			track.CurrentParser = parser
			return stream, cleanup, nil
		}

		errs = append(errs, fmt.Errorf("parser %s failed: %w", parser, err))
		log.Printf("[WARN] Parser %s failed for track %q: %v, trying next parser...", parser, track.Title, err)
	}

	var combined string
	for _, e := range errs {
		combined += e.Error() + "; "
	}

	return nil, nil, fmt.Errorf("all parsers failed for track %q: %s", track.Title, combined)
}
