// Package ffmpeg decodes direct media links (radio stations, HLS
// playlists, pre-downloaded local files) into PCM without an extractor.
package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/auroramusic/aurora/internal/music/parsers"
)

const (
	channels   = 2
	sampleRate = 48000
)

type FFMPEGStreamer struct{}

func (s *FFMPEGStreamer) GetLinkStream(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	input := track.URL
	if track.LocalPath != "" {
		input = track.LocalPath
	}
	return ffmpegLink(input, seekSec)
}

func (s *FFMPEGStreamer) GetPipeStream(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	return nil, nil, errors.New("pipe streaming not supported")
}

func (s *FFMPEGStreamer) SupportsPipe() bool {
	return false
}

func ffmpegLink(input string, seekSec float64) (io.ReadCloser, func(), error) {
	args := []string{"-ss", fmt.Sprintf("%.3f", seekSec)}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	args = append(args,
		"-i", input,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	cmd := exec.Command("ffmpeg", args...)

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		cmd.Process.Kill()
	}

	return reader, cleanup, nil
}
