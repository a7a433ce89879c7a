// Package ytdlp wraps the yt-dlp binary: metadata via `-j`, audio either
// as a direct media URL or piped through stdin into ffmpeg.
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/auroramusic/aurora/internal/music/parsers"
)

const (
	channels   = 2
	sampleRate = 48000
)

type YTDLPStreamer struct{}

func (s *YTDLPStreamer) GetLinkStream(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	return ytdlpLink(track, seekSec)
}
func (s *YTDLPStreamer) GetPipeStream(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	return ytdlpPipe(track, seekSec)
}
func (s *YTDLPStreamer) SupportsPipe() bool {
	return true
}

type fragment struct {
	Duration float64 `json:"duration"`
}

type format struct {
	URL       string     `json:"url"`
	Fragments []fragment `json:"fragments,omitempty"`
}

type videoInfo struct {
	Title    string   `json:"title"`
	Uploader string   `json:"uploader"`
	Duration float64  `json:"duration"`
	Formats  []format `json:"formats"`
	URL      string   `json:"url"`
}

// baseArgs appends the cookies and proxy flags configured at startup.
func baseArgs(args ...string) []string {
	s := parsers.CurrentSettings()
	if s.CookiesPath != "" {
		args = append(args, "--cookies", s.CookiesPath)
	}
	if s.ProxyURL != "" {
		args = append(args, "--proxy", s.ProxyURL)
	}
	return args
}

// fetchInfo runs `yt-dlp -j` and backfills track metadata.
func fetchInfo(track *parsers.Track) (*videoInfo, error) {
	args := baseArgs("-j", "-f", "bestaudio", track.URL)
	output, err := exec.Command("yt-dlp", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp info error: %w", err)
	}

	var info videoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	// Some extractors report duration only on the first fragment.
	if info.Duration == 0 && len(info.Formats) > 0 && len(info.Formats[0].Fragments) > 0 {
		info.Duration = info.Formats[0].Fragments[0].Duration
	}

	track.Duration = time.Duration(info.Duration * float64(time.Second))
	if track.Title == "" {
		track.Title = info.Title
	}
	if track.Artist == "" {
		track.Artist = info.Uploader
	}

	return &info, nil
}

func ffmpegDecodeLink(link string, seekSec float64) (io.ReadCloser, func(), error) {
	ffmpeg := exec.Command("ffmpeg",
		"-ss", fmt.Sprintf("%.3f", seekSec),
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", link,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		ffmpeg.Process.Kill()
	}

	return reader, cleanup, nil
}

func ytdlpLink(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	info, err := fetchInfo(track)
	if err != nil {
		return nil, nil, err
	}

	link := strings.TrimSpace(info.URL)
	if link == "" && len(info.Formats) > 0 {
		link = strings.TrimSpace(info.Formats[0].URL)
	}
	if link == "" {
		return nil, nil, fmt.Errorf("empty URL returned from yt-dlp")
	}

	return ffmpegDecodeLink(link, seekSec)
}

func ytdlpPipe(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	if _, err := fetchInfo(track); err != nil {
		return nil, nil, err
	}

	args := baseArgs("-o", "-", "-f", "bestaudio", track.URL)
	ytdlp := exec.Command("yt-dlp", args...)
	ffmpeg := exec.Command("ffmpeg",
		"-ss", fmt.Sprintf("%.3f", seekSec),
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	ffmpegIn, err := ytdlp.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp stdout pipe error: %w", err)
	}
	ffmpeg.Stdin = ffmpegIn

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("ffmpeg stdout pipe error: %w", err)
	}

	if err := ytdlp.Start(); err != nil {
		return nil, nil, fmt.Errorf("yt-dlp start error: %w", err)
	}
	if err := ffmpeg.Start(); err != nil {
		ytdlp.Process.Kill()
		return nil, nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	cleanup := func() {
		ffmpeg.Process.Kill()
		ytdlp.Process.Kill()
	}

	return reader, cleanup, nil
}

// PlaylistVideoURLs runs flat extraction over a playlist, returning the
// entry URLs without resolving each video. Flat mode sees every entry,
// not just the first rendered page, and honors cookies/proxy settings.
func PlaylistVideoURLs(playlistURL string) ([]string, error) {
	args := baseArgs("--flat-playlist", "-j", playlistURL)
	output, err := exec.Command("yt-dlp", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp playlist error: %w", err)
	}

	urls := parsePlaylistEntries(output)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no entries found in playlist")
	}
	return urls, nil
}

// parsePlaylistEntries reads the one-JSON-object-per-line output of
// `yt-dlp --flat-playlist -j`.
func parsePlaylistEntries(output []byte) []string {
	var urls []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		var entry struct {
			URL string `json:"url"`
			ID  string `json:"id"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		switch {
		case entry.URL != "":
			urls = append(urls, entry.URL)
		case entry.ID != "":
			urls = append(urls, "https://www.youtube.com/watch?v="+entry.ID)
		}
	}
	return urls
}

// Download fetches a track's audio into destPath for pre-caching.
func Download(ctx context.Context, url, destPath string) error {
	args := baseArgs("-f", "bestaudio", "-o", destPath, url)
	if output, err := exec.CommandContext(ctx, "yt-dlp", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("yt-dlp download error: %w: %s", err, string(output))
	}
	return nil
}
