// Package kkdai streams YouTube audio through the kkdai/youtube client,
// avoiding the yt-dlp binary entirely. Link mode resolves a direct media
// URL for ffmpeg; pipe mode feeds the download through stdin.
package kkdai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"time"

	"github.com/auroramusic/aurora/internal/music/parsers"
	_ "github.com/bdandy/go-socks4"
	youtube "github.com/kkdai/youtube/v2"
	"golang.org/x/net/proxy"
)

const (
	channels   = 2
	sampleRate = 48000
)

type KKDAIStreamer struct{}

func (s *KKDAIStreamer) GetLinkStream(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	return kkdaiLink(track, seekSec)
}
func (s *KKDAIStreamer) GetPipeStream(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	return kkdaiPipe(track, seekSec)
}
func (s *KKDAIStreamer) SupportsPipe() bool {
	return true
}

// newClient builds a youtube client honoring the configured proxy, if any.
func newClient() *youtube.Client {
	proxyStr := parsers.CurrentSettings().ProxyURL
	if proxyStr == "" {
		return &youtube.Client{
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
		}
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Printf("[WARN] Invalid proxy URL %q: %v", proxyStr, err)
		return &youtube.Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
	}

	var transport *http.Transport

	switch proxyURL.Scheme {
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	case "socks5":
		auth := &proxy.Auth{}
		if proxyURL.User != nil {
			auth.User = proxyURL.User.Username()
			if pass, ok := proxyURL.User.Password(); ok {
				auth.Password = pass
			}
		}
		dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[WARN] SOCKS5 dialer error: %v", err)
			break
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	case "socks4":
		// go-socks4 registers itself with x/net/proxy via its blank import.
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{Timeout: 10 * time.Second})
		if err != nil {
			log.Printf("[WARN] SOCKS4 dialer error: %v", err)
			break
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	default:
		log.Printf("[WARN] Unsupported proxy scheme: %s", proxyURL.Scheme)
	}

	if transport == nil {
		return &youtube.Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
	}

	return &youtube.Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second, Transport: transport},
	}
}

// fetchVideo resolves metadata and backfills the track.
func fetchVideo(track *parsers.Track) (*youtube.Client, *youtube.Video, error) {
	videoID, err := ExtractVideoID(track.URL)
	if err != nil {
		return nil, nil, err
	}

	client := newClient()
	video, err := client.GetVideo(videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("youtube client error: %w", err)
	}

	track.Duration = video.Duration
	if track.Title == "" {
		track.Title = video.Title
	}
	if track.Artist == "" {
		track.Artist = video.Author
	}

	return client, video, nil
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

func kkdaiLink(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	client, video, err := fetchVideo(track)
	if err != nil {
		return nil, nil, err
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, nil, errors.New("no audio formats found for video")
	}

	link, err := client.GetStreamURL(video, &formats[0])
	if err != nil {
		return nil, nil, fmt.Errorf("get stream URL error: %w", err)
	}

	return ffmpegDecodeLink(link, seekSec)
}

func kkdaiPipe(track *parsers.Track, seekSec float64) (io.ReadCloser, func(), error) {
	client, video, err := fetchVideo(track)
	if err != nil {
		return nil, nil, err
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, nil, errors.New("no audio formats found for video")
	}

	stream, _, err := client.GetStream(video, &formats[0])
	if err != nil {
		return nil, nil, fmt.Errorf("get stream error: %w", err)
	}

	ffmpeg := exec.Command("ffmpeg",
		"-ss", fmt.Sprintf("%.3f", seekSec),
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	ffmpeg.Stdin = stream
	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		stream.Close()
		return nil, nil, fmt.Errorf("ffmpeg stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		stream.Close()
		return nil, nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	cleanup := func() {
		stream.Close()
		ffmpeg.Process.Kill()
	}

	return reader, cleanup, nil
}
