// Package stream resolves direct audio links: internet radio stations,
// HLS playlists and plain media URLs that ffmpeg can ingest without an
// extractor.
package stream

import (
	"errors"
	"slices"

	source "github.com/auroramusic/aurora/internal/music/sources"
)

const SourceStream = "stream"

type StreamSource struct {
	resolver *Resolver
}

func New() *StreamSource {
	return &StreamSource{
		resolver: NewResolver(),
	}
}

func (s *StreamSource) Match(input string) bool {
	ok, _, err := s.resolver.IsValidURL(input)
	return err == nil && ok
}

func (s *StreamSource) Resolve(input string, selectedParser string) ([]source.TrackInfo, error) {
	parsers := s.AvailableParsers()

	if selectedParser == "" {
		selectedParser = parsers[0]
	}
	if !slices.Contains(parsers, selectedParser) {
		return nil, errors.New(SourceStream + " source does not support " + selectedParser + " parser")
	}

	ok, _, err := s.resolver.IsValidURL(input)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("invalid stream URL: " + input)
	}

	return []source.TrackInfo{
		{
			URL:              input,
			Title:            "", // maybe later via icy-* headers
			SourceName:       SourceStream,
			AvailableParsers: parsers,
		},
	}, nil
}

func (s *StreamSource) SourceName() string {
	return SourceStream
}

func (s *StreamSource) AvailableParsers() []string {
	return []string{"ffmpeg-link"}
}
