package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	source "github.com/auroramusic/aurora/internal/music/sources"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const SourceSpotify string = "spotify"

// maxPlaylistTracks caps how many playlist entries one request may enqueue.
const maxPlaylistTracks = 200

// Searcher converts a "title artist" query into a playable video URL.
type Searcher interface {
	SearchFirstVideoURL(query string) (string, error)
}

// SpotifySource resolves Spotify links by looking up track metadata and
// re-targeting playback at YouTube. Playlist and album entries are emitted
// unconverted; the per-track YouTube lookup runs when the entry is about
// to play.
type SpotifySource struct {
	client   *spotifyapi.Client
	searcher Searcher
}

func New(clientID, clientSecret string, searcher Searcher) (*SpotifySource, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify credentials are not set")
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// cfg.Client hands back an auto-refreshing token source.
	httpClient := cfg.Client(context.Background())

	return &SpotifySource{
		client:   spotifyapi.New(httpClient),
		searcher: searcher,
	}, nil
}

func (s *SpotifySource) Match(input string) bool {
	return strings.Contains(input, "open.spotify.com/")
}

func (s *SpotifySource) SourceName() string {
	return SourceSpotify
}

func (s *SpotifySource) AvailableParsers() []string {
	return []string{"kkdai-link", "kkdai-pipe", "ytdlp-link", "ytdlp-pipe"}
}

func (s *SpotifySource) Resolve(input string, selectedParser string) ([]source.TrackInfo, error) {
	parsers := s.AvailableParsers()

	if selectedParser != "" && !slices.Contains(parsers, selectedParser) {
		return nil, errors.New(SourceSpotify + " source does not support " + selectedParser + " parser")
	}

	kind, id, err := parseSpotifyURL(input)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	switch kind {
	case "track":
		return s.resolveTrack(ctx, id, parsers)
	case "playlist":
		return s.resolvePlaylist(ctx, id, parsers)
	case "album":
		return s.resolveAlbum(ctx, id, parsers)
	default:
		return nil, fmt.Errorf("unsupported Spotify link type: %s", kind)
	}
}

func (s *SpotifySource) resolveTrack(ctx context.Context, id string, parsers []string) ([]source.TrackInfo, error) {
	track, err := s.client.GetTrack(ctx, spotifyapi.ID(id))
	if err != nil {
		return nil, fmt.Errorf("spotify track lookup failed: %w", err)
	}

	title, artist := track.Name, primaryArtist(track.Artists)
	videoURL, err := s.searcher.SearchFirstVideoURL(searchQuery(title, artist))
	if err != nil {
		return nil, fmt.Errorf("no YouTube match for %q: %w", title, err)
	}

	return []source.TrackInfo{
		{
			URL:              videoURL,
			Title:            title,
			Artist:           artist,
			Duration:         track.TimeDuration(),
			SourceName:       SourceSpotify,
			AvailableParsers: parsers,
		},
	}, nil
}

func (s *SpotifySource) resolvePlaylist(ctx context.Context, id string, parsers []string) ([]source.TrackInfo, error) {
	page, err := s.client.GetPlaylistItems(ctx, spotifyapi.ID(id))
	if err != nil {
		return nil, fmt.Errorf("spotify playlist lookup failed: %w", err)
	}

	var tracks []source.TrackInfo
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue
			}
			t := item.Track.Track
			title, artist := t.Name, primaryArtist(t.Artists)
			tracks = append(tracks, source.TrackInfo{
				Title:            title,
				Artist:           artist,
				Duration:         t.TimeDuration(),
				SourceName:       SourceSpotify,
				AvailableParsers: parsers,
				NeedsConversion:  true,
				ConversionQuery:  searchQuery(title, artist),
			})
			if len(tracks) >= maxPlaylistTracks {
				return tracks, nil
			}
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotifyapi.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("spotify playlist paging failed: %w", err)
		}
	}

	if len(tracks) == 0 {
		return nil, errors.New("spotify playlist has no playable tracks")
	}
	return tracks, nil
}

func (s *SpotifySource) resolveAlbum(ctx context.Context, id string, parsers []string) ([]source.TrackInfo, error) {
	album, err := s.client.GetAlbum(ctx, spotifyapi.ID(id))
	if err != nil {
		return nil, fmt.Errorf("spotify album lookup failed: %w", err)
	}

	var tracks []source.TrackInfo
	for _, t := range album.Tracks.Tracks {
		title, artist := t.Name, primaryArtist(t.Artists)
		tracks = append(tracks, source.TrackInfo{
			Title:            title,
			Artist:           artist,
			Duration:         t.TimeDuration(),
			SourceName:       SourceSpotify,
			AvailableParsers: parsers,
			NeedsConversion:  true,
			ConversionQuery:  searchQuery(title, artist),
		})
		if len(tracks) >= maxPlaylistTracks {
			break
		}
	}

	if len(tracks) == 0 {
		return nil, errors.New("spotify album has no playable tracks")
	}
	return tracks, nil
}

// Convert fills in a playable URL for a lazily-resolved playlist entry.
func (s *SpotifySource) Convert(info *source.TrackInfo) error {
	if !info.NeedsConversion {
		return nil
	}
	videoURL, err := s.searcher.SearchFirstVideoURL(info.ConversionQuery)
	if err != nil {
		return fmt.Errorf("no YouTube match for %q: %w", info.ConversionQuery, err)
	}
	info.URL = videoURL
	info.NeedsConversion = false
	return nil
}

func searchQuery(title, artist string) string {
	query := title
	if artist != "" {
		query += " " + artist
	}
	return query
}

func primaryArtist(artists []spotifyapi.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

// parseSpotifyURL extracts the entity kind and ID from an open.spotify.com
// link, tolerating locale segments like /intl-fr/.
func parseSpotifyURL(raw string) (kind, id string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid Spotify URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		switch parts[i] {
		case "track", "playlist", "album":
			id := strings.Split(parts[i+1], "?")[0]
			if id == "" {
				return "", "", errors.New("invalid Spotify URL: missing ID")
			}
			return parts[i], id, nil
		}
	}

	return "", "", errors.New("invalid Spotify URL: expected track, playlist or album link")
}
