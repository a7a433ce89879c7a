package youtube

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

var (
	videoPattern     = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]+)(?:\\u0026list=([a-zA-Z0-9_-]+))?[^"]*`)
	watchURLPattern  = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)
	ErrNoVideoMatch  = errors.New("no video found for the given title")
	ErrEmptyPlaylist = errors.New("no video URLs found in the playlist")
)

// Resolver scrapes youtube.com result and playlist pages. It exists as a
// fallback path that needs no API key and no external binary.
type Resolver struct {
	BaseURL string
	Client  *http.Client
}

func NewResolver() *Resolver {
	return &Resolver{
		BaseURL: "https://www.youtube.com",
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *Resolver) SearchFirstVideoURL(query string) (string, error) {
	body, err := r.fetchSearchPage(query)
	if err != nil {
		return "", err
	}

	matches := videoPattern.FindStringSubmatch(body)
	if len(matches) > 1 {
		resultURL := fmt.Sprintf("%s/watch?v=%s", r.BaseURL, matches[1])
		if matches[2] != "" {
			resultURL += "&list=" + matches[2]
		}
		return resultURL, nil
	}

	return "", ErrNoVideoMatch
}

// SearchVideoURLs returns every distinct watch URL on the results page, in order.
func (r *Resolver) SearchVideoURLs(query string) ([]string, error) {
	body, err := r.fetchSearchPage(query)
	if err != nil {
		return nil, err
	}

	matches := watchURLPattern.FindAllStringSubmatch(body, -1)
	var urls []string
	for _, m := range matches {
		if len(m) > 1 {
			urls = append(urls, fmt.Sprintf("%s/watch?v=%s", r.BaseURL, m[1]))
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoVideoMatch
	}
	return removeDuplicates(urls), nil
}

func (r *Resolver) fetchSearchPage(query string) (string, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", r.BaseURL, url.QueryEscape(query))

	resp, err := r.Client.Get(searchURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("YouTube search failed with status code %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Resolver) ExtractPlaylistVideos(playlistURL string) ([]string, error) {
	resp, err := r.Client.Get(playlistURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube playlist fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	matches := watchURLPattern.FindAllStringSubmatch(string(body), -1)
	var urls []string
	for _, m := range matches {
		if len(m) > 1 {
			urls = append(urls, fmt.Sprintf("https://www.youtube.com/watch?v=%s", m[1]))
		}
	}

	if len(urls) == 0 {
		return nil, ErrEmptyPlaylist
	}

	return removeDuplicates(urls), nil
}

func removeDuplicates(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	var result []string
	for _, u := range input {
		if _, exists := seen[u]; !exists {
			seen[u] = struct{}{}
			result = append(result, u)
		}
	}
	return result
}
