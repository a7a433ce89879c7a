package stream

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

var validContentTypes = []string{
	"audio/", // general catch
	"video/",
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"application/ogg",
	"application/x-scpls",
	"application/xspf+xml",
	"application/octet-stream", // risky but often used for streams
}

// Resolver validates direct streaming links by checking headers and heuristics.
type Resolver struct {
	Client *http.Client
}

func NewResolver() *Resolver {
	return &Resolver{
		Client: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// IsValidURL checks stream validity based on content-type and file extension heuristics.
func (r *Resolver) IsValidURL(rawURL string) (bool, string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return false, "", fmt.Errorf("not a URL: %q", rawURL)
	}

	contentType, finalURL, err := r.fetchContentType(rawURL)
	if err != nil {
		return false, "", fmt.Errorf("failed to fetch content type: %w", err)
	}

	if r.isAllowedType(contentType) || r.isLikelyPlaylist(finalURL) {
		return true, contentType, nil
	}

	return false, contentType, fmt.Errorf("invalid stream content-type: %q, url: %s", contentType, finalURL)
}

func (r *Resolver) fetchContentType(rawURL string) (string, string, error) {
	req, err := http.NewRequest(http.MethodHead, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.Client.Do(req)
	if err != nil || resp.StatusCode >= 400 {
		// Some stations reject HEAD; try GET and drain.
		req.Method = http.MethodGet
		resp, err = r.Client.Do(req)
		if err != nil {
			return "", "", fmt.Errorf("GET fallback failed: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	} else {
		defer resp.Body.Close()
	}

	contentType := resp.Header.Get("Content-Type")
	finalURL := resp.Request.URL.String()
	return contentType, finalURL, nil
}

func (r *Resolver) isAllowedType(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	for _, allowed := range validContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func (r *Resolver) isLikelyPlaylist(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".m3u", ".m3u8", ".pls", ".xspf", ".asx":
		return true
	}
	return false
}
