package hls

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Loader fetches and parses master playlists over HTTP.
type Loader struct {
	httpClient *http.Client
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// NewLoader constructs a Loader with a conservative request timeout.
func NewLoader(opts ...LoaderOption) *Loader {
	loader := &Loader{httpClient: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// FetchManifest downloads the master playlist at url and parses its variants.
func (l *Loader) FetchManifest(ctx context.Context, url string) (Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("build playlist request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Manifest{}, fmt.Errorf("fetch playlist: unexpected status %s", resp.Status)
	}
	manifest, err := ParseMasterPlaylist(resp.Body, url)
	if err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}
