package provider

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"telecast/config"
	"telecast/models"
	"telecast/services/playlist"
)

const maxPlaylistSize = 64 * 1024 * 1024 // 64 MiB

// M3USource ingests a raw playlist URL plus an optional XMLTV guide URL.
type M3USource struct {
	cfg    config.ProviderSettings
	client *http.Client
}

// NewM3USource builds the playlist-text variant.
func NewM3USource(cfg config.ProviderSettings, client *http.Client) *M3USource {
	return &M3USource{cfg: cfg, client: client}
}

// FetchCatalog downloads the playlist text and parses it.
func (s *M3USource) FetchCatalog(ctx context.Context) (playlist.Result, error) {
	if strings.TrimSpace(s.cfg.PlaylistURL) == "" {
		return playlist.Result{}, fmt.Errorf("playlist url not configured")
	}
	body, err := fetchText(ctx, s.client, s.cfg.PlaylistURL, maxPlaylistSize)
	if err != nil {
		return playlist.Result{}, fmt.Errorf("fetch playlist: %w", err)
	}
	return playlist.Parse(body), nil
}

// FetchSchedule streams the configured XMLTV document, transparently
// decompressing gzip payloads.
func (s *M3USource) FetchSchedule(ctx context.Context) (io.ReadCloser, error) {
	if !s.cfg.EPGEnabled || strings.TrimSpace(s.cfg.EPGURL) == "" {
		return nil, nil
	}
	return fetchStream(ctx, s.client, s.cfg.EPGURL)
}

// FetchSeriesEpisodes returns empty: playlist-sourced episodes arrive inline
// with the catalog and are already owned by their series records.
func (s *M3USource) FetchSeriesEpisodes(context.Context, string) ([]models.SeriesEpisode, error) {
	return nil, nil
}

func fetchText(ctx context.Context, client *http.Client, url string, maxSize int64) (string, error) {
	rc, err := fetchStream(ctx, client, url)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// fetchStream issues a GET and returns the (possibly gzip-decoded) body.
func fetchStream(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	if resp.Header.Get("Content-Encoding") == "gzip" || strings.HasSuffix(url, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decompress gzip: %w", err)
		}
		return &gzipReadCloser{gz: gz, body: resp.Body}, nil
	}
	return resp.Body, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	body io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	if err := g.body.Close(); err != nil {
		return err
	}
	return gzErr
}
