// Package provider abstracts the upstream IPTV source behind one capability
// interface with two variants: raw M3U playlists and the Xtream panel API.
// Sources fetch and normalize; caching and query logic live elsewhere.
package provider

import (
	"context"
	"io"
	"net/http"
	"time"

	"telecast/config"
	"telecast/models"
	"telecast/services/playlist"
)

const defaultFetchTimeout = 120 * time.Second

// Source is the ingestion capability interface. Every method is fallible and
// best-effort; callers treat failures per the ingestion error policy (keep
// the previous snapshot, never surface to query callers).
type Source interface {
	// FetchCatalog retrieves and normalizes the full listing set.
	FetchCatalog(ctx context.Context) (playlist.Result, error)
	// FetchSchedule streams the raw XMLTV schedule document. A nil reader
	// with nil error means the source has no schedule to offer.
	FetchSchedule(ctx context.Context) (io.ReadCloser, error)
	// FetchSeriesEpisodes resolves the episode list for one series. Sources
	// that deliver episodes inline with the catalog return an empty list.
	FetchSeriesEpisodes(ctx context.Context, seriesID string) ([]models.SeriesEpisode, error)
}

// ForSettings selects the source variant for the active provider mode.
// client may be nil.
func ForSettings(s config.Settings, client *http.Client) Source {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	if s.Provider.Mode == config.ProviderModeXtream {
		return NewXtreamSource(s.Provider, client)
	}
	return NewM3USource(s.Provider, client)
}
