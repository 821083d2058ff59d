// Package enrich turns normalized catalog items into client-facing preview
// and detail projections: artwork template rewriting, live-now descriptions
// from the schedule index, and best-effort TMDB metadata for on-demand titles.
package enrich

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"telecast/config"
	"telecast/internal/cache"
	"telecast/internal/metrics"
	"telecast/models"
	"telecast/services/epg"
)

const (
	detailCacheEntries = 512
	detailCacheTTL     = 6 * time.Hour
)

// Service builds preview and detail projections. Metadata and image settings
// arrive with every call so edits through the settings endpoint take effect
// on the next request, matching the rest of the request path. Lookups are
// best-effort: a failed or unconfigured TMDB lookup yields a detail built
// from catalog data alone, never an error.
type Service struct {
	httpc   *http.Client
	details *cache.Local

	mu   sync.Mutex
	tmdb *tmdbClient
}

// NewService wires the enricher. client may be nil.
func NewService(client *http.Client) *Service {
	details, err := cache.NewLocal(detailCacheEntries)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Service{httpc: client, details: details}
}

// client returns the TMDB client for the given metadata settings, rebuilding
// it when the key or language has changed since the last call.
func (s *Service) client(meta config.MetadataSettings) *tmdbClient {
	key := strings.TrimSpace(meta.TMDBAPIKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tmdb == nil || s.tmdb.apiKey != key || s.tmdb.language != meta.Language {
		s.tmdb = newTMDBClient(key, meta.Language, s.httpc)
	}
	return s.tmdb
}

// Preview projects one item for a listing row. Live channels get a landscape
// shape and, when the schedule knows them, the currently airing title as
// description.
func (s *Service) Preview(item models.CatalogItem, schedule *epg.Index, images config.ImageSettings) models.Preview {
	return s.previewAt(item, schedule, images, time.Now())
}

func (s *Service) previewAt(item models.CatalogItem, schedule *epg.Index, images config.ImageSettings, now time.Time) models.Preview {
	p := models.Preview{
		ID:    item.ID,
		Type:  item.Type,
		Name:  item.Name,
		Shape: shapeFor(item.Type),
	}
	p.Image = imageFor(item, p.Shape, images)

	if item.Type == models.ItemTypeTV {
		p.Description = liveDescription(item, schedule, now)
	} else {
		p.Description = item.Plot
	}
	return p
}

// Previews maps a page of items.
func (s *Service) Previews(items []models.CatalogItem, schedule *epg.Index, images config.ImageSettings) []models.Preview {
	now := time.Now()
	out := make([]models.Preview, 0, len(items))
	for _, item := range items {
		out = append(out, s.previewAt(item, schedule, images, now))
	}
	return out
}

// Detail builds the enriched single-item projection. Results are cached per
// (type, external-or-internal id); episodes and the live-now description are
// re-derived after the cache so a cached detail never freezes them stale.
func (s *Service) Detail(ctx context.Context, item models.CatalogItem, episodes []models.SeriesEpisode, schedule *epg.Index, meta config.MetadataSettings, images config.ImageSettings) models.Detail {
	key := detailKey(item)

	var d models.Detail
	if blob, ok := s.details.Get(ctx, key); ok {
		if err := json.Unmarshal(blob, &d); err == nil {
			d.Episodes = episodes
			if item.Type == models.ItemTypeTV {
				d.Description = liveDescription(item, schedule, time.Now())
			}
			return d
		}
		s.details.Remove(key)
	}

	d = models.Detail{
		Preview: s.Preview(item, schedule, images),
		Year:    item.Year,
		Logo:    item.Logo,
	}
	if item.Category != "" {
		d.Genres = []string{item.Category}
	}

	s.applyMetadata(ctx, item, meta, &d)

	if blob, err := json.Marshal(d); err == nil {
		s.details.Put(ctx, key, blob, detailCacheTTL)
	}

	d.Episodes = episodes
	return d
}

// applyMetadata merges TMDB metadata into d for on-demand titles. Every exit
// path is non-fatal.
func (s *Service) applyMetadata(ctx context.Context, item models.CatalogItem, meta config.MetadataSettings, d *models.Detail) {
	tmdb := s.client(meta)
	if item.Type == models.ItemTypeTV || !tmdb.isConfigured() {
		metrics.EnrichLookups.WithLabelValues("skipped").Inc()
		return
	}
	kind := "movie"
	if item.Type == models.ItemTypeSeries {
		kind = "tv"
	}

	tmdbID := strings.TrimSpace(item.TMDBID)
	if tmdbID == "" && item.IMDBID != "" {
		id, err := tmdb.findByIMDB(ctx, item.IMDBID, kind)
		if err != nil {
			log.Printf("[enrich] imdb lookup failed for %s: %v", item.IMDBID, err)
			metrics.EnrichLookups.WithLabelValues("error").Inc()
			return
		}
		tmdbID = fmt.Sprintf("%d", id)
	}
	if tmdbID == "" {
		metrics.EnrichLookups.WithLabelValues("skipped").Inc()
		return
	}

	detail, err := tmdb.detail(ctx, kind, tmdbID)
	if err != nil {
		log.Printf("[enrich] tmdb detail failed for %s %s: %v", kind, tmdbID, err)
		metrics.EnrichLookups.WithLabelValues("error").Inc()
		return
	}
	metrics.EnrichLookups.WithLabelValues("ok").Inc()

	if detail.Overview != "" {
		d.Description = detail.Overview
	}
	if detail.PosterURL != "" {
		d.Image = detail.PosterURL
	}
	d.Background = detail.BackdropURL
	if detail.Year != 0 {
		d.Year = detail.Year
	}
	d.Rating = detail.Rating
	if len(detail.Genres) > 0 {
		d.Genres = detail.Genres
	}
	d.Trailer = detail.TrailerURL
}

// liveDescription returns the currently airing title for a live channel, or
// empty when the schedule doesn't know it.
func liveDescription(item models.CatalogItem, schedule *epg.Index, now time.Time) string {
	if schedule == nil || item.EPGChannelID == "" {
		return ""
	}
	if prog, ok := schedule.CurrentProgram(item.EPGChannelID, now); ok {
		return prog.Title
	}
	return ""
}

// imageFor picks the item's artwork and runs it through the shape's locator
// template; with no artwork at all the placeholder template embeds the name.
func imageFor(item models.CatalogItem, shape models.Shape, images config.ImageSettings) string {
	src := item.Logo
	if shape == models.ShapePoster {
		src = item.Poster
	}
	if src == "" {
		// Fall back to whichever artwork field the item does carry.
		if item.Poster != "" {
			src = item.Poster
		} else if item.Logo != "" {
			src = item.Logo
		}
	}
	if src == "" {
		if images.PlaceholderTemplate == "" {
			return ""
		}
		return fmt.Sprintf(images.PlaceholderTemplate, url.QueryEscape(item.Name))
	}

	tmpl := images.LandscapeTemplate
	if shape == models.ShapePoster {
		tmpl = images.PosterTemplate
	}
	if tmpl == "" {
		return src
	}
	return fmt.Sprintf(tmpl, url.QueryEscape(src))
}

func shapeFor(t models.ItemType) models.Shape {
	if t == models.ItemTypeTV {
		return models.ShapeLandscape
	}
	return models.ShapePoster
}

// detailKey prefers external ids so the metadata cache survives playlist
// reshuffles that change internal ids.
func detailKey(item models.CatalogItem) string {
	id := item.ID
	switch {
	case item.IMDBID != "":
		id = item.IMDBID
	case item.TMDBID != "":
		id = "tmdb:" + item.TMDBID
	}
	return string(item.Type) + "|" + id
}
