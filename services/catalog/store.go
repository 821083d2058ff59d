// Package catalog owns the normalized in-memory catalog: one Store per
// configuration identity, the identity-keyed registry with its two-tier
// snapshot cache, the filtered/paginated query path, and stream resolution.
package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"telecast/models"
	"telecast/services/epg"
	"telecast/services/provider"
)

// Store holds one configuration identity's normalized catalog. The item
// collections and schedule index are immutable after construction; a refresh
// builds a new Store and swaps the registry pointer, so in-flight readers see
// either the old or the new snapshot, never a torn mix.
type Store struct {
	identity      string
	channels      []models.CatalogItem
	movies        []models.CatalogItem
	series        []models.CatalogItem
	schedule      *epg.Index
	lastRefreshed time.Time
	source        provider.Source

	epMu     sync.RWMutex
	episodes map[string][]models.SeriesEpisode
	epFlight singleflight.Group
}

func newStore(identity string, entry models.CacheEntry, source provider.Source) *Store {
	episodes := entry.Episodes
	if episodes == nil {
		episodes = make(map[string][]models.SeriesEpisode)
	}
	return &Store{
		identity:      identity,
		channels:      entry.Channels,
		movies:        entry.Movies,
		series:        entry.Series,
		schedule:      epg.NewIndex(entry.Programs),
		lastRefreshed: entry.LastRefreshedAt,
		source:        source,
		episodes:      episodes,
	}
}

// Identity returns the configuration identity this store is scoped to.
func (s *Store) Identity() string { return s.identity }

// LastRefreshedAt returns when the snapshot was last rebuilt from upstream.
func (s *Store) LastRefreshedAt() time.Time { return s.lastRefreshed }

// Schedule returns the snapshot's schedule index.
func (s *Store) Schedule() *epg.Index { return s.schedule }

// Counts reports collection sizes for status reporting.
func (s *Store) Counts() (channels, movies, series int) {
	return len(s.channels), len(s.movies), len(s.series)
}

// items returns the collection for one item type.
func (s *Store) items(t models.ItemType) []models.CatalogItem {
	switch t {
	case models.ItemTypeMovie:
		return s.movies
	case models.ItemTypeSeries:
		return s.series
	default:
		return s.channels
	}
}

// Item looks an item up by id within one type collection.
func (s *Store) Item(id string, t models.ItemType) (models.CatalogItem, bool) {
	for _, item := range s.items(t) {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// Episodes returns the episode list for one series, building it on first
// access by delegating to the ingestion source. The result is memoized for
// the store's lifetime; a fetch failure memoizes an empty list and is never
// retried within the same store.
func (s *Store) Episodes(ctx context.Context, seriesID string) []models.SeriesEpisode {
	s.epMu.RLock()
	eps, ok := s.episodes[seriesID]
	s.epMu.RUnlock()
	if ok {
		return eps
	}

	v, _, _ := s.epFlight.Do(seriesID, func() (any, error) {
		fetched, err := s.source.FetchSeriesEpisodes(ctx, seriesID)
		if err != nil {
			log.Printf("[catalog] episode fetch failed for series %s: %v", seriesID, err)
			fetched = []models.SeriesEpisode{}
		}
		if fetched == nil {
			fetched = []models.SeriesEpisode{}
		}
		s.epMu.Lock()
		s.episodes[seriesID] = fetched
		s.epMu.Unlock()
		return fetched, nil
	})
	return v.([]models.SeriesEpisode)
}
