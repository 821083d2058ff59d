package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"

	"telecast/config"
	"telecast/internal/cache"
	"telecast/internal/metrics"
	"telecast/models"
	"telecast/services/epg"
	"telecast/services/playlist"
	"telecast/services/provider"
)

// Service is the identity-keyed store registry. Each distinct provider
// configuration maps to its own Store; snapshots round-trip through the
// layered cache so a restart (or a sibling process sharing the Redis tier)
// can serve without refetching upstream.
type Service struct {
	tiers     *cache.Layered
	ttl       time.Duration
	grace     time.Duration
	newSource func(config.Settings) provider.Source

	mu     sync.RWMutex
	stores map[string]*Store

	flight singleflight.Group
}

// NewService builds the registry. grace bounds how recently a snapshot must
// have been rebuilt for a forced refresh to be skipped.
func NewService(tiers *cache.Layered, ttl, grace time.Duration) *Service {
	return &Service{
		tiers: tiers,
		ttl:   ttl,
		grace: grace,
		newSource: func(s config.Settings) provider.Source {
			return provider.ForSettings(s, nil)
		},
		stores: make(map[string]*Store),
	}
}

func (svc *Service) getStore(id string) *Store {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.stores[id]
}

func (svc *Service) setStore(s *Store) {
	svc.mu.Lock()
	svc.stores[s.identity] = s
	svc.mu.Unlock()
}

// LoadOrRefresh returns the store for the settings' identity, rebuilding it
// when no fresh snapshot exists. force requests a rebuild but is ignored when
// the current snapshot is younger than the grace window. Ingestion failures
// never surface here: the previous snapshot keeps serving, and with no
// snapshot at all an empty store is returned so queries yield empty results.
func (svc *Service) LoadOrRefresh(ctx context.Context, settings config.Settings, force bool) *Store {
	id := config.Identity(settings)
	current := svc.getStore(id)

	// The cache tiers are the freshness authority: a hit means the snapshot
	// is within TTL. Restore it first so the grace window below also covers
	// a process that doesn't hold the store in memory yet.
	blob, fresh := svc.tiers.Get(ctx, id)
	if fresh && current == nil {
		current = svc.restore(id, blob, settings)
	}

	if current != nil {
		if time.Since(current.lastRefreshed) < svc.grace {
			return current
		}
		if fresh && !force {
			return current
		}
	}

	store, err := svc.refresh(ctx, settings, id)
	if err != nil {
		log.Printf("[catalog] refresh failed for identity %s: %v", shortID(id), err)
		if current != nil {
			return current
		}
		return newStore(id, models.CacheEntry{}, svc.newSource(settings))
	}
	return store
}

// AdminRefresh rebuilds unconditionally, bypassing both cache tiers and the
// grace window, and surfaces the ingestion error to the caller.
func (svc *Service) AdminRefresh(ctx context.Context, settings config.Settings) (*Store, error) {
	id := config.Identity(settings)
	svc.tiers.Invalidate(id)
	return svc.refresh(ctx, settings, id)
}

// restore rebuilds an in-memory store from a cached snapshot blob. A corrupt
// blob is discarded so the caller falls through to a refresh.
func (svc *Service) restore(id string, blob []byte, settings config.Settings) *Store {
	var entry models.CacheEntry
	if err := json.Unmarshal(blob, &entry); err != nil {
		log.Printf("[catalog] discarding corrupt snapshot for identity %s: %v", shortID(id), err)
		svc.tiers.Invalidate(id)
		return nil
	}
	store := newStore(id, entry, svc.newSource(settings))
	svc.setStore(store)
	log.Printf("[catalog] restored identity %s from cache (refreshed %s)",
		shortID(id), entry.LastRefreshedAt.Format(time.RFC3339))
	return store
}

// refresh fetches the catalog and schedule concurrently, builds a new store,
// writes the snapshot to both cache tiers, and swaps the registry pointer.
// Concurrent callers for the same identity share one flight.
func (svc *Service) refresh(ctx context.Context, settings config.Settings, id string) (*Store, error) {
	v, err, _ := svc.flight.Do(id, func() (any, error) {
		start := time.Now()
		src := svc.newSource(settings)

		var (
			res      playlist.Result
			resErr   error
			programs map[string][]models.Program
		)
		var wg conc.WaitGroup
		wg.Go(func() {
			res, resErr = src.FetchCatalog(ctx)
		})
		wg.Go(func() {
			rc, err := src.FetchSchedule(ctx)
			if err != nil {
				log.Printf("[catalog] schedule fetch failed: %v", err)
				return
			}
			if rc == nil {
				return
			}
			defer rc.Close()
			programs = epg.ParseSchedule(rc, epg.ClampHourOffset(settings.Provider.HourOffset))
		})
		wg.Wait()
		if resErr != nil {
			metrics.RefreshFailures.Inc()
			return nil, fmt.Errorf("catalog fetch: %w", resErr)
		}

		entry := models.CacheEntry{
			Channels:        res.Channels,
			Movies:          res.Movies,
			Series:          res.Series,
			Programs:        programs,
			Episodes:        res.Episodes,
			LastRefreshedAt: time.Now().UTC(),
		}
		if blob, err := json.Marshal(entry); err != nil {
			log.Printf("[catalog] snapshot encode failed: %v", err)
		} else {
			svc.tiers.Put(ctx, id, blob, svc.ttl)
		}

		store := newStore(id, entry, src)
		svc.setStore(store)
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		log.Printf("[catalog] refreshed identity %s in %s: %d channels, %d movies, %d series, %d guide channels",
			shortID(id), time.Since(start).Round(time.Millisecond),
			len(res.Channels), len(res.Movies), len(res.Series), store.schedule.ChannelCount())
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
