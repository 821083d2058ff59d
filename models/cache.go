package models

import "time"

// CacheEntry is the serialized snapshot of one configuration identity's
// catalog state. It is replaced wholesale on every successful refresh; readers
// reconstruct a fresh in-memory store from it and never mutate the cached copy.
//
// Episodes carries playlist-sourced episode lists so a snapshot restored from
// cache can serve series without refetching the playlist. Provider-API
// episodes are resolved lazily instead and are absent here.
type CacheEntry struct {
	Channels        []CatalogItem              `json:"channels"`
	Movies          []CatalogItem              `json:"movies"`
	Series          []CatalogItem              `json:"series"`
	Programs        map[string][]Program       `json:"programs,omitempty"`
	Episodes        map[string][]SeriesEpisode `json:"episodes,omitempty"`
	LastRefreshedAt time.Time                  `json:"lastRefreshedAt"`
}
