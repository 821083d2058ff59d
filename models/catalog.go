package models

// ItemType classifies a catalog entry.
type ItemType string

const (
	ItemTypeTV     ItemType = "tv"
	ItemTypeMovie  ItemType = "movie"
	ItemTypeSeries ItemType = "series"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	return t == ItemTypeTV || t == ItemTypeMovie || t == ItemTypeSeries
}

// CatalogItem is one normalized listing entry. The ID is content-derived
// (hash of name+url for playlist-sourced items, provider-native id otherwise)
// so it stays stable across refreshes and client-side watch state survives.
type CatalogItem struct {
	ID           string   `json:"id"`
	Type         ItemType `json:"type"`
	Name         string   `json:"name"`
	URL          string   `json:"url,omitempty"` // absent for series-level records
	Category     string   `json:"category,omitempty"`
	Logo         string   `json:"logo,omitempty"`
	Poster       string   `json:"poster,omitempty"`
	EPGChannelID string   `json:"epgChannelId,omitempty"`
	Year         int      `json:"year,omitempty"`
	IMDBID       string   `json:"imdbId,omitempty"`
	TMDBID       string   `json:"tmdbId,omitempty"`
	SeriesID     string   `json:"seriesId,omitempty"` // provider-native series id
	Plot         string   `json:"plot,omitempty"`
}

// SeriesEpisode is a single playable episode, owned by its series' episode
// index and never duplicated into the flat movie/channel collections.
type SeriesEpisode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Thumbnail string `json:"thumbnail,omitempty"`
	URL       string `json:"url"`
}

// Shape hints the client how to render an item's artwork.
type Shape string

const (
	ShapeLandscape Shape = "landscape"
	ShapePoster    Shape = "poster"
)

// Preview is the lightweight projection returned by catalog queries.
type Preview struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Name        string   `json:"name"`
	Image       string   `json:"image,omitempty"`
	Shape       Shape    `json:"shape"`
	Description string   `json:"description,omitempty"`
}

// Detail is the enriched projection returned for a single item.
type Detail struct {
	Preview
	Year       int             `json:"year,omitempty"`
	Rating     float64         `json:"rating,omitempty"`
	Genres     []string        `json:"genres,omitempty"`
	Background string          `json:"background,omitempty"`
	Logo       string          `json:"logo,omitempty"`
	Trailer    string          `json:"trailer,omitempty"`
	Episodes   []SeriesEpisode `json:"episodes,omitempty"`
}
