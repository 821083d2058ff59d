package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"telecast/config"
	"telecast/models"
)

// PageSize is the fixed page length for catalog listings.
const PageSize = 100

// Query selects a filtered slice of one type collection. At most one of
// Rail, Genre, and Search is normally set; when combined they all apply.
type Query struct {
	Type   models.ItemType
	Rail   string // named home-screen rail; exempt from the blacklist
	Genre  string // exact category match
	Search string // case- and diacritic-insensitive substring on the name
	Page   int    // zero-based
}

// Query filters, orders, and pages one type collection. Movies and series
// come back newest-first by year; live channels keep playlist order. Items
// in blacklisted categories are hidden everywhere except rail queries.
func (s *Store) Query(q Query, cfg config.CatalogSettings) []models.CatalogItem {
	railCategory, railOK := "", false
	if q.Rail != "" {
		railCategory, railOK = railFor(cfg, q.Type, q.Rail)
		if !railOK {
			return nil
		}
	}

	blacklisted := make(map[string]bool, len(cfg.Blacklist))
	for _, c := range cfg.Blacklist {
		blacklisted[c] = true
	}

	needle := ""
	if q.Search != "" {
		needle = foldKey(q.Search)
	}

	var out []models.CatalogItem
	for _, item := range s.items(q.Type) {
		if railOK {
			if item.Category != railCategory {
				continue
			}
		} else if blacklisted[item.Category] {
			continue
		}
		if q.Genre != "" && item.Category != q.Genre {
			continue
		}
		if needle != "" && !strings.Contains(foldKey(item.Name), needle) {
			continue
		}
		out = append(out, item)
	}

	if q.Type == models.ItemTypeMovie || q.Type == models.ItemTypeSeries {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Year > out[j].Year
		})
	}

	return page(out, q.Page)
}

// Genres returns the distinct non-blacklisted categories of one type
// collection, in first-seen order.
func (s *Store) Genres(t models.ItemType, cfg config.CatalogSettings) []string {
	blacklisted := make(map[string]bool, len(cfg.Blacklist))
	for _, c := range cfg.Blacklist {
		blacklisted[c] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, item := range s.items(t) {
		if item.Category == "" || seen[item.Category] || blacklisted[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}

// Rails returns the configured rail definitions for one type.
func Rails(cfg config.CatalogSettings, t models.ItemType) []config.RailConfig {
	switch t {
	case models.ItemTypeMovie:
		return cfg.MovieRails
	case models.ItemTypeSeries:
		return cfg.SeriesRails
	default:
		return cfg.TVRails
	}
}

func railFor(cfg config.CatalogSettings, t models.ItemType, name string) (string, bool) {
	for _, r := range Rails(cfg, t) {
		if r.Name == name {
			return r.Category, true
		}
	}
	return "", false
}

func page(items []models.CatalogItem, n int) []models.CatalogItem {
	if n < 0 {
		n = 0
	}
	start := n * PageSize
	if start >= len(items) {
		return nil
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// foldKey lowercases and strips combining marks so "Télé" matches "tele".
// The transformer chain is built per call; chains carry state and are not
// safe for concurrent reuse.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
