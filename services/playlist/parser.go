// Package playlist parses raw M3U playlist text into normalized catalog
// records. Entries are classified into live channels, movies, and series
// episodes; series episodes are grouped under synthetic series records and
// never emitted into the flat collections.
package playlist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"telecast/models"
)

// Result is the typed output of a playlist parse.
type Result struct {
	Channels []models.CatalogItem
	Movies   []models.CatalogItem
	Series   []models.CatalogItem
	// Episodes maps a series item ID to its ordered episode list.
	Episodes map[string][]models.SeriesEpisode
}

var (
	attrRe    = regexp.MustCompile(`([a-zA-Z0-9-]+)="([^"]*)"`)
	yearRe    = regexp.MustCompile(`\((19|20)\d{2}\)|(?:^|[^0-9])((19|20)\d{2})\.`)
	qualityRe = regexp.MustCompile(`(?i)\s(HD|FHD|4K)$`)
	seRe      = regexp.MustCompile(`(?i)\bS(\d{1,2})\s?E(\d{1,3})\b`)
	seasonRe  = regexp.MustCompile(`(?i)\bSeason\s+(\d+)\b`)
)

// Parse converts raw playlist text into a Result. Malformed description
// lines and description lines without a following locator are dropped
// silently; a single bad entry never aborts the rest of the parse.
func Parse(text string) Result {
	res := Result{Episodes: make(map[string][]models.SeriesEpisode)}
	seriesByName := make(map[string]int) // show name -> index into res.Series

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#EXTINF:") {
			continue
		}

		// The locator is the next non-comment, non-blank line. Hitting
		// another #EXTINF first means this entry has no locator.
		locator := ""
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if strings.HasPrefix(next, "#EXTINF:") {
				break
			}
			if strings.HasPrefix(next, "#") {
				continue
			}
			locator = next
			i = j
			break
		}
		if locator == "" {
			continue
		}

		attrs := parseAttributes(line)
		name := displayName(line)
		if name == "" {
			name = attrs["tvg-name"]
		}
		if name == "" {
			continue
		}

		group := attrs["group-title"]
		item := models.CatalogItem{
			ID:           StableID(name, locator),
			Name:         name,
			URL:          locator,
			Category:     group,
			Logo:         attrs["tvg-logo"],
			EPGChannelID: attrs["tvg-id"],
		}

		switch classify(name, group) {
		case models.ItemTypeMovie:
			item.Type = models.ItemTypeMovie
			item.Year = extractYear(name)
			res.Movies = append(res.Movies, item)
		case models.ItemTypeSeries:
			addEpisode(&res, seriesByName, item)
		default:
			item.Type = models.ItemTypeTV
			res.Channels = append(res.Channels, item)
		}
	}
	return res
}

// StableID derives the content-addressed item id from a name+locator pair.
// The same pair always produces the same id across refreshes.
func StableID(name, locator string) string {
	sum := sha256.Sum256([]byte(name + "|" + locator))
	return hex.EncodeToString(sum[:])[:16]
}

// classify applies the classification policy in order, first match wins:
// movie markers, then series markers, then live channel by default.
func classify(name, group string) models.ItemType {
	lowerName := strings.ToLower(name)
	lowerGroup := strings.ToLower(group)

	if strings.Contains(lowerGroup, "movie") || strings.Contains(lowerName, "movie") ||
		yearRe.MatchString(name) || qualityRe.MatchString(name) {
		return models.ItemTypeMovie
	}
	if strings.Contains(lowerGroup, "series") || strings.Contains(lowerGroup, "show") ||
		seRe.MatchString(name) || seasonRe.MatchString(name) {
		return models.ItemTypeSeries
	}
	return models.ItemTypeTV
}

// parseAttributes extracts the key="value" pairs from an EXTINF line.
func parseAttributes(line string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(line, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}

// displayName returns the text after the last comma of the EXTINF line.
func displayName(line string) string {
	idx := strings.LastIndex(line, ",")
	if idx < 0 || idx+1 >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}

// extractYear pulls a plausible release year out of a display name.
func extractYear(name string) int {
	m := yearRe.FindString(name)
	if m == "" {
		return 0
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m)
	if len(digits) < 4 {
		return 0
	}
	year, err := strconv.Atoi(digits[:4])
	if err != nil {
		return 0
	}
	return year
}

// addEpisode groups a series-classified entry under its show, creating the
// series record on first sight. The episode keeps the playable locator; the
// series-level record carries none.
func addEpisode(res *Result, seriesByName map[string]int, item models.CatalogItem) {
	show := item.Name
	season, episode := 0, 0
	if m := seRe.FindStringSubmatch(item.Name); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		show = strings.TrimSpace(strings.TrimRight(item.Name[:seRe.FindStringIndex(item.Name)[0]], " -:"))
	} else if m := seasonRe.FindStringSubmatch(item.Name); m != nil {
		season, _ = strconv.Atoi(m[1])
		show = strings.TrimSpace(strings.TrimRight(item.Name[:seasonRe.FindStringIndex(item.Name)[0]], " -:"))
	}
	if show == "" {
		show = item.Name
	}

	idx, ok := seriesByName[show]
	if !ok {
		series := models.CatalogItem{
			ID:       "series_" + StableID(show, ""),
			Type:     models.ItemTypeSeries,
			Name:     show,
			Category: item.Category,
			Logo:     item.Logo,
			Poster:   item.Logo,
		}
		res.Series = append(res.Series, series)
		idx = len(res.Series) - 1
		seriesByName[show] = idx
	}

	seriesID := res.Series[idx].ID
	if season == 0 {
		season = 1
	}
	if episode == 0 {
		episode = len(res.Episodes[seriesID]) + 1
	}
	res.Episodes[seriesID] = append(res.Episodes[seriesID], models.SeriesEpisode{
		ID:        fmt.Sprintf("%s:%d:%d", seriesID, season, episode),
		Title:     item.Name,
		Season:    season,
		Episode:   episode,
		Thumbnail: item.Logo,
		URL:       item.URL,
	})
}
