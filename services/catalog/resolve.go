package catalog

import (
	"context"
	"strings"

	"telecast/models"
)

// ResolveStream maps a playable id to its stream locator. The id shape picks
// the strategy:
//
//	<seriesID>:<season>:<episode>  episode lookup through the episode index
//	tt...                          IMDB id match over movies, then series
//	tmdb:<id>                      TMDB id match over movies, then series
//	anything else                  direct id match over channels, then movies
//
// The boolean reports whether a locator was found.
func (s *Store) ResolveStream(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}

	if strings.Count(id, ":") >= 2 {
		return s.resolveEpisode(ctx, id)
	}

	if strings.HasPrefix(id, "tt") {
		return s.resolveExternal(func(imdb, _ string) bool { return imdb == id })
	}
	if rest, ok := strings.CutPrefix(id, "tmdb:"); ok {
		return s.resolveExternal(func(_, tmdb string) bool { return tmdb == rest })
	}

	for _, item := range s.channels {
		if item.ID == id {
			return item.URL, item.URL != ""
		}
	}
	for _, item := range s.movies {
		if item.ID == id {
			return item.URL, item.URL != ""
		}
	}
	return "", false
}

// resolveEpisode finds an episode by its composite id. The series portion is
// tried as a direct prefix first; failing that, every series' episode index
// is searched.
func (s *Store) resolveEpisode(ctx context.Context, id string) (string, bool) {
	if seriesID, _, ok := strings.Cut(id, ":"); ok {
		if _, found := s.Item(seriesID, models.ItemTypeSeries); found {
			for _, ep := range s.Episodes(ctx, seriesID) {
				if ep.ID == id {
					return ep.URL, ep.URL != ""
				}
			}
		}
	}
	for _, series := range s.series {
		for _, ep := range s.Episodes(ctx, series.ID) {
			if ep.ID == id {
				return ep.URL, ep.URL != ""
			}
		}
	}
	return "", false
}

func (s *Store) resolveExternal(match func(imdb, tmdb string) bool) (string, bool) {
	for _, item := range s.movies {
		if match(item.IMDBID, item.TMDBID) && item.URL != "" {
			return item.URL, true
		}
	}
	for _, item := range s.series {
		if match(item.IMDBID, item.TMDBID) && item.URL != "" {
			return item.URL, true
		}
	}
	return "", false
}
