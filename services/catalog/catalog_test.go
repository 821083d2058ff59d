package catalog

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"telecast/config"
	"telecast/models"
	"telecast/services/playlist"
)

// fakeSource is an in-memory provider.Source for tests.
type fakeSource struct {
	result       playlist.Result
	fetchErr     error
	episodes     map[string][]models.SeriesEpisode
	episodeErr   error
	catalogCalls atomic.Int32
	episodeCalls atomic.Int32
}

func (f *fakeSource) FetchCatalog(context.Context) (playlist.Result, error) {
	f.catalogCalls.Add(1)
	if f.fetchErr != nil {
		return playlist.Result{}, f.fetchErr
	}
	return f.result, nil
}

func (f *fakeSource) FetchSchedule(context.Context) (io.ReadCloser, error) {
	return nil, nil
}

func (f *fakeSource) FetchSeriesEpisodes(_ context.Context, seriesID string) ([]models.SeriesEpisode, error) {
	f.episodeCalls.Add(1)
	if f.episodeErr != nil {
		return nil, f.episodeErr
	}
	return f.episodes[seriesID], nil
}

var errUpstream = errors.New("upstream unreachable")

func testEntry() models.CacheEntry {
	return models.CacheEntry{
		Channels: []models.CatalogItem{
			{ID: "ch1", Type: models.ItemTypeTV, Name: "Euro News HD", URL: "http://s/ch1", Category: "News", EPGChannelID: "euronews.eu"},
			{ID: "ch2", Type: models.ItemTypeTV, Name: "Télé Monde", URL: "http://s/ch2", Category: "French"},
			{ID: "ch3", Type: models.ItemTypeTV, Name: "Spice TV", URL: "http://s/ch3", Category: "Adult"},
		},
		Movies: []models.CatalogItem{
			{ID: "m1", Type: models.ItemTypeMovie, Name: "Old Classic", URL: "http://s/m1", Category: "Drama", Year: 1994, IMDBID: "tt0110912"},
			{ID: "m2", Type: models.ItemTypeMovie, Name: "New Release", URL: "http://s/m2", Category: "Drama", Year: 2023, TMDBID: "872585"},
			{ID: "m3", Type: models.ItemTypeMovie, Name: "Mid Era", URL: "http://s/m3", Category: "Action", Year: 2008},
		},
		Series: []models.CatalogItem{
			{ID: "s1", Type: models.ItemTypeSeries, Name: "Dark", Category: "Drama", SeriesID: "s1"},
		},
	}
}

func testCatalogSettings() config.CatalogSettings {
	return config.CatalogSettings{
		Blacklist: []string{"Adult"},
		TVRails:   []config.RailConfig{{Name: "After Dark", Category: "Adult"}},
	}
}
