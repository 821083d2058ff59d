package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"telecast/config"
	"telecast/internal/cache"
	"telecast/models"
	"telecast/services/playlist"
	"telecast/services/provider"
)

func testSettings() config.Settings {
	s := config.DefaultSettings()
	s.Provider.PlaylistURL = "http://example.com/playlist.m3u"
	s.Provider.EPGEnabled = false
	return s
}

func newTestService(t *testing.T, src *fakeSource, grace time.Duration) (*Service, *cache.Layered) {
	t.Helper()
	local, err := cache.NewLocal(8)
	require.NoError(t, err)
	tiers := cache.NewLayered(local, nil, time.Hour)
	svc := NewService(tiers, time.Hour, grace)
	svc.newSource = func(config.Settings) provider.Source { return src }
	return svc, tiers
}

func entryAsResult(entry models.CacheEntry) playlist.Result {
	return playlist.Result{
		Channels: entry.Channels,
		Movies:   entry.Movies,
		Series:   entry.Series,
		Episodes: entry.Episodes,
	}
}

func TestLoadOrRefreshBuildsAndCaches(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, _ := newTestService(t, src, 30*time.Minute)
	ctx := context.Background()

	store := svc.LoadOrRefresh(ctx, testSettings(), false)
	channels, movies, series := store.Counts()
	require.Equal(t, 3, channels)
	require.Equal(t, 3, movies)
	require.Equal(t, 1, series)

	again := svc.LoadOrRefresh(ctx, testSettings(), false)
	require.Same(t, store, again, "fresh snapshot must be served without refetch")
	require.EqualValues(t, 1, src.catalogCalls.Load())
}

func TestForceRefreshWithinGraceServesCurrent(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, _ := newTestService(t, src, 30*time.Minute)
	ctx := context.Background()

	store := svc.LoadOrRefresh(ctx, testSettings(), false)
	again := svc.LoadOrRefresh(ctx, testSettings(), true)
	require.Same(t, store, again)
	require.EqualValues(t, 1, src.catalogCalls.Load(), "force within grace must not refetch")
}

func TestForceRefreshHonorsGraceAfterRestart(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, tiers := newTestService(t, src, 30*time.Minute)
	ctx := context.Background()

	svc.LoadOrRefresh(ctx, testSettings(), false)

	// A new service over the same tiers models a restarted process: the
	// grace window must apply to the cached snapshot, so a forced request
	// serves it without touching upstream.
	coldSrc := &fakeSource{fetchErr: errUpstream}
	svc2 := NewService(tiers, time.Hour, 30*time.Minute)
	svc2.newSource = func(config.Settings) provider.Source { return coldSrc }

	store := svc2.LoadOrRefresh(ctx, testSettings(), true)
	require.EqualValues(t, 0, coldSrc.catalogCalls.Load(), "force within grace must not refetch")
	channels, movies, series := store.Counts()
	require.Equal(t, []int{3, 3, 1}, []int{channels, movies, series}, "cached snapshot must be served, not an empty store")
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, _ := newTestService(t, src, 0)
	ctx := context.Background()

	store := svc.LoadOrRefresh(ctx, testSettings(), false)

	src.fetchErr = errUpstream
	again := svc.LoadOrRefresh(ctx, testSettings(), true)
	require.Same(t, store, again, "failed refresh must keep serving the old snapshot")
}

func TestFailureWithNoSnapshotYieldsEmptyResults(t *testing.T) {
	src := &fakeSource{fetchErr: errUpstream}
	svc, _ := newTestService(t, src, 0)
	ctx := context.Background()

	store := svc.LoadOrRefresh(ctx, testSettings(), false)
	require.NotNil(t, store)

	items := store.Query(Query{Type: models.ItemTypeTV}, config.CatalogSettings{})
	require.Empty(t, items, "ingestion failure must surface as empty results, not an error")
}

func TestEmptyFetchYieldsEmptyResults(t *testing.T) {
	src := &fakeSource{}
	svc, _ := newTestService(t, src, 0)

	store := svc.LoadOrRefresh(context.Background(), testSettings(), false)
	items := store.Query(Query{Type: models.ItemTypeMovie}, config.CatalogSettings{})
	require.Empty(t, items)

	_, ok := store.ResolveStream(context.Background(), "unknown")
	require.False(t, ok)
}

func TestAdminRefreshBypassesGraceAndSurfacesErrors(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, _ := newTestService(t, src, time.Hour)
	ctx := context.Background()

	svc.LoadOrRefresh(ctx, testSettings(), false)
	_, err := svc.AdminRefresh(ctx, testSettings())
	require.NoError(t, err)
	require.EqualValues(t, 2, src.catalogCalls.Load(), "admin refresh must bypass the grace window")

	src.fetchErr = errUpstream
	_, err = svc.AdminRefresh(ctx, testSettings())
	require.Error(t, err)
}

func TestSnapshotRestoredFromSharedCacheState(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, tiers := newTestService(t, src, 0)
	ctx := context.Background()

	first := svc.LoadOrRefresh(ctx, testSettings(), false)
	require.EqualValues(t, 1, src.catalogCalls.Load())

	// A second service over the same tiers models a process restart with a
	// warm cache: it must restore the snapshot without touching upstream.
	coldSrc := &fakeSource{fetchErr: errUpstream}
	svc2 := NewService(tiers, time.Hour, 0)
	svc2.newSource = func(config.Settings) provider.Source { return coldSrc }

	restored := svc2.LoadOrRefresh(ctx, testSettings(), false)
	require.EqualValues(t, 0, coldSrc.catalogCalls.Load())

	c1, m1, s1 := first.Counts()
	c2, m2, s2 := restored.Counts()
	require.Equal(t, []int{c1, m1, s1}, []int{c2, m2, s2})
	require.Equal(t, first.LastRefreshedAt().Unix(), restored.LastRefreshedAt().Unix())

	want, ok := first.Item("ch1", models.ItemTypeTV)
	require.True(t, ok)
	got, ok := restored.Item("ch1", models.ItemTypeTV)
	require.True(t, ok)
	require.Equal(t, want, got, "items must survive the snapshot round trip field-equal")
}

func TestDistinctIdentitiesGetDistinctStores(t *testing.T) {
	src := &fakeSource{result: entryAsResult(testEntry())}
	svc, _ := newTestService(t, src, 0)
	ctx := context.Background()

	a := svc.LoadOrRefresh(ctx, testSettings(), false)

	other := testSettings()
	other.Provider.PlaylistURL = "http://example.com/other.m3u"
	b := svc.LoadOrRefresh(ctx, other, false)

	require.NotEqual(t, a.Identity(), b.Identity())
	require.NotSame(t, a, b)
	require.EqualValues(t, 2, src.catalogCalls.Load())
}
