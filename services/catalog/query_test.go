package catalog

import (
	"fmt"
	"testing"

	"telecast/models"
)

func testStore() *Store {
	return newStore("test-identity", testEntry(), &fakeSource{})
}

func TestQueryHidesBlacklistedCategories(t *testing.T) {
	s := testStore()
	items := s.Query(Query{Type: models.ItemTypeTV}, testCatalogSettings())

	if len(items) != 2 {
		t.Fatalf("expected 2 channels after blacklist, got %d", len(items))
	}
	for _, item := range items {
		if item.Category == "Adult" {
			t.Fatalf("blacklisted item leaked: %+v", item)
		}
	}
}

func TestRailQueriesAreBlacklistExempt(t *testing.T) {
	s := testStore()
	items := s.Query(Query{Type: models.ItemTypeTV, Rail: "After Dark"}, testCatalogSettings())

	if len(items) != 1 || items[0].ID != "ch3" {
		t.Fatalf("expected the blacklisted category via its rail, got %+v", items)
	}
}

func TestUnknownRailYieldsEmpty(t *testing.T) {
	s := testStore()
	if items := s.Query(Query{Type: models.ItemTypeTV, Rail: "Nope"}, testCatalogSettings()); len(items) != 0 {
		t.Fatalf("expected empty result for unknown rail, got %d items", len(items))
	}
}

func TestSearchIsCaseAndDiacriticInsensitive(t *testing.T) {
	s := testStore()

	items := s.Query(Query{Type: models.ItemTypeTV, Search: "news"}, testCatalogSettings())
	if len(items) != 1 || items[0].Name != "Euro News HD" {
		t.Fatalf("case-insensitive search failed: %+v", items)
	}

	items = s.Query(Query{Type: models.ItemTypeTV, Search: "tele"}, testCatalogSettings())
	if len(items) != 1 || items[0].Name != "Télé Monde" {
		t.Fatalf("diacritic folding failed: %+v", items)
	}
}

func TestGenreFilterIsExact(t *testing.T) {
	s := testStore()
	items := s.Query(Query{Type: models.ItemTypeMovie, Genre: "Drama"}, testCatalogSettings())
	if len(items) != 2 {
		t.Fatalf("expected 2 drama movies, got %d", len(items))
	}
	if items := s.Query(Query{Type: models.ItemTypeMovie, Genre: "drama"}, testCatalogSettings()); len(items) != 0 {
		t.Fatalf("genre match must be exact, got %d items", len(items))
	}
}

func TestMoviesSortNewestFirst(t *testing.T) {
	s := testStore()
	items := s.Query(Query{Type: models.ItemTypeMovie}, testCatalogSettings())
	if len(items) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Year < items[i].Year {
			t.Fatalf("movies not sorted newest-first: %v", items)
		}
	}
}

func TestChannelsKeepPlaylistOrder(t *testing.T) {
	s := testStore()
	items := s.Query(Query{Type: models.ItemTypeTV}, testCatalogSettings())
	if items[0].ID != "ch1" || items[1].ID != "ch2" {
		t.Fatalf("channel order changed: %+v", items)
	}
}

func TestQueryPaging(t *testing.T) {
	entry := testEntry()
	entry.Movies = nil
	for i := 0; i < 250; i++ {
		entry.Movies = append(entry.Movies, models.CatalogItem{
			ID:   fmt.Sprintf("m%d", i),
			Type: models.ItemTypeMovie,
			Name: fmt.Sprintf("Movie %d", i),
			Year: 2000,
		})
	}
	s := newStore("paging", entry, &fakeSource{})

	if got := len(s.Query(Query{Type: models.ItemTypeMovie, Page: 0}, testCatalogSettings())); got != PageSize {
		t.Fatalf("page 0: expected %d items, got %d", PageSize, got)
	}
	if got := len(s.Query(Query{Type: models.ItemTypeMovie, Page: 2}, testCatalogSettings())); got != 50 {
		t.Fatalf("page 2: expected 50 items, got %d", got)
	}
	if got := len(s.Query(Query{Type: models.ItemTypeMovie, Page: 3}, testCatalogSettings())); got != 0 {
		t.Fatalf("page 3: expected empty, got %d", got)
	}
}

func TestGenres(t *testing.T) {
	s := testStore()
	genres := s.Genres(models.ItemTypeTV, testCatalogSettings())
	if len(genres) != 2 {
		t.Fatalf("expected 2 genres (blacklist hidden), got %v", genres)
	}
	if genres[0] != "News" || genres[1] != "French" {
		t.Fatalf("expected first-seen order, got %v", genres)
	}
}
