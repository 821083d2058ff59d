package config

import "testing"

func baseSettings() Settings {
	s := DefaultSettings()
	s.Provider.Name = "My Provider"
	s.Provider.Mode = ProviderModeM3U
	s.Provider.PlaylistURL = "http://example.com/playlist.m3u"
	s.Provider.EPGURL = "http://example.com/guide.xml"
	return s
}

func TestIdentityDeterministic(t *testing.T) {
	a := Identity(baseSettings())
	b := Identity(baseSettings())
	if a != b {
		t.Fatalf("identical settings produced different identities: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestIdentityIgnoresCosmeticFields(t *testing.T) {
	base := Identity(baseSettings())

	mutations := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"provider name", func(s *Settings) { s.Provider.Name = "Renamed" }},
		{"blacklist", func(s *Settings) { s.Catalog.Blacklist = []string{"Adult"} }},
		{"rails", func(s *Settings) { s.Catalog.TVRails = []RailConfig{{Name: "Fav", Category: "News"}} }},
		{"image templates", func(s *Settings) { s.Images.PosterTemplate = "http://img/%s" }},
		{"tmdb key", func(s *Settings) { s.Metadata.TMDBAPIKey = "abc123" }},
		{"server port", func(s *Settings) { s.Server.Port = 9999 }},
		{"xtream password", func(s *Settings) { s.Provider.XtreamPassword = "hunter2" }},
	}
	for _, m := range mutations {
		s := baseSettings()
		m.mutate(&s)
		if got := Identity(s); got != base {
			t.Errorf("%s: cosmetic change shifted the identity", m.name)
		}
	}
}

func TestIdentityTracksProviderFields(t *testing.T) {
	base := Identity(baseSettings())

	mutations := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"mode", func(s *Settings) { s.Provider.Mode = ProviderModeXtream }},
		{"playlist url", func(s *Settings) { s.Provider.PlaylistURL = "http://other.com/playlist.m3u" }},
		{"epg url", func(s *Settings) { s.Provider.EPGURL = "http://other.com/guide.xml" }},
		{"epg enabled", func(s *Settings) { s.Provider.EPGEnabled = !s.Provider.EPGEnabled }},
		{"hour offset", func(s *Settings) { s.Provider.HourOffset = "2" }},
		{"include series", func(s *Settings) { s.Provider.IncludeSeries = !s.Provider.IncludeSeries }},
		{"xtream host", func(s *Settings) { s.Provider.XtreamHost = "http://panel.example.com" }},
		{"xtream username", func(s *Settings) { s.Provider.XtreamUsername = "user" }},
	}
	for _, m := range mutations {
		s := baseSettings()
		m.mutate(&s)
		if got := Identity(s); got == base {
			t.Errorf("%s: content-determining change did not shift the identity", m.name)
		}
	}
}
