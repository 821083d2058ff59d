package provider

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"telecast/config"
)

func TestFlexStringUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"123"`, "123"},
		{`123`, "123"},
		{`123.0`, "123"},
		{`null`, ""},
		{`""`, ""},
		{`"abc.def"`, "abc.def"},
	}
	for _, c := range cases {
		var f flexString
		if err := json.Unmarshal([]byte(c.raw), &f); err != nil {
			t.Errorf("unmarshal %s: %v", c.raw, err)
			continue
		}
		if f.String() != c.want {
			t.Errorf("flexString(%s) = %q, want %q", c.raw, f, c.want)
		}
	}
}

func testXtream() *XtreamSource {
	return NewXtreamSource(config.ProviderSettings{
		Mode:           config.ProviderModeXtream,
		XtreamHost:     "http://panel.example.com/",
		XtreamUsername: "user",
		XtreamPassword: "pass",
	}, nil)
}

func TestStreamURL(t *testing.T) {
	s := testXtream()

	if got := s.streamURL("live", "42", ""); got != "http://panel.example.com/live/user/pass/42.m3u8" {
		t.Errorf("default extension wrong: %q", got)
	}
	if got := s.streamURL("movie", "7", "mkv"); got != "http://panel.example.com/movie/user/pass/7.mkv" {
		t.Errorf("container extension lost: %q", got)
	}
	if got := s.streamURL("series", "9", "toolongext"); !strings.HasSuffix(got, "/9.m3u8") {
		t.Errorf("oversized extension must fall back to m3u8: %q", got)
	}
}

func TestAPIURL(t *testing.T) {
	s := testXtream()
	u := s.apiURL("get_live_streams", nil)

	if !strings.HasPrefix(u, "http://panel.example.com/player_api.php?") {
		t.Fatalf("unexpected endpoint: %q", u)
	}
	for _, part := range []string{"username=user", "password=pass", "action=get_live_streams"} {
		if !strings.Contains(u, part) {
			t.Errorf("missing %q in %q", part, u)
		}
	}
}

func TestYearFromDate(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"2019-05-17", 2019},
		{"2019", 2019},
		{"", 0},
		{"n/a", 0},
		{"1850-01-01", 0},
	}
	for _, c := range cases {
		if got := yearFromDate(c.raw); got != c.want {
			t.Errorf("yearFromDate(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}
