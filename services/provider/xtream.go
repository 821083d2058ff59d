package provider

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"telecast/config"
	"telecast/models"
	"telecast/services/playlist"
)

// XtreamSource ingests catalog data through the Xtream panel player_api.php
// endpoints and the xmltv.php schedule endpoint. Item ids are the provider's
// native stream/series ids, so they stay stable across refreshes.
type XtreamSource struct {
	cfg    config.ProviderSettings
	client *http.Client
}

// NewXtreamSource builds the panel-API variant.
func NewXtreamSource(cfg config.ProviderSettings, client *http.Client) *XtreamSource {
	return &XtreamSource{cfg: cfg, client: client}
}

// flexString tolerates panels that emit ids and numerics as either JSON
// strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Panels sometimes send ids as floats; keep the integer part.
	if i, err := n.Int64(); err == nil {
		*f = flexString(strconv.FormatInt(i, 10))
		return nil
	}
	if v, err := n.Float64(); err == nil {
		*f = flexString(strconv.FormatInt(int64(v), 10))
		return nil
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

func (s *XtreamSource) apiURL(action string, params url.Values) string {
	base := strings.TrimRight(s.cfg.XtreamHost, "/")
	q := url.Values{}
	q.Set("username", s.cfg.XtreamUsername)
	q.Set("password", s.cfg.XtreamPassword)
	if action != "" {
		q.Set("action", action)
	}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return base + "/player_api.php?" + q.Encode()
}

func (s *XtreamSource) streamURL(kind, id, ext string) string {
	base := strings.TrimRight(s.cfg.XtreamHost, "/")
	if ext == "" || len(ext) > 5 {
		ext = "m3u8"
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s.%s", base, kind,
		url.PathEscape(s.cfg.XtreamUsername), url.PathEscape(s.cfg.XtreamPassword),
		url.PathEscape(id), url.PathEscape(ext))
}

func (s *XtreamSource) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("player_api: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

type xtreamCategory struct {
	CategoryID   flexString `json:"category_id"`
	CategoryName string     `json:"category_name"`
}

// categories fetches the id->name mapping for one catalog kind. Failures
// yield an empty map; items then carry an empty category rather than
// aborting ingestion.
func (s *XtreamSource) categories(ctx context.Context, action string) map[string]string {
	var cats []xtreamCategory
	if err := s.getJSON(ctx, s.apiURL(action, nil), &cats); err != nil {
		log.Printf("[xtream] %s failed: %v", action, err)
		return map[string]string{}
	}
	out := make(map[string]string, len(cats))
	for _, c := range cats {
		if c.CategoryID != "" {
			out[c.CategoryID.String()] = c.CategoryName
		}
	}
	return out
}

// FetchCatalog aggregates live, VOD, and series listings from the panel.
// The live listing is mandatory; VOD and series failures degrade to empty
// collections.
func (s *XtreamSource) FetchCatalog(ctx context.Context) (playlist.Result, error) {
	res := playlist.Result{Episodes: make(map[string][]models.SeriesEpisode)}

	liveCats := s.categories(ctx, "get_live_categories")
	var liveStreams []struct {
		StreamID     flexString `json:"stream_id"`
		Name         string     `json:"name"`
		EPGChannelID flexString `json:"epg_channel_id"`
		StreamIcon   string     `json:"stream_icon"`
		CategoryID   flexString `json:"category_id"`
	}
	if err := s.getJSON(ctx, s.apiURL("get_live_streams", nil), &liveStreams); err != nil {
		return playlist.Result{}, fmt.Errorf("get_live_streams: %w", err)
	}
	for _, st := range liveStreams {
		id := st.StreamID.String()
		if id == "" || strings.TrimSpace(st.Name) == "" {
			continue
		}
		res.Channels = append(res.Channels, models.CatalogItem{
			ID:           id,
			Type:         models.ItemTypeTV,
			Name:         strings.TrimSpace(st.Name),
			URL:          s.streamURL("live", id, "m3u8"),
			Category:     liveCats[st.CategoryID.String()],
			Logo:         st.StreamIcon,
			EPGChannelID: st.EPGChannelID.String(),
		})
	}

	vodCats := s.categories(ctx, "get_vod_categories")
	var vodStreams []struct {
		StreamID           flexString `json:"stream_id"`
		Name               string     `json:"name"`
		StreamIcon         string     `json:"stream_icon"`
		CategoryID         flexString `json:"category_id"`
		ContainerExtension string     `json:"container_extension"`
		ReleaseDate        string     `json:"releasedate"`
		Rating             flexString `json:"rating"`
		TMDBID             flexString `json:"tmdb"`
	}
	if err := s.getJSON(ctx, s.apiURL("get_vod_streams", nil), &vodStreams); err != nil {
		log.Printf("[xtream] get_vod_streams failed: %v", err)
	}
	for _, st := range vodStreams {
		id := st.StreamID.String()
		if id == "" || strings.TrimSpace(st.Name) == "" {
			continue
		}
		res.Movies = append(res.Movies, models.CatalogItem{
			ID:       id,
			Type:     models.ItemTypeMovie,
			Name:     strings.TrimSpace(st.Name),
			URL:      s.streamURL("movie", id, st.ContainerExtension),
			Category: vodCats[st.CategoryID.String()],
			Poster:   st.StreamIcon,
			Year:     yearFromDate(st.ReleaseDate),
			TMDBID:   st.TMDBID.String(),
		})
	}

	if s.cfg.IncludeSeries {
		seriesCats := s.categories(ctx, "get_series_categories")
		var shows []struct {
			SeriesID    flexString `json:"series_id"`
			Name        string     `json:"name"`
			Cover       string     `json:"cover"`
			Plot        string     `json:"plot"`
			CategoryID  flexString `json:"category_id"`
			ReleaseDate string     `json:"releaseDate"`
		}
		if err := s.getJSON(ctx, s.apiURL("get_series", nil), &shows); err != nil {
			log.Printf("[xtream] get_series failed: %v", err)
		}
		for _, sh := range shows {
			id := sh.SeriesID.String()
			if id == "" || strings.TrimSpace(sh.Name) == "" {
				continue
			}
			res.Series = append(res.Series, models.CatalogItem{
				ID:       id,
				Type:     models.ItemTypeSeries,
				Name:     strings.TrimSpace(sh.Name),
				Category: seriesCats[sh.CategoryID.String()],
				Poster:   sh.Cover,
				Plot:     sh.Plot,
				Year:     yearFromDate(sh.ReleaseDate),
				SeriesID: id,
			})
		}
	}

	return res, nil
}

// FetchSchedule streams the panel's XMLTV document.
func (s *XtreamSource) FetchSchedule(ctx context.Context) (io.ReadCloser, error) {
	if !s.cfg.EPGEnabled {
		return nil, nil
	}
	base := strings.TrimRight(s.cfg.XtreamHost, "/")
	epgURL := fmt.Sprintf("%s/xmltv.php?username=%s&password=%s",
		base, url.QueryEscape(s.cfg.XtreamUsername), url.QueryEscape(s.cfg.XtreamPassword))
	return fetchStream(ctx, s.client, epgURL)
}

// FetchSeriesEpisodes resolves one series' episode list via get_series_info.
func (s *XtreamSource) FetchSeriesEpisodes(ctx context.Context, seriesID string) ([]models.SeriesEpisode, error) {
	var info struct {
		Episodes map[string][]struct {
			ID                 flexString `json:"id"`
			EpisodeNum         flexString `json:"episode_num"`
			Title              string     `json:"title"`
			Season             flexString `json:"season"`
			ContainerExtension string     `json:"container_extension"`
			Info               struct {
				MovieImage string `json:"movie_image"`
			} `json:"info"`
		} `json:"episodes"`
	}
	endpoint := s.apiURL("get_series_info", url.Values{"series_id": {seriesID}})
	if err := s.getJSON(ctx, endpoint, &info); err != nil {
		return nil, fmt.Errorf("get_series_info %s: %w", seriesID, err)
	}

	var episodes []models.SeriesEpisode
	for seasonKey, eps := range info.Episodes {
		seasonNum, _ := strconv.Atoi(seasonKey)
		if seasonNum < 1 {
			seasonNum = 1
		}
		for _, ep := range eps {
			epID := ep.ID.String()
			if epID == "" {
				continue
			}
			epNum, _ := strconv.Atoi(ep.EpisodeNum.String())
			if epNum < 1 {
				epNum = 1
			}
			if n, err := strconv.Atoi(ep.Season.String()); err == nil && n > 0 {
				seasonNum = n
			}
			episodes = append(episodes, models.SeriesEpisode{
				ID:        fmt.Sprintf("%s:%d:%d", seriesID, seasonNum, epNum),
				Title:     strings.TrimSpace(ep.Title),
				Season:    seasonNum,
				Episode:   epNum,
				Thumbnail: ep.Info.MovieImage,
				URL:       s.streamURL("series", epID, ep.ContainerExtension),
			})
		}
	}
	return episodes, nil
}

func yearFromDate(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1900 || year > 2100 {
		return 0
	}
	return year
}
