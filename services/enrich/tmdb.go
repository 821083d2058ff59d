package enrich

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	tmdbPosterSize   = "w500"
	tmdbBackdropSize = "w1280"
)

type tmdbClient struct {
	apiKey   string
	language string
	httpc    *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:      strings.TrimSpace(apiKey),
		language:    language,
		httpc:       httpc,
		minInterval: 20 * time.Millisecond,
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *tmdbClient) endpoint(parts ...string) (string, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, parts...)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	lang := strings.TrimSpace(c.language)
	if lang == "" {
		lang = "en-US"
	}
	q.Set("language", lang)
	return endpoint + "?" + q.Encode(), nil
}

// doGET performs an HTTP GET with rate limiting and retry with exponential backoff.
func (c *tmdbClient) doGET(ctx context.Context, endpoint string, v any) error {
	var lastErr error
	backoff := 300 * time.Millisecond

	for attempt := 0; attempt < 3; attempt++ {
		c.throttleMu.Lock()
		since := time.Since(c.lastRequest)
		if since < c.minInterval {
			time.Sleep(c.minInterval - since)
		}
		c.lastRequest = time.Now()
		c.throttleMu.Unlock()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("[tmdb] http error (attempt %d/3): %v", attempt+1, err)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			log.Printf("[tmdb] rate limited or server error (attempt %d/3): status %d", attempt+1, resp.StatusCode)
			lastErr = fmt.Errorf("tmdb request failed: %s", resp.Status)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return fmt.Errorf("tmdb request failed: %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		if err != nil {
			return err
		}
		return nil
	}

	return lastErr
}

// tmdbMetadata is the normalized slice of a TMDB detail response that the
// enricher actually merges.
type tmdbMetadata struct {
	Overview    string
	PosterURL   string
	BackdropURL string
	Year        int
	Rating      float64
	Genres      []string
	TrailerURL  string
}

type tmdbDetailResponse struct {
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Videos struct {
		Results []struct {
			Key      string `json:"key"`
			Site     string `json:"site"`
			Type     string `json:"type"`
			Official bool   `json:"official"`
		} `json:"results"`
	} `json:"videos"`
}

// findByIMDB maps an IMDB id to a TMDB id for the given media kind
// ("movie" or "tv").
func (c *tmdbClient) findByIMDB(ctx context.Context, imdbID, kind string) (int64, error) {
	if !c.isConfigured() {
		return 0, errors.New("tmdb api key not configured")
	}
	endpoint, err := c.endpoint("find", imdbID)
	if err != nil {
		return 0, err
	}
	endpoint += "&external_source=imdb_id"

	var resp struct {
		MovieResults []struct {
			ID int64 `json:"id"`
		} `json:"movie_results"`
		TVResults []struct {
			ID int64 `json:"id"`
		} `json:"tv_results"`
	}
	if err := c.doGET(ctx, endpoint, &resp); err != nil {
		return 0, err
	}
	if kind == "tv" {
		if len(resp.TVResults) > 0 {
			return resp.TVResults[0].ID, nil
		}
	} else if len(resp.MovieResults) > 0 {
		return resp.MovieResults[0].ID, nil
	}
	return 0, fmt.Errorf("no tmdb %s match for %s", kind, imdbID)
}

// detail fetches one title's metadata, videos included, for kind "movie" or "tv".
func (c *tmdbClient) detail(ctx context.Context, kind, tmdbID string) (tmdbMetadata, error) {
	if !c.isConfigured() {
		return tmdbMetadata{}, errors.New("tmdb api key not configured")
	}
	endpoint, err := c.endpoint(kind, tmdbID)
	if err != nil {
		return tmdbMetadata{}, err
	}
	endpoint += "&append_to_response=videos"

	var resp tmdbDetailResponse
	if err := c.doGET(ctx, endpoint, &resp); err != nil {
		return tmdbMetadata{}, err
	}

	meta := tmdbMetadata{
		Overview: resp.Overview,
		Rating:   resp.VoteAverage,
	}
	if resp.PosterPath != "" {
		meta.PosterURL = tmdbImageBaseURL + "/" + tmdbPosterSize + resp.PosterPath
	}
	if resp.BackdropPath != "" {
		meta.BackdropURL = tmdbImageBaseURL + "/" + tmdbBackdropSize + resp.BackdropPath
	}
	date := resp.ReleaseDate
	if date == "" {
		date = resp.FirstAirDate
	}
	if len(date) >= 4 {
		var year int
		if _, err := fmt.Sscanf(date[:4], "%d", &year); err == nil {
			meta.Year = year
		}
	}
	for _, g := range resp.Genres {
		if g.Name != "" {
			meta.Genres = append(meta.Genres, g.Name)
		}
	}
	for _, v := range resp.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			meta.TrailerURL = "https://www.youtube.com/watch?v=" + v.Key
			if v.Official {
				break
			}
		}
	}
	return meta, nil
}
