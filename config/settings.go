package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// ProviderMode selects how the upstream catalog is ingested.
type ProviderMode string

const (
	ProviderModeM3U    ProviderMode = "m3u"
	ProviderModeXtream ProviderMode = "xtream"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Provider ProviderSettings `json:"provider"`
	Catalog  CatalogSettings  `json:"catalog"`
	Cache    CacheSettings    `json:"cache"`
	Metadata MetadataSettings `json:"metadata"`
	Images   ImageSettings    `json:"images"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ProviderSettings describes the upstream IPTV provider. Exactly one mode is
// active; the Xtream fields are ignored in m3u mode and vice versa.
type ProviderSettings struct {
	Name           string       `json:"name"` // display only, never part of the cache identity
	Mode           ProviderMode `json:"mode"`
	PlaylistURL    string       `json:"playlistUrl"`
	EPGURL         string       `json:"epgUrl,omitempty"`
	XtreamHost     string       `json:"xtreamHost,omitempty"`
	XtreamUsername string       `json:"xtreamUsername,omitempty"`
	XtreamPassword string       `json:"xtreamPassword,omitempty"`
	EPGEnabled     bool         `json:"epgEnabled"`
	IncludeSeries  bool         `json:"includeSeries"`
	// HourOffset shifts all schedule timestamps, in hours. Signed, possibly
	// fractional ("-2", "5.5"). Values outside ±48h parse as 0.
	HourOffset string `json:"hourOffset,omitempty"`
}

// RailConfig binds a named home-screen rail to one playlist category.
type RailConfig struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CatalogSettings controls filtering and home-rail composition.
type CatalogSettings struct {
	Blacklist   []string     `json:"blacklist,omitempty"` // categories hidden from global queries
	TVRails     []RailConfig `json:"tvRails,omitempty"`
	MovieRails  []RailConfig `json:"movieRails,omitempty"`
	SeriesRails []RailConfig `json:"seriesRails,omitempty"`
}

// CacheSettings controls both cache tiers.
type CacheSettings struct {
	TTLMinutes          int    `json:"ttlMinutes"`
	RefreshGraceMinutes int    `json:"refreshGraceMinutes"`
	LocalEntries        int    `json:"localEntries"`
	RedisAddr           string `json:"redisAddr,omitempty"` // empty = shared tier disabled
	RedisPassword       string `json:"redisPassword,omitempty"`
	RedisDB             int    `json:"redisDb,omitempty"`
}

type MetadataSettings struct {
	TMDBAPIKey string `json:"tmdbApiKey"`
	Language   string `json:"language"`
}

// ImageSettings holds locator templates applied to item artwork. Each
// template receives the source image URL (or the item name for the
// placeholder) via %s.
type ImageSettings struct {
	LandscapeTemplate   string `json:"landscapeTemplate,omitempty"`
	PosterTemplate      string `json:"posterTemplate,omitempty"`
	PlaceholderTemplate string `json:"placeholderTemplate,omitempty"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 7979},
		Provider: ProviderSettings{
			Mode:          ProviderModeM3U,
			EPGEnabled:    true,
			IncludeSeries: true,
		},
		Cache: CacheSettings{
			TTLMinutes:          12 * 60,
			RefreshGraceMinutes: 60,
			LocalEntries:        64,
		},
		Metadata: MetadataSettings{Language: "en"},
		Images: ImageSettings{
			PlaceholderTemplate: "https://ui-avatars.com/api/?size=300&name=%s",
		},
		Log: LogConfig{
			File:       "cache/logs/telecast.log",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Manager loads and persists Settings with atomic writes.
type Manager struct {
	mu   sync.Mutex
	path string
}

// NewManager creates a settings manager for the given file path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file path.
func (m *Manager) Path() string { return m.path }

// EnsureDir creates the directory containing the settings file.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings from disk, creating defaults if the file is missing.
// Missing fields introduced after the file was written are backfilled.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		s := DefaultSettings()
		if saveErr := m.saveLocked(s); saveErr != nil {
			return Settings{}, saveErr
		}
		return s, nil
	}
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	backfill(&s)
	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(s)
}

func (m *Manager) saveLocked(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// backfill fills defaults for fields added after the config file was written.
func backfill(s *Settings) {
	if s.Server.Port == 0 {
		s.Server.Port = 7979
	}
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = "0.0.0.0"
	}
	if s.Provider.Mode == "" {
		s.Provider.Mode = ProviderModeM3U
	}
	if s.Cache.TTLMinutes <= 0 {
		s.Cache.TTLMinutes = 12 * 60
	}
	if s.Cache.RefreshGraceMinutes <= 0 {
		s.Cache.RefreshGraceMinutes = 60
	}
	if s.Cache.RefreshGraceMinutes > s.Cache.TTLMinutes {
		s.Cache.RefreshGraceMinutes = s.Cache.TTLMinutes
	}
	if s.Cache.LocalEntries <= 0 {
		s.Cache.LocalEntries = 64
	}
	if strings.TrimSpace(s.Metadata.Language) == "" {
		s.Metadata.Language = "en"
	}
	if strings.TrimSpace(s.Images.PlaceholderTemplate) == "" {
		s.Images.PlaceholderTemplate = "https://ui-avatars.com/api/?size=300&name=%s"
	}
	if strings.TrimSpace(s.Log.File) == "" {
		s.Log.File = "cache/logs/telecast.log"
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = 50
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = 7
	}
}
