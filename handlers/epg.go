package handlers

import (
	"net/http"
	"time"

	"telecast/config"
	"telecast/services/catalog"
)

// EPGHandler reports guide data status for the active configuration.
type EPGHandler struct {
	cfg     *config.Manager
	catalog *catalog.Service
}

// NewEPGHandler creates a new EPG handler.
func NewEPGHandler(cfg *config.Manager, cat *catalog.Service) *EPGHandler {
	return &EPGHandler{cfg: cfg, catalog: cat}
}

// Status returns guide coverage for the current snapshot.
// GET /api/epg/status
func (h *EPGHandler) Status(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	store := h.catalog.LoadOrRefresh(r.Context(), settings, false)
	schedule := store.Schedule()

	writeJSON(w, http.StatusOK, struct {
		Enabled         bool      `json:"enabled"`
		Channels        int       `json:"channels"`
		Programs        int       `json:"programs"`
		LastRefreshedAt time.Time `json:"lastRefreshedAt"`
	}{
		Enabled:         settings.Provider.EPGEnabled,
		Channels:        schedule.ChannelCount(),
		Programs:        schedule.ProgramCount(),
		LastRefreshedAt: store.LastRefreshedAt(),
	})
}
