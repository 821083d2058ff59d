package handlers

import (
	"context"
	"net/http"
	"time"

	"telecast/config"
	"telecast/services/catalog"
)

const adminRefreshTimeout = 10 * time.Minute

// AdminHandler exposes operator actions.
type AdminHandler struct {
	cfg     *config.Manager
	catalog *catalog.Service
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(cfg *config.Manager, cat *catalog.Service) *AdminHandler {
	return &AdminHandler{cfg: cfg, catalog: cat}
}

// Refresh forces a full snapshot rebuild, bypassing both cache tiers and the
// grace window. Unlike query-path refreshes, ingestion failures surface here.
// POST /api/admin/refresh
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRefreshTimeout)
	defer cancel()

	store, err := h.catalog.AdminRefresh(ctx, settings)
	if err != nil {
		writeError(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}

	channels, movies, series := store.Counts()
	writeJSON(w, http.StatusOK, struct {
		Channels        int       `json:"channels"`
		Movies          int       `json:"movies"`
		Series          int       `json:"series"`
		GuideChannels   int       `json:"guideChannels"`
		LastRefreshedAt time.Time `json:"lastRefreshedAt"`
	}{
		Channels:        channels,
		Movies:          movies,
		Series:          series,
		GuideChannels:   store.Schedule().ChannelCount(),
		LastRefreshedAt: store.LastRefreshedAt(),
	})
}
