package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"telecast/config"
	"telecast/services/catalog"
)

// StreamHandler resolves playable ids to stream locators.
type StreamHandler struct {
	cfg     *config.Manager
	catalog *catalog.Service
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(cfg *config.Manager, cat *catalog.Service) *StreamHandler {
	return &StreamHandler{cfg: cfg, catalog: cat}
}

// Resolve maps an item or episode id to its stream locator.
// GET /api/stream/{id}            -> {"url": "..."}
// GET /api/stream/{id}?redirect=1 -> 302 to the locator
func (h *StreamHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	store := h.catalog.LoadOrRefresh(r.Context(), settings, false)
	url, ok := store.ResolveStream(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "no stream for id")
		return
	}

	if r.URL.Query().Get("redirect") != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "url": url})
}
