package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"telecast/config"
)

// SettingsHandler reads and updates the persisted configuration.
type SettingsHandler struct {
	cfg *config.Manager
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(cfg *config.Manager) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// Get returns the current settings.
// GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update replaces the settings wholesale and persists them. A changed
// provider block shifts the configuration identity, so the next catalog
// request builds (or restores) a different snapshot; nothing is torn down
// eagerly.
// PUT /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings config.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}
	if err := h.cfg.Save(settings); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	saved, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
