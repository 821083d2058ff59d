package handlers

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

// Health reports liveness.
// GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}{
		Status: "ok",
		Uptime: time.Since(startedAt).Round(time.Second).String(),
	})
}
