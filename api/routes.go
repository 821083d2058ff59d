// Package api wires the HTTP routes onto the gorilla router.
package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telecast/handlers"
)

// corsMiddleware handles CORS for API routes.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an id so log lines from one
// request can be correlated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts all endpoints onto the provided router.
func Register(
	r *mux.Router,
	catalogHandler *handlers.CatalogHandler,
	streamHandler *handlers.StreamHandler,
	epgHandler *handlers.EPGHandler,
	adminHandler *handlers.AdminHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware, requestIDMiddleware)

	api.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api.HandleFunc("/catalog/{type}", catalogHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{type}/genres", catalogHandler.Genres).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{type}/rails", catalogHandler.Rails).Methods(http.MethodGet)
	api.HandleFunc("/detail/{type}/{id}", catalogHandler.Detail).Methods(http.MethodGet)
	api.HandleFunc("/stream/{id}", streamHandler.Resolve).Methods(http.MethodGet)

	api.HandleFunc("/epg/status", epgHandler.Status).Methods(http.MethodGet)

	api.HandleFunc("/admin/refresh", adminHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/settings", settingsHandler.Update).Methods(http.MethodPut)

	// CORS preflight for any API path.
	api.PathPrefix("/").HandlerFunc(handleOptions).Methods(http.MethodOptions)
}
