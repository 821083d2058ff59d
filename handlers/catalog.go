package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"telecast/config"
	"telecast/models"
	"telecast/services/catalog"
	"telecast/services/enrich"
)

// CatalogHandler serves listing, genre, and detail requests.
type CatalogHandler struct {
	cfg     *config.Manager
	catalog *catalog.Service
	enrich  *enrich.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(cfg *config.Manager, cat *catalog.Service, enr *enrich.Service) *CatalogHandler {
	return &CatalogHandler{cfg: cfg, catalog: cat, enrich: enr}
}

// List returns one page of previews for a type collection.
// GET /api/catalog/{type}?rail=&genre=&search=&page=&refresh=true
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	t := models.ItemType(mux.Vars(r)["type"])
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "unknown catalog type")
		return
	}
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	q := r.URL.Query()
	page := 0
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	force := q.Get("refresh") == "true"

	store := h.catalog.LoadOrRefresh(r.Context(), settings, force)
	items := store.Query(catalog.Query{
		Type:   t,
		Rail:   q.Get("rail"),
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
		Page:   page,
	}, settings.Catalog)

	previews := h.enrich.Previews(items, store.Schedule(), settings.Images)
	if previews == nil {
		previews = []models.Preview{}
	}

	writeJSON(w, http.StatusOK, struct {
		Items    []models.Preview `json:"items"`
		Page     int              `json:"page"`
		PageSize int              `json:"pageSize"`
	}{previews, page, catalog.PageSize})
}

// Genres returns the distinct categories of one type collection.
// GET /api/catalog/{type}/genres
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	t := models.ItemType(mux.Vars(r)["type"])
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "unknown catalog type")
		return
	}
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	store := h.catalog.LoadOrRefresh(r.Context(), settings, false)
	genres := store.Genres(t, settings.Catalog)
	if genres == nil {
		genres = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"genres": genres})
}

// Rails returns the configured home-screen rails for one type.
// GET /api/catalog/{type}/rails
func (h *CatalogHandler) Rails(w http.ResponseWriter, r *http.Request) {
	t := models.ItemType(mux.Vars(r)["type"])
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "unknown catalog type")
		return
	}
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	rails := catalog.Rails(settings.Catalog, t)
	if rails == nil {
		rails = []config.RailConfig{}
	}
	writeJSON(w, http.StatusOK, map[string][]config.RailConfig{"rails": rails})
}

// Detail returns the enriched projection for one item.
// GET /api/detail/{type}/{id}
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t := models.ItemType(vars["type"])
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "unknown catalog type")
		return
	}
	settings, err := h.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings unavailable")
		return
	}

	store := h.catalog.LoadOrRefresh(r.Context(), settings, false)
	item, ok := store.Item(vars["id"], t)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var episodes []models.SeriesEpisode
	if t == models.ItemTypeSeries {
		episodes = store.Episodes(r.Context(), item.ID)
	}

	writeJSON(w, http.StatusOK, h.enrich.Detail(r.Context(), item, episodes, store.Schedule(), settings.Metadata, settings.Images))
}
