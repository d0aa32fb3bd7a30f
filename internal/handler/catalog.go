package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/platanadas/pos-client/internal/catalog"
	"github.com/platanadas/pos-client/internal/state"
)

// CatalogHandler serves the day's ingredient catalog and seasonal presets.
type CatalogHandler struct {
	store *state.Store
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store *state.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
// Expected to be mounted at /catalog.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type catalogResponse struct {
	Ingredients []catalog.Ingredient     `json:"ingredientes"`
	Presets     []catalog.SeasonalPreset `json:"platanadas_temporadas"`
}

// Get returns the catalog, optionally filtered with ?categoria=.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat := h.store.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Ingredients: cat.Ingredients(r.URL.Query().Get("categoria")),
		Presets:     cat.Presets(),
	})
}
