package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/platanadas/pos-client/internal/order"
	"github.com/platanadas/pos-client/internal/service"
	"github.com/platanadas/pos-client/internal/state"
	"go.uber.org/zap"
)

// BuilderFlows defines the service methods needed by the builder surface.
// Satisfied by *service.Service; narrow interface for testability. The
// state store is held concretely: it is an in-process value tests construct
// directly.
type BuilderFlows interface {
	StartOrder(alias string) error
	Checkout(ctx context.Context, paymentMode string) (service.CheckoutResult, error)
}

// BuilderHandler handles the in-progress-order endpoints.
type BuilderHandler struct {
	store *state.Store
	flows BuilderFlows
	log   *zap.Logger
}

// NewBuilderHandler creates a new BuilderHandler.
func NewBuilderHandler(store *state.Store, flows BuilderFlows, logger *zap.Logger) *BuilderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuilderHandler{store: store, flows: flows, log: logger}
}

// RegisterRoutes registers builder endpoints on the given Chi router.
// Expected to be mounted at /order.
func (h *BuilderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/", h.Start)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Post("/items/duplicate", h.DuplicateItem)
	r.Delete("/items", h.RemoveItem)
	r.Put("/items/active", h.SelectItem)
	r.Put("/category", h.SetCategory)
	r.Put("/ingredient", h.UpdateIngredient)
	r.Post("/preset", h.ApplyPreset)
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type startOrderRequest struct {
	Alias string `json:"comensal"`
}

type selectItemRequest struct {
	Index int `json:"index"`
}

type setCategoryRequest struct {
	Category string `json:"categoria"`
}

type updateIngredientRequest struct {
	IngredientID string `json:"ingrediente_id"`
	Delta        int    `json:"delta"`
}

type applyPresetRequest struct {
	PresetID string `json:"preset_id"`
}

type checkoutRequest struct {
	PaymentMode string `json:"modo_pago"`
}

type currentOrderResponse struct {
	Order          *order.Order `json:"pedido"`
	Total          string       `json:"total"`
	ActiveIndex    int          `json:"active_index"`
	ActiveCategory string       `json:"active_category"`
	Summaries      []string     `json:"summaries,omitempty"`
}

type checkoutResponse struct {
	Order  order.Order `json:"pedido"`
	Synced bool        `json:"synced"`
}

// --- Handlers ---

// Get returns the in-progress order with the builder pointers and per-item
// summary text.
func (h *BuilderHandler) Get(w http.ResponseWriter, _ *http.Request) {
	resp := currentOrderResponse{
		Total:          h.store.OrderTotal().String(),
		ActiveIndex:    h.store.ActiveIndex(),
		ActiveCategory: h.store.ActiveCategory(),
	}
	if cur, ok := h.store.CurrentOrder(); ok {
		resp.Order = &cur
		cat := h.store.Catalog()
		resp.Summaries = make([]string, len(cur.Items))
		for i, item := range cur.Items {
			resp.Summaries[i] = order.ItemSummary(item, cat)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Start begins a new order for the named customer.
func (h *BuilderHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.flows.StartOrder(req.Alias); err != nil {
		writeError(w, http.StatusBadRequest, "comensal is required")
		return
	}
	h.Get(w, r)
}

// Clear drops the in-progress order without touching history.
func (h *BuilderHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	h.store.ClearCurrentOrder()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddItem appends an empty line item and activates it.
func (h *BuilderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.store.AddLineItem()
	h.Get(w, r)
}

// DuplicateItem deep-copies the active line item.
func (h *BuilderHandler) DuplicateItem(w http.ResponseWriter, r *http.Request) {
	h.store.DuplicateLineItem()
	h.Get(w, r)
}

// RemoveItem removes the active line item.
func (h *BuilderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveLineItem()
	h.Get(w, r)
}

// SelectItem moves the active line-item pointer.
func (h *BuilderHandler) SelectItem(w http.ResponseWriter, r *http.Request) {
	var req selectItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SelectLineItem(req.Index)
	writeJSON(w, http.StatusOK, map[string]int{"active_index": h.store.ActiveIndex()})
}

// SetCategory sets the ingredient-browsing filter.
func (h *BuilderHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req setCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SetCategory(req.Category)
	writeJSON(w, http.StatusOK, map[string]string{"active_category": h.store.ActiveCategory()})
}

// UpdateIngredient applies a quantity delta to the active line item.
func (h *BuilderHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	var req updateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IngredientID == "" {
		writeError(w, http.StatusBadRequest, "ingrediente_id is required")
		return
	}
	h.store.UpdateIngredientQuantity(req.IngredientID, req.Delta)
	h.Get(w, r)
}

// ApplyPreset replaces the active line item with a seasonal preset.
func (h *BuilderHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req applyPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch err := h.store.ApplySeasonalPreset(req.PresetID); {
	case err == nil:
		h.Get(w, r)
	case errors.Is(err, state.ErrPresetNotFound):
		writeError(w, http.StatusNotFound, "preset not found")
	case errors.Is(err, state.ErrNoCurrentOrder):
		writeError(w, http.StatusConflict, "no order in progress")
	default:
		h.log.Error("apply preset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Checkout commits the in-progress order with the chosen payment mode.
func (h *BuilderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.flows.Checkout(r.Context(), req.PaymentMode)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, checkoutResponse{Order: res.Order, Synced: res.Synced})
	case errors.Is(err, service.ErrInvalidPaymentMode):
		writeError(w, http.StatusBadRequest, "invalid modo_pago")
	case errors.Is(err, service.ErrNoCurrentOrder):
		writeError(w, http.StatusConflict, "no order in progress")
	default:
		h.log.Error("checkout", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
