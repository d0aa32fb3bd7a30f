package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/platanadas/pos-client/internal/order"
	"github.com/platanadas/pos-client/internal/service"
	"github.com/platanadas/pos-client/internal/state"
	"go.uber.org/zap"
)

// HistoryFlows defines the service methods needed by history handlers.
// Satisfied by *service.Service; narrow interface for testability.
type HistoryFlows interface {
	Finalize(ctx context.Context, index int) error
	Cancel(ctx context.Context, index int, reason string) error
	MarkInPreparation(ctx context.Context, index int) error
	SyncHistory(ctx context.Context) error
}

// HistoryHandler handles the ledger endpoints.
type HistoryHandler struct {
	store *state.Store
	flows HistoryFlows
	log   *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(store *state.Store, flows HistoryFlows, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{store: store, flows: flows, log: logger}
}

// RegisterRoutes registers history endpoints on the given Chi router.
// Expected to be mounted at /history.
func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/sync", h.Sync)
	r.Post("/{index}/prepare", h.Prepare)
	r.Post("/{index}/finalize", h.Finalize)
	r.Post("/{index}/cancel", h.Cancel)
}

type cancelRequest struct {
	Reason string `json:"razon"`
}

type historyResponse struct {
	Orders  []order.Order `json:"pedidos"`
	Syncing bool          `json:"syncing"`
}

// List returns the ledger, newest first, with the advisory syncing flag.
func (h *HistoryHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{
		Orders:  h.store.History(),
		Syncing: h.store.Syncing(),
	})
}

// Sync triggers a manual history reconciliation.
func (h *HistoryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	err := h.flows.SyncHistory(r.Context())
	switch {
	case err == nil:
		h.List(w, r)
	case errors.Is(err, service.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not logged in")
	default:
		h.log.Warn("history sync failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "sync failed, ledger unchanged")
	}
}

// Prepare moves the entry to en_preparacion.
func (h *HistoryHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.flows.MarkInPreparation)
}

// Finalize marks the entry as delivered.
func (h *HistoryHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.flows.Finalize)
}

// Cancel voids the entry with a mandatory reason.
func (h *HistoryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.flows.Cancel(r.Context(), index, req.Reason)
	switch {
	case err == nil:
		h.List(w, r)
	case errors.Is(err, service.ErrEmptyReason):
		writeError(w, http.StatusBadRequest, "razon is required")
	default:
		h.transitionError(w, err)
	}
}

func (h *HistoryHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, int) error) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	if err := fn(r.Context(), index); err != nil {
		h.transitionError(w, err)
		return
	}
	h.List(w, r)
}

func (h *HistoryHandler) transitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, "no such history entry")
	case errors.Is(err, order.ErrTerminalState):
		writeError(w, http.StatusConflict, "order is in a terminal state")
	case errors.Is(err, order.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid lifecycle transition")
	default:
		h.log.Error("history transition", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *HistoryHandler) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid history index")
		return 0, false
	}
	return index, true
}
