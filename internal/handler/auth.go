package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/platanadas/pos-client/internal/gateway"
	"github.com/platanadas/pos-client/internal/service"
	"github.com/platanadas/pos-client/internal/session"
	"go.uber.org/zap"
)

// AuthFlows defines the service methods needed by auth handlers.
// Satisfied by *service.Service; narrow interface for testability.
type AuthFlows interface {
	Login(ctx context.Context, branchID, password string) error
	Logout()
	RefreshDayData(ctx context.Context) error
}

// AuthHandler handles login, logout, and session inspection.
type AuthHandler struct {
	flows   AuthFlows
	session *session.Session
	log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(flows AuthFlows, sess *session.Session, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{flows: flows, session: sess, log: logger}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/refresh", h.Refresh)
	r.Get("/session", h.Session)
}

type loginRequest struct {
	BranchID string `json:"sucursal_id"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	BranchID      string     `json:"sucursal_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// Login runs the combined login + day-data flow against the backend.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.flows.Login(r.Context(), req.BranchID, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, h.sessionState())
	case errors.Is(err, service.ErrEmptyCredentials):
		writeError(w, http.StatusBadRequest, "sucursal_id and password are required")
	case isUpstreamRejection(err):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		h.log.Error("login", zap.Error(err))
		writeError(w, http.StatusBadGateway, "backend unreachable")
	}
}

// Logout drops the session and wipes local state.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.flows.Logout()
	writeJSON(w, http.StatusOK, sessionResponse{})
}

// Refresh re-fetches the day's catalog and history.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	err := h.flows.RefreshDayData(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, gateway.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "not logged in")
	default:
		h.log.Error("refresh day data", zap.Error(err))
		writeError(w, http.StatusBadGateway, "backend unreachable")
	}
}

// Session reports the current auth state, including proactive token expiry.
func (h *AuthHandler) Session(w http.ResponseWriter, _ *http.Request) {
	state := h.sessionState()
	if state.Authenticated && h.session.Expired(time.Now()) {
		// The backend would answer 401 anyway; log out proactively.
		h.flows.Logout()
		state = sessionResponse{}
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *AuthHandler) sessionState() sessionResponse {
	state := sessionResponse{
		Authenticated: h.session.Authenticated(),
		BranchID:      h.session.BranchID(),
	}
	if exp, ok := h.session.TokenExpiry(); ok {
		state.ExpiresAt = &exp
	}
	return state
}

// isUpstreamRejection reports whether the backend answered the request and
// said no, as opposed to being unreachable.
func isUpstreamRejection(err error) bool {
	if errors.Is(err, gateway.ErrUnauthorized) {
		return true
	}
	var srvErr *gateway.ServerError
	return errors.As(err, &srvErr)
}
