// Package router wires the localhost HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/platanadas/pos-client/internal/handler"
	"github.com/platanadas/pos-client/internal/service"
	"github.com/platanadas/pos-client/internal/session"
	"github.com/platanadas/pos-client/internal/state"
	"github.com/platanadas/pos-client/internal/ws"
	"go.uber.org/zap"
)

// New creates a Chi router with all register routes wired up. The daemon
// binds to loopback only; CORS is open so the UI webview can call it from
// whatever origin the tablet shell uses.
func New(store *state.Store, sess *session.Session, svc *service.Service, hub *ws.Hub, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/ws/state", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(hub, w, req)
	})

	authHandler := handler.NewAuthHandler(svc, sess, log)
	r.Route("/auth", authHandler.RegisterRoutes)

	catalogHandler := handler.NewCatalogHandler(store)
	r.Route("/catalog", catalogHandler.RegisterRoutes)

	builderHandler := handler.NewBuilderHandler(store, svc, log)
	r.Route("/order", builderHandler.RegisterRoutes)

	historyHandler := handler.NewHistoryHandler(store, svc, log)
	r.Route("/history", historyHandler.RegisterRoutes)

	return r
}
