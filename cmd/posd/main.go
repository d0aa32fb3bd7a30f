// posd is the headless core of the Platanadas register. It owns all order
// state, persists it across restarts, and reconciles the offline ledger with
// the remote backend. The tablet UI drives it over a loopback HTTP surface
// and listens for state-change pushes on /ws/state.
package main

import (
	"net/http"

	"github.com/platanadas/pos-client/internal/config"
	"github.com/platanadas/pos-client/internal/gateway"
	"github.com/platanadas/pos-client/internal/router"
	"github.com/platanadas/pos-client/internal/service"
	"github.com/platanadas/pos-client/internal/session"
	"github.com/platanadas/pos-client/internal/state"
	"github.com/platanadas/pos-client/internal/storage"
	"github.com/platanadas/pos-client/internal/ws"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	fileStore, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		log.Fatal("open state dir", zap.String("dir", cfg.StateDir), zap.Error(err))
	}

	sess := session.New(fileStore)
	if err := sess.Restore(); err != nil {
		log.Warn("restore session", zap.Error(err))
	}

	store := state.New(fileStore, log)
	if err := store.Restore(); err != nil {
		log.Warn("restore state snapshot", zap.Error(err))
	}

	hub := ws.NewHub(log)
	go hub.Run()
	store.SetOnChange(hub.NotifyStateChanged)

	gw := gateway.New(cfg.GatewayURL, cfg.RequestTimeout, sess, log)
	svc := service.New(store, sess, gw, log)

	r := router.New(store, sess, svc, hub, log)

	log.Info("posd listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("gateway", cfg.GatewayURL),
		zap.String("state_dir", cfg.StateDir),
	)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}
