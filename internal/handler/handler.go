// Package handler is the localhost HTTP surface the tablet UI drives. It
// exposes the state store's builder and ledger operations and the service
// flows as JSON endpoints; the UI holds no state of its own and re-reads
// these endpoints when the WebSocket signals a change.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
