// Package api provides the HTTP surface: the websocket endpoint, match
// history queries, and health.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tycho-bear/tic-tac-toe/internal/api/handler"
	"github.com/tycho-bear/tic-tac-toe/internal/middleware"
	"github.com/tycho-bear/tic-tac-toe/internal/storage"
	"github.com/tycho-bear/tic-tac-toe/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	History  storage.Storage
	WSRouter *ws.Router
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	resultsHandler := handler.NewResultsHandler(cfg.History, cfg.Logger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// The game protocol runs over this single websocket endpoint
	r.HandleFunc("/ws", cfg.WSRouter.HandleWebSocket)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/results", resultsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/results/{player}", resultsHandler.Tally).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
