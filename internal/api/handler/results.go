package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tycho-bear/tic-tac-toe/internal/api/response"
	"github.com/tycho-bear/tic-tac-toe/internal/storage"
)

// defaultResultLimit is used when the request does not specify one
const defaultResultLimit = 50

// ResultsHandler serves finished-match history
type ResultsHandler struct {
	history storage.Storage
	logger  *slog.Logger
}

// NewResultsHandler creates a new ResultsHandler
func NewResultsHandler(history storage.Storage, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{history: history, logger: logger}
}

// List returns recent results, most recent first. Accepts ?limit=N.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := h.history.RecentResults(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list results", slog.String("error", err.Error()))
		response.Error(w, http.StatusInternalServerError, "failed to list results")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"results": results})
}

// Tally returns the win/loss/draw record for one player
func (h *ResultsHandler) Tally(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["player"]

	tally, err := h.history.PlayerTally(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "no recorded matches for player")
			return
		}
		h.logger.Error("failed to load tally",
			slog.String("player", name),
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, "failed to load tally")
		return
	}

	response.JSON(w, http.StatusOK, tally)
}
