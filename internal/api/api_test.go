package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycho-bear/tic-tac-toe/internal/api"
	"github.com/tycho-bear/tic-tac-toe/internal/factory"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		History:  app.Storage,
		WSRouter: app.WSRouter,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) saveResult(t *testing.T, gameID, winner string, draw bool) {
	t.Helper()
	err := ts.app.Storage.SaveResult(context.Background(), &model.MatchResult{
		GameID:       model.GameID(gameID),
		Player1:      "Alice",
		Player2:      "Bob",
		Winner:       winner,
		Draw:         draw,
		BoardSize:    3,
		WinCondition: 3,
		FinishedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestListResultsEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/results")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Results []model.MatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Empty(t, body.Results)
}

func TestListResults(t *testing.T) {
	ts := newTestServer(t)
	ts.saveResult(t, "g1", "Alice", false)
	ts.saveResult(t, "g2", "", true)

	rr := ts.get("/api/v1/results")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Results []model.MatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, model.GameID("g2"), body.Results[0].GameID)
	assert.True(t, body.Results[0].Draw)
	assert.Equal(t, "Alice", body.Results[1].Winner)
}

func TestListResultsLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.saveResult(t, "g1", "Alice", false)
	ts.saveResult(t, "g2", "Bob", false)

	rr := ts.get("/api/v1/results?limit=1")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Results []model.MatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Results, 1)
}

func TestListResultsRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/results?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.get("/api/v1/results?limit=-5")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlayerTally(t *testing.T) {
	ts := newTestServer(t)
	ts.saveResult(t, "g1", "Alice", false)
	ts.saveResult(t, "g2", "", true)

	rr := ts.get("/api/v1/results/Alice")
	require.Equal(t, http.StatusOK, rr.Code)

	var tally model.PlayerTally
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tally))
	assert.Equal(t, "Alice", tally.Player)
	assert.Equal(t, 1, tally.Wins)
	assert.Equal(t, 0, tally.Losses)
	assert.Equal(t, 1, tally.Draws)
}

func TestPlayerTallyUnknown(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/results/Nobody")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
