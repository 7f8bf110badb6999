// Package factory wires the application together
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tycho-bear/tic-tac-toe/internal/config"
	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/clock"
	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/random"
	"github.com/tycho-bear/tic-tac-toe/internal/services/challenge"
	"github.com/tycho-bear/tic-tac-toe/internal/services/game"
	"github.com/tycho-bear/tic-tac-toe/internal/services/match"
	"github.com/tycho-bear/tic-tac-toe/internal/services/registry"
	"github.com/tycho-bear/tic-tac-toe/internal/storage"
	"github.com/tycho-bear/tic-tac-toe/internal/storage/memory"
	redisstorage "github.com/tycho-bear/tic-tac-toe/internal/storage/redis"
	"github.com/tycho-bear/tic-tac-toe/internal/ws"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry       *registry.Service
	Challenges     *challenge.Broker
	GameController *game.Controller
	Coordinator    *match.Coordinator

	// Transport
	Hub      *ws.Hub
	WSRouter *ws.Router
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	reg := registry.New(clk, logger)
	challenges := challenge.New(reg, clk, logger)
	gameController := game.New(clk, rnd, logger)
	hub := ws.NewHub(logger)
	coordinator := match.New(reg, challenges, gameController, store, hub, clk, logger)
	wsRouter := ws.NewRouter(hub, coordinator, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       reg,
		Challenges:     challenges,
		GameController: gameController,
		Coordinator:    coordinator,
		Hub:            hub,
		WSRouter:       wsRouter,
	}
}
