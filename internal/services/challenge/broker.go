package challenge

import (
	"log/slog"
	"sync"

	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/clock"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/services/registry"
)

// Broker holds pending challenge offers keyed by challenger. Each
// challenger has at most one outstanding offer; offering again replaces the
// previous one.
type Broker struct {
	registry *registry.Service
	clock    clock.Clock
	logger   *slog.Logger

	mu     sync.Mutex
	offers map[model.PlayerID]*model.Challenge
}

// New creates a new ChallengeBroker
func New(reg *registry.Service, clk clock.Clock, logger *slog.Logger) *Broker {
	return &Broker{
		registry: reg,
		clock:    clk,
		logger:   logger,
		offers:   make(map[model.PlayerID]*model.Challenge),
	}
}

// Offer records a challenge from challenger to the named target, replacing
// any prior offer from the same challenger. The target must be a live lobby
// player and the geometry must be within bounds.
func (b *Broker) Offer(challenger *model.Player, targetName string, boardSize, winCondition int) (*model.Challenge, *model.Player, error) {
	if !model.ValidBoardParams(boardSize, winCondition) {
		return nil, nil, model.ErrInvalidGeometry
	}

	target, ok := b.registry.ByName(targetName)
	if !ok {
		return nil, nil, model.ErrTargetNotFound
	}
	if target.ID == challenger.ID {
		return nil, nil, model.ErrSelfChallenge
	}
	if target.Status != model.StatusLobby {
		return nil, nil, model.ErrTargetNotAvailable
	}

	offer := &model.Challenge{
		Challenger:   challenger.ID,
		Target:       target.ID,
		BoardSize:    boardSize,
		WinCondition: winCondition,
		CreatedAt:    b.clock.Now(),
	}

	b.mu.Lock()
	b.offers[challenger.ID] = offer
	b.mu.Unlock()

	b.logger.Info("challenge offered",
		slog.String("challenger", challenger.Name),
		slog.String("target", target.Name),
		slog.Int("board_size", boardSize),
		slog.Int("win_condition", winCondition),
	)

	return offer, target, nil
}

// ConsumeFor atomically removes and returns the challenger's offer if it is
// addressed to the given target. The read and the clear happen in one
// critical section; a half-consumed offer is never observable.
func (b *Broker) ConsumeFor(challenger, target model.PlayerID) (*model.Challenge, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	offer, ok := b.offers[challenger]
	if !ok || offer.Target != target {
		return nil, false
	}
	delete(b.offers, challenger)
	return offer, true
}

// Cancel drops any outstanding offer authored by the given challenger
func (b *Broker) Cancel(challenger model.PlayerID) {
	b.mu.Lock()
	delete(b.offers, challenger)
	b.mu.Unlock()
}
