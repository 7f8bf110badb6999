package game

import (
	"log/slog"
	"sync"

	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/clock"
	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/random"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/services/rules"
)

// Game identifiers are short random tokens from an uppercase alphabet
const (
	gameIDLength   = 8
	gameIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// MoveOutcome describes the result of a successfully applied move
type MoveOutcome struct {
	Game     *model.Game
	Terminal bool
	Winner   model.Symbol // set when Terminal and not a draw
	Draw     bool
}

// Controller owns all active games. Each player is in at most one game at a
// time; a finished game stays resident until a rematch replaces it or a
// player leaves.
type Controller struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu       sync.Mutex
	games    map[model.GameID]*model.Game
	byPlayer map[model.PlayerID]model.GameID
}

// New creates a new game Controller
func New(clk clock.Clock, rnd random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		clock:    clk,
		random:   rnd,
		logger:   logger,
		games:    make(map[model.GameID]*model.Game),
		byPlayer: make(map[model.PlayerID]model.GameID),
	}
}

// Create starts a new game between two players. Player1 is X and moves
// first.
func (c *Controller) Create(player1, player2 model.PlayerID, boardSize, winCondition int) *model.Game {
	now := c.clock.Now()
	g := &model.Game{
		ID:           model.GameID(c.random.String(gameIDLength, gameIDAlphabet)),
		Player1:      player1,
		Player2:      player2,
		BoardSize:    boardSize,
		WinCondition: winCondition,
		Board:        model.NewBoard(boardSize),
		CurrentTurn:  player1,
		Status:       model.GameStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	c.mu.Lock()
	c.games[g.ID] = g
	c.byPlayer[player1] = g.ID
	c.byPlayer[player2] = g.ID
	c.mu.Unlock()

	c.logger.Info("game created",
		slog.String("game_id", string(g.ID)),
		slog.Int("board_size", boardSize),
		slog.Int("win_condition", winCondition),
	)

	return g
}

// ApplyMove places the player's symbol at the given flat cell index. Checks
// run in a fixed order so a move that is wrong in several ways always yields
// the same error: membership, liveness, turn, cell.
func (c *Controller) ApplyMove(player model.PlayerID, cellIndex int) (*MoveOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.gameOfLocked(player)
	if !ok {
		return nil, model.ErrNotInGame
	}
	if g.Over() {
		return nil, model.ErrGameAlreadyOver
	}
	if g.CurrentTurn != player {
		return nil, model.ErrNotYourTurn
	}
	if cellIndex < 0 || cellIndex >= len(g.Board) || g.Board[cellIndex] != model.SymbolNone {
		return nil, model.ErrInvalidCell
	}

	g.Board[cellIndex] = g.SymbolOf(player)
	g.CurrentTurn, _ = g.Opponent(player)
	g.UpdatedAt = c.clock.Now()

	outcome := &MoveOutcome{Game: g}
	if winner, won := rules.DetectWinner(g.Board, g.BoardSize, g.WinCondition); won {
		g.Status = model.GameStatusWon
		g.Winner = winner
		outcome.Terminal = true
		outcome.Winner = winner
	} else if g.Board.Full() {
		g.Status = model.GameStatusDraw
		outcome.Terminal = true
		outcome.Draw = true
	}

	if outcome.Terminal {
		c.logger.Info("game over",
			slog.String("game_id", string(g.ID)),
			slog.String("winner", string(g.Winner)),
			slog.Bool("draw", outcome.Draw),
		)
	}

	return outcome, nil
}

// OfferRematch records a rematch offer on the player's finished game and
// returns the game along with the opponent to notify.
func (c *Controller) OfferRematch(player model.PlayerID) (*model.Game, model.PlayerID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.gameOfLocked(player)
	if !ok {
		return nil, "", model.ErrNotInGame
	}
	if !g.Over() {
		return nil, "", model.ErrGameNotOver
	}

	g.Rematch = model.RematchOffer{Offered: true, OfferedBy: player}
	g.UpdatedAt = c.clock.Now()

	opponent, _ := g.Opponent(player)
	return g, opponent, nil
}

// AcceptRematch replaces the accepting player's finished game with a fresh
// one on the same geometry. The offer must have come from offeredBy, and the
// acceptor must not be the offerer. Seats are preserved.
func (c *Controller) AcceptRematch(player, offeredBy model.PlayerID) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.gameOfLocked(player)
	if !ok {
		return nil, model.ErrNotInGame
	}
	if !old.Over() {
		return nil, model.ErrGameNotOver
	}
	if !old.Rematch.Offered || old.Rematch.OfferedBy != offeredBy || offeredBy == player {
		return nil, model.ErrNoRematchOffer
	}

	delete(c.games, old.ID)

	now := c.clock.Now()
	g := &model.Game{
		ID:           model.GameID(c.random.String(gameIDLength, gameIDAlphabet)),
		Player1:      old.Player1,
		Player2:      old.Player2,
		BoardSize:    old.BoardSize,
		WinCondition: old.WinCondition,
		Board:        model.NewBoard(old.BoardSize),
		CurrentTurn:  old.Player1,
		Status:       model.GameStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	c.games[g.ID] = g
	c.byPlayer[g.Player1] = g.ID
	c.byPlayer[g.Player2] = g.ID

	c.logger.Info("rematch started",
		slog.String("game_id", string(g.ID)),
		slog.String("previous_game_id", string(old.ID)),
	)

	return g, nil
}

// Remove tears down the player's game, if any, and returns it together with
// the opponent. Both players' index entries are cleared.
func (c *Controller) Remove(player model.PlayerID) (*model.Game, model.PlayerID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.gameOfLocked(player)
	if !ok {
		return nil, "", false
	}

	delete(c.games, g.ID)
	delete(c.byPlayer, g.Player1)
	delete(c.byPlayer, g.Player2)

	opponent, _ := g.Opponent(player)
	return g, opponent, true
}

// FindByPlayer returns the game the player is currently seated in
func (c *Controller) FindByPlayer(player model.PlayerID) (*model.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameOfLocked(player)
}

func (c *Controller) gameOfLocked(player model.PlayerID) (*model.Game, bool) {
	id, ok := c.byPlayer[player]
	if !ok {
		return nil, false
	}
	g, ok := c.games[id]
	return g, ok
}
