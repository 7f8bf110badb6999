package model

import "time"

// GameID uniquely identifies a game session
type GameID string

// Symbol is a player's mark on the board
type Symbol string

const (
	SymbolNone Symbol = ""  // Empty cell
	SymbolX    Symbol = "X" // Player 1
	SymbolO    Symbol = "O" // Player 2
)

// Board is a flat row-major grid of boardSize² cells
type Board []Symbol

// NewBoard creates an empty board for the given size
func NewBoard(size int) Board {
	return make(Board, size*size)
}

// Full returns true if no cell is empty
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == SymbolNone {
			return false
		}
	}
	return true
}

// GameStatus represents the lifecycle phase of a game session
type GameStatus string

const (
	GameStatusActive GameStatus = "active" // Moves are being accepted
	GameStatusWon    GameStatus = "won"    // A run was completed
	GameStatusDraw   GameStatus = "draw"   // Board filled with no run
)

// RematchOffer is the ephemeral rematch state overlaid on a finished game.
// It resets when a new session replaces the old one.
type RematchOffer struct {
	Offered   bool
	OfferedBy PlayerID
}

// Game is one session between two players. Player1 always holds X and
// always moves first.
type Game struct {
	ID           GameID
	Player1      PlayerID
	Player2      PlayerID
	BoardSize    int
	WinCondition int
	Board        Board
	CurrentTurn  PlayerID
	Status       GameStatus
	Winner       Symbol // Set only when Status is GameStatusWon
	Rematch      RematchOffer
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Over returns true once the game reached a terminal state. Terminal is a
// fixed point: it is never cleared for this session instance.
func (g *Game) Over() bool {
	return g.Status != GameStatusActive
}

// HasPlayer returns true if the given player occupies a seat in this game
func (g *Game) HasPlayer(id PlayerID) bool {
	return g.Player1 == id || g.Player2 == id
}

// Opponent returns the other seat's player
func (g *Game) Opponent(id PlayerID) (PlayerID, bool) {
	switch id {
	case g.Player1:
		return g.Player2, true
	case g.Player2:
		return g.Player1, true
	}
	return "", false
}

// SymbolOf returns the mark the given player plays with
func (g *Game) SymbolOf(id PlayerID) Symbol {
	if id == g.Player1 {
		return SymbolX
	}
	return SymbolO
}
