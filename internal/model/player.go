package model

import "time"

// PlayerID is a stable opaque identifier for a player, decoupled from the
// transport connection that created it.
type PlayerID string

// ConnectionID identifies a live transport connection. A connection maps to
// at most one player for its lifetime.
type ConnectionID string

// PlayerStatus represents where a player currently is
type PlayerStatus string

const (
	StatusLobby  PlayerStatus = "lobby"   // Available for challenges
	StatusInGame PlayerStatus = "in-game" // Playing a live game
)

// Player is a joined identity bound to a connection. Display names are
// unique case-insensitively among all live players.
type Player struct {
	ID       PlayerID
	Conn     ConnectionID
	Name     string
	Status   PlayerStatus
	JoinedAt time.Time
}
