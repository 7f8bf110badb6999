// Package storage defines the persistence interface for finished-match
// records. Live session and game state never passes through here.
package storage

import (
	"context"
	"errors"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Storage persists match results and per-player tallies
type Storage interface {
	// SaveResult records a finished match and updates both players' tallies
	SaveResult(ctx context.Context, result *model.MatchResult) error

	// RecentResults returns up to limit results, most recent first
	RecentResults(ctx context.Context, limit int) ([]*model.MatchResult, error)

	// PlayerTally returns the win/loss/draw tally for a player name.
	// Returns ErrNotFound if the player has no recorded matches.
	PlayerTally(ctx context.Context, name string) (*model.PlayerTally, error)
}
