// Package memory provides an in-memory storage implementation, the default
// for single-process deployments and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/storage"
)

// maxResults bounds the retained history
const maxResults = 1000

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	results []*model.MatchResult // most recent first
	tallies map[string]*model.PlayerTally
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		tallies: make(map[string]*model.PlayerTally),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveResult(ctx context.Context, result *model.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *result
	s.results = append([]*model.MatchResult{&saved}, s.results...)
	if len(s.results) > maxResults {
		s.results = s.results[:maxResults]
	}

	if result.Draw {
		s.tallyFor(result.Player1).Draws++
		s.tallyFor(result.Player2).Draws++
	} else {
		loser := result.Player1
		if result.Winner == result.Player1 {
			loser = result.Player2
		}
		s.tallyFor(result.Winner).Wins++
		s.tallyFor(loser).Losses++
	}

	return nil
}

func (s *Storage) RecentResults(ctx context.Context, limit int) ([]*model.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.results) {
		limit = len(s.results)
	}

	out := make([]*model.MatchResult, limit)
	for i := 0; i < limit; i++ {
		copied := *s.results[i]
		out[i] = &copied
	}
	return out, nil
}

func (s *Storage) PlayerTally(ctx context.Context, name string) (*model.PlayerTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tally, ok := s.tallies[strings.ToLower(name)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *tally
	return &copied, nil
}

// tallyFor returns the tally for a name, creating it if absent. Callers hold
// the write lock.
func (s *Storage) tallyFor(name string) *model.PlayerTally {
	key := strings.ToLower(name)
	tally, ok := s.tallies[key]
	if !ok {
		tally = &model.PlayerTally{Player: name}
		s.tallies[key] = tally
	}
	return tally
}
