// Package redis provides a Redis-backed storage implementation so match
// history survives restarts.
package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Results live in a list trimmed to MaxResults; tallies are per-player
// hashes updated with HINCRBY.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveResult(ctx context.Context, result *model.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	// Push the record and bump both tallies in one pipeline
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, resultsKey(), data)
	pipe.LTrim(ctx, resultsKey(), 0, int64(s.cfg.MaxResults)-1)

	if result.Draw {
		pipe.HIncrBy(ctx, tallyKey(result.Player1), "draws", 1)
		pipe.HIncrBy(ctx, tallyKey(result.Player2), "draws", 1)
	} else {
		loser := result.Player1
		if result.Winner == result.Player1 {
			loser = result.Player2
		}
		pipe.HIncrBy(ctx, tallyKey(result.Winner), "wins", 1)
		pipe.HIncrBy(ctx, tallyKey(loser), "losses", 1)
	}
	pipe.HSetNX(ctx, tallyKey(result.Player1), "player", result.Player1)
	pipe.HSetNX(ctx, tallyKey(result.Player2), "player", result.Player2)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentResults(ctx context.Context, limit int) ([]*model.MatchResult, error) {
	if limit <= 0 || limit > s.cfg.MaxResults {
		limit = s.cfg.MaxResults
	}

	entries, err := s.client.LRange(ctx, resultsKey(), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.MatchResult, 0, len(entries))
	for _, entry := range entries {
		var result model.MatchResult
		if err := json.Unmarshal([]byte(entry), &result); err != nil {
			continue // Skip invalid data
		}
		results = append(results, &result)
	}

	return results, nil
}

func (s *Storage) PlayerTally(ctx context.Context, name string) (*model.PlayerTally, error) {
	fields, err := s.client.HGetAll(ctx, tallyKey(name)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, storage.ErrNotFound
	}

	tally := &model.PlayerTally{Player: fields["player"]}
	if tally.Player == "" {
		tally.Player = name
	}
	tally.Wins, _ = strconv.Atoi(fields["wins"])
	tally.Losses, _ = strconv.Atoi(fields["losses"])
	tally.Draws, _ = strconv.Atoi(fields["draws"])
	return tally, nil
}
