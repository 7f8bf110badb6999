package registry

import (
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/clock"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

// MaxNameLength bounds display names in runes
const MaxNameLength = 24

// Service maintains the bidirectional mapping between connections, player
// identities, and statuses. Player IDs are opaque and stable; lookups for
// identities that no longer exist report not-found rather than failing.
type Service struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.RWMutex
	players map[model.PlayerID]*model.Player
	byConn  map[model.ConnectionID]model.PlayerID
	byName  map[string]model.PlayerID // lowercased name index
	order   []model.PlayerID          // registration order, for stable listings
}

// New creates a new SessionRegistry
func New(clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		clock:   clk,
		logger:  logger,
		players: make(map[model.PlayerID]*model.Player),
		byConn:  make(map[model.ConnectionID]model.PlayerID),
		byName:  make(map[string]model.PlayerID),
	}
}

// Register binds a display name to a connection, creating a lobby identity.
// Names are trimmed and must be unique case-insensitively among all live
// players.
func (s *Service) Register(conn model.ConnectionID, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, model.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byConn[conn]; ok {
		return nil, model.ErrAlreadyJoined
	}
	key := strings.ToLower(name)
	if _, ok := s.byName[key]; ok {
		return nil, model.ErrNameTaken
	}

	player := &model.Player{
		ID:       model.PlayerID("p_" + uuid.NewString()),
		Conn:     conn,
		Name:     name,
		Status:   model.StatusLobby,
		JoinedAt: s.clock.Now(),
	}

	s.players[player.ID] = player
	s.byConn[conn] = player.ID
	s.byName[key] = player.ID
	s.order = append(s.order, player.ID)

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
	)

	return player, nil
}

// Unregister removes the identity bound to a connection along with all
// derived state. Unknown connections are a no-op.
func (s *Service) Unregister(conn model.ConnectionID) (*model.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byConn[conn]
	if !ok {
		return nil, false
	}
	player := s.players[id]

	delete(s.byConn, conn)
	delete(s.players, id)
	delete(s.byName, strings.ToLower(player.Name))
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Info("player unregistered",
		slog.String("player_id", string(id)),
		slog.String("name", player.Name),
	)

	return player, true
}

// ByConn returns the player bound to a connection
func (s *Service) ByConn(conn model.ConnectionID) (*model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byConn[conn]
	if !ok {
		return nil, false
	}
	player, ok := s.players[id]
	return player, ok
}

// ByName looks up a live player by display name, case-insensitively
func (s *Service) ByName(name string) (*model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	player, ok := s.players[id]
	return player, ok
}

// Get returns a player by ID
func (s *Service) Get(id model.PlayerID) (*model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	return player, ok
}

// SetStatus updates a player's status. Missing players are tolerated so a
// disconnect racing an in-flight operation cannot fail cleanup.
func (s *Service) SetStatus(id model.PlayerID, status model.PlayerStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return false
	}
	player.Status = status
	return true
}

// LobbyNames returns the names of players currently in the lobby, in
// registration order.
func (s *Service) LobbyNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if player, ok := s.players[id]; ok && player.Status == model.StatusLobby {
			names = append(names, player.Name)
		}
	}
	return names
}
