package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/protocol"
	"github.com/tycho-bear/tic-tac-toe/internal/services/match"
)

// Hub tracks live connections and delivers outbound messages to them. It is
// the coordinator's publisher.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[model.ConnectionID]*client
}

// Ensure Hub satisfies the coordinator's publisher contract
var _ match.Publisher = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[model.ConnectionID]*client),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// unregister drops the client and closes its send queue, which stops the
// write pump.
func (h *Hub) unregister(id model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

// Send delivers a message to a single connection. Messages to unknown or
// backed-up connections are dropped; a slow consumer cannot stall the
// dispatch loop.
func (h *Hub) Send(conn model.ConnectionID, t protocol.MessageType, payload any) {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(c, t, payload)
}

// Broadcast delivers a message to every live connection
func (h *Hub) Broadcast(t protocol.MessageType, payload any) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.deliver(c, t, payload)
	}
}

func (h *Hub) deliver(c *client, t protocol.MessageType, payload any) {
	env := protocol.NewEnvelope(t, payload)
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal message",
			slog.String("type", string(t)),
			slog.String("error", err.Error()),
		)
		return
	}

	select {
	case c.send <- data:
	default:
		h.logger.Warn("dropping message to slow connection",
			slog.String("conn_id", string(c.id)),
			slog.String("type", string(t)),
		)
	}
}
