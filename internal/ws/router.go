// Package ws is the websocket transport: connection lifecycle, the
// outbound hub, and the inbound event loop that serializes all game
// operations.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/protocol"
	"github.com/tycho-bear/tic-tac-toe/internal/services/match"
)

// eventBufferSize bounds the inbound queue across all connections
const eventBufferSize = 256

// event is one unit of inbound work: a decoded frame or a disconnect
type event struct {
	conn       model.ConnectionID
	data       []byte
	disconnect bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Router owns the inbound event channel and dispatches protocol messages to
// the coordinator. Run drains the channel from a single goroutine, so
// coordinator operations never interleave.
type Router struct {
	hub         *Hub
	coordinator *match.Coordinator
	logger      *slog.Logger
	events      chan event
}

// NewRouter creates a new websocket Router
func NewRouter(hub *Hub, coordinator *match.Coordinator, logger *slog.Logger) *Router {
	return &Router{
		hub:         hub,
		coordinator: coordinator,
		logger:      logger,
		events:      make(chan event, eventBufferSize),
	}
}

// HandleWebSocket upgrades the request and starts the connection's pumps
func (r *Router) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnectionID("c_" + uuid.NewString())
	c := newClient(id, conn, r.logger)
	r.hub.register(c)

	r.logger.Info("websocket connected", slog.String("conn_id", string(id)))

	go c.writePump()
	go c.readPump(r.events)
}

// Run drains the event channel until the context is cancelled. This is the
// only goroutine that touches the coordinator.
func (r *Router) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.events:
			r.dispatch(ctx, ev)
		}
	}
}

func (r *Router) dispatch(ctx context.Context, ev event) {
	if ev.disconnect {
		r.coordinator.Disconnect(ctx, ev.conn)
		r.hub.unregister(ev.conn)
		r.logger.Info("websocket disconnected", slog.String("conn_id", string(ev.conn)))
		return
	}

	var env protocol.Envelope
	if err := json.Unmarshal(ev.data, &env); err != nil {
		r.sendError(ev.conn, "Invalid message")
		return
	}

	if err := r.handle(ctx, ev.conn, env); err != nil {
		r.logger.Info("rejected message",
			slog.String("conn_id", string(ev.conn)),
			slog.String("type", string(env.Type)),
			slog.String("error", err.Error()),
		)
		r.sendError(ev.conn, errorMessage(err))
	}
}

func (r *Router) handle(ctx context.Context, conn model.ConnectionID, env protocol.Envelope) error {
	switch env.Type {
	case protocol.TypeJoin:
		var p protocol.JoinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return model.ErrInvalidName
		}
		return r.coordinator.Join(ctx, conn, p.Name)

	case protocol.TypeChallenge:
		var p protocol.ChallengePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return model.ErrInvalidGeometry
		}
		return r.coordinator.Challenge(ctx, conn, p.Target, p.BoardSize, p.WinCondition)

	case protocol.TypeAcceptChallenge:
		var p protocol.AcceptChallengePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return model.ErrNoSuchChallenge
		}
		return r.coordinator.AcceptChallenge(ctx, conn, p.Challenger)

	case protocol.TypeDeclineChallenge:
		var p protocol.DeclineChallengePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return model.ErrNoSuchChallenge
		}
		return r.coordinator.DeclineChallenge(ctx, conn, p.Challenger)

	case protocol.TypeMakeMove:
		var p protocol.MakeMovePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return model.ErrInvalidCell
		}
		return r.coordinator.Move(ctx, conn, p.CellIndex)

	case protocol.TypeOfferRematch:
		return r.coordinator.OfferRematch(ctx, conn)

	case protocol.TypeAcceptRematch:
		var p protocol.AcceptRematchPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return model.ErrNoRematchOffer
		}
		return r.coordinator.AcceptRematch(ctx, conn, p.Challenger)

	case protocol.TypeReturnToLobby:
		return r.coordinator.ReturnToLobby(ctx, conn)

	default:
		r.logger.Warn("unknown message type",
			slog.String("conn_id", string(conn)),
			slog.String("type", string(env.Type)),
		)
		return nil
	}
}

func (r *Router) sendError(conn model.ConnectionID, message string) {
	r.hub.Send(conn, protocol.TypeError, protocol.ErrorPayload{Message: message})
}

// errorMessage maps service errors to the client-facing texts
func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidName):
		return "Username cannot be empty"
	case errors.Is(err, model.ErrNameTaken):
		return "Username is already taken. Please choose another."
	case errors.Is(err, model.ErrAlreadyJoined):
		return "You have already joined"
	case errors.Is(err, model.ErrNotJoined):
		return "You must join first"
	case errors.Is(err, model.ErrInvalidGeometry):
		return "Invalid board size or win condition"
	case errors.Is(err, model.ErrSelfChallenge):
		return "You cannot challenge yourself"
	case errors.Is(err, model.ErrTargetNotFound):
		return "Target user not found"
	case errors.Is(err, model.ErrTargetNotAvailable):
		return "Target user is not available"
	case errors.Is(err, model.ErrNoSuchChallenge):
		return "Invalid challenge"
	case errors.Is(err, model.ErrNotInGame):
		return "You are not in a game"
	case errors.Is(err, model.ErrGameAlreadyOver):
		return "The game is already over"
	case errors.Is(err, model.ErrNotYourTurn):
		return "It is not your turn"
	case errors.Is(err, model.ErrInvalidCell):
		return "Invalid move"
	case errors.Is(err, model.ErrGameNotOver):
		return "The game is not over yet"
	case errors.Is(err, model.ErrNoRematchOffer):
		return "Invalid rematch offer"
	default:
		return "Something went wrong"
	}
}
