// Package match coordinates the full lifecycle of a match: lobby
// membership, challenge handshake, move relay, rematch, and teardown. All
// methods are invoked from the event dispatch loop, one at a time.
package match

import (
	"context"
	"log/slog"

	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/clock"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/protocol"
	"github.com/tycho-bear/tic-tac-toe/internal/services/challenge"
	"github.com/tycho-bear/tic-tac-toe/internal/services/game"
	"github.com/tycho-bear/tic-tac-toe/internal/services/registry"
	"github.com/tycho-bear/tic-tac-toe/internal/storage"
)

// Publisher delivers outbound messages to connections. The websocket hub
// implements it; tests substitute a recorder.
type Publisher interface {
	// Send delivers a message to a single connection
	Send(conn model.ConnectionID, t protocol.MessageType, payload any)

	// Broadcast delivers a message to every connection
	Broadcast(t protocol.MessageType, payload any)
}

// Coordinator orchestrates the services behind the protocol operations
type Coordinator struct {
	registry   *registry.Service
	challenges *challenge.Broker
	games      *game.Controller
	history    storage.Storage
	publisher  Publisher
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a new match Coordinator
func New(
	reg *registry.Service,
	challenges *challenge.Broker,
	games *game.Controller,
	history storage.Storage,
	publisher Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		registry:   reg,
		challenges: challenges,
		games:      games,
		history:    history,
		publisher:  publisher,
		clock:      clk,
		logger:     logger,
	}
}

// Join registers a display name for the connection and announces the
// updated lobby to everyone.
func (c *Coordinator) Join(ctx context.Context, conn model.ConnectionID, name string) error {
	player, err := c.registry.Register(conn, name)
	if err != nil {
		return err
	}

	c.publisher.Send(conn, protocol.TypeJoinSuccess, protocol.JoinSuccessPayload{Name: player.Name})
	c.broadcastUserList()
	return nil
}

// Challenge offers a match to the named target on the given geometry
func (c *Coordinator) Challenge(ctx context.Context, conn model.ConnectionID, targetName string, boardSize, winCondition int) error {
	challenger, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}

	offer, target, err := c.challenges.Offer(challenger, targetName, boardSize, winCondition)
	if err != nil {
		return err
	}

	c.publisher.Send(target.Conn, protocol.TypeChallengeReceived, protocol.ChallengeReceivedPayload{
		Challenger:   challenger.Name,
		BoardSize:    offer.BoardSize,
		WinCondition: offer.WinCondition,
	})
	return nil
}

// AcceptChallenge consumes the named challenger's offer and starts the
// game. Both players must still be in the lobby when the acceptance lands;
// the first acceptance to be dispatched wins, later ones find no offer.
func (c *Coordinator) AcceptChallenge(ctx context.Context, conn model.ConnectionID, challengerName string) error {
	acceptor, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}
	challenger, ok := c.registry.ByName(challengerName)
	if !ok {
		return model.ErrNoSuchChallenge
	}
	if acceptor.Status != model.StatusLobby || challenger.Status != model.StatusLobby {
		return model.ErrTargetNotAvailable
	}

	offer, ok := c.challenges.ConsumeFor(challenger.ID, acceptor.ID)
	if !ok {
		return model.ErrNoSuchChallenge
	}

	// Any offer the acceptor had authored is void now
	c.challenges.Cancel(acceptor.ID)

	g := c.games.Create(challenger.ID, acceptor.ID, offer.BoardSize, offer.WinCondition)
	c.registry.SetStatus(challenger.ID, model.StatusInGame)
	c.registry.SetStatus(acceptor.ID, model.StatusInGame)

	c.sendGameStart(g, challenger, acceptor)
	c.broadcastUserList()

	c.logger.Info("match started",
		slog.String("game_id", string(g.ID)),
		slog.String("player1", challenger.Name),
		slog.String("player2", acceptor.Name),
	)
	return nil
}

// DeclineChallenge consumes the named challenger's offer and notifies them
func (c *Coordinator) DeclineChallenge(ctx context.Context, conn model.ConnectionID, challengerName string) error {
	decliner, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}
	challenger, ok := c.registry.ByName(challengerName)
	if !ok {
		return model.ErrNoSuchChallenge
	}

	if _, ok := c.challenges.ConsumeFor(challenger.ID, decliner.ID); !ok {
		return model.ErrNoSuchChallenge
	}

	c.publisher.Send(challenger.Conn, protocol.TypeChallengeDeclined, protocol.ChallengeDeclinedPayload{
		Target: decliner.Name,
	})
	return nil
}

// Move applies the player's move and relays the new state to both seats.
// A terminal move additionally emits game_over and records the result.
func (c *Coordinator) Move(ctx context.Context, conn model.ConnectionID, cellIndex int) error {
	player, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}

	outcome, err := c.games.ApplyMove(player.ID, cellIndex)
	if err != nil {
		return err
	}
	g := outcome.Game

	board := protocol.BoardStrings(g.Board)
	if !outcome.Terminal {
		update := protocol.GameUpdatePayload{
			Board:       board,
			CurrentTurn: c.nameOf(g.CurrentTurn),
		}
		c.sendToSeats(g, protocol.TypeGameUpdate, update)
		return nil
	}

	over := protocol.GameOverPayload{
		Winner: string(outcome.Winner),
		IsDraw: outcome.Draw,
		Board:  board,
	}
	c.sendToSeats(g, protocol.TypeGameOver, over)
	c.recordResult(ctx, g, outcome)
	return nil
}

// OfferRematch relays a rematch offer to the opponent of a finished game
func (c *Coordinator) OfferRematch(ctx context.Context, conn model.ConnectionID) error {
	player, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}

	_, opponentID, err := c.games.OfferRematch(player.ID)
	if err != nil {
		return err
	}

	if opponent, ok := c.registry.Get(opponentID); ok {
		c.publisher.Send(opponent.Conn, protocol.TypeRematchOffered, protocol.RematchOfferedPayload{
			Challenger: player.Name,
		})
	}
	return nil
}

// AcceptRematch starts a fresh game on the old geometry. Seats carry over,
// so X opens the rematch exactly as it opened the first game.
func (c *Coordinator) AcceptRematch(ctx context.Context, conn model.ConnectionID, offeredByName string) error {
	player, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}
	offeredBy, ok := c.registry.ByName(offeredByName)
	if !ok {
		return model.ErrNoRematchOffer
	}

	g, err := c.games.AcceptRematch(player.ID, offeredBy.ID)
	if err != nil {
		return err
	}

	player1, ok1 := c.registry.Get(g.Player1)
	player2, ok2 := c.registry.Get(g.Player2)
	if ok1 && ok2 {
		c.sendGameStart(g, player1, player2)
	}
	return nil
}

// ReturnToLobby moves the player back to the lobby, tearing down their game
// if one is live. The opponent is told the player left and goes back to the
// lobby as well. Safe to call from any state.
func (c *Coordinator) ReturnToLobby(ctx context.Context, conn model.ConnectionID) error {
	player, ok := c.registry.ByConn(conn)
	if !ok {
		return model.ErrNotJoined
	}

	c.challenges.Cancel(player.ID)

	if _, opponentID, ok := c.games.Remove(player.ID); ok {
		if opponent, found := c.registry.Get(opponentID); found {
			c.registry.SetStatus(opponentID, model.StatusLobby)
			c.publisher.Send(opponent.Conn, protocol.TypeOpponentLeft, nil)
		}
	}

	c.registry.SetStatus(player.ID, model.StatusLobby)
	c.broadcastUserList()
	return nil
}

// Disconnect tears down everything tied to the connection: registration,
// pending challenges, and any live game. Unknown connections are a no-op,
// so a close racing a failed join is harmless.
func (c *Coordinator) Disconnect(ctx context.Context, conn model.ConnectionID) {
	player, ok := c.registry.Unregister(conn)
	if !ok {
		return
	}

	c.challenges.Cancel(player.ID)

	if _, opponentID, ok := c.games.Remove(player.ID); ok {
		if opponent, found := c.registry.Get(opponentID); found {
			c.registry.SetStatus(opponentID, model.StatusLobby)
			c.publisher.Send(opponent.Conn, protocol.TypeOpponentDisconnected, nil)
		}
	}

	c.broadcastUserList()
}

func (c *Coordinator) broadcastUserList() {
	c.publisher.Broadcast(protocol.TypeUserList, protocol.UserListPayload{
		Users: c.registry.LobbyNames(),
	})
}

func (c *Coordinator) sendGameStart(g *model.Game, player1, player2 *model.Player) {
	payload := protocol.GameStartPayload{
		GameID:       string(g.ID),
		Player1:      player1.Name,
		Player2:      player2.Name,
		Board:        protocol.BoardStrings(g.Board),
		CurrentTurn:  player1.Name,
		BoardSize:    g.BoardSize,
		WinCondition: g.WinCondition,
	}
	c.publisher.Send(player1.Conn, protocol.TypeGameStart, payload)
	c.publisher.Send(player2.Conn, protocol.TypeGameStart, payload)
}

// sendToSeats delivers a message to both players of a game, skipping seats
// whose player is gone.
func (c *Coordinator) sendToSeats(g *model.Game, t protocol.MessageType, payload any) {
	for _, id := range []model.PlayerID{g.Player1, g.Player2} {
		if player, ok := c.registry.Get(id); ok {
			c.publisher.Send(player.Conn, t, payload)
		}
	}
}

func (c *Coordinator) nameOf(id model.PlayerID) string {
	if player, ok := c.registry.Get(id); ok {
		return player.Name
	}
	return ""
}

func (c *Coordinator) recordResult(ctx context.Context, g *model.Game, outcome *game.MoveOutcome) {
	result := &model.MatchResult{
		GameID:       g.ID,
		Player1:      c.nameOf(g.Player1),
		Player2:      c.nameOf(g.Player2),
		Draw:         outcome.Draw,
		BoardSize:    g.BoardSize,
		WinCondition: g.WinCondition,
		FinishedAt:   c.clock.Now(),
	}
	if !outcome.Draw {
		winnerID := g.Player1
		if outcome.Winner == model.SymbolO {
			winnerID = g.Player2
		}
		result.Winner = c.nameOf(winnerID)
	}

	if err := c.history.SaveResult(ctx, result); err != nil {
		c.logger.Error("failed to record match result",
			slog.String("game_id", string(g.ID)),
			slog.String("error", err.Error()),
		)
	}
}
