package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound queue depth per connection
	sendBufferSize = 64
)

// client is one websocket connection with its outbound queue. Inbound
// frames flow to the router's event channel; outbound frames are queued on
// send and written by a single writer goroutine.
type client struct {
	id     model.ConnectionID
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

func newClient(id model.ConnectionID, conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger,
	}
}

// readPump reads frames from the connection and forwards them to the
// router. It exits on any read error and emits a disconnect event so the
// dispatch loop can clean up.
func (c *client) readPump(events chan<- event) {
	defer func() {
		events <- event{conn: c.id, disconnect: true}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error",
					slog.String("conn_id", string(c.id)),
					slog.String("error", err.Error()),
				)
			}
			return
		}
		events <- event{conn: c.id, data: data}
	}
}

// writePump drains the send queue onto the connection and keeps the
// connection alive with pings. A closed send channel shuts the connection
// down.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
