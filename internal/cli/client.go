package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tycho-bear/tic-tac-toe/internal/protocol"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse is the API's error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// Get performs a GET request and decodes the JSON response into result
func (c *Client) Get(path string, result any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", errResp.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// GameConn is a live websocket session with the game server
type GameConn struct {
	conn *websocket.Conn
}

// DialGame connects to the server's websocket endpoint
func (c *Client) DialGame() (*GameConn, error) {
	wsURL := c.baseURL + "/ws"
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	return &GameConn{conn: conn}, nil
}

// Close closes the websocket session
func (g *GameConn) Close() error {
	return g.conn.Close()
}

// Send writes one protocol message
func (g *GameConn) Send(t protocol.MessageType, payload any) error {
	return g.conn.WriteJSON(protocol.NewEnvelope(t, payload))
}

// WaitFor reads messages until one of the wanted types arrives. An error
// message from the server fails the wait.
func (g *GameConn) WaitFor(timeout time.Duration, wanted ...protocol.MessageType) (protocol.Envelope, error) {
	deadline := time.Now().Add(timeout)
	for {
		if err := g.conn.SetReadDeadline(deadline); err != nil {
			return protocol.Envelope{}, err
		}
		var env protocol.Envelope
		if err := g.conn.ReadJSON(&env); err != nil {
			return protocol.Envelope{}, fmt.Errorf("waiting for server: %w", err)
		}

		if env.Type == protocol.TypeError {
			var p protocol.ErrorPayload
			_ = json.Unmarshal(env.Payload, &p)
			return env, fmt.Errorf("server rejected request: %s", p.Message)
		}

		for _, t := range wanted {
			if env.Type == t {
				return env, nil
			}
		}
	}
}
