package protocol

import (
	"encoding/json"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

// MessageType identifies a protocol message
type MessageType string

// Client → server messages
const (
	TypeJoin             MessageType = "join"
	TypeChallenge        MessageType = "challenge"
	TypeAcceptChallenge  MessageType = "accept_challenge"
	TypeDeclineChallenge MessageType = "decline_challenge"
	TypeMakeMove         MessageType = "make_move"
	TypeOfferRematch     MessageType = "offer_rematch"
	TypeAcceptRematch    MessageType = "accept_rematch"
	TypeReturnToLobby    MessageType = "return_to_lobby"
)

// Server → client messages
const (
	TypeJoinSuccess          MessageType = "join_success"
	TypeError                MessageType = "error"
	TypeUserList             MessageType = "user_list"
	TypeChallengeReceived    MessageType = "challenge_received"
	TypeChallengeDeclined    MessageType = "challenge_declined"
	TypeGameStart            MessageType = "game_start"
	TypeGameUpdate           MessageType = "game_update"
	TypeGameOver             MessageType = "game_over"
	TypeRematchOffered       MessageType = "rematch_offered"
	TypeOpponentLeft         MessageType = "opponent_left"
	TypeOpponentDisconnected MessageType = "opponent_disconnected"
)

// Envelope wraps every message on the wire
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope builds an envelope with a marshaled payload. Payload types
// are plain structs, so marshaling cannot fail; a nil payload is omitted.
func NewEnvelope(t MessageType, payload any) Envelope {
	env := Envelope{Type: t}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			env.Payload = data
		}
	}
	return env
}

// Inbound payloads

type JoinPayload struct {
	Name string `json:"name"`
}

type ChallengePayload struct {
	Target       string `json:"target"`
	BoardSize    int    `json:"boardSize"`
	WinCondition int    `json:"winCondition"`
}

type AcceptChallengePayload struct {
	Challenger string `json:"challenger"`
}

type DeclineChallengePayload struct {
	Challenger string `json:"challenger"`
}

type MakeMovePayload struct {
	CellIndex int `json:"cellIndex"`
}

type AcceptRematchPayload struct {
	Challenger string `json:"challenger"`
}

// Outbound payloads

type JoinSuccessPayload struct {
	Name string `json:"name"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type UserListPayload struct {
	Users []string `json:"users"`
}

type ChallengeReceivedPayload struct {
	Challenger   string `json:"challenger"`
	BoardSize    int    `json:"boardSize"`
	WinCondition int    `json:"winCondition"`
}

type ChallengeDeclinedPayload struct {
	Target string `json:"target"`
}

type GameStartPayload struct {
	GameID       string   `json:"gameId"`
	Player1      string   `json:"player1"`
	Player2      string   `json:"player2"`
	Board        []string `json:"board"`
	CurrentTurn  string   `json:"currentTurn"`
	BoardSize    int      `json:"boardSize"`
	WinCondition int      `json:"winCondition"`
}

type GameUpdatePayload struct {
	Board       []string `json:"board"`
	CurrentTurn string   `json:"currentTurn"`
}

type GameOverPayload struct {
	Winner string   `json:"winner"` // Winning symbol, empty on draw
	IsDraw bool     `json:"isDraw"`
	Board  []string `json:"board"`
}

type RematchOfferedPayload struct {
	Challenger string `json:"challenger"`
}

// BoardStrings serializes a board as a flat slice of "", "X", "O"
func BoardStrings(b model.Board) []string {
	out := make([]string, len(b))
	for i, cell := range b {
		out[i] = string(cell)
	}
	return out
}
