package model

import "time"

// MatchResult is a record of a finished game. Results are history, not
// resumable state: live sessions never outlive the process.
type MatchResult struct {
	GameID       GameID    `json:"game_id"`
	Player1      string    `json:"player1"` // X
	Player2      string    `json:"player2"` // O
	Winner       string    `json:"winner"`  // Winner's name, empty on draw
	Draw         bool      `json:"draw"`
	BoardSize    int       `json:"board_size"`
	WinCondition int       `json:"win_condition"`
	FinishedAt   time.Time `json:"finished_at"`
}

// PlayerTally aggregates a player's recorded results
type PlayerTally struct {
	Player string `json:"player"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}
