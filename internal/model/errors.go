package model

import "errors"

// Common errors used across the application
var (
	// Input validation errors
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidGeometry = errors.New("invalid board size or win condition")

	// Registry errors
	ErrNameTaken     = errors.New("name is already taken")
	ErrAlreadyJoined = errors.New("connection already joined")
	ErrNotJoined     = errors.New("connection has not joined")
	ErrPlayerNotFound = errors.New("player not found")

	// Challenge errors
	ErrSelfChallenge      = errors.New("cannot challenge yourself")
	ErrTargetNotFound     = errors.New("target player not found")
	ErrTargetNotAvailable = errors.New("target player is not available")
	ErrNoSuchChallenge    = errors.New("no such challenge")

	// Game errors
	ErrNotInGame       = errors.New("player is not in a game")
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrInvalidCell     = errors.New("invalid cell")
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrGameNotOver     = errors.New("game is not over")
	ErrNoRematchOffer  = errors.New("no matching rematch offer")
)
