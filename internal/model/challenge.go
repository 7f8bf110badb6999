package model

import "time"

// Board geometry bounds for challenge offers
const (
	MinBoardSize    = 3
	MaxBoardSize    = 10
	MinWinCondition = 3
)

// Challenge is a pending offer from one lobby player to another. A
// challenger has at most one outstanding offer; a newer offer replaces it.
type Challenge struct {
	Challenger   PlayerID
	Target       PlayerID
	BoardSize    int
	WinCondition int
	CreatedAt    time.Time
}

// ValidBoardParams reports whether the geometry is within the allowed
// bounds: boardSize in [3,10], winCondition in [3, boardSize].
func ValidBoardParams(boardSize, winCondition int) bool {
	if boardSize < MinBoardSize || boardSize > MaxBoardSize {
		return false
	}
	return winCondition >= MinWinCondition && winCondition <= boardSize
}
