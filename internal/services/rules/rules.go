// Package rules holds the pure win-detection logic. It has no state and no
// dependencies; geometry validation happens before a board reaches it.
package rules

import "github.com/tycho-bear/tic-tac-toe/internal/model"

// DetectWinner scans the board for a contiguous run of winCondition equal,
// non-empty cells and returns the symbol that owns the first run found.
//
// Lines are scanned in a fixed order: rows, then columns, then down-right
// diagonals, then up-right diagonals, each category by increasing start row
// then start column.
// The order is a determinism contract for testing; a well-formed board holds
// at most one completed run. Every diagonal of length >= winCondition is a
// candidate, not just the two board-spanning ones.
func DetectWinner(board model.Board, boardSize, winCondition int) (model.Symbol, bool) {
	// Rows
	for row := 0; row < boardSize; row++ {
		if sym, ok := scanLine(board, boardSize, winCondition, row, 0, 0, 1); ok {
			return sym, true
		}
	}

	// Columns
	for col := 0; col < boardSize; col++ {
		if sym, ok := scanLine(board, boardSize, winCondition, 0, col, 1, 0); ok {
			return sym, true
		}
	}

	// Down-right diagonals: start on the top row, then down the left column
	for col := 0; col < boardSize; col++ {
		if sym, ok := scanLine(board, boardSize, winCondition, 0, col, 1, 1); ok {
			return sym, true
		}
	}
	for row := 1; row < boardSize; row++ {
		if sym, ok := scanLine(board, boardSize, winCondition, row, 0, 1, 1); ok {
			return sym, true
		}
	}

	// Up-right diagonals, walked from the top toward bottom-left: start on
	// the top row, then down the right column
	for col := 0; col < boardSize; col++ {
		if sym, ok := scanLine(board, boardSize, winCondition, 0, col, 1, -1); ok {
			return sym, true
		}
	}
	for row := 1; row < boardSize; row++ {
		if sym, ok := scanLine(board, boardSize, winCondition, row, boardSize-1, 1, -1); ok {
			return sym, true
		}
	}

	return model.SymbolNone, false
}

// scanLine walks one line from (row, col) in direction (dRow, dCol),
// tracking the current run of equal non-empty symbols. The board edge
// bounds the line's extent.
func scanLine(board model.Board, size, win, row, col, dRow, dCol int) (model.Symbol, bool) {
	var current model.Symbol
	run := 0

	for row >= 0 && row < size && col >= 0 && col < size {
		cell := board[row*size+col]
		if cell != model.SymbolNone && cell == current {
			run++
		} else {
			current = cell
			run = 1
		}
		if current != model.SymbolNone && run >= win {
			return current, true
		}
		row += dRow
		col += dCol
	}

	return model.SymbolNone, false
}
