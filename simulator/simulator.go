// Package simulator evaluates hypothetical moves. It only ever reads the board
// it is given and does all of its work on private copies.
package simulator

import "othello/game"

// PreviewMove reports whether mover may play (row, col) on board and, if so,
// which stones the move would flip. The placed square is not in the list.
func PreviewMove(board game.View, row, col int, mover game.Cell) (bool, []game.Position) {
	if !board.IsValidMoveFor(row, col, mover) {
		return false, []game.Position{}
	}

	work := board.Copy()
	before := work.Grid()
	work.MakeMoveFor(row, col, mover)
	after := work.Grid()

	flipped := []game.Position{}
	for r := range before {
		for c := range before[r] {
			if r == row && c == col {
				continue
			}
			if before[r][c] != after[r][c] {
				flipped = append(flipped, game.Position{Row: r, Col: c})
			}
		}
	}
	return true, flipped
}

// ResultingState returns a new board with the move applied, or nil when the
// move is illegal.
func ResultingState(board game.View, row, col int, mover game.Cell) *game.Board {
	if !board.IsValidMoveFor(row, col, mover) {
		return nil
	}
	work := board.Copy()
	work.MakeMoveFor(row, col, mover)
	return work
}

// WithTemporarySimulation hands back a scratch copy of board together with a
// snapshot of board's current contents. Callers may play any number of moves
// on the copy and Restore the snapshot onto it to start over.
func WithTemporarySimulation(board game.View) (*game.Board, game.Snapshot) {
	return board.Copy(), board.Snapshot()
}
