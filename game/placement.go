package game

// Placement answers legality questions by casting rays over a BoardState.
type Placement struct {
	state *BoardState
}

func NewPlacement(state *BoardState) *Placement {
	return &Placement{state: state}
}

// CanCaptureInDirection reports whether a stone placed at (row, col) by mover
// brackets a contiguous run of one or more opponent stones along (dRow, dCol).
// The run must end on a mover stone; running off the board or reaching an
// empty cell first means no capture.
func (p *Placement) CanCaptureInDirection(row, col, dRow, dCol int, mover, opponent Cell) bool {
	r, c := row+dRow, col+dCol
	if !p.state.InBounds(r, c) || p.state.Get(r, c) != opponent {
		return false
	}

	for r, c = r+dRow, c+dCol; p.state.InBounds(r, c); r, c = r+dRow, c+dCol {
		switch p.state.Get(r, c) {
		case mover:
			return true
		case opponent:
			continue
		default:
			return false
		}
	}
	return false
}

// IsLegal reports whether mover may place a stone at (row, col).
func (p *Placement) IsLegal(row, col int, mover Cell) bool {
	if !p.state.InBounds(row, col) || p.state.Get(row, col) != Empty {
		return false
	}

	opponent := mover.Opponent()
	for _, d := range directions {
		if p.CanCaptureInDirection(row, col, d.Row, d.Col, mover, opponent) {
			return true
		}
	}
	return false
}

// LegalMoves lists every legal square for mover in row-major order.
func (p *Placement) LegalMoves(mover Cell) []Position {
	moves := []Position{}
	for row := 0; row < p.state.Size(); row++ {
		for col := 0; col < p.state.Size(); col++ {
			if p.IsLegal(row, col, mover) {
				moves = append(moves, Position{Row: row, Col: col})
			}
		}
	}
	return moves
}

// hasLegalMove is LegalMoves without the allocation.
func (p *Placement) hasLegalMove(mover Cell) bool {
	for row := 0; row < p.state.Size(); row++ {
		for col := 0; col < p.state.Size(); col++ {
			if p.IsLegal(row, col, mover) {
				return true
			}
		}
	}
	return false
}
