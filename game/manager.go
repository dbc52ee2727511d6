package game

// Manager is the turn controller. It places stones, flips captures and moves
// the turn between BlackTurn, WhiteTurn and Ended.
type Manager struct {
	state     *BoardState
	placement *Placement
	current   Turn
}

// NewManager returns a manager with Black to move.
func NewManager(placement *Placement, state *BoardState) *Manager {
	return &Manager{
		state:     state,
		placement: placement,
		current:   BlackTurn,
	}
}

func (m *Manager) Current() Turn {
	return m.current
}

func (m *Manager) SetCurrent(t Turn) {
	m.current = t
}

func (m *Manager) IsEnded() bool {
	return m.current == Ended
}

// Place plays for the player whose turn it is.
func (m *Manager) Place(row, col int) bool {
	if m.IsEnded() {
		return false
	}
	return m.PlaceAndFlip(row, col, m.current.Color())
}

// PlaceAndFlip puts a mover stone on (row, col), flips every bracketed run and
// advances the turn. It returns false and leaves the board untouched when the
// move is illegal.
func (m *Manager) PlaceAndFlip(row, col int, mover Cell) bool {
	if !mover.IsPlayer() || !m.placement.IsLegal(row, col, mover) {
		return false
	}

	m.state.Set(row, col, mover)
	opponent := mover.Opponent()
	for _, d := range directions {
		if m.placement.CanCaptureInDirection(row, col, d.Row, d.Col, mover, opponent) {
			m.flipInDirection(row, col, d.Row, d.Col, mover, opponent)
		}
	}

	m.advance(mover)
	return true
}

func (m *Manager) flipInDirection(row, col, dRow, dCol int, mover, opponent Cell) {
	for r, c := row+dRow, col+dCol; m.state.InBounds(r, c); r, c = r+dRow, c+dCol {
		if m.state.Get(r, c) != opponent {
			return
		}
		m.state.Set(r, c, mover)
	}
}

// Pass gives up the turn when the player to move has no legal move. It
// returns false, changing nothing, if the game is over or a move exists.
func (m *Manager) Pass() bool {
	mover := m.current.Color()
	if m.IsEnded() || m.placement.hasLegalMove(mover) {
		return false
	}
	m.current = Ended
	if m.placement.hasLegalMove(mover.Opponent()) {
		m.current = mover.Opponent().Turn()
	}
	return true
}

// advance hands the turn to the opponent if they can move, back to prev if
// only prev can move, and ends the game when neither can.
func (m *Manager) advance(prev Cell) {
	next := prev.Opponent()
	m.current = next.Turn()
	if m.placement.hasLegalMove(next) {
		return
	}

	m.current = prev.Turn()
	if !m.placement.hasLegalMove(prev) {
		m.current = Ended
	}
}
