package game

type ScoreCalculator struct {
	state *BoardState
}

func NewScoreCalculator(state *BoardState) *ScoreCalculator {
	return &ScoreCalculator{state: state}
}

func (s *ScoreCalculator) Score() (black, white int) {
	return s.state.CountStones(Black), s.state.CountStones(White)
}

// Winner compares the current stone counts. It is only authoritative once the
// game has ended, but calling it earlier is allowed.
func (s *ScoreCalculator) Winner() Outcome {
	black, white := s.Score()
	switch {
	case black > white:
		return BlackWins
	case white > black:
		return WhiteWins
	default:
		return Tie
	}
}
