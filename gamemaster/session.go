package gamemaster

import (
	"othello/communication"
	"othello/game"
)

// session is everything about a game other than the board itself.
type session struct {
	Player1Name      string
	Player2Name      string
	BlackPlayerName  string
	WhitePlayerName  string
	MoveCount        int
	Strategy1        string
	Strategy2        string
	IsPlayerVsCPU    bool
	Player           game.Cell
	WaitingForPlayer bool
	LastMove         *communication.Coord
	FlippedStones    []communication.Coord
}

func newSession() session {
	return session{Player: game.Black, FlippedStones: []communication.Coord{}}
}

func (s *session) setup(setup Setup) {
	s.Player1Name = setup.Player1Name
	s.Player2Name = setup.Player2Name
	s.BlackPlayerName = setup.Player1Name
	s.WhitePlayerName = setup.Player2Name
	s.Strategy1 = setup.Strategy1
	s.Strategy2 = setup.Strategy2
	s.IsPlayerVsCPU = setup.PlayerVsCPU
	s.Player = setup.Player
	s.MoveCount = 0
	s.WaitingForPlayer = false
	s.clearHighlights()
}

func (s *session) isPlayerTurn(mover game.Cell) bool {
	return s.IsPlayerVsCPU && mover == s.Player
}

// strategyName returns the registry name of mover's strategy. Player 1 is
// Black.
func (s *session) strategyName(mover game.Cell) string {
	if mover == game.Black {
		return s.Strategy1
	}
	return s.Strategy2
}

func (s *session) updateHighlights(move game.Position, flipped []game.Position) {
	last := communication.CoordOf(move)
	s.LastMove = &last
	s.FlippedStones = communication.CoordsOf(flipped)
}

func (s *session) clearHighlights() {
	s.LastMove = nil
	s.FlippedStones = []communication.Coord{}
}

// record is the persisted form of a session plus its board.
type record struct {
	Player1Name      string                `json:"player1_name"`
	Player2Name      string                `json:"player2_name"`
	BlackPlayerName  string                `json:"black_player_name"`
	WhitePlayerName  string                `json:"white_player_name"`
	MoveCount        int                   `json:"move_count"`
	Strategy1        string                `json:"strategy1"`
	Strategy2        string                `json:"strategy2"`
	IsPlayerVsCPU    bool                  `json:"is_player_vs_cpu"`
	Player           game.Cell             `json:"player"`
	WaitingForPlayer bool                  `json:"waiting_for_player"`
	LastMove         *communication.Coord  `json:"last_move"`
	FlippedStones    []communication.Coord `json:"flipped_stones"`
	BoardState       [][]game.Cell         `json:"board_state,omitempty"`
	CurrentPlayer    game.Turn             `json:"current_player"`
}

func newRecord(s session, board *game.Board) record {
	r := record{
		Player1Name:      s.Player1Name,
		Player2Name:      s.Player2Name,
		BlackPlayerName:  s.BlackPlayerName,
		WhitePlayerName:  s.WhitePlayerName,
		MoveCount:        s.MoveCount,
		Strategy1:        s.Strategy1,
		Strategy2:        s.Strategy2,
		IsPlayerVsCPU:    s.IsPlayerVsCPU,
		Player:           s.Player,
		WaitingForPlayer: s.WaitingForPlayer,
		LastMove:         s.LastMove,
		FlippedStones:    s.FlippedStones,
	}
	if board != nil {
		snapshot := board.Snapshot()
		r.BoardState = snapshot.Board
		r.CurrentPlayer = snapshot.CurrentPlayer
	}
	return r
}

func (r record) session() session {
	s := session{
		Player1Name:      r.Player1Name,
		Player2Name:      r.Player2Name,
		BlackPlayerName:  r.BlackPlayerName,
		WhitePlayerName:  r.WhitePlayerName,
		MoveCount:        r.MoveCount,
		Strategy1:        r.Strategy1,
		Strategy2:        r.Strategy2,
		IsPlayerVsCPU:    r.IsPlayerVsCPU,
		Player:           r.Player,
		WaitingForPlayer: r.WaitingForPlayer,
		LastMove:         r.LastMove,
		FlippedStones:    r.FlippedStones,
	}
	if !s.Player.IsPlayer() {
		s.Player = game.Black
	}
	if s.FlippedStones == nil {
		s.FlippedStones = []communication.Coord{}
	}
	return s
}
