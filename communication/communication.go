// Package communication holds the JSON payloads exchanged between the session
// server, its clients, strategy agents and subprocess plugins.
package communication

import (
	"othello/game"
	"othello/utils"
)

// FindMoveRequest asks a strategy agent for a move on Snapshot for Player.
type FindMoveRequest struct {
	Snapshot game.Snapshot `json:"snapshot"`
	Player   game.Cell     `json:"player"`
}

// FindMoveResponse carries the chosen move. A nil Move means pass.
type FindMoveResponse struct {
	Move *game.Position `json:"move"`
}

// Coord is a [row, col] pair, the shape used by the session API.
type Coord [2]int

func CoordOf(p game.Position) Coord {
	return Coord{p.Row, p.Col}
}

func (c Coord) Position() game.Position {
	return game.Position{Row: c[0], Col: c[1]}
}

func CoordsOf(ps []game.Position) []Coord {
	return utils.Map(ps, CoordOf)
}

// StateResponse is the full observable state of a session.
type StateResponse struct {
	Board            [][]game.Cell `json:"board"`
	CurrentPlayer    game.Turn     `json:"current_player"`
	BlackScore       int           `json:"black_score"`
	WhiteScore       int           `json:"white_score"`
	ValidMoves       []Coord       `json:"valid_moves"`
	IsGameOver       bool          `json:"is_game_over"`
	Winner           *game.Outcome `json:"winner"`
	BlackPlayerName  string        `json:"black_player_name"`
	WhitePlayerName  string        `json:"white_player_name"`
	MoveCount        int           `json:"move_count"`
	LastMove         *Coord        `json:"last_move"`
	FlippedStones    []Coord       `json:"flipped_stones"`
	IsPlayerVsCPU    bool          `json:"is_player_vs_cpu"`
	Player           game.Cell     `json:"player"`
	WaitingForPlayer bool          `json:"waiting_for_player"`
}

// StartRequest begins a new session. Strategy names refer to the strategy
// registry; the human colour's strategy may be left empty.
type StartRequest struct {
	Player1Name   string    `json:"player1_name"`
	Player2Name   string    `json:"player2_name"`
	Strategy1     string    `json:"strategy1"`
	Strategy2     string    `json:"strategy2"`
	IsPlayerVsCPU bool      `json:"is_player_vs_cpu"`
	Player        game.Cell `json:"player"`
}

// NextMoveRequest advances the session. Move is only read on a human turn.
type NextMoveRequest struct {
	Move *Coord `json:"move,omitempty"`
}

type PreviewResponse struct {
	Valid   bool    `json:"valid"`
	Flipped []Coord `json:"flipped"`
}

type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
