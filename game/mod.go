package game

import "fmt"

// DefaultSize is the standard Othello board width and height.
const DefaultSize = 8

// Cell is the content of a single square. The integer values are part of the
// persisted session format and must not change.
type Cell int

const (
	Empty Cell = iota // 0
	Black             // 1
	White             // 2
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("cell(%d)", int(c))
	}
}

// Opponent returns the other stone colour. Empty maps to Black so the result
// is always a player colour.
func (c Cell) Opponent() Cell {
	if c == Black {
		return White
	}
	return Black
}

// IsPlayer reports whether c is Black or White.
func (c Cell) IsPlayer() bool {
	return c == Black || c == White
}

// Turn converts a player colour into the turn it owns.
func (c Cell) Turn() Turn {
	switch c {
	case Black:
		return BlackTurn
	case White:
		return WhiteTurn
	default:
		return Ended
	}
}

// Turn is the turn controller's state. It shares wire integers with Cell but is
// a separate type: Ended is a control-flow marker, not board content.
type Turn int

const (
	Ended     Turn = iota // 0, no active player
	BlackTurn             // 1
	WhiteTurn             // 2
)

func (t Turn) String() string {
	switch t {
	case Ended:
		return "ended"
	case BlackTurn:
		return "black"
	case WhiteTurn:
		return "white"
	default:
		return fmt.Sprintf("turn(%d)", int(t))
	}
}

// Color returns the stone colour of the player to move, or Empty once the game
// has ended.
func (t Turn) Color() Cell {
	switch t {
	case BlackTurn:
		return Black
	case WhiteTurn:
		return White
	default:
		return Empty
	}
}

func (t Turn) valid() bool {
	return t == Ended || t == BlackTurn || t == WhiteTurn
}

// Outcome is the score-based result of a board.
type Outcome int

const (
	Tie       Outcome = iota // 0
	BlackWins                // 1
	WhiteWins                // 2
)

func (o Outcome) String() string {
	switch o {
	case Tie:
		return "tie"
	case BlackWins:
		return "black"
	case WhiteWins:
		return "white"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Position addresses a square by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// directions are the 8 compass unit vectors, (0,0) excluded.
var directions = [8]Position{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// View is the read-only contract of a board. Strategies and the simulator only
// ever receive a View, so they cannot mutate the board they are shown; the
// only way to play on it is to take a Copy.
type View interface {
	Size() int
	InBounds(row, col int) bool
	Cell(row, col int) Cell
	Grid() [][]Cell
	Turn() Turn
	IsGameEnded() bool
	IsValidMove(row, col int) bool
	IsValidMoveFor(row, col int, mover Cell) bool
	ValidMoves() []Position
	ValidMovesFor(mover Cell) []Position
	Score() (black, white int)
	Winner() Outcome
	Snapshot() Snapshot
	Hash() uint64
	Copy() *Board
}
