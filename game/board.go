package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidSize = errors.New("board size must be an even number of at least 4")

// Board composes one private BoardState with its own Placement,
// ScoreCalculator and Manager. Nothing is shared between boards.
type Board struct {
	state     *BoardState
	placement *Placement
	score     *ScoreCalculator
	manager   *Manager
}

// NewBoard returns a standard 8×8 board in the opening position.
func NewBoard() *Board {
	return newBoard(DefaultSize)
}

// NewBoardSize returns a size×size board in the opening position.
func NewBoardSize(size int) (*Board, error) {
	if size < 4 || size%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "got %d", size)
	}
	return newBoard(size), nil
}

func newBoard(size int) *Board {
	state := NewBoardState(size)
	placement := NewPlacement(state)
	return &Board{
		state:     state,
		placement: placement,
		score:     NewScoreCalculator(state),
		manager:   NewManager(placement, state),
	}
}

// CopyOf builds a brand-new board and replays every cell and the current turn
// of src onto it. The copy shares no storage with src.
func CopyOf(src View) *Board {
	b := newBoard(src.Size())
	for row := 0; row < b.Size(); row++ {
		for col := 0; col < b.Size(); col++ {
			b.state.Set(row, col, src.Cell(row, col))
		}
	}
	b.manager.SetCurrent(src.Turn())
	return b
}

func (b *Board) Copy() *Board {
	return CopyOf(b)
}

func (b *Board) Size() int {
	return b.state.Size()
}

func (b *Board) InBounds(row, col int) bool {
	return b.state.InBounds(row, col)
}

// Cell reads one square. Gate with InBounds; out-of-range access panics.
func (b *Board) Cell(row, col int) Cell {
	return b.state.Get(row, col)
}

// Grid returns a copy of the board contents.
func (b *Board) Grid() [][]Cell {
	return b.state.SnapshotGrid()
}

func (b *Board) Turn() Turn {
	return b.manager.Current()
}

func (b *Board) IsGameEnded() bool {
	return b.manager.IsEnded()
}

// IsValidMove checks (row, col) for the player to move.
func (b *Board) IsValidMove(row, col int) bool {
	return b.IsValidMoveFor(row, col, b.manager.Current().Color())
}

// IsValidMoveFor checks (row, col) for mover. Every move is invalid once the
// game has ended.
func (b *Board) IsValidMoveFor(row, col int, mover Cell) bool {
	if b.manager.IsEnded() || !mover.IsPlayer() {
		return false
	}
	return b.placement.IsLegal(row, col, mover)
}

// ValidMoves lists the legal squares of the player to move in row-major order.
func (b *Board) ValidMoves() []Position {
	return b.ValidMovesFor(b.manager.Current().Color())
}

func (b *Board) ValidMovesFor(mover Cell) []Position {
	if !mover.IsPlayer() {
		return []Position{}
	}
	return b.placement.LegalMoves(mover)
}

func (b *Board) Score() (black, white int) {
	return b.score.Score()
}

func (b *Board) Winner() Outcome {
	return b.score.Winner()
}

// MakeMove plays (row, col) for the player to move.
func (b *Board) MakeMove(row, col int) bool {
	if b.manager.IsEnded() {
		return false
	}
	return b.manager.Place(row, col)
}

// MakeMoveFor plays (row, col) for mover, who need not be the player to move.
func (b *Board) MakeMoveFor(row, col int, mover Cell) bool {
	if b.manager.IsEnded() {
		return false
	}
	return b.manager.PlaceAndFlip(row, col, mover)
}

// Pass skips the turn of a player who has no legal move. Normal play never
// needs it because turns advance past such players automatically; it exists
// for positions loaded through Restore.
func (b *Board) Pass() bool {
	return b.manager.Pass()
}

// Snapshot captures the grid and current turn as a plain value.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Board:         b.state.SnapshotGrid(),
		CurrentPlayer: b.manager.Current(),
	}
}

// Restore applies a snapshot cell by cell and then sets the turn. An invalid
// snapshot is rejected before anything is written.
func (b *Board) Restore(s Snapshot) error {
	if err := s.Validate(b.Size()); err != nil {
		return errors.Wrap(err, "restore snapshot")
	}
	for row := 0; row < b.Size(); row++ {
		for col := 0; col < b.Size(); col++ {
			b.state.Set(row, col, s.Board[row][col])
		}
	}
	b.manager.SetCurrent(s.CurrentPlayer)
	return nil
}

// Hash identifies the position (cells and turn) with FNV-64a.
func (b *Board) Hash() uint64 {
	hasher := fnv.New64a()
	hasher.Write(binary.LittleEndian.AppendUint64(nil, uint64(b.manager.Current())))
	for row := 0; row < b.Size(); row++ {
		for col := 0; col < b.Size(); col++ {
			hasher.Write([]byte{byte(b.state.Get(row, col))})
		}
	}
	return hasher.Sum64()
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < b.Size(); col++ {
		sb.WriteByte(byte('a' + col))
	}
	sb.WriteByte('\n')
	for row := 0; row < b.Size(); row++ {
		fmt.Fprintf(&sb, "%2d ", row+1)
		for col := 0; col < b.Size(); col++ {
			switch b.state.Get(row, col) {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FromSnapshot builds a board sized to s and restores s onto it.
func FromSnapshot(s Snapshot) (*Board, error) {
	b, err := NewBoardSize(len(s.Board))
	if err != nil {
		return nil, errors.Wrap(err, "snapshot size")
	}
	if err := b.Restore(s); err != nil {
		return nil, err
	}
	return b, nil
}
