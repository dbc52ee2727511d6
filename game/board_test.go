package game

import (
	"encoding/json"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/require"
)

// emptySnapshot returns a size×size snapshot with no stones.
func emptySnapshot(size int, turn Turn) Snapshot {
	grid := make([][]Cell, size)
	for i := range grid {
		grid[i] = make([]Cell, size)
	}
	return Snapshot{Board: grid, CurrentPlayer: turn}
}

func TestOpeningPosition(t *testing.T) {
	b := NewBoard()

	require.Equal(t, 8, b.Size())
	require.Equal(t, BlackTurn, b.Turn())
	require.False(t, b.IsGameEnded())
	require.Equal(t, White, b.Cell(3, 3))
	require.Equal(t, Black, b.Cell(3, 4))
	require.Equal(t, Black, b.Cell(4, 3))
	require.Equal(t, White, b.Cell(4, 4))

	black, white := b.Score()
	require.Equal(t, 2, black)
	require.Equal(t, 2, white)
	require.Equal(t, Tie, b.Winner())

	require.Equal(t, []Position{{2, 3}, {3, 2}, {4, 5}, {5, 4}}, b.ValidMoves(), "opening moves should be row-major")
}

func TestMakeMove(t *testing.T) {
	t.Run("flips bracketed stones and passes the turn", func(t *testing.T) {
		b := NewBoard()
		require.True(t, b.MakeMove(2, 3))

		require.Equal(t, Black, b.Cell(2, 3))
		require.Equal(t, Black, b.Cell(3, 3), "bracketed stone should flip")
		black, white := b.Score()
		require.Equal(t, 4, black)
		require.Equal(t, 1, white)
		require.Equal(t, WhiteTurn, b.Turn())
		require.Equal(t, []Position{{2, 2}, {2, 4}, {4, 2}}, b.ValidMoves())
	})

	t.Run("illegal moves leave the board untouched", func(t *testing.T) {
		b := NewBoard()
		before := b.Snapshot()

		require.False(t, b.MakeMove(0, 0), "no capture")
		require.False(t, b.MakeMove(3, 3), "occupied")
		require.False(t, b.MakeMove(-1, 2), "off board")
		require.False(t, b.MakeMove(2, 8), "off board")
		require.Equal(t, before, b.Snapshot())
	})

	t.Run("every legal move adds exactly one stone and captures", func(t *testing.T) {
		b := NewBoard()
		for !b.IsGameEnded() {
			moves := b.ValidMoves()
			require.NotEmpty(t, moves, "a player to move must have a legal move")
			mover := b.Turn().Color()
			black, white := b.Score()
			mine := black
			if mover == White {
				mine = white
			}

			require.True(t, b.MakeMove(moves[len(moves)-1].Row, moves[len(moves)-1].Col))

			newBlack, newWhite := b.Score()
			require.Equal(t, black+white+1, newBlack+newWhite, "total stones grow by one")
			newMine := newBlack
			if mover == White {
				newMine = newWhite
			}
			require.GreaterOrEqual(t, newMine, mine+2, "a move places one stone and flips at least one")
		}
		require.Empty(t, b.ValidMoves())
	})

	t.Run("move for a specific player", func(t *testing.T) {
		b := NewBoard()
		require.True(t, b.IsValidMoveFor(2, 4, White))
		require.True(t, b.MakeMoveFor(2, 4, White))
		require.Equal(t, White, b.Cell(3, 4))
		require.Equal(t, BlackTurn, b.Turn())
		require.False(t, b.MakeMoveFor(2, 2, Empty))
	})
}

func TestTurnAdvance(t *testing.T) {
	t.Run("opponent without moves is skipped", func(t *testing.T) {
		s := emptySnapshot(8, BlackTurn)
		s.Board[0][0] = Black
		s.Board[0][1] = White
		s.Board[2][0] = Black
		s.Board[2][1] = White

		b := NewBoard()
		require.NoError(t, b.Restore(s))
		require.True(t, b.MakeMove(0, 2))

		require.Empty(t, b.ValidMovesFor(White))
		require.Equal(t, BlackTurn, b.Turn(), "white cannot move so black goes again")
		require.Equal(t, []Position{{2, 2}}, b.ValidMoves())
	})

	t.Run("game ends when neither side can move", func(t *testing.T) {
		s := emptySnapshot(8, BlackTurn)
		s.Board[0][0] = Black
		s.Board[0][1] = White

		b := NewBoard()
		require.NoError(t, b.Restore(s))
		require.True(t, b.MakeMove(0, 2))

		require.True(t, b.IsGameEnded())
		require.Equal(t, Ended, b.Turn())
		require.Equal(t, BlackWins, b.Winner())
		require.False(t, b.IsValidMove(5, 5))
		require.False(t, b.MakeMove(5, 5))
		require.Empty(t, b.ValidMoves())
	})
}

func TestCopyIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Copy()
	require.Equal(t, b.Snapshot(), c.Snapshot())
	require.Equal(t, b.Hash(), c.Hash())

	require.True(t, c.MakeMove(2, 3))
	require.Equal(t, White, b.Cell(3, 3), "original must not change")
	require.Equal(t, BlackTurn, b.Turn())
	require.NotEqual(t, b.Hash(), c.Hash())

	grid := b.Grid()
	grid[0][0] = Black
	require.Equal(t, Empty, b.Cell(0, 0), "Grid returns a copy")
}

func TestSnapshot(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		b := NewBoard()
		require.True(t, b.MakeMove(2, 3))
		require.True(t, b.MakeMove(2, 2))
		s := b.Snapshot()

		restored := NewBoard()
		require.NoError(t, restored.Restore(s))
		require.Equal(t, s, restored.Snapshot())
		require.Equal(t, b.Hash(), restored.Hash())
		require.Equal(t, b.ValidMoves(), restored.ValidMoves())
	})

	t.Run("json uses integer cells", func(t *testing.T) {
		s := emptySnapshot(4, WhiteTurn)
		s.Board[1][2] = Black
		data, err := json.Marshal(s)
		require.NoError(t, err)
		require.JSONEq(t, `{"board":[[0,0,0,0],[0,0,1,0],[0,0,0,0],[0,0,0,0]],"current_player":2}`, string(data))

		var decoded Snapshot
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, s, decoded)
	})

	t.Run("restore rejects bad snapshots without writing", func(t *testing.T) {
		b := NewBoard()
		before := b.Snapshot()

		wrongSize := emptySnapshot(6, BlackTurn)
		require.Error(t, b.Restore(wrongSize))

		badCell := emptySnapshot(8, BlackTurn)
		badCell.Board[7][7] = Cell(9)
		require.Error(t, b.Restore(badCell))

		badTurn := emptySnapshot(8, Turn(5))
		require.Error(t, b.Restore(badTurn))

		short := emptySnapshot(8, BlackTurn)
		short.Board[3] = short.Board[3][:4]
		require.Error(t, b.Restore(short))

		require.Equal(t, before, b.Snapshot())
	})

	t.Run("validate reports every problem", func(t *testing.T) {
		s := emptySnapshot(4, Turn(7))
		s.Board[0][0] = Cell(-1)
		s.Board[1][1] = Cell(3)
		err := s.Validate(4)
		require.Error(t, err)
		require.Contains(t, err.Error(), "3 errors occurred")
	})
}

func TestBoardSizes(t *testing.T) {
	for _, size := range []int{-2, 0, 2, 3, 5, 7} {
		_, err := NewBoardSize(size)
		require.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}

	t.Run("4x4", func(t *testing.T) {
		b, err := NewBoardSize(4)
		require.NoError(t, err)
		require.Equal(t, White, b.Cell(1, 1))
		require.Equal(t, Black, b.Cell(1, 2))
		require.Equal(t, []Position{{0, 1}, {1, 0}, {2, 3}, {3, 2}}, b.ValidMoves())
	})

	t.Run("6x6 plays to the end", func(t *testing.T) {
		b, err := NewBoardSize(6)
		require.NoError(t, err)
		for !b.IsGameEnded() {
			moves := b.ValidMoves()
			require.True(t, b.MakeMove(moves[0].Row, moves[0].Col))
		}
		black, white := b.Score()
		require.LessOrEqual(t, black+white, 36)
	})
}

func TestOutOfRangeAccessPanics(t *testing.T) {
	b := NewBoard()
	require.False(t, b.InBounds(8, 0))
	require.Panics(t, func() { b.Cell(8, 0) })
}

func TestHashDependsOnTurn(t *testing.T) {
	a := NewBoard()
	s := a.Snapshot()
	s.CurrentPlayer = WhiteTurn
	b := NewBoard()
	require.NoError(t, b.Restore(s))
	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestHashLayout(t *testing.T) {
	b, err := NewBoardSize(4)
	require.NoError(t, err)

	want := fnv.New64a()
	want.Write([]byte{byte(BlackTurn), 0, 0, 0, 0, 0, 0, 0})
	for _, row := range b.Grid() {
		for _, cell := range row {
			want.Write([]byte{byte(cell)})
		}
	}
	require.Equal(t, want.Sum64(), b.Hash(), "turn as 8 little-endian bytes, then one byte per cell")
}

func TestString(t *testing.T) {
	b, err := NewBoardSize(4)
	require.NoError(t, err)
	require.Equal(t, "   abcd\n 1 ....\n 2 .OX.\n 3 .XO.\n 4 ....\n", b.String())
}

func TestPass(t *testing.T) {
	b := NewBoard()
	require.False(t, b.Pass(), "black has moves")

	s := emptySnapshot(8, BlackTurn)
	s.Board[0][0] = White
	s.Board[0][1] = Black
	require.NoError(t, b.Restore(s))
	require.True(t, b.Pass())
	require.Equal(t, WhiteTurn, b.Turn())
	require.False(t, b.Pass())

	s = emptySnapshot(8, WhiteTurn)
	s.Board[0][0] = Black
	require.NoError(t, b.Restore(s))
	require.True(t, b.Pass())
	require.True(t, b.IsGameEnded())
	require.False(t, b.Pass())
}
