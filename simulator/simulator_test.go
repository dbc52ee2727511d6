package simulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"othello/game"
)

func TestPreviewMove(t *testing.T) {
	t.Run("lists flipped stones without touching the board", func(t *testing.T) {
		b := game.NewBoard()
		before := b.Snapshot()

		ok, flipped := PreviewMove(b, 2, 3, game.Black)
		require.True(t, ok)
		require.Equal(t, []game.Position{{Row: 3, Col: 3}}, flipped)
		require.Equal(t, before, b.Snapshot(), "preview must not mutate")

		again, flippedAgain := PreviewMove(b, 2, 3, game.Black)
		require.Equal(t, ok, again)
		require.Equal(t, flipped, flippedAgain, "preview is deterministic")
	})

	t.Run("illegal move", func(t *testing.T) {
		b := game.NewBoard()
		ok, flipped := PreviewMove(b, 0, 0, game.Black)
		require.False(t, ok)
		require.Empty(t, flipped)

		ok, _ = PreviewMove(b, 3, 3, game.Black)
		require.False(t, ok, "occupied")
	})

	t.Run("multiple directions", func(t *testing.T) {
		b := game.NewBoard()
		require.True(t, b.MakeMove(2, 3)) // black
		require.True(t, b.MakeMove(2, 2)) // white
		require.True(t, b.MakeMove(3, 2)) // black

		// white at (4,2) brackets (3,2) via (2,2) and (4,3) via (4,4)
		ok, flipped := PreviewMove(b, 4, 2, game.White)
		require.True(t, ok)
		require.ElementsMatch(t, []game.Position{{Row: 3, Col: 2}, {Row: 4, Col: 3}}, flipped)
	})
}

func TestResultingState(t *testing.T) {
	b := game.NewBoard()
	before := b.Snapshot()

	next := ResultingState(b, 5, 4, game.Black)
	require.NotNil(t, next)
	require.Equal(t, game.Black, next.Cell(4, 4))
	require.Equal(t, game.WhiteTurn, next.Turn())
	require.Equal(t, before, b.Snapshot())

	require.Nil(t, ResultingState(b, 0, 0, game.Black))
}

func TestWithTemporarySimulation(t *testing.T) {
	b := game.NewBoard()
	work, saved := WithTemporarySimulation(b)

	require.True(t, work.MakeMove(2, 3))
	require.True(t, work.MakeMove(2, 2))
	require.Equal(t, game.White, b.Cell(3, 3), "original untouched")

	require.NoError(t, work.Restore(saved))
	require.Equal(t, b.Snapshot(), work.Snapshot())
}
