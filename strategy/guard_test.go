package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/game"
)

func TestInvoke(t *testing.T) {
	board := game.NewBoard()

	t.Run("returns the strategy answer", func(t *testing.T) {
		move, ok, err := Invoke(context.Background(), NewFirst(game.Black), board, time.Second)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, game.Position{Row: 2, Col: 3}, move)
	})

	t.Run("recovers panics", func(t *testing.T) {
		s := Func(func(context.Context, game.View) (game.Position, bool) { panic("boom") })
		_, ok, err := Invoke(context.Background(), s, board, time.Second)
		require.False(t, ok)
		require.ErrorIs(t, err, ErrPanicked)
		require.Contains(t, err.Error(), "boom")
	})

	t.Run("abandons slow strategies", func(t *testing.T) {
		s := Func(func(context.Context, game.View) (game.Position, bool) {
			time.Sleep(2 * time.Second)
			return game.Position{Row: 2, Col: 3}, true
		})
		start := time.Now()
		_, ok, err := Invoke(context.Background(), s, board, 50*time.Millisecond)
		require.False(t, ok)
		require.ErrorIs(t, err, ErrTimeout)
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("strategies only see a copy", func(t *testing.T) {
		s := Func(func(_ context.Context, v game.View) (game.Position, bool) {
			v.Copy().MakeMove(2, 3)
			if b, ok := v.(*game.Board); ok {
				b.MakeMove(2, 3)
			}
			return game.Position{}, false
		})
		before := board.Snapshot()
		_, _, err := Invoke(context.Background(), s, board, time.Second)
		require.NoError(t, err)
		require.Equal(t, before, board.Snapshot(), "the shown board is a private copy")
	})
}

func TestDecide(t *testing.T) {
	board := game.NewBoard()
	first := game.Position{Row: 2, Col: 3}

	t.Run("legal answer is used", func(t *testing.T) {
		d := Decide(context.Background(), Func(func(context.Context, game.View) (game.Position, bool) {
			return game.Position{Row: 5, Col: 4}, true
		}), board, game.Black, time.Second)
		require.False(t, d.Fallback)
		require.NoError(t, d.Err)
		require.Equal(t, game.Position{Row: 5, Col: 4}, d.Move)
	})

	cases := map[string]struct {
		strategy Strategy
		err      error
	}{
		"pass": {
			strategy: Func(func(context.Context, game.View) (game.Position, bool) { return game.Position{}, false }),
			err:      ErrPassed,
		},
		"illegal": {
			strategy: Func(func(context.Context, game.View) (game.Position, bool) { return game.Position{Row: 0, Col: 0}, true }),
			err:      ErrIllegalMove,
		},
		"out of range": {
			strategy: Func(func(context.Context, game.View) (game.Position, bool) { return game.Position{Row: 9, Col: -1}, true }),
			err:      ErrIllegalMove,
		},
		"panic": {
			strategy: Func(func(context.Context, game.View) (game.Position, bool) { panic("bad") }),
			err:      ErrPanicked,
		},
	}
	for name, tc := range cases {
		t.Run(name+" falls back to the first legal move", func(t *testing.T) {
			d := Decide(context.Background(), tc.strategy, board, game.Black, time.Second)
			require.True(t, d.Fallback)
			require.ErrorIs(t, d.Err, tc.err)
			require.Equal(t, first, d.Move)
		})
	}

	t.Run("no legal moves is a pass", func(t *testing.T) {
		s := board.Snapshot()
		for r := range s.Board {
			for c := range s.Board[r] {
				s.Board[r][c] = game.Black
			}
		}
		full := game.NewBoard()
		require.NoError(t, full.Restore(s))
		d := Decide(context.Background(), NewFirst(game.White), full, game.White, time.Second)
		require.True(t, d.Pass)
		require.False(t, d.Fallback)
	})
}
