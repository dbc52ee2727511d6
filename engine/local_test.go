package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/experiments/metrics"
	"othello/game"
	"othello/strategy"
)

func seat(name string, mover game.Cell) Seat {
	s, err := strategy.New(name, mover)
	if err != nil {
		panic(err)
	}
	return Seat{Name: name, Strategy: s}
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("plays a full game", func(t *testing.T) {
		e := NewLocalEngine(seat("first", game.Black), seat("greedy", game.White), WithCollector(metrics.NewCollector()))
		result, err := e.Run(context.Background())
		require.NoError(t, err)

		require.True(t, result.Finished)
		require.True(t, e.Board().IsGameEnded())
		require.NotEmpty(t, result.Updates)
		require.Equal(t, e.Board().Winner(), result.Winner)
		black, white := e.Board().Score()
		require.Equal(t, black, result.BlackScore)
		require.Equal(t, white, result.WhiteScore)
		require.Equal(t, len(result.Updates), result.Match.TotalMoves)
		require.Zero(t, result.Match.Fallbacks)
		require.Len(t, result.Moves, len(result.Updates))

		last := result.Updates[len(result.Updates)-1]
		require.Equal(t, e.Board().Hash(), last.Hash)
		require.Equal(t, game.Ended, last.Snapshot.CurrentPlayer)
	})

	t.Run("updates replay to the same position", func(t *testing.T) {
		e := NewLocalEngine(seat("positional", game.Black), seat("mobility", game.White))
		result, err := e.Run(context.Background())
		require.NoError(t, err)

		board := game.NewBoard()
		for i, u := range result.Updates {
			require.Equal(t, i+1, u.Step)
			require.NotNil(t, u.Move)
			require.True(t, board.MakeMoveFor(u.Move.Row, u.Move.Col, u.Player))
			require.Equal(t, u.Hash, board.Hash())
			require.Equal(t, u.Snapshot, board.Snapshot())
		}
	})

	t.Run("broken strategies fall back", func(t *testing.T) {
		broken := Seat{Name: "broken", Strategy: strategy.Func(func(context.Context, game.View) (game.Position, bool) {
			return game.Position{Row: -1, Col: -1}, true
		})}
		e := NewLocalEngine(broken, seat("first", game.White), WithCollector(metrics.NewCollector()))
		result, err := e.Run(context.Background())
		require.NoError(t, err)
		require.True(t, result.Finished)
		require.Positive(t, result.Match.Fallbacks)

		for _, m := range result.Moves {
			require.Equal(t, m.Player == game.Black, m.Fallback)
		}
	})

	t.Run("timeouts are counted", func(t *testing.T) {
		slow := Seat{Name: "slow", Strategy: strategy.Func(func(context.Context, game.View) (game.Position, bool) {
			time.Sleep(200 * time.Millisecond)
			return game.Position{Row: 2, Col: 3}, true
		})}
		e := NewLocalEngine(slow, seat("first", game.White),
			WithTimeout(10*time.Millisecond), WithMaxTurns(4), WithCollector(metrics.NewCollector()))
		result, err := e.Run(context.Background())
		require.NoError(t, err)
		require.False(t, result.Finished)
		require.Len(t, result.Updates, 4)
		require.Equal(t, 2, result.Match.Timeouts)
	})

	t.Run("cancellation stops the match", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewLocalEngine(seat("first", game.Black), seat("first", game.White))
		_, err := e.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("custom starting board with a stuck player", func(t *testing.T) {
		b := game.NewBoard()
		s := b.Snapshot()
		for r := range s.Board {
			for c := range s.Board[r] {
				s.Board[r][c] = game.Empty
			}
		}
		s.Board[0][0] = game.White
		s.Board[0][1] = game.Black
		s.CurrentPlayer = game.BlackTurn
		require.NoError(t, b.Restore(s))

		e := NewLocalEngine(seat("first", game.Black), seat("first", game.White), WithBoard(b))
		result, err := e.Run(context.Background())
		require.NoError(t, err)
		require.True(t, result.Finished)
		require.Len(t, result.Updates, 2)
		require.Nil(t, result.Updates[0].Move, "black passes")
		require.Equal(t, game.Position{Row: 0, Col: 2}, *result.Updates[1].Move)
		require.Equal(t, game.WhiteWins, result.Winner)
		require.Equal(t, game.Black, b.Cell(0, 1), "the supplied board is copied")
	})
}

func TestDescribeOutcome(t *testing.T) {
	require.Equal(t, "draw 32-32", describeOutcome(game.Tie, 32, 32))
	require.Equal(t, "black wins 40-24", describeOutcome(game.BlackWins, 40, 24))
	require.Equal(t, "white wins 10-54", describeOutcome(game.WhiteWins, 10, 54))
}
