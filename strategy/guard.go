package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"othello/game"
)

var (
	ErrTimeout     = errors.New("strategy timed out")
	ErrPanicked    = errors.New("strategy panicked")
	ErrPassed      = errors.New("strategy passed with legal moves available")
	ErrIllegalMove = errors.New("strategy returned an illegal move")
)

type answer struct {
	move game.Position
	ok   bool
	err  error
}

// Invoke runs s against a private copy of board in its own goroutine. A panic
// is recovered and reported as ErrPanicked, and a strategy still running when
// timeout (0 means no limit) or ctx expires is abandoned with ErrTimeout. The
// abandoned goroutine is left to finish on its own; it only ever holds the
// copy.
func Invoke(ctx context.Context, s Strategy, board game.View, timeout time.Duration) (game.Position, bool, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	work := board.Copy()
	result := make(chan answer, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- answer{err: errors.Wrap(ErrPanicked, fmt.Sprint(r))}
			}
		}()
		move, ok := s.ChooseMove(ctx, work)
		result <- answer{move: move, ok: ok}
	}()

	select {
	case a := <-result:
		return a.move, a.ok, a.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return game.Position{}, false, errors.Wrapf(ErrTimeout, "after %s", timeout)
		}
		return game.Position{}, false, errors.WithStack(ctx.Err())
	}
}

// Decision is the move that will actually be played for one turn.
type Decision struct {
	Move game.Position
	// Pass is set when mover has no legal move at all.
	Pass bool
	// Fallback is set when the strategy's answer was replaced by the first
	// legal move. Err explains why.
	Fallback bool
	Err      error
}

// Decide asks s for mover's move and guarantees the result is playable. A
// strategy that fails, times out, passes or answers with an illegal square
// while legal moves exist is overruled by the first legal move in row-major
// order.
func Decide(ctx context.Context, s Strategy, board game.View, mover game.Cell, timeout time.Duration) Decision {
	moves := board.ValidMovesFor(mover)
	if len(moves) == 0 {
		return Decision{Pass: true}
	}

	move, ok, err := Invoke(ctx, s, board, timeout)
	switch {
	case err != nil:
	case !ok:
		err = ErrPassed
	case !board.IsValidMoveFor(move.Row, move.Col, mover):
		err = errors.Wrapf(ErrIllegalMove, "%s for %s", move, mover)
	default:
		return Decision{Move: move}
	}
	return Decision{Move: moves[0], Fallback: true, Err: err}
}
