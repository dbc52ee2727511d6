// Package strategy defines the pluggable move chooser and the ways one can be
// supplied: in-process registration, a remote HTTP agent or a subprocess.
package strategy

import (
	"context"

	"othello/game"
)

// Strategy picks a move for the board it is shown. Returning false passes.
// The board is read-only; strategies that want to look ahead use
// board.Copy() or the simulator package.
type Strategy interface {
	ChooseMove(ctx context.Context, board game.View) (game.Position, bool)
}

// Func adapts an ordinary function to Strategy.
type Func func(ctx context.Context, board game.View) (game.Position, bool)

func (f Func) ChooseMove(ctx context.Context, board game.View) (game.Position, bool) {
	return f(ctx, board)
}

// Factory builds a strategy that plays as mover. Strategies that do not
// evaluate candidates ignore the options.
type Factory func(mover game.Cell, options ...Option) (Strategy, error)
