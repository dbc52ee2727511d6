package agent

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
	"othello/strategy"
)

// Session is the part of the session client a Player needs.
type Session interface {
	State(ctx context.Context) (communication.StateResponse, error)
	NextMove(ctx context.Context, move *game.Position) (communication.StateResponse, error)
}

// Player plays one colour of a session server with a local strategy. It
// waits for its turn, submits its move and steps the other side.
type Player struct {
	session  Session
	mover    game.Cell
	strategy strategy.Strategy
	timeout  time.Duration
	poll     time.Duration
}

func NewPlayer(session Session, mover game.Cell, s strategy.Strategy, timeout time.Duration) *Player {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Player{session: session, mover: mover, strategy: s, timeout: timeout, poll: 100 * time.Millisecond}
}

// Play loops until the game ends and returns the final state.
func (p *Player) Play(ctx context.Context) (communication.StateResponse, error) {
	state, err := p.session.State(ctx)
	if err != nil {
		return state, errors.Wrap(err, "initial state")
	}
	for !state.IsGameOver {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		var move *game.Position
		if state.CurrentPlayer.Color() == p.mover {
			board, err := game.FromSnapshot(game.Snapshot{Board: state.Board, CurrentPlayer: state.CurrentPlayer})
			if err != nil {
				return state, errors.Wrap(err, "session board")
			}
			decision := strategy.Decide(ctx, p.strategy, board, p.mover, p.timeout)
			if decision.Fallback {
				log.Warn().Err(decision.Err).Msgf("agent strategy overruled, playing %s", decision.Move)
			}
			if !decision.Pass {
				move = &decision.Move
			}
		}

		next, err := p.session.NextMove(ctx, move)
		if err != nil {
			return state, errors.Wrap(err, "next move")
		}
		if next.MoveCount == state.MoveCount && next.CurrentPlayer == state.CurrentPlayer {
			// nothing moved; the other side is a human on another client
			select {
			case <-ctx.Done():
				return next, ctx.Err()
			case <-time.After(p.poll):
			}
			if next, err = p.session.State(ctx); err != nil {
				return state, errors.Wrap(err, "poll state")
			}
		}
		state = next
	}
	log.Info().Msgf("agent game over: black %d, white %d", state.BlackScore, state.WhiteScore)
	return state, nil
}
