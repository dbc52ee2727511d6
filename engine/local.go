package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/experiments/metrics"
	"othello/game"
	"othello/meta"
	"othello/simulator"
	"othello/strategy"
)

// Seat is one side of a match.
type Seat struct {
	Name     string
	Strategy strategy.Strategy
}

type Option func(e *LocalEngine)

type LocalEngine struct {
	seats    map[game.Cell]Seat
	board    *game.Board
	timeout  time.Duration
	maxTurns int
	metrics  metrics.Collector
}

func WithTimeout(timeout time.Duration) Option {
	return func(e *LocalEngine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *LocalEngine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(e *LocalEngine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

// WithBoard starts the match from a copy of board instead of the opening.
func WithBoard(board game.View) Option {
	return func(e *LocalEngine) {
		if board != nil {
			e.board = board.Copy()
		}
	}
}

func NewLocalEngine(black, white Seat, options ...Option) *LocalEngine {
	e := &LocalEngine{ // Default values
		seats:    map[game.Cell]Seat{game.Black: black, game.White: white},
		board:    game.NewBoard(),
		timeout:  meta.STRATEGY_TIMEOUT,
		maxTurns: MaxTurns,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Board is the engine's working board. It is only safe to read once Run has
// returned.
func (e *LocalEngine) Board() game.View {
	return e.board
}

// Run executes the game loop. Strategy failures never abort the match: the
// first legal move is played instead. Only ctx cancellation returns an error,
// together with the partial result.
func (e *LocalEngine) Run(ctx context.Context) (Result, error) {
	updates := []Update{}
	e.metrics.Start()

	log.Info().Msgf("%s (black) vs %s (white) is starting", e.seats[game.Black].Name, e.seats[game.White].Name)

	step := 1
	for ; !e.board.IsGameEnded() && step <= e.maxTurns; step++ {
		mover := e.board.Turn().Color()
		seat := e.seats[mover]

		start := time.Now()
		decision := strategy.Decide(ctx, seat.Strategy, e.board, mover, e.timeout)
		elapsed := time.Since(start)
		if err := ctx.Err(); err != nil {
			return e.result(updates, false), errors.Wrapf(err, "match stopped at step %d", step)
		}

		if decision.Pass {
			log.Warn().Msgf("step %d: %s has no legal move, passing", step, mover)
			e.board.Pass()
			updates = append(updates, e.update(step, mover, nil, nil))
			continue
		}

		timedOut := errors.Is(decision.Err, strategy.ErrTimeout)
		if decision.Fallback {
			log.Warn().Err(decision.Err).Msgf("step %d: %s (%s) falls back to %s", step, seat.Name, mover, decision.Move)
			e.metrics.AddFallback()
			if timedOut {
				e.metrics.AddTimeout()
			}
		}

		move := decision.Move
		_, flipped := simulator.PreviewMove(e.board, move.Row, move.Col, mover)
		if !e.board.MakeMoveFor(move.Row, move.Col, mover) {
			return e.result(updates, false), errors.Errorf("step %d: decided move %s is not playable", step, move)
		}

		updates = append(updates, e.update(step, mover, &move, flipped))
		e.metrics.AddMove(metrics.MoveMetric{
			Step:     step,
			Player:   mover,
			Move:     move,
			Flipped:  len(flipped),
			Duration: elapsed,
			Fallback: decision.Fallback,
			TimedOut: timedOut,
		})
	}

	finished := e.board.IsGameEnded()
	if finished {
		black, white := e.board.Score()
		log.Info().Msgf("game ended after %d steps: %s", step-1, describeOutcome(e.board.Winner(), black, white))
	} else {
		log.Info().Msgf("stopped after %d turns (no winner yet)", e.maxTurns)
	}
	return e.result(updates, finished), nil
}

func (e *LocalEngine) update(step int, mover game.Cell, move *game.Position, flipped []game.Position) Update {
	return Update{
		Step:     step,
		Player:   mover,
		Move:     move,
		Flipped:  flipped,
		Hash:     e.board.Hash(),
		Snapshot: e.board.Snapshot(),
	}
}

func (e *LocalEngine) result(updates []Update, finished bool) Result {
	black, white := e.board.Score()
	winner := e.board.Winner()
	match, moves := e.metrics.Complete(winner, black, white)
	return Result{
		Winner:     winner,
		BlackScore: black,
		WhiteScore: white,
		Finished:   finished,
		Updates:    updates,
		Match:      match,
		Moves:      moves,
	}
}

func describeOutcome(winner game.Outcome, black, white int) string {
	if winner == game.Tie {
		return fmt.Sprintf("draw %d-%d", black, white)
	}
	return fmt.Sprintf("%s wins %d-%d", winner, black, white)
}
