package strategy

import (
	"context"
	"math"
	"sync"

	"othello/game"
	"othello/meta"
)

// Scorer rates one candidate move for mover. Higher is better.
type Scorer func(board game.View, move game.Position, mover game.Cell) float64

type Option func(e *Evaluator)

// Evaluator scores candidate moves on a pool of goroutines. Every candidate is
// scored against the same read-only board, so scorers must copy before they
// play anything.
type Evaluator struct {
	goroutines int
	scorer     Scorer
}

func WithGoroutines(goroutines int) Option {
	return func(e *Evaluator) {
		if goroutines > 0 {
			e.goroutines = goroutines
		}
	}
}

func WithScorer(scorer Scorer) Option {
	return func(e *Evaluator) {
		if scorer != nil {
			e.scorer = scorer
		}
	}
}

func NewEvaluator(options ...Option) *Evaluator {
	e := &Evaluator{ // Default values
		goroutines: meta.GO_ROUTINES,
		scorer:     FlipScorer,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Best returns the highest scoring candidate. Ties go to the candidate that
// comes first in the list. It returns false when there are no candidates or
// ctx ends before every candidate has been scored.
func (e *Evaluator) Best(ctx context.Context, board game.View, mover game.Cell, candidates []game.Position) (game.Position, bool) {
	if len(candidates) == 0 {
		return game.Position{}, false
	}

	scores := e.score(ctx, board, mover, candidates)
	if ctx.Err() != nil {
		return game.Position{}, false
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return candidates[best], true
}

func (e *Evaluator) score(ctx context.Context, board game.View, mover game.Cell, candidates []game.Position) []float64 {
	task := make(chan int, len(candidates))
	for i := range candidates {
		task <- i
	}
	close(task)

	scores := make([]float64, len(candidates))
	for i := range scores {
		scores[i] = math.Inf(-1)
	}

	var wg sync.WaitGroup
	for i := 0; i < min(e.goroutines, len(candidates)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				if ctx.Err() != nil {
					return
				}
				scores[i] = e.scorer(board, candidates[i], mover)
			}
		}()
	}

	wg.Wait()
	return scores
}
