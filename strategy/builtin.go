package strategy

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"othello/game"
	"othello/simulator"
	"othello/utils"
)

// NewFirst plays the first legal move in row-major order.
func NewFirst(mover game.Cell) Strategy {
	return Func(func(_ context.Context, board game.View) (game.Position, bool) {
		moves := board.ValidMovesFor(mover)
		if len(moves) == 0 {
			return game.Position{}, false
		}
		return moves[0], true
	})
}

type Random struct {
	mover game.Cell
	mu    sync.Mutex
	rng   *rand.Rand
}

// NewRandom picks uniformly among the legal moves.
func NewRandom(mover game.Cell) *Random {
	return NewRandomSeeded(mover, uint64(time.Now().UnixNano()))
}

func NewRandomSeeded(mover game.Cell, seed uint64) *Random {
	return &Random{mover: mover, rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) ChooseMove(_ context.Context, board game.View) (game.Position, bool) {
	moves := board.ValidMovesFor(r.mover)
	if len(moves) == 0 {
		return game.Position{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return moves[r.rng.Intn(len(moves))], true
}

// Heuristic plays the legal move with the best Scorer value.
type Heuristic struct {
	mover     game.Cell
	evaluator *Evaluator
	// filter narrows the candidates before scoring; nil keeps them all
	filter func(board game.View, moves []game.Position) []game.Position
}

func (h *Heuristic) ChooseMove(ctx context.Context, board game.View) (game.Position, bool) {
	moves := board.ValidMovesFor(h.mover)
	if h.filter != nil {
		moves = h.filter(board, moves)
	}
	return h.evaluator.Best(ctx, board, h.mover, moves)
}

// NewGreedy maximises the number of stones flipped.
func NewGreedy(mover game.Cell, options ...Option) *Heuristic {
	options = append([]Option{WithScorer(FlipScorer)}, options...)
	return &Heuristic{mover: mover, evaluator: NewEvaluator(options...)}
}

// NewMobility minimises the opponent's legal moves after the move.
func NewMobility(mover game.Cell, options ...Option) *Heuristic {
	options = append([]Option{WithScorer(MobilityScorer)}, options...)
	return &Heuristic{mover: mover, evaluator: NewEvaluator(options...)}
}

// NewHeuristic maximises eval of the position after the move.
func NewHeuristic(mover game.Cell, eval game.EvalFunc, options ...Option) *Heuristic {
	options = append([]Option{WithScorer(EvalScorer(eval))}, options...)
	return &Heuristic{mover: mover, evaluator: NewEvaluator(options...)}
}

// NewPositional takes a corner whenever one is available, otherwise avoids the
// squares next to corners when it can, and scores the rest with
// PositionalScorer.
func NewPositional(mover game.Cell, options ...Option) *Heuristic {
	options = append([]Option{WithScorer(PositionalScorer)}, options...)
	return &Heuristic{mover: mover, evaluator: NewEvaluator(options...), filter: positionalFilter}
}

func positionalFilter(board game.View, moves []game.Position) []game.Position {
	size := board.Size()
	if i := utils.IndexFunc(moves, func(p game.Position) bool { return isCorner(size, p) }); i >= 0 {
		return moves[i : i+1]
	}

	safe := utils.Filter(moves, func(p game.Position) bool { return !isCornerAdjacent(size, p) })
	if len(safe) == 0 {
		return moves
	}
	return safe
}

// FlipScorer counts the stones a move flips.
func FlipScorer(board game.View, move game.Position, mover game.Cell) float64 {
	_, flipped := simulator.PreviewMove(board, move.Row, move.Col, mover)
	return float64(len(flipped))
}

// MobilityScorer is the negated number of replies left to the opponent.
func MobilityScorer(board game.View, move game.Position, mover game.Cell) float64 {
	next := simulator.ResultingState(board, move.Row, move.Col, mover)
	if next == nil {
		return 0
	}
	return -float64(len(next.ValidMovesFor(mover.Opponent())))
}

// PositionalScorer adds the square weight, twice the flip count and a penalty
// of 5 for edge squares other than corners.
func PositionalScorer(board game.View, move game.Position, mover game.Cell) float64 {
	size := board.Size()
	score := float64(game.PositionalWeight(size, move.Row, move.Col))
	score += 2 * FlipScorer(board, move, mover)
	if isEdge(size, move) && !isCorner(size, move) {
		score -= 5
	}
	return score
}

// EvalScorer rates a move by eval of the resulting position.
func EvalScorer(eval game.EvalFunc) Scorer {
	return func(board game.View, move game.Position, mover game.Cell) float64 {
		next := simulator.ResultingState(board, move.Row, move.Col, mover)
		if next == nil {
			return 0
		}
		return eval(next, mover)
	}
}

func isCorner(size int, p game.Position) bool {
	last := size - 1
	return (p.Row == 0 || p.Row == last) && (p.Col == 0 || p.Col == last)
}

func isEdge(size int, p game.Position) bool {
	last := size - 1
	return p.Row == 0 || p.Row == last || p.Col == 0 || p.Col == last
}

// isCornerAdjacent reports whether p touches a corner without being one.
func isCornerAdjacent(size int, p game.Position) bool {
	if isCorner(size, p) {
		return false
	}
	for _, c := range game.Corners(size) {
		if abs(p.Row-c.Row) <= 1 && abs(p.Col-c.Col) <= 1 {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
