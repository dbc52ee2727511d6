package engine

import (
	"context"

	"othello/experiments/metrics"
	"othello/game"
	"othello/meta"
)

const MaxTurns = meta.MAX_TURNS

type Engine interface {
	// Run plays until the game ends or the turn limit is reached
	Run(ctx context.Context) (Result, error)
}

// Update records one applied move. Move is nil for a forced pass.
type Update struct {
	Step     int
	Player   game.Cell
	Move     *game.Position
	Flipped  []game.Position
	Hash     uint64
	Snapshot game.Snapshot
}

type Result struct {
	Winner     game.Outcome
	BlackScore int
	WhiteScore int
	// Finished is false when the turn limit stopped the match
	Finished bool
	Updates  []Update
	Match    metrics.MatchMetric
	Moves    []metrics.MoveMetric
}
