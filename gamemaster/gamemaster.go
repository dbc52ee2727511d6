// Package gamemaster runs one interactive session: a human or a strategy on
// each side, highlights of the last move, and persistence between restarts.
package gamemaster

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
	"othello/meta"
	"othello/simulator"
	"othello/strategy"
)

var (
	ErrNotStarted   = errors.New("game not started")
	ErrGameOver     = errors.New("game is over - no moves allowed")
	ErrIllegalMove  = errors.New("illegal move")
	ErrNoStrategy   = errors.New("no strategy for this player")
	ErrInvalidSetup = errors.New("invalid setup")
)

// Store persists the session record.
type Store interface {
	Save(v any) error
	Load(v any) (bool, error)
	Clear() error
}

// Setup describes a new session. Player 1 plays Black. In player-vs-cpu
// mode Player is the human's colour and that side needs no strategy.
type Setup struct {
	Player1Name string
	Player2Name string
	Strategy1   string
	Strategy2   string
	PlayerVsCPU bool
	Player      game.Cell
}

type Option func(c *Controller)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithStrategyOptions(options ...strategy.Option) Option {
	return func(c *Controller) {
		c.strategyOptions = append(c.strategyOptions, options...)
	}
}

// Controller owns the single authoritative board of a session. Every method
// holds the controller lock, so one mutation is in flight at a time.
type Controller struct {
	mu              sync.Mutex
	board           *game.Board
	session         session
	strategies      map[game.Cell]strategy.Strategy
	store           Store
	timeout         time.Duration
	strategyOptions []strategy.Option
}

func NewController(store Store, options ...Option) *Controller {
	c := &Controller{ // Default values
		session:    newSession(),
		strategies: map[game.Cell]strategy.Strategy{},
		store:      store,
		timeout:    meta.STRATEGY_TIMEOUT,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Start begins a new game on a fresh board.
func (c *Controller) Start(setup Setup) (communication.StateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if setup.PlayerVsCPU && !setup.Player.IsPlayer() {
		return communication.StateResponse{}, errors.Wrapf(ErrInvalidSetup, "human player must be black or white, got %s", setup.Player)
	}
	if !setup.PlayerVsCPU {
		setup.Player = game.Black
	}

	s := newSession()
	s.setup(setup)
	strategies, err := c.buildStrategies(s, true)
	if err != nil {
		return communication.StateResponse{}, err
	}

	c.board = game.NewBoard()
	c.session = s
	c.strategies = strategies
	c.save()

	log.Info().Msgf("session started: %s (black) vs %s (white)", s.BlackPlayerName, s.WhitePlayerName)
	return c.state(), nil
}

// NextMove advances the game by one turn. On a human turn humanMove is played;
// without one the session is marked as waiting and the state returned
// unchanged. On a CPU turn humanMove is ignored and the colour's strategy
// moves.
func (c *Controller) NextMove(ctx context.Context, humanMove *game.Position) (communication.StateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.board == nil {
		return communication.StateResponse{}, ErrNotStarted
	}
	if c.board.IsGameEnded() {
		return c.state(), ErrGameOver
	}

	mover := c.board.Turn().Color()
	if c.session.isPlayerTurn(mover) {
		return c.humanMove(mover, humanMove)
	}
	return c.cpuMove(ctx, mover)
}

func (c *Controller) humanMove(mover game.Cell, move *game.Position) (communication.StateResponse, error) {
	if len(c.board.ValidMovesFor(mover)) == 0 {
		c.board.Pass()
		c.session.clearHighlights()
		c.save()
		return c.state(), nil
	}
	if move == nil {
		c.session.WaitingForPlayer = true
		c.save()
		return c.state(), nil
	}
	if !c.playTracked(*move, mover) {
		return c.state(), errors.Wrapf(ErrIllegalMove, "%s cannot play %s", mover, *move)
	}
	c.session.WaitingForPlayer = false
	c.save()
	return c.state(), nil
}

func (c *Controller) cpuMove(ctx context.Context, mover game.Cell) (communication.StateResponse, error) {
	s := c.strategies[mover]
	if s == nil {
		return c.state(), errors.Wrapf(ErrNoStrategy, "%s", mover)
	}

	decision := strategy.Decide(ctx, s, c.board, mover, c.timeout)
	if err := ctx.Err(); err != nil {
		return c.state(), errors.Wrap(err, "next move cancelled")
	}
	switch {
	case decision.Pass:
		c.board.Pass()
		c.session.clearHighlights()
		c.save()
		return c.state(), nil
	case decision.Fallback:
		log.Warn().Err(decision.Err).Msgf("%s strategy overruled, playing %s", mover, decision.Move)
	}

	if !c.playTracked(decision.Move, mover) {
		return c.state(), errors.Errorf("decided move %s is not playable", decision.Move)
	}
	c.save()
	return c.state(), nil
}

// playTracked applies a move and records it and its flips as highlights.
func (c *Controller) playTracked(move game.Position, mover game.Cell) bool {
	ok, flipped := simulator.PreviewMove(c.board, move.Row, move.Col, mover)
	if !ok {
		return false
	}
	c.session.updateHighlights(move, flipped)
	if !c.board.MakeMoveFor(move.Row, move.Col, mover) {
		return false
	}
	c.session.MoveCount++
	return true
}

// Preview reports the stones a move by the player to move would flip.
func (c *Controller) Preview(move game.Position) (bool, []game.Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.board == nil {
		return false, nil, ErrNotStarted
	}
	ok, flipped := simulator.PreviewMove(c.board, move.Row, move.Col, c.board.Turn().Color())
	return ok, flipped, nil
}

func (c *Controller) State() (communication.StateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.board == nil {
		return communication.StateResponse{}, ErrNotStarted
	}
	return c.state(), nil
}

// Board returns a copy of the session board, or nil before Start.
func (c *Controller) Board() *game.Board {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.board == nil {
		return nil
	}
	return c.board.Copy()
}

// Reset forgets the session and deletes its saved record.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.board = nil
	c.session = newSession()
	c.strategies = map[game.Cell]strategy.Strategy{}
	return errors.Wrap(c.store.Clear(), "clear session")
}

// Load restores the saved session. It returns false when nothing was saved.
// Strategies are rebuilt from their registry names; a name that no longer
// resolves leaves that side without a strategy.
func (c *Controller) Load() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rec record
	found, err := c.store.Load(&rec)
	if err != nil || !found {
		return false, errors.Wrap(err, "load session")
	}
	if len(rec.BoardState) == 0 {
		return false, nil
	}

	board, err := game.FromSnapshot(game.Snapshot{Board: rec.BoardState, CurrentPlayer: rec.CurrentPlayer})
	if err != nil {
		return false, errors.Wrap(err, "restore board")
	}
	s := rec.session()
	strategies, _ := c.buildStrategies(s, false)

	c.board = board
	c.session = s
	c.strategies = strategies
	log.Info().Msgf("session restored at move %d", s.MoveCount)
	return true, nil
}

// buildStrategies creates the strategy of every CPU colour. With strict set
// the first failure is returned; otherwise failures are logged and skipped.
func (c *Controller) buildStrategies(s session, strict bool) (map[game.Cell]strategy.Strategy, error) {
	strategies := map[game.Cell]strategy.Strategy{}
	for _, mover := range []game.Cell{game.Black, game.White} {
		if s.isPlayerTurn(mover) {
			continue
		}
		name := s.strategyName(mover)
		if name == "" {
			if strict {
				return nil, errors.Wrapf(ErrNoStrategy, "%s", mover)
			}
			continue
		}
		st, err := strategy.New(name, mover, c.strategyOptions...)
		if err != nil {
			if strict {
				return nil, err
			}
			log.Warn().Err(err).Msgf("strategy for %s unavailable", mover)
			continue
		}
		strategies[mover] = st
	}
	return strategies, nil
}

func (c *Controller) save() {
	rec := newRecord(c.session, c.board)
	if err := c.store.Save(rec); err != nil {
		log.Error().Err(err).Msg("failed to save session")
	}
}

func (c *Controller) state() communication.StateResponse {
	black, white := c.board.Score()
	resp := communication.StateResponse{
		Board:            c.board.Grid(),
		CurrentPlayer:    c.board.Turn(),
		BlackScore:       black,
		WhiteScore:       white,
		ValidMoves:       []communication.Coord{},
		IsGameOver:       c.board.IsGameEnded(),
		BlackPlayerName:  c.session.BlackPlayerName,
		WhitePlayerName:  c.session.WhitePlayerName,
		MoveCount:        c.session.MoveCount,
		LastMove:         c.session.LastMove,
		FlippedStones:    c.session.FlippedStones,
		IsPlayerVsCPU:    c.session.IsPlayerVsCPU,
		Player:           c.session.Player,
		WaitingForPlayer: c.session.WaitingForPlayer,
	}
	if !resp.IsGameOver {
		resp.ValidMoves = communication.CoordsOf(c.board.ValidMoves())
	} else {
		winner := c.board.Winner()
		resp.Winner = &winner
	}
	return resp
}
