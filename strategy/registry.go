package strategy

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"othello/game"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a strategy available under name. Registering a name twice
// replaces the earlier factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds the strategy registered under name for mover.
func New(name string, mover game.Cell, options ...Option) (Strategy, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}
	if !mover.IsPlayer() {
		return nil, errors.Errorf("strategy %q: mover must be black or white, got %s", name, mover)
	}
	s, err := factory(mover, options...)
	if err != nil {
		return nil, errors.Wrapf(err, "create strategy %q", name)
	}
	return s, nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

func init() {
	Register("first", func(mover game.Cell, _ ...Option) (Strategy, error) { return NewFirst(mover), nil })
	Register("random", func(mover game.Cell, _ ...Option) (Strategy, error) { return NewRandom(mover), nil })
	Register("greedy", func(mover game.Cell, options ...Option) (Strategy, error) {
		return NewGreedy(mover, options...), nil
	})
	Register("positional", func(mover game.Cell, options ...Option) (Strategy, error) {
		return NewPositional(mover, options...), nil
	})
	Register("mobility", func(mover game.Cell, options ...Option) (Strategy, error) {
		return NewMobility(mover, options...), nil
	})
	Register("combined", func(mover game.Cell, options ...Option) (Strategy, error) {
		return NewHeuristic(mover, game.EvaluateCombined, options...), nil
	})
}
