package config

import (
	"github.com/rs/zerolog/log"

	"othello/game"
	"othello/strategy"
)

// RegisterStrategies adds every configured plugin and remote agent to the
// strategy registry under its name.
func (c Config) RegisterStrategies() {
	for _, p := range c.Plugins {
		p := p
		strategy.Register(p.Name, func(mover game.Cell, _ ...strategy.Option) (strategy.Strategy, error) {
			return strategy.NewProcess(mover, p.Command, p.Args...).WithEnv(p.Env...), nil
		})
		log.Debug().Msgf("registered plugin strategy %q (%s)", p.Name, p.Command)
	}
	for _, r := range c.Remotes {
		r := r
		strategy.Register(r.Name, func(mover game.Cell, _ ...strategy.Option) (strategy.Strategy, error) {
			return strategy.NewRemote(r.URL, mover, nil), nil
		})
		log.Debug().Msgf("registered remote strategy %q (%s)", r.Name, r.URL)
	}
}

// StrategyOptions are the options every built-in strategy is created with.
func (c Config) StrategyOptions() []strategy.Option {
	return []strategy.Option{strategy.WithGoroutines(c.Strategy.Goroutines)}
}
