package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/meta"
	"othello/strategy"
)

const (
	NumGames   = meta.GAMES_PER_PAIRING
	TimeBudget = time.Second
)

// Setup is stored next to the records as setup.json.
type Setup struct {
	Name            string                `json:"name"`
	GamesPerPairing int                   `json:"games_per_pairing"`
	MaxTurns        int                   `json:"max_turns"`
	Agents          []metrics.AgentConfig `json:"agents"`
}

type Option func(s *settings)

type settings struct {
	maxTurns int
}

// WithMaxTurns bounds every game of an experiment.
func WithMaxTurns(turns int) Option {
	return func(s *settings) {
		if turns > 0 {
			s.maxTurns = turns
		}
	}
}

func newSettings(options []Option) settings {
	s := settings{maxTurns: engine.MaxTurns} // Default values
	for _, option := range options {
		option(&s)
	}
	return s
}

type Report struct {
	Dir       string
	Matches   []metrics.MatchRecord
	Moves     []metrics.MoveRecord
	Summaries []metrics.Summary
}

// RunRoundRobin plays every pair of configs gamesPerPairing times, swapping
// colours between consecutive games, and writes the records under root.
func RunRoundRobin(ctx context.Context, root string, configs []metrics.AgentConfig, gamesPerPairing int, options ...Option) (Report, error) {
	matchUps := [][2]metrics.AgentConfig{}
	for i := range configs {
		for j := i + 1; j < len(configs); j++ {
			matchUps = append(matchUps, [2]metrics.AgentConfig{configs[i], configs[j]})
		}
	}
	return runExperiment(ctx, root, "round_robin", configs, matchUps, gamesPerPairing, newSettings(options))
}

// RunParallelism pits the candidate evaluator at each goroutine count against
// the sequential baseline, using the same strategy on both sides.
func RunParallelism(ctx context.Context, root, name string, goroutines []int, gamesPerPairing int, options ...Option) (Report, error) {
	baseline := metrics.AgentConfig{ID: 0, Strategy: name, Goroutines: 1, Timeout: TimeBudget}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, n := range goroutines {
		config := metrics.AgentConfig{ID: i + 1, Strategy: name, Goroutines: n, Timeout: TimeBudget}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return runExperiment(ctx, root, "parallelism", configs, matchUps, gamesPerPairing, newSettings(options))
}

func runExperiment(ctx context.Context, root, name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig, gamesPerPairing int, set settings) (Report, error) {
	if gamesPerPairing <= 0 {
		gamesPerPairing = NumGames
	}
	count := 0
	report := Report{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent %d (%s) and agent %d (%s)...",
			mi+1, len(matchUps), matchup[0].ID, matchup[0].Strategy, matchup[1].ID, matchup[1].Strategy)

		for i := 0; i < gamesPerPairing; i++ {
			black, white := matchup[0], matchup[1]
			if i%2 == 1 {
				black, white = white, black
			}

			result, err := runGame(ctx, black, white, set.maxTurns)
			if err != nil {
				return report, errors.Wrapf(err, "matchup %d game %d", mi+1, i+1)
			}
			count++
			report.Matches = append(report.Matches, metrics.MatchRecord{
				ID:          count,
				Black:       black.ID,
				White:       white.ID,
				MatchMetric: result.Match,
			})
			for _, mm := range result.Moves {
				report.Moves = append(report.Moves, metrics.MoveRecord{Match: count, MoveMetric: mm})
			}

			log.Info().Msgf("completed matchup %d of %d game %d: %s %d-%d",
				mi+1, len(matchUps), i+1, result.Winner, result.BlackScore, result.WhiteScore)
		}
	}
	report.Summaries = metrics.Summarize(configs, report.Matches)

	log.Info().Msgf("completed %s experiment", name)

	dir, err := store(root, name, Setup{
		Name:            name,
		GamesPerPairing: gamesPerPairing,
		MaxTurns:        set.maxTurns,
		Agents:          configs,
	}, report)
	report.Dir = dir
	return report, err
}

func store(root, name string, setup Setup, report Report) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", errors.Wrap(err, "failed to create experiment writer")
	}

	steps := []struct {
		what  string
		write func() error
	}{
		{"setup", func() error { return writer.WriteSetup(setup) }},
		{"agent configs", func() error { return writer.WriteAgentConfigs(setup.Agents) }},
		{"match records", func() error { return writer.WriteMatchRecords(report.Matches) }},
		{"move records", func() error { return writer.WriteMoveRecords(report.Moves) }},
		{"summaries", func() error { return writer.WriteSummaries(report.Summaries) }},
	}
	for _, step := range steps {
		if err := step.write(); err != nil {
			return writer.Dir(), errors.Wrapf(err, "failed to store %s", step.what)
		}
		log.Info().Msgf("stored %s", step.what)
	}
	return writer.Dir(), nil
}

// runGame executes a single game between two agents
func runGame(ctx context.Context, black, white metrics.AgentConfig, maxTurns int) (engine.Result, error) {
	blackSeat, err := createSeat(black, game.Black)
	if err != nil {
		return engine.Result{}, err
	}
	whiteSeat, err := createSeat(white, game.White)
	if err != nil {
		return engine.Result{}, err
	}

	// both seats share the more generous budget
	e := engine.NewLocalEngine(blackSeat, whiteSeat,
		engine.WithTimeout(max(black.Timeout, white.Timeout)),
		engine.WithMaxTurns(maxTurns),
		engine.WithCollector(metrics.NewCollector()),
	)
	return e.Run(ctx)
}

func createSeat(config metrics.AgentConfig, mover game.Cell) (engine.Seat, error) {
	options := []strategy.Option{}
	if config.Goroutines > 0 {
		options = append(options, strategy.WithGoroutines(config.Goroutines))
	}
	s, err := strategy.New(config.Strategy, mover, options...)
	if err != nil {
		return engine.Seat{}, err
	}
	return engine.Seat{Name: fmt.Sprintf("%d:%s", config.ID, config.Strategy), Strategy: s}, nil
}
