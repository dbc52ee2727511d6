package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"othello/agent"
	"othello/communication/client"
	"othello/communication/server"
	"othello/config"
	"othello/engine"
	"othello/experiments"
	"othello/experiments/metrics"
	"othello/game"
	"othello/gamemaster"
	"othello/player"
	"othello/storage"
	"othello/strategy"
	"othello/tui"
	"othello/utils"
)

type command struct {
	usage string
	run   func(ctx context.Context, cfg config.Config, args []string) error
}

var commands = map[string]command{
	"serve":      {"run the session server", runServe},
	"tui":        {"play a session in the terminal", runTUI},
	"match":      {"play one game between two strategies", runMatch},
	"play":       {"play against a strategy on the console", runPlay},
	"tournament": {"run a round robin or a parallelism experiment", runTournament},
	"agent":      {"serve a strategy on POST /findmove", runAgent},
	"join":       {"play one colour of a session server with a strategy", runJoin},
	"step":       {"advance a session server by one move", runStep},
	"plugin":     {"answer find-move requests on stdin/stdout", runPlugin},
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.Log)
	cfg.RegisterStrategies()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.run(ctx, cfg, flag.Args()[1:]); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msgf("%s failed", flag.Arg(0))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: othello [-config file.yaml] <command> [flags]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", name, commands[name].usage)
	}
}

// setupLogging writes to stderr so stdout stays free for the plugin protocol.
func setupLogging(cfg config.Log) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func newController(cfg config.Config) (*gamemaster.Controller, error) {
	store, err := storage.NewJSON(cfg.Storage.SessionFile)
	if err != nil {
		return nil, err
	}
	controller := gamemaster.NewController(store,
		gamemaster.WithTimeout(cfg.Strategy.Timeout),
		gamemaster.WithStrategyOptions(cfg.StrategyOptions()...),
	)
	if _, err := controller.Load(); err != nil {
		log.Warn().Err(err).Msg("saved session ignored")
		if err := store.Backup(".corrupt"); err != nil {
			log.Error().Err(err).Msg("failed to back up saved session")
		}
	}
	return controller, nil
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	_ = fs.Parse(args)

	controller, err := newController(cfg)
	if err != nil {
		return err
	}
	s := server.New(controller, server.WithPingInterval(cfg.Server.PingInterval))
	return s.ListenAndServe(ctx, *addr)
}

func runTUI(ctx context.Context, cfg config.Config, args []string) error {
	controller, err := newController(cfg)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI
	zerolog.SetGlobalLevel(zerolog.Disabled)
	return tui.Run(ctx, controller)
}

func runMatch(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	black := fs.String("black", "greedy", "black strategy")
	white := fs.String("white", "random", "white strategy")
	size := fs.Int("size", game.DefaultSize, "board size")
	_ = fs.Parse(args)

	board, err := game.NewBoardSize(*size)
	if err != nil {
		return err
	}
	blackSeat, err := seat(cfg, *black, game.Black)
	if err != nil {
		return err
	}
	whiteSeat, err := seat(cfg, *white, game.White)
	if err != nil {
		return err
	}

	e := engine.NewLocalEngine(blackSeat, whiteSeat,
		engine.WithBoard(board),
		engine.WithTimeout(cfg.Strategy.Timeout),
		engine.WithMaxTurns(cfg.Match.MaxTurns),
		engine.WithCollector(metrics.NewCollector()),
	)
	result, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Print(e.Board())
	fmt.Printf("%s: black %d, white %d in %d moves (%s)\n", result.Winner, result.BlackScore, result.WhiteScore,
		result.Match.TotalMoves, result.Match.Duration.Round(time.Millisecond))
	return nil
}

func runPlay(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	opponent := fs.String("strategy", "positional", "opponent strategy")
	colour := fs.String("colour", "black", "your colour: black or white")
	_ = fs.Parse(args)

	human := game.Black
	if strings.EqualFold(*colour, "white") {
		human = game.White
	}
	cpu, err := seat(cfg, *opponent, human.Opponent())
	if err != nil {
		return err
	}
	you := engine.Seat{Name: "you", Strategy: player.NewConsole(human, os.Stdin, os.Stdout)}

	black, white := you, cpu
	if human == game.White {
		black, white = cpu, you
	}
	// a person may take as long as they like
	e := engine.NewLocalEngine(black, white, engine.WithTimeout(24*time.Hour))
	result, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s%s: black %d, white %d\n", e.Board(), result.Winner, result.BlackScore, result.WhiteScore)
	return nil
}

func runTournament(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("tournament", flag.ExitOnError)
	names := fs.String("strategies", "random,greedy,positional,mobility", "comma separated strategies for the round robin")
	games := fs.Int("games", cfg.Match.GamesPerPairing, "games per pairing")
	parallelism := fs.String("parallelism", "", "comma separated goroutine counts; runs the parallelism experiment instead")
	subject := fs.String("strategy", "combined", "strategy of the parallelism experiment")
	out := fs.String("out", cfg.Match.OutputDir, "output directory")
	_ = fs.Parse(args)

	var report experiments.Report
	var err error
	if *parallelism != "" {
		counts, parseErr := parseInts(*parallelism)
		if parseErr != nil {
			return parseErr
		}
		report, err = experiments.RunParallelism(ctx, *out, *subject, counts, *games, experiments.WithMaxTurns(cfg.Match.MaxTurns))
	} else {
		configs := utils.Map(strings.Split(*names, ","), func(name string) metrics.AgentConfig {
			return metrics.AgentConfig{Strategy: strings.TrimSpace(name), Goroutines: cfg.Strategy.Goroutines, Timeout: cfg.Strategy.Timeout}
		})
		for i := range configs {
			configs[i].ID = i + 1
		}
		report, err = experiments.RunRoundRobin(ctx, *out, configs, *games, experiments.WithMaxTurns(cfg.Match.MaxTurns))
	}
	if err != nil {
		return err
	}

	for _, s := range report.Summaries {
		fmt.Printf("%-3d %-12s games %3d  wins %3d  draws %3d  win rate %5.1f%%  margin %+6.2f ± %.2f\n",
			s.Agent, s.Strategy, s.Games, s.Wins, s.Draws, 100*s.WinRate(), s.MeanMargin, s.StdMargin)
	}
	fmt.Printf("results written to %s\n", report.Dir)
	return nil
}

func runAgent(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("agent", flag.ExitOnError)
	name := fs.String("strategy", "positional", "strategy to serve")
	addr := fs.String("addr", cfg.Server.AgentAddr, "listen address")
	_ = fs.Parse(args)

	s, err := agent.NewServer(*name,
		agent.WithTimeout(cfg.Strategy.Timeout),
		agent.WithStrategyOptions(cfg.StrategyOptions()...),
	)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx, *addr)
}

func runJoin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	url := fs.String("url", "http://localhost"+cfg.Server.Addr, "session server")
	name := fs.String("strategy", "positional", "strategy to play with")
	colour := fs.String("colour", "white", "colour to play: black or white")
	_ = fs.Parse(args)

	mover := game.White
	if strings.EqualFold(*colour, "black") {
		mover = game.Black
	}
	s, err := strategy.New(*name, mover, cfg.StrategyOptions()...)
	if err != nil {
		return err
	}
	final, err := agent.NewPlayer(client.New(*url, nil), mover, s, cfg.Strategy.Timeout).Play(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("black %d, white %d\n", final.BlackScore, final.WhiteScore)
	return nil
}

func runStep(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	url := fs.String("url", "http://localhost"+cfg.Server.Addr, "session server")
	moveText := fs.String("move", "", "move to play on a human turn, e.g. d3")
	_ = fs.Parse(args)

	c := client.New(*url, nil)
	var move *game.Position
	if *moveText != "" {
		state, err := c.State(ctx)
		if err != nil {
			return err
		}
		p, err := player.ParseMove(*moveText, len(state.Board))
		if err != nil {
			return err
		}
		move = &p
	}
	state, err := c.NextMove(ctx, move)
	if err != nil {
		return err
	}
	board, err := game.FromSnapshot(game.Snapshot{Board: state.Board, CurrentPlayer: state.CurrentPlayer})
	if err != nil {
		return err
	}
	fmt.Print(board)
	fmt.Printf("move %d, black %d, white %d, to move: %s\n", state.MoveCount, state.BlackScore, state.WhiteScore, state.CurrentPlayer)
	return nil
}

func runPlugin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("plugin", flag.ExitOnError)
	name := fs.String("strategy", "greedy", "strategy answering the requests")
	_ = fs.Parse(args)

	factory := func(mover game.Cell, options ...strategy.Option) (strategy.Strategy, error) {
		return strategy.New(*name, mover, append(cfg.StrategyOptions(), options...)...)
	}
	return strategy.ServePlugin(ctx, os.Stdin, os.Stdout, factory)
}

func seat(cfg config.Config, name string, mover game.Cell) (engine.Seat, error) {
	s, err := strategy.New(name, mover, cfg.StrategyOptions()...)
	if err != nil {
		return engine.Seat{}, err
	}
	return engine.Seat{Name: name, Strategy: s}, nil
}

func parseInts(text string) ([]int, error) {
	fields := strings.Split(text, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, errors.Errorf("bad goroutine count %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}
