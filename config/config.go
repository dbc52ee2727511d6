// Package config loads the YAML configuration shared by every subcommand.
package config

import (
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"othello/meta"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Server   Server   `yaml:"server"`
	Storage  Storage  `yaml:"storage"`
	Strategy Strategy `yaml:"strategy"`
	Match    Match    `yaml:"match"`
	Plugins  []Plugin `yaml:"plugins"`
	Remotes  []Remote `yaml:"remotes"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Server struct {
	Addr         string        `yaml:"addr"`
	AgentAddr    string        `yaml:"agent_addr"`
	PingInterval time.Duration `yaml:"ping_interval"`
}

type Storage struct {
	SessionFile string `yaml:"session_file"`
}

type Strategy struct {
	Timeout    time.Duration `yaml:"timeout"`
	Goroutines int           `yaml:"goroutines"`
}

type Match struct {
	MaxTurns        int    `yaml:"max_turns"`
	GamesPerPairing int    `yaml:"games_per_pairing"`
	OutputDir       string `yaml:"output_dir"`
}

// Plugin registers a subprocess strategy under Name.
type Plugin struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`
}

// Remote registers an HTTP agent strategy under Name.
type Remote struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

func Default() Config {
	return Config{
		Log:      Log{Level: "info", Pretty: true},
		Server:   Server{Addr: meta.SERVER_ADDR, AgentAddr: meta.AGENT_ADDR, PingInterval: 30 * time.Second},
		Storage:  Storage{SessionFile: meta.SESSION_FILE},
		Strategy: Strategy{Timeout: meta.STRATEGY_TIMEOUT, Goroutines: meta.GO_ROUTINES},
		Match: Match{
			MaxTurns:        meta.MAX_TURNS,
			GamesPerPairing: meta.GAMES_PER_PAIRING,
			OutputDir:       meta.OUTPUT_DIR,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid value.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Strategy.Timeout <= 0 {
		result = multierror.Append(result, errors.New("strategy.timeout must be positive"))
	}
	if c.Strategy.Goroutines <= 0 {
		result = multierror.Append(result, errors.New("strategy.goroutines must be positive"))
	}
	if c.Match.MaxTurns <= 0 {
		result = multierror.Append(result, errors.New("match.max_turns must be positive"))
	}
	if c.Match.GamesPerPairing <= 0 {
		result = multierror.Append(result, errors.New("match.games_per_pairing must be positive"))
	}
	names := map[string]bool{}
	check := func(kind, name, target string) {
		if name == "" || target == "" {
			result = multierror.Append(result, errors.Errorf("%s %q is incomplete", kind, name))
		}
		if names[name] {
			result = multierror.Append(result, errors.Errorf("strategy name %q used twice", name))
		}
		names[name] = true
	}
	for _, p := range c.Plugins {
		check("plugin", p.Name, p.Command)
	}
	for _, r := range c.Remotes {
		check("remote", r.Name, r.URL)
	}
	return result.ErrorOrNil()
}
