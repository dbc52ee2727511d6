package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/game"
	"othello/strategy"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 500, cfg.Match.MaxTurns)
}

func TestLoad(t *testing.T) {
	path := write(t, `
log:
  level: debug
server:
  addr: ":9000"
strategy:
  timeout: 250ms
plugins:
  - name: edax
    command: /usr/bin/edax-bridge
    args: ["--level", "5"]
remotes:
  - name: far
    url: http://agent:8081
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.Pretty, "unset keys keep their defaults")
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, 250*time.Millisecond, cfg.Strategy.Timeout)
	require.Equal(t, 4, cfg.Strategy.Goroutines)
	require.Equal(t, []Plugin{{Name: "edax", Command: "/usr/bin/edax-bridge", Args: []string{"--level", "5"}}}, cfg.Plugins)
	require.Equal(t, "http://agent:8081", cfg.Remotes[0].URL)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(write(t, "strategy: [oops"))
	require.Error(t, err)

	_, err = Load(write(t, `
strategy:
  timeout: 0s
  goroutines: -1
plugins:
  - name: x
    command: run
remotes:
  - name: x
    url: http://a
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "3 errors occurred")
}

func TestRegisterStrategies(t *testing.T) {
	cfg := Default()
	cfg.Plugins = []Plugin{{Name: "test-plugin", Command: "true"}}
	cfg.Remotes = []Remote{{Name: "test-remote", URL: "http://127.0.0.1:1"}}
	cfg.RegisterStrategies()

	names := strategy.Names()
	require.Contains(t, names, "test-plugin")
	require.Contains(t, names, "test-remote")

	s, err := strategy.New("test-remote", game.White)
	require.NoError(t, err)
	require.IsType(t, &strategy.Remote{}, s)
	s, err = strategy.New("test-plugin", game.Black, cfg.StrategyOptions()...)
	require.NoError(t, err)
	require.IsType(t, &strategy.Process{}, s)
}
