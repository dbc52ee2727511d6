package experiments

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"othello/experiments/metrics"
)

func TestRunRoundRobin(t *testing.T) {
	configs := []metrics.AgentConfig{
		{ID: 1, Strategy: "first"},
		{ID: 2, Strategy: "greedy", Goroutines: 2},
		{ID: 3, Strategy: "positional"},
	}
	report, err := RunRoundRobin(context.Background(), t.TempDir(), configs, 2)
	require.NoError(t, err)

	require.Len(t, report.Matches, 6, "3 pairings of 2 games")
	require.Equal(t, report.Matches[0].Black, report.Matches[1].White, "colours alternate")
	require.Equal(t, report.Matches[0].White, report.Matches[1].Black)
	require.NotEmpty(t, report.Moves)

	require.Len(t, report.Summaries, 3)
	for _, s := range report.Summaries {
		require.Equal(t, 4, s.Games)
		require.Equal(t, s.Games, s.Wins+s.Losses+s.Draws)
	}

	for _, name := range []string{"setup.json", "agent_configs.csv", "match_records.csv", "move_records.csv", "summary.csv"} {
		require.FileExists(t, filepath.Join(report.Dir, name))
	}
}

func TestRunRoundRobinUnknownStrategy(t *testing.T) {
	configs := []metrics.AgentConfig{{ID: 1, Strategy: "first"}, {ID: 2, Strategy: "missing"}}
	_, err := RunRoundRobin(context.Background(), t.TempDir(), configs, 1)
	require.Error(t, err)
}

func TestRunParallelism(t *testing.T) {
	report, err := RunParallelism(context.Background(), t.TempDir(), "greedy", []int{2, 4}, 1)
	require.NoError(t, err)
	require.Len(t, report.Matches, 2)
	require.Len(t, report.Summaries, 3)
	require.Equal(t, 2, report.Summaries[0].Games, "baseline plays every matchup")
}

func TestMaxTurns(t *testing.T) {
	configs := []metrics.AgentConfig{{ID: 1, Strategy: "first"}, {ID: 2, Strategy: "greedy"}}
	report, err := RunRoundRobin(context.Background(), t.TempDir(), configs, 2, WithMaxTurns(6))
	require.NoError(t, err)

	for _, m := range report.Matches {
		require.Equal(t, 6, m.TotalMoves, "games stop at the configured limit")
	}

	data, err := os.ReadFile(filepath.Join(report.Dir, "setup.json"))
	require.NoError(t, err)
	var setup Setup
	require.NoError(t, json.Unmarshal(data, &setup))
	require.Equal(t, 6, setup.MaxTurns)

	report, err = RunParallelism(context.Background(), t.TempDir(), "first", []int{2}, 1, WithMaxTurns(3))
	require.NoError(t, err)
	require.Equal(t, 3, report.Matches[0].TotalMoves)
}
