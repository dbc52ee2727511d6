package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type MatchRecord struct {
	ID    int
	Black int // AgentConfig.ID
	White int // AgentConfig.ID
	MatchMetric
}

type MoveRecord struct {
	Match int // MatchRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> and writes every file there.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := [][]string{{"id", "strategy", "goroutines", "timeout"}}
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Strategy,
			strconv.Itoa(config.Goroutines),
			config.Timeout.String(),
		})
	}
	return errors.Wrap(w.writeCSV("agent_configs.csv", rows), "agent configs")
}

func (w *Writer) WriteMatchRecords(records []MatchRecord) error {
	rows := [][]string{{"id", "black", "white", "winner", "black_score", "white_score",
		"start_time", "end_time", "duration", "total_moves", "fallbacks", "timeouts"}}
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Black),
			strconv.Itoa(record.White),
			record.Winner.String(),
			strconv.Itoa(record.BlackScore),
			strconv.Itoa(record.WhiteScore),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.Fallbacks),
			strconv.Itoa(record.Timeouts),
		})
	}
	return errors.Wrap(w.writeCSV("match_records.csv", rows), "match records")
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := [][]string{{"match", "step", "player", "row", "col", "flipped", "duration", "fallback", "timed_out"}}
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Match),
			strconv.Itoa(record.Step),
			record.Player.String(),
			strconv.Itoa(record.Move.Row),
			strconv.Itoa(record.Move.Col),
			strconv.Itoa(record.Flipped),
			record.Duration.String(),
			strconv.FormatBool(record.Fallback),
			strconv.FormatBool(record.TimedOut),
		})
	}
	return errors.Wrap(w.writeCSV("move_records.csv", rows), "move records")
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	rows := [][]string{{"agent", "strategy", "games", "wins", "losses", "draws", "mean_margin", "std_margin"}}
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Agent),
			s.Strategy,
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Draws),
			strconv.FormatFloat(s.MeanMargin, 'f', 3, 64),
			strconv.FormatFloat(s.StdMargin, 'f', 3, 64),
		})
	}
	return errors.Wrap(w.writeCSV("summary.csv", rows), "summaries")
}

// WriteSetup stores the experiment parameters as indented JSON.
func (w *Writer) WriteSetup(setup any) error {
	data, err := json.MarshalIndent(setup, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode setup")
	}
	path := filepath.Join(w.baseDir, "setup.json")
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write setup")
}

func (w *Writer) writeCSV(name string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "failed to write %s", name)
	}
	return nil
}
