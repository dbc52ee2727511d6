package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"othello/game"
)

// AgentConfig describes one tournament entrant.
type AgentConfig struct {
	ID         int
	Strategy   string // registry name
	Goroutines int
	Timeout    time.Duration
}

type MoveMetric struct {
	Step     int
	Player   game.Cell
	Move     game.Position
	Flipped  int
	Duration time.Duration
	Fallback bool
	TimedOut bool
}

type MatchMetric struct {
	Winner     game.Outcome
	BlackScore int
	WhiteScore int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Fallbacks  int
	Timeouts   int
}

// Margin is the score difference from Black's point of view.
func (m MatchMetric) Margin() int {
	return m.BlackScore - m.WhiteScore
}

type Collector interface {
	Start()
	AddMove(move MoveMetric)
	AddFallback()
	AddTimeout()
	Complete(winner game.Outcome, blackScore, whiteScore int) (MatchMetric, []MoveMetric)
}

type collector struct {
	startTime time.Time
	moves     atomic.Int32
	fallbacks atomic.Int32
	timeouts  atomic.Int32

	mu      sync.Mutex
	records []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.moves.Store(0)
	m.fallbacks.Store(0)
	m.timeouts.Store(0)
	m.mu.Lock()
	m.records = nil
	m.mu.Unlock()
}

func (m *collector) AddMove(move MoveMetric) {
	m.moves.Add(1)
	m.mu.Lock()
	m.records = append(m.records, move)
	m.mu.Unlock()
}

func (m *collector) AddFallback() {
	m.fallbacks.Add(1)
}

func (m *collector) AddTimeout() {
	m.timeouts.Add(1)
}

func (m *collector) Complete(winner game.Outcome, blackScore, whiteScore int) (MatchMetric, []MoveMetric) {
	end := time.Now()
	m.mu.Lock()
	records := append([]MoveMetric(nil), m.records...)
	m.mu.Unlock()

	return MatchMetric{
		Winner:     winner,
		BlackScore: blackScore,
		WhiteScore: whiteScore,
		StartTime:  m.startTime,
		EndTime:    end,
		Duration:   end.Sub(m.startTime),
		TotalMoves: int(m.moves.Load()),
		Fallbacks:  int(m.fallbacks.Load()),
		Timeouts:   int(m.timeouts.Load()),
	}, records
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()             {}
func (m *dummyCollector) AddMove(MoveMetric) {}
func (m *dummyCollector) AddFallback()       {}
func (m *dummyCollector) AddTimeout()        {}
func (m *dummyCollector) Complete(winner game.Outcome, blackScore, whiteScore int) (MatchMetric, []MoveMetric) {
	return MatchMetric{Winner: winner, BlackScore: blackScore, WhiteScore: whiteScore}, nil
}
