package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"othello/game"
)

// Summary aggregates the matches one agent played. Margins are disc
// differences from that agent's side of the board.
type Summary struct {
	Agent      int
	Strategy   string
	Games      int
	Wins       int
	Losses     int
	Draws      int
	MeanMargin float64
	StdMargin  float64
}

func (s Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Draws)) / float64(s.Games)
}

// Summarize builds one Summary per agent in configs, ordered by agent ID.
func Summarize(configs []AgentConfig, records []MatchRecord) []Summary {
	margins := map[int][]float64{}
	byID := map[int]*Summary{}
	for _, c := range configs {
		byID[c.ID] = &Summary{Agent: c.ID, Strategy: c.Strategy}
	}
	get := func(id int) *Summary {
		if s, ok := byID[id]; ok {
			return s
		}
		s := &Summary{Agent: id}
		byID[id] = s
		return s
	}

	for _, r := range records {
		black, white := get(r.Black), get(r.White)
		black.Games++
		white.Games++
		switch r.Winner {
		case game.BlackWins:
			black.Wins++
			white.Losses++
		case game.WhiteWins:
			white.Wins++
			black.Losses++
		default:
			black.Draws++
			white.Draws++
		}
		margins[r.Black] = append(margins[r.Black], float64(r.Margin()))
		margins[r.White] = append(margins[r.White], float64(-r.Margin()))
	}

	summaries := make([]Summary, 0, len(byID))
	for id, s := range byID {
		if m := margins[id]; len(m) > 0 {
			s.MeanMargin = stat.Mean(m, nil)
			if len(m) > 1 {
				s.StdMargin = stat.StdDev(m, nil)
			}
		}
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Agent < summaries[j].Agent })
	return summaries
}
