package game

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Snapshot is a plain copy of the grid plus the turn. It is the unit that is
// persisted, sent over the wire and restored.
type Snapshot struct {
	Board         [][]Cell `json:"board"`
	CurrentPlayer Turn     `json:"current_player"`
}

// Validate checks that s describes a size×size board with known cell and turn
// values. Every problem found is reported.
func (s Snapshot) Validate(size int) error {
	var result *multierror.Error
	if len(s.Board) != size {
		result = multierror.Append(result, fmt.Errorf("board has %d rows, want %d", len(s.Board), size))
	}
	for row, cells := range s.Board {
		if len(cells) != size {
			result = multierror.Append(result, fmt.Errorf("row %d has %d cells, want %d", row, len(cells), size))
			continue
		}
		for col, cell := range cells {
			if cell != Empty && !cell.IsPlayer() {
				result = multierror.Append(result, fmt.Errorf("cell (%d, %d) has unknown value %d", row, col, int(cell)))
			}
		}
	}
	if !s.CurrentPlayer.valid() {
		result = multierror.Append(result, fmt.Errorf("unknown current player %d", int(s.CurrentPlayer)))
	}
	return result.ErrorOrNil()
}
