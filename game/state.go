package game

// BoardState owns the raw size×size grid. It performs no validation: callers
// gate every Get and Set with InBounds, and an out-of-range index panics with
// the runtime's bounds check fault.
type BoardState struct {
	size int
	grid [][]Cell
}

// NewBoardState returns a state initialised to the opening position.
func NewBoardState(size int) *BoardState {
	s := &BoardState{}
	s.Initialize(size)
	return s
}

// Initialize allocates an empty grid and places the four-stone diagonal
// opening at the centre.
func (s *BoardState) Initialize(size int) {
	s.size = size
	s.grid = make([][]Cell, size)
	for row := range s.grid {
		s.grid[row] = make([]Cell, size)
	}

	center := size / 2
	s.grid[center-1][center-1] = White
	s.grid[center-1][center] = Black
	s.grid[center][center-1] = Black
	s.grid[center][center] = White
}

func (s *BoardState) Size() int {
	return s.size
}

func (s *BoardState) Get(row, col int) Cell {
	return s.grid[row][col]
}

func (s *BoardState) Set(row, col int, value Cell) {
	s.grid[row][col] = value
}

func (s *BoardState) InBounds(row, col int) bool {
	return row >= 0 && row < s.size && col >= 0 && col < s.size
}

// CountStones returns the number of cells holding player.
func (s *BoardState) CountStones(player Cell) int {
	count := 0
	for _, row := range s.grid {
		for _, cell := range row {
			if cell == player {
				count++
			}
		}
	}
	return count
}

// SnapshotGrid returns an independent copy of the grid.
func (s *BoardState) SnapshotGrid() [][]Cell {
	grid := make([][]Cell, s.size)
	for row := range s.grid {
		grid[row] = make([]Cell, s.size)
		copy(grid[row], s.grid[row])
	}
	return grid
}
