package game

// Evaluation functions score a board from mover's perspective between -1 and 1.
type EvalFunc func(v View, mover Cell) float64

// EvaluateDiscs compares stone counts.
func EvaluateDiscs(v View, mover Cell) float64 {
	black, white := v.Score()
	if mover == Black {
		return normalize(float64(black), float64(white))
	}
	return normalize(float64(white), float64(black))
}

// EvaluateMobility compares the number of legal moves each side has.
func EvaluateMobility(v View, mover Cell) float64 {
	mine := len(v.ValidMovesFor(mover))
	theirs := len(v.ValidMovesFor(mover.Opponent()))
	return normalize(float64(mine), float64(theirs))
}

// EvaluateCorners compares corner ownership.
func EvaluateCorners(v View, mover Cell) float64 {
	opponent := mover.Opponent()
	mine, theirs := 0.0, 0.0
	for _, p := range Corners(v.Size()) {
		switch v.Cell(p.Row, p.Col) {
		case mover:
			mine++
		case opponent:
			theirs++
		}
	}
	return normalize(mine, theirs)
}

// EvaluatePositional sums PositionalWeight over each side's stones.
func EvaluatePositional(v View, mover Cell) float64 {
	opponent := mover.Opponent()
	size := v.Size()
	mine, theirs := 0.0, 0.0
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			switch v.Cell(row, col) {
			case mover:
				mine += float64(PositionalWeight(size, row, col))
			case opponent:
				theirs += float64(PositionalWeight(size, row, col))
			}
		}
	}
	// weights can be negative, so normalise against the absolute total
	total := abs(mine) + abs(theirs)
	if total == 0 {
		return 0
	}
	return (mine - theirs) / total
}

// EvaluateCombined averages the positional, mobility, corner and disc scores.
func EvaluateCombined(v View, mover Cell) float64 {
	return (EvaluatePositional(v, mover) + EvaluateMobility(v, mover) +
		EvaluateCorners(v, mover) + EvaluateDiscs(v, mover)) / 4
}

var standardWeights = [DefaultSize][DefaultSize]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, -1, -1, -1, -1, -2, 10},
	{5, -2, -1, -1, -1, -1, -2, 5},
	{5, -2, -1, -1, -1, -1, -2, 5},
	{10, -2, -1, -1, -1, -1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// PositionalWeight returns the static value of a square. The classic table is
// used on 8×8 boards; other sizes fold the square onto its nearest corner.
func PositionalWeight(size, row, col int) int {
	if size == DefaultSize {
		return standardWeights[row][col]
	}
	r := min(row, size-1-row)
	c := min(col, size-1-col)
	switch {
	case r == 0 && c == 0:
		return 100
	case r == 1 && c == 1:
		return -50
	case r+c == 1:
		return -20
	case r == 0 || c == 0:
		return 5
	case r == 1 || c == 1:
		return -2
	default:
		return -1
	}
}

// Corners lists the four corner squares of a size×size board.
func Corners(size int) []Position {
	last := size - 1
	return []Position{{0, 0}, {0, last}, {last, 0}, {last, last}}
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
