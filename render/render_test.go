package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"othello/game"
)

func TestImage(t *testing.T) {
	b := game.NewBoard()
	img := Image(b, WithCellSize(20))

	// 10px margin plus 8 squares of 20px
	require.Equal(t, 170, img.Bounds().Dx())
	require.Equal(t, 170, img.Bounds().Dy())

	center := func(row, col int) (int, int) { return 10 + col*20 + 10, 10 + row*20 + 10 }
	x, y := center(3, 3)
	require.Equal(t, whiteStone, img.RGBAAt(x, y), "d4 holds a white stone")
	x, y = center(3, 4)
	require.Equal(t, blackStone, img.RGBAAt(x, y), "e4 holds a black stone")
	x, y = center(0, 0)
	require.Equal(t, background, img.RGBAAt(x, y))
}

func TestHighlights(t *testing.T) {
	b := game.NewBoard()
	require.True(t, b.MakeMove(2, 3))
	last := game.Position{Row: 2, Col: 3}
	img := Image(b, WithCellSize(20), WithHighlights(&last, []game.Position{{Row: 3, Col: 3}}), WithValidMoves())

	require.Equal(t, lastMove, img.RGBAAt(10+3*20+10, 10+2*20+10))
	require.Equal(t, flipMark, img.RGBAAt(10+3*20+10, 10+3*20+10))
	require.Equal(t, moveHint, img.RGBAAt(10+2*20+10, 10+2*20+10), "c3 is legal for white")
}

func TestPNG(t *testing.T) {
	b, err := game.NewBoardSize(6)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, b))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 24+6*48, decoded.Bounds().Dx())
}
