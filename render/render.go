// Package render draws a board as a PNG image with coordinate labels.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"othello/game"
)

var (
	background = color.RGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff}
	gridLine   = color.RGBA{R: 0x0b, G: 0x3d, B: 0x10, A: 0xff}
	margin     = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	label      = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	blackStone = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	whiteStone = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	lastMove   = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
	flipMark   = color.RGBA{R: 0xff, G: 0xc1, B: 0x07, A: 0xff}
	moveHint   = color.RGBA{R: 0x66, G: 0xbb, B: 0x6a, A: 0xff}
)

type Option func(o *options)

type options struct {
	cellSize  int
	last      *game.Position
	flipped   []game.Position
	showMoves bool
}

// WithCellSize sets the side of one square in pixels.
func WithCellSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.cellSize = size
		}
	}
}

// WithHighlights marks the last move and the stones it flipped.
func WithHighlights(last *game.Position, flipped []game.Position) Option {
	return func(o *options) {
		o.last = last
		o.flipped = flipped
	}
}

// WithValidMoves dots the legal moves of the player to move.
func WithValidMoves() Option {
	return func(o *options) {
		o.showMoves = true
	}
}

// Image draws v onto a new image.
func Image(v game.View, opts ...Option) *image.RGBA {
	o := options{cellSize: 48} // Default values
	for _, opt := range opts {
		opt(&o)
	}

	size := v.Size()
	cell := o.cellSize
	pad := cell / 2
	side := pad + size*cell
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: margin}, image.Point{}, draw.Src)
	board := image.Rect(pad, pad, side, side)
	draw.Draw(img, board, &image.Uniform{C: background}, image.Point{}, draw.Src)

	for i := 0; i <= size; i++ {
		offset := pad + i*cell
		fill(img, image.Rect(offset, pad, offset+1, side), gridLine)
		fill(img, image.Rect(pad, offset, side, offset+1), gridLine)
	}

	d := &font.Drawer{Dst: img, Src: image.NewUniform(label), Face: basicfont.Face7x13}
	for i := 0; i < size; i++ {
		center := pad + i*cell + cell/2
		col := string(rune('a' + i))
		d.Dot = fixed.P(center-d.MeasureString(col).Round()/2, pad/2+5)
		d.DrawString(col)
		row := strconv.Itoa(i + 1)
		d.Dot = fixed.P(pad/2-d.MeasureString(row).Round()/2, center+5)
		d.DrawString(row)
	}

	radius := cell*2/5 - 1
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			cx, cy := pad+col*cell+cell/2, pad+row*cell+cell/2
			switch v.Cell(row, col) {
			case game.Black:
				disc(img, cx, cy, radius, blackStone)
			case game.White:
				disc(img, cx, cy, radius, whiteStone)
			}
		}
	}

	mark := max(cell/10, 2)
	for _, p := range o.flipped {
		disc(img, pad+p.Col*cell+cell/2, pad+p.Row*cell+cell/2, mark, flipMark)
	}
	if o.last != nil {
		disc(img, pad+o.last.Col*cell+cell/2, pad+o.last.Row*cell+cell/2, mark, lastMove)
	}
	if o.showMoves {
		for _, p := range v.ValidMoves() {
			disc(img, pad+p.Col*cell+cell/2, pad+p.Row*cell+cell/2, mark, moveHint)
		}
	}
	return img
}

// PNG encodes the board image to w.
func PNG(w io.Writer, v game.View, opts ...Option) error {
	return errors.Wrap(png.Encode(w, Image(v, opts...)), "encode png")
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func disc(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.SetRGBA(cx+x, cy+y, c)
			}
		}
	}
}
