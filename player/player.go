// Package player lets a person play through the strategy interface, reading
// moves as text.
package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"othello/game"
	"othello/utils"
)

var ErrBadNotation = errors.New("bad move notation")

// ParseMove reads "d3" (column letter, 1-based row) or "2 3" (0-based row and
// column) on a size×size board.
func ParseMove(text string, size int) (game.Position, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	var p game.Position
	if fields := strings.Fields(text); len(fields) == 2 {
		row, rowErr := strconv.Atoi(fields[0])
		col, colErr := strconv.Atoi(fields[1])
		if rowErr != nil || colErr != nil {
			return p, errors.Wrapf(ErrBadNotation, "%q", text)
		}
		p = game.Position{Row: row, Col: col}
	} else {
		if len(text) < 2 || text[0] < 'a' || text[0] > 'z' {
			return p, errors.Wrapf(ErrBadNotation, "%q", text)
		}
		row, err := strconv.Atoi(text[1:])
		if err != nil {
			return p, errors.Wrapf(ErrBadNotation, "%q", text)
		}
		p = game.Position{Row: row - 1, Col: int(text[0] - 'a')}
	}
	if p.Row < 0 || p.Row >= size || p.Col < 0 || p.Col >= size {
		return p, errors.Wrapf(ErrBadNotation, "%q is off the board", text)
	}
	return p, nil
}

// FormatMove is the inverse of ParseMove's letter form.
func FormatMove(p game.Position) string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// Console is a strategy backed by a person at a terminal. It shows the board,
// then keeps asking until a legal move is entered.
type Console struct {
	mover game.Cell
	in    *bufio.Scanner
	out   io.Writer
}

func NewConsole(mover game.Cell, in io.Reader, out io.Writer) *Console {
	return &Console{mover: mover, in: bufio.NewScanner(in), out: out}
}

// ChooseMove returns false when the input ends or ctx is done. The read itself
// is not interruptible.
func (c *Console) ChooseMove(ctx context.Context, board game.View) (game.Position, bool) {
	moves := board.ValidMovesFor(c.mover)
	fmt.Fprintf(c.out, "\n%s", board)
	fmt.Fprintf(c.out, "%s to move, legal: %s\n", c.mover, strings.Join(utils.Map(moves, FormatMove), " "))
	for {
		if ctx.Err() != nil {
			return game.Position{}, false
		}
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			return game.Position{}, false
		}
		p, err := ParseMove(c.in.Text(), board.Size())
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if utils.FindIndex(moves, p) < 0 {
			fmt.Fprintf(c.out, "%s is not a legal move\n", FormatMove(p))
			continue
		}
		return p, true
	}
}
