// Package tui is a terminal front end for a gamemaster session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
	"othello/gamemaster"
	"othello/player"
	"othello/strategy"
	"othello/utils"
)

// Run shows the start form, or resumes a loaded session, and blocks until
// the user quits.
func Run(ctx context.Context, controller *gamemaster.Controller) error {
	app := tview.NewApplication()
	ui := &ui{ctx: ctx, app: app, controller: controller, showValid: true}

	if state, err := controller.State(); err == nil && !state.IsGameOver {
		ui.showBoard()
	} else {
		ui.showStartScreen()
	}

	go func() {
		<-ctx.Done()
		app.Stop()
	}()
	return app.Run()
}

type ui struct {
	ctx        context.Context
	app        *tview.Application
	controller *gamemaster.Controller
	showValid  bool

	table    *tview.Table
	status   *tview.TextView
	thinking int32
}

func (u *ui) showStartScreen() {
	names := strategy.Names()
	colour := game.Black
	opponent := names[0]
	if i := utils.FindIndex(names, "positional"); i >= 0 {
		opponent = names[i]
	}
	name := "Player"

	form := tview.NewForm()
	form.
		AddInputField("Your name", name, 20, nil, func(text string) {
			name = text
		}).
		AddDropDown("Your colour", []string{"Black", "White"}, 0, func(option string, index int) {
			colour = game.Black
			if index == 1 {
				colour = game.White
			}
		}).
		AddDropDown("Opponent", names, utils.FindIndex(names, opponent), func(option string, index int) {
			opponent = option
		}).
		AddCheckbox("Show valid moves", u.showValid, func(checked bool) {
			u.showValid = checked
		}).
		AddButton("Start Game", func() {
			setup := gamemaster.Setup{PlayerVsCPU: true, Player: colour}
			if colour == game.Black {
				setup.Player1Name, setup.Player2Name, setup.Strategy2 = name, opponent, opponent
			} else {
				setup.Player1Name, setup.Player2Name, setup.Strategy1 = opponent, name, opponent
			}
			if _, err := u.controller.Start(setup); err != nil {
				u.showError(err)
				return
			}
			u.showBoard()
		}).
		AddButton("Quit", func() {
			u.app.Stop()
		})
	form.SetBorder(true).SetTitle("Othello").SetTitleAlign(tview.AlignCenter)
	u.app.SetRoot(form, true).SetFocus(form)
}

func (u *ui) showBoard() {
	u.table = tview.NewTable()
	u.table.SetSelectable(true, true)
	u.table.SetBorder(true)
	u.table.SetBorders(true)
	u.table.SetTitleAlign(tview.AlignLeft)
	u.table.SetTitleColor(tcell.ColorGreen)
	u.table.SetBorderColor(tcell.ColorGreen)

	u.status = tview.NewTextView()
	u.status.SetBorder(true)
	u.status.SetTitle("Score")

	flex := tview.NewFlex().
		AddItem(u.table, 0, 1, true).
		AddItem(u.status, 40, 1, false)

	u.table.SetSelectedFunc(func(row, col int) {
		if atomic.LoadInt32(&u.thinking) == 1 {
			return
		}
		// row 0 and column 0 hold the labels
		move := game.Position{Row: row - 1, Col: col - 1}
		state, err := u.controller.NextMove(u.ctx, &move)
		if err != nil {
			u.status.SetText(statusText(state) + "\n\n" + err.Error())
			return
		}
		u.draw(state)
		u.processNextTurn(state)
	})

	u.app.SetRoot(flex, true).SetFocus(u.table)
	state, err := u.controller.State()
	if err != nil {
		u.showError(err)
		return
	}
	u.draw(state)
	u.processNextTurn(state)
}

// processNextTurn steps CPU turns and forced passes until the human is to
// move or the game ends.
func (u *ui) processNextTurn(state communication.StateResponse) {
	if state.IsGameOver {
		u.showGameOver(state)
		return
	}
	human := state.IsPlayerVsCPU && state.CurrentPlayer.Color() == state.Player
	if human && len(state.ValidMoves) > 0 {
		return
	}

	atomic.StoreInt32(&u.thinking, 1)
	go u.spin(state)
	go func() {
		next, err := u.controller.NextMove(u.ctx, nil)
		atomic.StoreInt32(&u.thinking, 0)
		u.app.QueueUpdateDraw(func() {
			if err != nil {
				log.Error().Err(err).Msg("cpu move failed")
				u.status.SetText(statusText(next) + "\n\n" + err.Error())
				return
			}
			u.draw(next)
			u.processNextTurn(next)
		})
	}()
}

func (u *ui) spin(state communication.StateResponse) {
	spinners := []string{"|", "/", "-", "\\"}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		<-ticker.C
		if atomic.LoadInt32(&u.thinking) == 0 {
			return
		}
		title := fmt.Sprintf(" %s's turn %s ", playerName(state, state.CurrentPlayer.Color()), spinners[i%len(spinners)])
		u.app.QueueUpdateDraw(func() {
			u.table.SetTitle(title)
		})
	}
}

func (u *ui) draw(state communication.StateResponse) {
	size := len(state.Board)
	valid := map[communication.Coord]bool{}
	if u.showValid {
		for _, c := range state.ValidMoves {
			valid[c] = true
		}
	}
	for i := 0; i < size; i++ {
		u.table.SetCell(0, i+1, label(string(rune('a'+i))))
		u.table.SetCell(i+1, 0, label(fmt.Sprint(i+1)))
	}
	u.table.SetCell(0, 0, label(""))
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			text, colour := cellText(state, row, col, valid[communication.Coord{row, col}])
			cell := tview.NewTableCell(text).SetAlign(tview.AlignCenter).SetTextColor(colour)
			u.table.SetCell(row+1, col+1, cell)
		}
	}
	u.table.SetTitle(fmt.Sprintf(" %s's turn ", playerName(state, state.CurrentPlayer.Color())))
	u.status.SetText(statusText(state))
}

func (u *ui) showGameOver(state communication.StateResponse) {
	modal := tview.NewModal().
		SetText("Game Over!\n" + statusText(state)).
		AddButtons([]string{"New Game", "Quit"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if buttonLabel == "New Game" {
				u.showStartScreen()
			} else {
				u.app.Stop()
			}
		})
	u.app.SetRoot(modal, false).SetFocus(modal)
}

func (u *ui) showError(err error) {
	modal := tview.NewModal().
		SetText(err.Error()).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) { u.showStartScreen() })
	u.app.SetRoot(modal, false).SetFocus(modal)
}

func label(text string) *tview.TableCell {
	return tview.NewTableCell(text).SetSelectable(false).SetAlign(tview.AlignCenter).SetTextColor(tcell.ColorGray)
}

// cellText is the symbol and colour of one square.
func cellText(state communication.StateResponse, row, col int, valid bool) (string, tcell.Color) {
	colour := tcell.ColorWhite
	if state.LastMove != nil && *state.LastMove == (communication.Coord{row, col}) {
		colour = tcell.ColorRed
	} else if utils.FindIndex(state.FlippedStones, communication.Coord{row, col}) >= 0 {
		colour = tcell.ColorYellow
	}
	switch state.Board[row][col] {
	case game.Black:
		return " ● ", colour
	case game.White:
		return " ○ ", colour
	}
	if valid {
		return " · ", tcell.ColorGreen
	}
	return "   ", colour
}

func statusText(state communication.StateResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Black (%s): %d\n", state.BlackPlayerName, state.BlackScore)
	fmt.Fprintf(&sb, "White (%s): %d\n", state.WhitePlayerName, state.WhiteScore)
	fmt.Fprintf(&sb, "Moves: %d\n", state.MoveCount)
	if state.LastMove != nil {
		fmt.Fprintf(&sb, "Last: %s\n", player.FormatMove(state.LastMove.Position()))
	}
	if state.IsGameOver && state.Winner != nil {
		switch *state.Winner {
		case game.BlackWins:
			fmt.Fprintf(&sb, "%s wins!", state.BlackPlayerName)
		case game.WhiteWins:
			fmt.Fprintf(&sb, "%s wins!", state.WhitePlayerName)
		default:
			sb.WriteString("Tie!")
		}
	}
	return sb.String()
}

func playerName(state communication.StateResponse, mover game.Cell) string {
	if mover == game.White {
		return state.WhitePlayerName
	}
	return state.BlackPlayerName
}
