package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/communication"
	"othello/communication/client"
	"othello/communication/server"
	"othello/game"
	"othello/gamemaster"
	"othello/storage"
	"othello/strategy"
)

func TestNewServerUnknownStrategy(t *testing.T) {
	_, err := NewServer("does-not-exist")
	require.ErrorIs(t, err, strategy.ErrUnknownStrategy)
}

func TestFindMove(t *testing.T) {
	s, err := NewServer("first", WithTimeout(time.Second))
	require.NoError(t, err)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	t.Run("remote strategy round trip", func(t *testing.T) {
		remote := strategy.NewRemote(ts.URL, game.Black, ts.Client())
		move, err := remote.FindMove(context.Background(), game.NewBoard())
		require.NoError(t, err)
		require.Equal(t, &game.Position{Row: 2, Col: 3}, move)

		board := game.NewBoard()
		require.True(t, board.MakeMove(2, 3))
		white := strategy.NewRemote(ts.URL, game.White, ts.Client())
		pos, ok := white.ChooseMove(context.Background(), board)
		require.True(t, ok)
		require.Equal(t, game.Position{Row: 2, Col: 2}, pos)
	})

	t.Run("no legal moves answers a pass", func(t *testing.T) {
		board := game.NewBoard()
		s := board.Snapshot()
		for r := range s.Board {
			for c := range s.Board[r] {
				s.Board[r][c] = game.Empty
			}
		}
		s.Board[0][0] = game.White
		require.NoError(t, board.Restore(s))

		move, err := strategy.NewRemote(ts.URL, game.Black, nil).FindMove(context.Background(), board)
		require.NoError(t, err)
		require.Nil(t, move)
	})

	t.Run("bad requests", func(t *testing.T) {
		post := func(body string) int {
			resp, err := http.Post(ts.URL+"/findmove", "application/json", bytes.NewBufferString(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			return resp.StatusCode
		}
		require.Equal(t, http.StatusBadRequest, post("{"))

		snapshot, err := json.Marshal(game.NewBoard().Snapshot())
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, post(`{"snapshot":`+string(snapshot)+`,"player":0}`), "empty is not a player")
		require.Equal(t, http.StatusBadRequest, post(`{"snapshot":{"board":[[0]],"current_player":1},"player":1}`), "1x1 board")
		require.Equal(t, http.StatusOK, post(`{"snapshot":`+string(snapshot)+`,"player":1}`))
	})
}

func TestPlayerDrivesSession(t *testing.T) {
	store, err := storage.NewJSON(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(gamemaster.NewController(store)).Routes())
	defer ts.Close()

	c := client.New(ts.URL, ts.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = c.Start(ctx, communication.StartRequest{
		Player1Name:   "cpu",
		Player2Name:   "agent",
		Strategy1:     "greedy",
		IsPlayerVsCPU: true,
		Player:        game.White,
	})
	require.NoError(t, err)

	st, err := strategy.New("positional", game.White)
	require.NoError(t, err)
	final, err := NewPlayer(c, game.White, st, time.Second).Play(ctx)
	require.NoError(t, err)
	require.True(t, final.IsGameOver)
	require.NotNil(t, final.Winner)
	require.Equal(t, final.BlackScore+final.WhiteScore, countStones(final.Board))
}

func countStones(board [][]game.Cell) int {
	n := 0
	for _, row := range board {
		for _, cell := range row {
			if cell != game.Empty {
				n++
			}
		}
	}
	return n
}
