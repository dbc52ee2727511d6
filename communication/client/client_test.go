package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"othello/communication"
	"othello/communication/server"
	"othello/game"
	"othello/gamemaster"
	"othello/storage"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	store, err := storage.NewJSON(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(gamemaster.NewController(store)).Routes())
	t.Cleanup(ts.Close)
	return New(ts.URL+"/", nil)
}

func TestClient(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	names, err := c.Strategies(ctx)
	require.NoError(t, err)
	require.Contains(t, names, "positional")

	_, err = c.State(ctx)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Code)
	require.Contains(t, statusErr.Message, "not started")

	state, err := c.Start(ctx, communication.StartRequest{
		Player1Name:   "CPU",
		Player2Name:   "Me",
		Strategy1:     "first",
		IsPlayerVsCPU: true,
		Player:        game.White,
	})
	require.NoError(t, err)
	require.Equal(t, "Me", state.WhitePlayerName)

	t.Run("cpu opens", func(t *testing.T) {
		state, err := c.NextMove(ctx, &game.Position{Row: 0, Col: 0})
		require.NoError(t, err, "the move is ignored on a cpu turn")
		require.Equal(t, &communication.Coord{2, 3}, state.LastMove)
	})

	t.Run("human answers", func(t *testing.T) {
		preview, err := c.Preview(ctx, game.Position{Row: 2, Col: 2})
		require.NoError(t, err)
		require.True(t, preview.Valid)

		state, err := c.NextMove(ctx, &game.Position{Row: 2, Col: 2})
		require.NoError(t, err)
		require.Equal(t, 2, state.MoveCount)

		_, err = c.NextMove(ctx, nil)
		require.NoError(t, err)
		_, err = c.NextMove(ctx, &game.Position{Row: 7, Col: 7})
		require.True(t, errors.As(err, &statusErr))
		require.Equal(t, http.StatusBadRequest, statusErr.Code)
	})

	t.Run("board image", func(t *testing.T) {
		data, err := c.BoardPNG(ctx)
		require.NoError(t, err)
		require.Equal(t, "\x89PNG", string(data[:4]))
	})

	require.NoError(t, c.Reset(ctx))
	_, err = c.State(ctx)
	require.Error(t, err)
}
