package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
)

// Remote asks an agent server for moves over HTTP.
type Remote struct {
	url    string
	mover  game.Cell
	client *http.Client
}

// NewRemote targets the agent at baseURL; requests go to baseURL/findmove.
func NewRemote(baseURL string, mover game.Cell, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{
		url:    strings.TrimRight(baseURL, "/") + "/findmove",
		mover:  mover,
		client: client,
	}
}

func (r *Remote) ChooseMove(ctx context.Context, board game.View) (game.Position, bool) {
	move, err := r.FindMove(ctx, board)
	if err != nil {
		log.Warn().Err(err).Msgf("remote strategy %s failed", r.url)
		return game.Position{}, false
	}
	if move == nil {
		return game.Position{}, false
	}
	return *move, true
}

// FindMove posts the board to the agent and returns its answer; nil is a pass.
func (r *Remote) FindMove(ctx context.Context, board game.View) (*game.Position, error) {
	body, err := json.Marshal(communication.FindMoveRequest{Snapshot: board.Snapshot(), Player: r.mover})
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "post %s", r.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var fm communication.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&fm); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return fm.Move, nil
}
