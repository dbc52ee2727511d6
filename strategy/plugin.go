package strategy

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"othello/communication"
	"othello/game"
)

// ServePlugin is the other end of Process: it answers every FindMoveRequest
// line read from r with one FindMoveResponse line on w, building a strategy
// for the requested player with factory.
func ServePlugin(ctx context.Context, r io.Reader, w io.Writer, factory Factory) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		var req communication.FindMoveRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			return errors.Wrap(err, "decode request")
		}
		board, err := game.FromSnapshot(req.Snapshot)
		if err != nil {
			return errors.Wrap(err, "load board")
		}
		s, err := factory(req.Player)
		if err != nil {
			return err
		}

		var resp communication.FindMoveResponse
		if move, ok := s.ChooseMove(ctx, board); ok {
			resp.Move = &move
		}
		if err := encoder.Encode(resp); err != nil {
			return errors.Wrap(err, "encode response")
		}
	}
	return errors.Wrap(scanner.Err(), "read requests")
}
