package strategy

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
)

// Process runs an external program once per move. The program reads one
// FindMoveRequest JSON line on stdin and writes one FindMoveResponse JSON line
// on stdout. It is killed when the context ends.
type Process struct {
	command string
	args    []string
	env     []string
	mover   game.Cell
}

func NewProcess(mover game.Cell, command string, args ...string) *Process {
	return &Process{command: command, args: args, mover: mover}
}

// WithEnv appends environment entries (KEY=value) for the child process.
func (p *Process) WithEnv(env ...string) *Process {
	p.env = append(p.env, env...)
	return p
}

func (p *Process) ChooseMove(ctx context.Context, board game.View) (game.Position, bool) {
	move, err := p.FindMove(ctx, board)
	if err != nil {
		log.Warn().Err(err).Msgf("plugin %s failed", p.command)
		return game.Position{}, false
	}
	if move == nil {
		return game.Position{}, false
	}
	return *move, true
}

func (p *Process) FindMove(ctx context.Context, board game.View) (*game.Position, error) {
	line, err := json.Marshal(communication.FindMoveRequest{Snapshot: board.Snapshot(), Player: p.mover})
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	cmd := exec.CommandContext(ctx, p.command, p.args...)
	if len(p.env) > 0 {
		cmd.Env = append(cmd.Environ(), p.env...)
	}
	cmd.Stdin = bytes.NewReader(append(line, '\n'))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(err, "run %s: %s", p.command, bytes.TrimSpace(stderr.Bytes()))
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	if !scanner.Scan() {
		return nil, errors.Errorf("%s wrote no response", p.command)
	}
	var fm communication.FindMoveResponse
	if err := json.Unmarshal(scanner.Bytes(), &fm); err != nil {
		return nil, errors.Wrapf(err, "decode response from %s", p.command)
	}
	return fm.Move, nil
}
