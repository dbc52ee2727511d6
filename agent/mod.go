// Package agent runs a strategy outside the session: as an HTTP service that
// answers find-move requests, or as a player that drives a session server.
package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
	"othello/meta"
	"othello/strategy"
)

type Option func(s *Server)

// WithTimeout bounds one strategy decision.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithStrategyOptions(options ...strategy.Option) Option {
	return func(s *Server) {
		s.strategyOptions = append(s.strategyOptions, options...)
	}
}

// Server answers POST /findmove with the move of one registered strategy.
type Server struct {
	name            string
	timeout         time.Duration
	strategyOptions []strategy.Option

	mu         sync.Mutex
	strategies map[game.Cell]strategy.Strategy
}

// NewServer serves the strategy registered under name. The name is resolved
// immediately so a typo fails at startup.
func NewServer(name string, options ...Option) (*Server, error) {
	s := &Server{ // Default values
		name:       name,
		timeout:    meta.STRATEGY_TIMEOUT,
		strategies: map[game.Cell]strategy.Strategy{},
	}
	for _, option := range options {
		option(s)
	}
	if _, err := s.strategyFor(game.Black); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"strategy": s.name})
	})
	r.Post("/findmove", s.handleFindMove)
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("agent %q listening on %s", s.name, addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var req communication.FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid request body"})
		return
	}
	if !req.Player.IsPlayer() {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "player must be 1 (black) or 2 (white)"})
		return
	}
	board, err := game.FromSnapshot(req.Snapshot)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: err.Error()})
		return
	}
	st, err := s.strategyFor(req.Player)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, communication.ErrorResponse{Error: err.Error()})
		return
	}

	decision := strategy.Decide(r.Context(), st, board, req.Player, s.timeout)
	if decision.Pass {
		writeJSON(w, http.StatusOK, communication.FindMoveResponse{})
		return
	}
	if decision.Fallback {
		log.Warn().Err(decision.Err).Msgf("%s overruled for %s, answering %s", s.name, req.Player, decision.Move)
	}
	move := decision.Move
	writeJSON(w, http.StatusOK, communication.FindMoveResponse{Move: &move})
}

func (s *Server) strategyFor(mover game.Cell) (strategy.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.strategies[mover]; ok {
		return st, nil
	}
	st, err := strategy.New(s.name, mover, s.strategyOptions...)
	if err != nil {
		return nil, err
	}
	s.strategies[mover] = st
	return st, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
