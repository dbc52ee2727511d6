// Package server exposes a gamemaster session over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/game"
	"othello/gamemaster"
	"othello/render"
	"othello/strategy"
	"othello/utils"
)

type Option func(s *Server)

// WithPingInterval sets how long a websocket may stay idle before a ping.
func WithPingInterval(interval time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.pingInterval = interval
		}
	}
}

// WithShutdownTimeout bounds the graceful shutdown in ListenAndServe.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

type Server struct {
	controller      *gamemaster.Controller
	hub             *Hub
	pingInterval    time.Duration
	shutdownTimeout time.Duration
}

func New(controller *gamemaster.Controller, options ...Option) *Server {
	s := &Server{ // Default values
		controller:      controller,
		hub:             NewHub(),
		pingInterval:    30 * time.Second,
		shutdownTimeout: 5 * time.Second,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// Routes builds the router. The hub must be running for websocket clients
// to receive broadcasts.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "clients": s.hub.Clients()})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/start", s.handleStart)
		r.Post("/next-move", s.handleNextMove)
		r.Post("/reset", s.handleReset)
		r.Get("/preview", s.handlePreview)
		r.Get("/strategies", s.handleStrategies)
		r.Get("/board.png", s.handleBoardPNG)
	})
	r.Get("/ws", s.serveWS)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	done := make(chan struct{})
	defer close(done)
	go s.hub.Run(done)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("session server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down session server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return errors.Wrap(srv.Close(), "close server")
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.State()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req communication.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid request body"})
		return
	}
	state, err := s.controller.Start(gamemaster.Setup{
		Player1Name: req.Player1Name,
		Player2Name: req.Player2Name,
		Strategy1:   req.Strategy1,
		Strategy2:   req.Strategy2,
		PlayerVsCPU: req.IsPlayerVsCPU,
		Player:      req.Player,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.Publish("state", state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleNextMove(w http.ResponseWriter, r *http.Request) {
	var req communication.NextMoveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid request body"})
			return
		}
	}
	var move *game.Position
	if req.Move != nil {
		p := req.Move.Position()
		move = &p
	}
	state, err := s.controller.NextMove(r.Context(), move)
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.Publish("state", state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Reset(); err != nil {
		writeError(w, err)
		return
	}
	s.hub.Publish("reset", nil)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	row, rowErr := strconv.Atoi(r.URL.Query().Get("row"))
	col, colErr := strconv.Atoi(r.URL.Query().Get("col"))
	if rowErr != nil || colErr != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "row and col must be integers"})
		return
	}
	valid, flipped, err := s.controller.Preview(game.Position{Row: row, Col: col})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.PreviewResponse{Valid: valid, Flipped: communication.CoordsOf(flipped)})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, communication.StrategiesResponse{Strategies: strategy.Names()})
}

func (s *Server) handleBoardPNG(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.State()
	if err != nil {
		writeError(w, err)
		return
	}
	board := s.controller.Board()
	if board == nil {
		writeError(w, gamemaster.ErrNotStarted)
		return
	}
	var last *game.Position
	if state.LastMove != nil {
		p := state.LastMove.Position()
		last = &p
	}
	flipped := utils.Map(state.FlippedStones, communication.Coord.Position)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.PNG(w, board, render.WithHighlights(last, flipped), render.WithValidMoves()); err != nil {
		log.Error().Err(err).Msg("failed to render board")
	}
}

// statusOf maps controller and registry errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, gamemaster.ErrNotStarted):
		return http.StatusNotFound
	case errors.Is(err, gamemaster.ErrGameOver), errors.Is(err, gamemaster.ErrNoStrategy):
		return http.StatusConflict
	case errors.Is(err, gamemaster.ErrIllegalMove), errors.Is(err, strategy.ErrUnknownStrategy),
		errors.Is(err, gamemaster.ErrInvalidSetup):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
