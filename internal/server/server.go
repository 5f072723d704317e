// Package server exposes the advisor over a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"FxSignal/internal/account"
	"FxSignal/internal/advisor"
	"FxSignal/internal/calculator"
	"FxSignal/internal/chart"
	"FxSignal/internal/metrics"
	"FxSignal/internal/model"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// Server serves the signal API.
type Server struct {
	Advisor *advisor.Advisor
	Account *account.Manager
	srv     *http.Server
}

// New creates a Server listening on addr once started.
func New(addr string, adv *advisor.Advisor, acct *account.Manager) *Server {
	s := &Server{Advisor: adv, Account: acct}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/pairs", s.handlePairs)
	mux.HandleFunc("GET /api/signal", s.handleSignal)
	mux.HandleFunc("GET /api/signal/pine", s.handlePine)
	return mux
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("http server started")
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type signalResponse struct {
	*model.Report
	Chart *chart.Chart `json:"chart,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePairs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Pairs)
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.advise(w, r)
	if !ok {
		return
	}
	resp := signalResponse{Report: rep}
	if rep.OK() {
		c, err := chart.Build(rep)
		if err != nil {
			log.Error().Err(err).Str("run_id", rep.RunID).Msg("build chart")
		}
		resp.Chart = c
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePine(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.advise(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !rep.OK() {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(rep.Failure + "\n"))
		return
	}
	pine, err := chart.PineScript(rep)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(pine))
}

// advise runs a render cycle for the query and writes the error response
// itself when there is no report to return.
func (s *Server) advise(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	req, err := s.parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	rep, err := s.Advisor.Advise(r.Context(), req)
	switch {
	case err == nil:
		return rep, true
	case errors.Is(err, model.ErrUnknownPair), errors.Is(err, account.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, calculator.ErrZeroPipRisk), errors.Is(err, calculator.ErrInvalidLotSize):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("pair", req.Pair).Msg("advise")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return nil, false
}

// parseRequest reads pair, balance and risk from the query string, falling
// back to the saved account defaults for anything missing.
func (s *Server) parseRequest(r *http.Request) (model.Request, error) {
	req := s.Account.Request()
	q := r.URL.Query()
	if v := q.Get("pair"); v != "" {
		req.Pair = v
	}
	if v := q.Get("balance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid balance %q", v)
		}
		req.Balance = f
	}
	if v := q.Get("risk"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("risk must be a whole number, got %q", v)
		}
		req.RiskPercent = float64(n)
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
