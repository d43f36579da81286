package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
	"github.com/publu/gearbox-sentinel/internal/services"
	"github.com/publu/gearbox-sentinel/internal/types"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server exposes the aggregation engine as a small read-only JSON API.
type Server struct {
	cfg     *config.ServerConfig
	service *services.Service
}

func New(cfg *config.ServerConfig, service *services.Service) *Server {
	return &Server{cfg: cfg, service: service}
}

// Start blocks serving the API until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(tracing.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/pools", s.handlePools)
		r.Get("/pools/top", s.handleTopPools)
		r.Get("/positions/{address}", s.handlePositions)
		r.Get("/rewards", s.handleRewards)
		r.Get("/stats", s.handleStats)
	})

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Ctx(ctx).Info().Str("addr", addr).Msg("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.service.ListPools(r.Context(), r.URL.Query().Get("chain"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

func (s *Server) handleTopPools(w http.ResponseWriter, r *http.Request) {
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %q", types.ErrInvalidCount, raw))
			return
		}
		n = parsed
	}
	pools, err := s.service.TopPools(r.Context(), n, r.URL.Query().Get("chain"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	scan, err := s.service.ScanPositions(r.Context(), address, r.URL.Query().Get("chain"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positionScanResponse(scan))
}

func (s *Server) handleRewards(w http.ResponseWriter, r *http.Request) {
	programs, err := s.service.Rewards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.ProtocolStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, types.ErrInvalidAddress), errors.Is(err, types.ErrInvalidCount):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrUnknownChain):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrChainUnreachable), errors.Is(err, types.ErrPoolDataUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusBadGateway {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Upstream failure")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
