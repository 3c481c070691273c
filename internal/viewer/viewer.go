// Package viewer serves schedules over HTTP.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/joshharrison/procsched/internal/dispatch"
	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/log"
	"github.com/joshharrison/procsched/internal/planner"
	"github.com/joshharrison/procsched/internal/schederr"
	"github.com/joshharrison/procsched/internal/taskfile"
)

// MaxBodyBytes caps the size of a posted task file.
const MaxBodyBytes = 1 << 20

// Server schedules posted task files and remembers the last plan.
type Server struct {
	mu     sync.RWMutex
	plan   *planner.Plan
	config planner.PlanConfig
}

// New returns a server that schedules with config unless a request
// overrides processors or policy.
func New(config planner.PlanConfig) *Server {
	if config.Logger == nil {
		config.Logger = log.Discard()
	}
	return &Server{config: config}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Cycle []int  `json:"cycle,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.config.Logger.WithError(err).Warn("write response failed", "status", status)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case schederr.IsCycle(err):
		status = http.StatusUnprocessableEntity
	case schederr.IsValidation(err):
		status = http.StatusBadRequest
	}

	body := errorBody{Error: err.Error(), Kind: schederr.KindName(err)}
	var se *schederr.Error
	if errors.As(err, &se) {
		body.Cycle = se.Cycle
	}
	s.config.Logger.WithError(err).Warn("schedule request failed", "status", status)
	s.writeJSON(w, status, body)
}

// requestConfig applies the processors and policy query parameters.
func (s *Server) requestConfig(r *http.Request) (planner.PlanConfig, error) {
	cfg := s.config
	q := r.URL.Query()
	if v := q.Get("processors"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, schederr.Validationf("processors must be an integer, got %q", v)
		}
		if err := dispatch.ValidateProcessors(n); err != nil {
			return cfg, err
		}
		cfg.Processors = n
	}
	if v := q.Get("policy"); v != "" {
		cfg.Policy = v
	}
	return cfg, nil
}

func (s *Server) handlePostSchedule(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, schederr.Validationf("read body: %v", err))
		return
	}
	f, err := taskfile.ParseBytes(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := graph.BuildFromRaw(f.Tasks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	plan, err := planner.Generate(r.Context(), g, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	s.plan = plan
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	plan := s.plan
	s.mu.RUnlock()

	if plan == nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "no schedule computed yet"})
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/schedule", s.handlePostSchedule).Methods(http.MethodPost)
	r.HandleFunc("/schedule", s.handleGetSchedule).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}
}

// ListenAndServe listens on the given port and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	s.config.Logger.Info("serving", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}
