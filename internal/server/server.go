// Package server exposes the demo pipeline over HTTP: classification,
// responses, persona calls, demo recordings, the mock plan endpoint, and the
// job queue. All responses are JSON.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"nexusai/internal/classify"
	"nexusai/internal/config"
	"nexusai/internal/logging"
	"nexusai/internal/persona"
	"nexusai/internal/planner"
	"nexusai/internal/queue"
	"nexusai/internal/respond"
	"nexusai/internal/store"
)

// Server wires the pipeline components behind an HTTP mux.
type Server struct {
	cfg       config.ServerConfig
	generator *respond.Generator
	personas  *persona.Catalog
	engine    *persona.Engine
	planner   *planner.Planner
	repo      store.RecordingRepository
	jobs      queue.Store
	queue     *queue.Queue
	sched     *queue.Scheduler
	clock     func() time.Time

	httpServer *http.Server
	listener   net.Listener
}

// Deps carries the components the server serves. All fields are required
// except Clock, which defaults to time.Now.
type Deps struct {
	Generator *respond.Generator
	Personas  *persona.Catalog
	Engine    *persona.Engine
	Planner   *planner.Planner
	Repo      store.RecordingRepository
	JobStore  queue.Store
	Queue     *queue.Queue
	Scheduler *queue.Scheduler
	Clock     func() time.Time
}

// New builds a server from config and dependencies.
func New(cfg config.ServerConfig, deps Deps) *Server {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Server{
		cfg:       cfg,
		generator: deps.Generator,
		personas:  deps.Personas,
		engine:    deps.Engine,
		planner:   deps.Planner,
		repo:      deps.Repo,
		jobs:      deps.JobStore,
		queue:     deps.Queue,
		sched:     deps.Scheduler,
		clock:     clock,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRecovery(s.withRequestLog(mux)),
		ReadTimeout:  parseTimeout(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout: parseTimeout(cfg.WriteTimeout, 15*time.Second),
	}
	return s
}

func parseTimeout(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/classify", s.handleClassify)
	mux.HandleFunc("POST /api/respond", s.handleRespond)

	mux.HandleFunc("GET /api/personas", s.handleListPersonas)
	mux.HandleFunc("POST /api/call", s.handleCall)

	mux.HandleFunc("GET /api/demo/fields", s.handleDemoFields)
	mux.HandleFunc("POST /api/demo/{field}", s.handleRunDemo)

	mux.HandleFunc("GET /api/recordings", s.handleListRecordings)
	mux.HandleFunc("POST /api/recordings", s.handleAppendRecording)
	mux.HandleFunc("DELETE /api/recordings/{id}", s.handleDeleteRecording)

	mux.HandleFunc("GET /api/models/pinned", s.handleGetPinnedModel)
	mux.HandleFunc("PUT /api/models/pinned", s.handleSetPinnedModel)
	mux.HandleFunc("GET /api/models/downloaded", s.handleListDownloadedModels)
	mux.HandleFunc("POST /api/models/downloaded", s.handleAddDownloadedModel)

	mux.HandleFunc("POST /api/plan", s.handlePlan)

	mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleCancelJob)
	mux.HandleFunc("GET /api/jobs/{id}/export", s.handleExportJob)
}

// Start begins serving. The listener is capped at the configured connection
// limit. Blocks until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	s.listener = ln

	logging.API("serving on %s", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.API("shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the fully wrapped handler, for httptest use.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withRecovery maps handler panics to the standard failure envelope instead
// of tearing down the connection.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Get(logging.CategoryAPI).Error("panic in %s %s: %v", r.Method, r.URL.Path, rec)
				s.writeFailure(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.API("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// suggestModes adapts the classifier pair for handlers.
func suggestModes(query string) (string, []string) {
	category := classify.Classify(query)
	modes := classify.SuggestedModes(category)
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		out = append(out, string(m))
	}
	return string(category), out
}
