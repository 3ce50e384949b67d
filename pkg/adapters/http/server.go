package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/courier"
	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/pkg/adapters/memory"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/observability"
	"github.com/aretw0/courier/pkg/ports"
	"github.com/aretw0/courier/pkg/runner"
	"github.com/aretw0/courier/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a courier engine over HTTP.
type Server struct {
	engine     ports.StatelessEngine
	sessions   *session.Manager
	streams    *StreamManager
	logger     *slog.Logger
	gatherer   prometheus.Gatherer
	aggregator *observability.Aggregator

	mu   sync.Mutex
	runs map[string]*run
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessions sets where simulations are persisted (default in-memory).
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithMetrics serves g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithAggregator serves a's snapshot on GET /stats.
func WithAggregator(a *observability.Aggregator) Option {
	return func(s *Server) {
		s.aggregator = a
	}
}

// NewServer creates a Server for engine.
func NewServer(engine ports.StatelessEngine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		runs:   make(map[string]*run),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.sessions == nil {
		s.sessions = session.NewManager(memory.NewStore(), session.WithLogger(s.logger))
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.aggregator != nil {
		r.Get("/stats", s.GetStats)
	}

	r.Post("/plan", s.Plan)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Get("/{id}/events", s.SubscribeEvents)
		r.Get("/{id}/ws", s.StreamWebSocket)
	})

	return enableCORS(r)
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.StatelessEngine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Handler()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PlanRequest is the body of POST /plan and POST /sessions.
type PlanRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Input     string `json:"input"`
}

// SessionCreated is the response of POST /sessions.
type SessionCreated struct {
	SessionID string `json:"session_id"`
	Route     string `json:"route"`
	Steps     int    `json:"steps"`
	Skipped   int    `json:"skipped"`
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (PlanRequest, bool) {
	var body PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return body, false
	}

	clean, err := runner.SanitizeInput(body.Input)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("Input rejected", "error", err, "size", len(body.Input))
		return body, false
	}
	body.Input = clean
	if body.Input == "" {
		body.Input = domain.DefaultInput
	}
	return body, true
}

// Plan handles POST /plan.
func (s *Server) Plan(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	route, err := s.engine.Plan(r.Context(), body.Input)
	if err != nil {
		s.writeError(w, "Plan", err)
		return
	}
	s.writeJSON(w, http.StatusOK, route)
}

// CreateSession handles POST /sessions. The simulation plays in the
// background; a running session with the same ID is restarted.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	if body.SessionID == "" {
		body.SessionID = uuid.New().String()
	}

	plan, err := s.startRun(body.SessionID, body.Input)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}

	s.logger.Info("session started", "session_id", body.SessionID, "route", plan.Route)
	s.writeJSON(w, http.StatusAccepted, SessionCreated{
		SessionID: body.SessionID,
		Route:     plan.Route,
		Steps:     plan.Steps,
		Skipped:   plan.Skipped,
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, "ListSessions", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /sessions/{id}, cancelling its playback.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.stopRun(id)

	if _, err := s.sessions.Load(r.Context(), id); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "courier-http",
		"version": strings.TrimSpace(courier.Version),
	})
}

// GetStats handles the GET /stats request.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.aggregator.Snapshot())
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
// Each message is a domain.SessionDiff. The optional watch query
// (comma separated current, result, status) filters messages by field.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := chi.URLParam(r, "id")
	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, watchList []string) bool {
	var diff domain.SessionDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "current":
			if diff.Current != nil {
				return true
			}
		case "result":
			if diff.Appended != "" || diff.Reset {
				return true
			}
		case "status":
			if diff.Status != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn(op+": rejected", "error", err)
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "error", err)
	}
}
