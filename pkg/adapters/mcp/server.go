package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/courier"
	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/pkg/adapters/memory"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/ports"
	"github.com/aretw0/courier/pkg/runner"
	"github.com/aretw0/courier/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const sessionsURI = "courier://sessions"

// PlanResponse is the structured result of plan_route.
type PlanResponse struct {
	Route   string          `json:"route" jsonschema_description:"Concatenated direction codes (N, E, S, W, D)"`
	Stops   []domain.Stop   `json:"stops" jsonschema_description:"Targets in visiting order with their hop counts"`
	Steps   int             `json:"steps" jsonschema_description:"Number of route steps"`
	Skipped []domain.Point  `json:"skipped,omitempty" jsonschema_description:"Targets outside the grid"`
	Notices []domain.Notice `json:"notices,omitempty" jsonschema_description:"Anomalies turned into data"`
}

// SessionResponse wraps a session for structured tool output.
type SessionResponse struct {
	Session *domain.Session `json:"session" jsonschema_description:"The simulated session"`
}

// Server wraps the courier Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.StatelessEngine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSessions sets where simulate results are stored (default in-memory).
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.StatelessEngine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("courier-mcp", strings.TrimSpace(courier.Version)),
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
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: plan_route
	planTool := mcp.NewTool("plan_route",
		mcp.WithDescription("Plan the courier route for a grid and its targets, e.g. '5x5 (1, 3) (2, 0) (3, 2)'."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Grid dimensions followed by target points")),
		mcp.WithOutputSchema[PlanResponse](),
	)
	s.mcpServer.AddTool(planTool, mcp.NewStructuredToolHandler(s.handlePlanRoute))

	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Play the route back and store the resulting session."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Grid dimensions followed by target points")),
		mcp.WithString("session_id", mcp.Description("Session to (re)use; generated when omitted")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: get_session
	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Load a stored session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetSession))

	// TOOL: list_sessions
	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List stored session IDs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// toolArgs are the arguments shared by the courier tools.
type toolArgs struct {
	Input     string `mapstructure:"input"`
	SessionID string `mapstructure:"session_id"`
}

func decodeArgs(args map[string]interface{}) (toolArgs, error) {
	var out toolArgs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(args); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	out.SessionID = strings.TrimSpace(out.SessionID)
	return out, nil
}

func sanitizedInput(args toolArgs) (string, error) {
	clean, err := runner.SanitizeInput(args.Input)
	if err != nil {
		return "", fmt.Errorf("input rejected: %w", err)
	}
	if clean == "" {
		return domain.DefaultInput, nil
	}
	return clean, nil
}

func (s *Server) handlePlanRoute(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (PlanResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return PlanResponse{}, err
	}
	input, err := sanitizedInput(args)
	if err != nil {
		return PlanResponse{}, err
	}

	route, err := s.engine.Plan(ctx, input)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("plan failed: %w", err)
	}

	return PlanResponse{
		Route:   route.String(),
		Stops:   route.Stops,
		Steps:   len(route.Steps),
		Skipped: route.Skipped,
		Notices: route.Notices,
	}, nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SessionResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return SessionResponse{}, err
	}
	input, err := sanitizedInput(args)
	if err != nil {
		return SessionResponse{}, err
	}
	sessionID := args.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	var sess *domain.Session
	err = s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = s.engine.Simulate(ctx, sessionID, input, domain.LifecycleHooks{})
		if sess == nil {
			return err
		}
		if saveErr := s.sessions.Store().Save(ctx, sessionID, sess); saveErr != nil {
			return saveErr
		}
		return err
	})
	if err != nil {
		return SessionResponse{}, fmt.Errorf("simulate failed: %w", err)
	}

	s.logger.Info("MCP simulate finished", "session_id", sessionID, "result", sess.Result)
	return SessionResponse{Session: sess}, nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SessionResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return SessionResponse{}, err
	}
	sess, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("get session failed: %w", err)
	}
	return SessionResponse{Session: sess}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: courier://sessions
	s.mcpServer.AddResource(mcp.NewResource(sessionsURI, "Stored Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      sessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: courier://sessions/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sessionsURI+"/{id}", "Session",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readSession)
}

func (s *Server) readSession(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	sessionID := strings.TrimPrefix(uri, sessionsURI+"/")

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}
	jsonBytes, _ := json.Marshal(sess)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
