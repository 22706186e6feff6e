package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/engine"
	"github.com/webauto/engine/pkg/health"
	"github.com/webauto/engine/pkg/llm"
	"github.com/webauto/engine/pkg/logging"
	"github.com/webauto/engine/pkg/observer"
	"github.com/webauto/engine/pkg/storage"
	"github.com/webauto/engine/pkg/stream"
	"github.com/webauto/engine/pkg/telemetry"
	"github.com/webauto/engine/pkg/types"
)

// Config holds server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration

	// ShutdownTimeout for graceful shutdown
	ShutdownTimeout time.Duration

	// EnableCORS enables CORS headers
	EnableCORS bool
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		EnableCORS:      true,
	}
}

// Server is the HTTP/WebSocket API server: it accepts a workflow over
// /ws/execute, runs it through the engine, and streams every observer
// event back to the client as an OutboundMessage, per spec.md §4.H.
type Server struct {
	config            Config
	httpServer        *http.Server
	engine            *engine.Engine
	hub               *stream.Hub
	store             storage.ExecutionStore
	healthChecker     *health.Checker
	telemetryProvider *telemetry.Provider
	logger            *logging.Logger
	upgrader          websocket.Upgrader
}

// New wires a pre-built Engine, a streaming Hub, and an execution
// store into a ready-to-start Server. browserMgr and llmClient back
// the browser_session_manager and llm_reachable health checks;
// llmClient may be nil when no vision model is configured, in which
// case that check is skipped rather than reported unhealthy.
func New(cfg Config, eng *engine.Engine, store storage.ExecutionStore, logger *logging.Logger, browserMgr *browser.Manager, llmClient llm.Client) (*Server, error) {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}

	telemetryProvider, err := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	healthChecker := health.NewChecker("webauto-engine", "0.1.0")
	healthChecker.RegisterCheck("engine", func(ctx context.Context) error {
		return nil
	}, 5*time.Second, true)
	if browserMgr != nil {
		healthChecker.RegisterCheck("browser_session_manager", browserMgr.Ping, 5*time.Second, false)
	}
	if llmClient != nil {
		healthChecker.RegisterCheck("llm_reachable", llmClient.Reachable, 5*time.Second, false)
	}

	s := &Server{
		config:            cfg,
		engine:            eng,
		hub:               stream.NewHub(),
		store:             store,
		healthChecker:     healthChecker,
		telemetryProvider: telemetryProvider,
		logger:            logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.middlewareChain(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("/health/live", s.healthChecker.LivenessHandler())
	mux.HandleFunc("/health/ready", s.healthChecker.ReadinessHandler())

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/ws/execute", s.handleExecuteWebSocket)
	mux.HandleFunc("/api/v1/executions/", s.handleGetExecution)
}

func (s *Server) middlewareChain(handler http.Handler) http.Handler {
	if s.config.EnableCORS {
		handler = s.corsMiddleware(handler)
	}
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	return handler
}

// handleExecuteWebSocket upgrades the connection, waits for a
// start_execution control message, then runs the workflow it
// describes, streaming every node's progress back over the same
// socket until the execution reaches a terminal state.
func (s *Server) handleExecuteWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("websocket upgrade failed")
		return
	}

	var started *engine.Execution
	var channel *stream.Channel

	onInbound := func(msg stream.InboundMessage) {
		switch msg.Type {
		case stream.InStartExecution:
			if started != nil || msg.Workflow == nil {
				return
			}
			started = s.startExecution(*msg.Workflow, msg.Variables, channel)
		case stream.InUserInputResponse:
			if started != nil {
				started.ProvideUserInput(msg.Action)
			}
		case stream.InStopExecution:
			if started != nil {
				started.Cancel()
			}
		}
	}

	channel = s.hub.Register(executionIDFromRequest(r), conn, onInbound)
}

func (s *Server) startExecution(workflow types.Workflow, variables map[string]interface{}, channel *stream.Channel) *engine.Execution {
	executionID := channel.ExecutionID()

	observerMgr := observer.NewManager()
	observerMgr.Register(telemetry.NewTelemetryObserver(s.telemetryProvider))

	exec, err := s.engine.Start(executionID, workflow, variables, observerMgr)
	if err != nil {
		channel.Send(stream.OutboundMessage{
			Type: stream.OutError, ExecutionID: executionID, Error: err.Error(),
		})
		return nil
	}

	observerMgr.Register(stream.NewBridge(channel, exec.Order()))

	go func() {
		<-exec.Done()
		if s.store != nil {
			_ = s.store.Save(exec.Record())
		}
		s.engine.Forget(executionID)
	}()

	return exec
}

// handleGetExecution serves a previously persisted execution record
// by ID, reading from the store rather than the in-memory engine map
// so a completed execution's record remains available after Forget.
func (s *Server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	executionID := r.URL.Path[len("/api/v1/executions/"):]
	if executionID == "" {
		http.Error(w, "missing execution id", http.StatusBadRequest)
		return
	}

	if s.store == nil {
		http.Error(w, "execution store not configured", http.StatusNotImplemented)
		return
	}

	record, err := s.store.Load(executionID)
	if err != nil {
		s.writeErrorResponse(w, "execution not found", http.StatusNotFound, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, record)
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int, err error) {
	s.logger.WithError(err).WithField("status_code", statusCode).Error(message)
	s.writeJSONResponse(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
		"details": err.Error(),
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("address", s.config.Address).Info("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and its telemetry provider.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	if err := s.telemetryProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown telemetry: %w", err)
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(startTime)
		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": rw.statusCode,
			"duration_ms": duration.Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}).Info("http request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithField("error", fmt.Sprintf("%v", err)).
					WithField("path", r.URL.Path).
					Error("panic recovered")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// executionIDFromRequest reads the execution ID a client supplies on
// connect (as a query param), or mints one from the connection's
// arrival time when absent — mirroring how the inbound
// start_execution message may omit it for a brand-new run.
func executionIDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("execution_id"); id != "" {
		return id
	}
	return fmt.Sprintf("exec-%d", time.Now().UnixNano())
}
