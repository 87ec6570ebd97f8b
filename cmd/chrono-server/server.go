package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/chrono-timers/chrono-go/cmd/chrono-server/api"
	"github.com/chrono-timers/chrono-go/pkg/version"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr       string
	CORSOrigin string
	Version    string
	Logger     *slog.Logger
}

// Server is the HTTP server for the timer API.
type Server struct {
	config    ServerConfig
	mux       *http.ServeMux
	handler   http.Handler
	server    *http.Server
	timersAPI *api.TimersAPI
	logger    *slog.Logger
}

// NewServer creates a new server backed by engine.
func NewServer(cfg ServerConfig, engine api.Engine) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:    cfg,
		mux:       http.NewServeMux(),
		timersAPI: api.NewTimersAPI(engine, logger),
		logger:    logger,
	}

	s.registerRoutes()
	s.handler = s.withAccessLog(s.withCORS(withAPIVersion(s.mux)))

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/info", s.timersAPI.HandleInfo(s.buildVersion()))

	s.mux.HandleFunc("POST /api/timers", s.timersAPI.HandleCreate)
	s.mux.HandleFunc("GET /api/timers", s.timersAPI.HandleList)
	s.mux.HandleFunc("GET /api/timers/{id}", s.timersAPI.HandleGet)
	s.mux.HandleFunc("DELETE /api/timers/{id}", s.timersAPI.HandleDelete)
	s.mux.HandleFunc("POST /api/timers/{id}/start", s.timersAPI.HandleStart)
	s.mux.HandleFunc("POST /api/timers/{id}/stop", s.timersAPI.HandleStop)
}

func (s *Server) buildVersion() string {
	if s.config.Version == "" {
		return "dev"
	}
	return s.config.Version
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status":      "ok",
		"version":     s.buildVersion(),
		"api_version": version.Current,
	}

	writeJSON(w, http.StatusOK, resp)
}

// withCORS adds CORS headers for the configured origin and answers
// preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.config.CORSOrigin
	if origin == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Expose-Headers", version.Header)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAPIVersion stamps every response with the API version.
func withAPIVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(version.Header, version.Current)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withAccessLog logs one line per request.
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Serve accepts connections on ln until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
