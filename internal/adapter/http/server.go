package http

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/ookrx/wx-reporter/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxCheckBody bounds the request body accepted by /v1/check.
const maxCheckBody = 64 << 10

// Server exposes health, readiness, metrics, and telegram check endpoints.
type Server struct {
	httpServer *http.Server
	rules      domain.Rules
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/check routes. Checks use the same rules as the receive loop.
func NewServer(addr string, ready sharedobs.ReadinessChecker, rules domain.Rules, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		rules:  rules,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/check", s.handleCheck)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// checkResult is the outcome for one line posted to /v1/check.
type checkResult struct {
	Line        string              `json:"line"`
	Accepted    bool                `json:"accepted"`
	Reason      string              `json:"reason,omitempty"`
	Error       string              `json:"error,omitempty"`
	Observation *domain.Observation `json:"observation,omitempty"`
}

// handleCheck validates each non-empty line of the request body without
// delivering anything.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxCheckBody)
	results := []checkResult{}

	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		results = append(results, check(line, s.rules))
	}
	if err := sc.Err(); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

func check(line string, rules domain.Rules) checkResult {
	obs, err := domain.Process(line, rules)
	if err != nil {
		return checkResult{Line: line, Reason: domain.ReasonOf(err).String(), Error: err.Error()}
	}
	return checkResult{Line: line, Accepted: true, Observation: &obs}
}
