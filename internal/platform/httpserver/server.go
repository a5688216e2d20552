package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jurisprudenceservice "ijus/contexts/legal-research/jurisprudence-service"
	progressionservice "ijus/contexts/legal-research/progression-service"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "ijus/internal/platform/httpserver/docs"
)

// HTTPMetrics receives one observation per served request.
type HTTPMetrics interface {
	ObserveHTTP(route string, status int, elapsed time.Duration)
	Handler() http.Handler
}

type Server struct {
	mux           *http.ServeMux
	handler       http.Handler
	logger        *slog.Logger
	addr          string
	progression   progressionservice.Module
	jurisprudence jurisprudenceservice.Module
	metrics       HTTPMetrics
	httpServer    *http.Server
}

// New registers every route. metrics may be nil, in which case /metrics is
// not served.
func New(
	progression progressionservice.Module,
	jurisprudence jurisprudenceservice.Module,
	metrics HTTPMetrics,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		progression:   progression,
		jurisprudence: jurisprudence,
		metrics:       metrics,
	}
	s.registerRoutes()
	s.handler = s.withRequestContext(s.mux)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.registerProgressionRoutes()
	s.registerJurisprudenceRoutes()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.jurisprudence.Handler.CredentialsHandler(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"credentials": status.Data,
	})
}

// withRequestContext echoes or assigns X-Request-Id and records the request
// in the metrics registry.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set("X-Request-Id", requestID)
		}
		w.Header().Set("X-Request-Id", requestID)

		startedAt := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, recorder.status, time.Since(startedAt))
		}
		s.logger.Debug("http request served",
			"event", "http_request_served",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"request_id", requestID,
			"route", route,
			"status", recorder.status,
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
