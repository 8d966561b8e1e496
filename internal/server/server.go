// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/parser"
)

// Config carries everything a Server needs from the CLI configuration.
type Config struct {
	Analysis       analysis.Options
	Parser         parser.Options
	CORSOrigins    []string
	MaxUploadBytes int64
}

const defaultMaxUpload = 32 << 20

// Server handles analysis requests. The zero value is not usable; call New.
type Server struct {
	cfg     Config
	log     *zap.Logger
	metrics *Metrics
	ready   atomic.Bool
}

// New returns a Server that reports ready immediately.
func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	s := &Server{cfg: cfg, log: log, metrics: newMetrics()}
	s.ready.Store(true)
	return s
}

// SetReady flips the /readyz answer, e.g. while draining on shutdown.
func (s *Server) SetReady(v bool) { s.ready.Store(v) }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/analyze", s.handleAnalyze)
	return r
}

// requestLogger writes one line per request and feeds the HTTP metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("X-Request-Id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(route, status, elapsed)
		s.log.Info("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("rid", middleware.GetReqID(r.Context())),
			zap.Duration("latency", elapsed),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	_ = enc.Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

type missingColumnsBody struct {
	Error      string   `json:"error"`
	MissingAds []string `json:"missing_ads"`
	MissingCRM []string `json:"missing_crm"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeMissingColumns(w http.ResponseWriter, err *analysis.MissingColumnsError) {
	writeJSON(w, http.StatusUnprocessableEntity, missingColumnsBody{
		Error:      err.Error(),
		MissingAds: fieldNames(err.Ads),
		MissingCRM: fieldNames(err.CRM),
	})
}

func fieldNames(fs []analysis.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
