package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"symptom-triage/internal/metrics"
	"symptom-triage/pkg"
)

// Analyzer is the triage pipeline the handlers depend on.
type Analyzer interface {
	Analyze(ctx context.Context, complaint string) (*pkg.TriageResponse, error)
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Provider       string
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to an http.Server.
type Server struct {
	Triage   Analyzer
	Logger   zerolog.Logger
	Provider string
	router   chi.Router
}

// NewServer constructs a Server and wires its routes and middleware.
func NewServer(triage Analyzer, logger zerolog.Logger, opts Options) *Server {
	s := &Server{
		Triage:   triage,
		Logger:   logger,
		Provider: opts.Provider,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(corsOptions(origins)))

	r.Post("/analyze", s.handleAnalyze)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	s.router = r
	return s
}

// ServeHTTP dispatches to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// corsOptions allows credentialed requests; a "*" entry echoes the request
// origin rather than sending a wildcard Allow-Origin.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{triageIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	for _, o := range origins {
		if o == "*" {
			opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
			return opts
		}
	}
	opts.AllowedOrigins = origins
	return opts
}

// requestLogger writes one debug line per request; the triage lines
// themselves are logged by the service at info level.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
