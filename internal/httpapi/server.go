package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/monitor"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/report"
	"github.com/hamed0406/sitecheck/internal/targets"
)

const maxBodyBytes = 1 << 20

// Limits bound what a single POST /api/checks may ask for.
type Limits struct {
	MaxURLs    int
	MaxRetries int
	MaxTimeout time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxURLs < 1 {
		l.MaxURLs = 500
	}
	if l.MaxRetries < 0 {
		l.MaxRetries = 10
	}
	if l.MaxTimeout <= 0 {
		l.MaxTimeout = time.Minute
	}
	return l
}

type Server struct {
	Logger   *zap.Logger
	Defaults monitor.Config
	Prober   probe.Prober
	Limits   Limits
}

func NewServer(l *zap.Logger, defaults monitor.Config, p probe.Prober, limits Limits) *Server {
	return &Server{Logger: l, Defaults: defaults, Prober: p, Limits: limits.withDefaults()}
}

// Router wires the API. An empty origins list allows every origin; rpm <= 0
// disables rate limiting.
func (s *Server) Router(keys apimw.Keys, origins []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.accessLog)
	if len(origins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst))
		r.With(apimw.RequireAny(keys)).Post("/checks", s.handleRunChecks)
		r.With(apimw.RequireAdmin(keys)).Get("/config", s.handleConfig)
	})

	return r
}

type checkPayload struct {
	URLs           []string `json:"urls"`
	Workers        *int     `json:"workers"`
	TimeoutSeconds *int     `json:"timeout_seconds"`
	MaxRetries     *int     `json:"max_retries"`
}

// config overlays the request settings on base. Values above lim are
// rejected; the worker count is capped at the number of URLs since extra
// workers would have nothing to check.
func (p checkPayload) config(base monitor.Config, lim Limits) (monitor.Config, error) {
	if p.Workers != nil {
		base.Workers = *p.Workers
	}
	if p.TimeoutSeconds != nil {
		if *p.TimeoutSeconds > int(lim.MaxTimeout/time.Second) {
			return base, fmt.Errorf("timeout_seconds must be <= %d", int(lim.MaxTimeout/time.Second))
		}
		base.Timeout = time.Duration(*p.TimeoutSeconds) * time.Second
	}
	if p.MaxRetries != nil {
		if *p.MaxRetries > lim.MaxRetries {
			return base, fmt.Errorf("max_retries must be <= %d", lim.MaxRetries)
		}
		base.MaxRetries = *p.MaxRetries
	}
	if base.Workers > len(p.URLs) {
		base.Workers = len(p.URLs)
	}
	return base, nil
}

func (s *Server) handleRunChecks(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if len(p.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls must not be empty")
		return
	}
	if len(p.URLs) > s.Limits.MaxURLs {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d urls per request", s.Limits.MaxURLs))
		return
	}
	for _, u := range p.URLs {
		if err := targets.ValidateURL(u); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	cfg, err := p.config(s.Defaults, s.Limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := monitor.New(cfg, s.Prober, s.Logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := m.Run(r.Context(), domain.TargetsFromURLs(p.URLs))
	if err != nil {
		// client went away; nobody is left to read the response
		s.Logger.Warn("api_checks_canceled", zap.Int("urls", len(p.URLs)), zap.Error(err))
		return
	}

	doc := report.NewDocument(results)
	s.Logger.Info("api_checks_completed",
		zap.Int("total", doc.Summary.Total),
		zap.Int("ok", doc.Summary.OK),
		zap.Int("failed", doc.Summary.Failed),
	)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"workers":             s.Defaults.Workers,
		"timeout_seconds":     s.Defaults.Timeout.Seconds(),
		"max_retries":         s.Defaults.MaxRetries,
		"retry_backoff_ms":    s.Defaults.RetryBackoff.Milliseconds(),
		"max_urls":            s.Limits.MaxURLs,
		"max_retries_limit":   s.Limits.MaxRetries,
		"max_timeout_seconds": s.Limits.MaxTimeout.Seconds(),
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
