package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
	"github.com/arun-gupta/api-status-dashboard/internal/httpapi/dashboard"
	"github.com/arun-gupta/api-status-dashboard/internal/httpapi/middleware"
	"github.com/arun-gupta/api-status-dashboard/internal/metrics"
	"github.com/arun-gupta/api-status-dashboard/internal/monitor"
)

// Service is what the handlers need from the monitor.
type Service interface {
	Status(ctx context.Context) (domain.History, error)
	RunCycle(ctx context.Context) (monitor.Cycle, error)
}

type Options struct {
	AllowedOrigins []string // empty means "*"
	TriggerRPM     int
	TriggerBurst   int
	TriggerTimeout time.Duration // bound on a manual cycle; 0 means 2m
}

type Server struct {
	Logger  *zap.Logger
	Service Service
	Metrics *metrics.Metrics
	Opts    Options
}

func NewServer(l *zap.Logger, svc Service, m *metrics.Metrics, opts Options) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	if opts.TriggerTimeout <= 0 {
		opts.TriggerTimeout = 2 * time.Minute
	}
	return &Server{Logger: l, Service: svc, Metrics: m, Opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	origins := s.Opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.With(middleware.RateLimit(s.Opts.TriggerRPM, s.Opts.TriggerBurst)).
		Post("/api/trigger", s.handleTrigger)

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	page := dashboard.Handler()
	r.Get("/", page)
	r.Get("/index.html", page)

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	h, err := s.Service.Status(r.Context())
	if err != nil {
		s.Logger.Error("status_read_failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch status"})
		return
	}
	if h == nil {
		h = domain.History{}
	}
	writeJSON(w, http.StatusOK, h)
}

type triggerResponse struct {
	Message string `json:"message"`
	CycleID string `json:"cycleId"`
	Results int    `json:"results"`
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	// A client hanging up must not cancel probes half way and store the
	// cancellations as outages.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.Opts.TriggerTimeout)
	defer cancel()

	c, err := s.Service.RunCycle(ctx)
	if err != nil {
		s.Logger.Error("trigger_failed",
			zap.String("cycle_id", c.ID),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to trigger monitoring"})
		return
	}

	s.Logger.Info("trigger_done",
		zap.String("cycle_id", c.ID),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Int("results", len(c.Results)),
	)
	writeJSON(w, http.StatusOK, triggerResponse{
		Message: "Monitoring triggered successfully",
		CycleID: c.ID,
		Results: len(c.Results),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
