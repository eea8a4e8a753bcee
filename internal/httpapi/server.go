package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/healthlogger/internal/domain"
	apimw "github.com/hamed0406/healthlogger/internal/httpapi/middleware"
	"github.com/hamed0406/healthlogger/internal/repo"
)

const (
	healthLayout = "2006-01-02 15:04:05"
	dbDownDetail = "Database not reachable"
	pingTimeout  = 2 * time.Second
)

type Server struct {
	Logger   *zap.Logger
	Logs     repo.LogStore
	Location *time.Location
	Limit    int
	Now      func() time.Time

	metrics *metrics
}

func NewServer(l *zap.Logger, logs repo.LogStore, loc *time.Location, limit int) *Server {
	if loc == nil {
		loc = time.UTC
	}
	if limit <= 0 {
		limit = repo.DefaultRecentLimit
	}
	return &Server{Logger: l, Logs: logs, Location: loc, Limit: limit, Now: time.Now, metrics: newMetrics()}
}

type RouterConfig struct {
	Keys           []string // accepted on POST /status; empty = open
	AllowedOrigins []string // empty = "*"
	RPM            int      // per-client limit on POST /status; 0 = off
	Burst          int
}

func (s *Server) Router(rc RouterConfig) http.Handler {
	origins := rc.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-API-Key", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.reg, promhttp.HandlerOpts{}))

	r.Get("/health", s.handleHealth)
	r.With(apimw.RateLimit(rc.RPM, rc.Burst), apimw.RequireKey(rc.Keys)).
		Post("/status", s.handleStatus)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := s.Logs.Ping(ctx); err != nil {
		s.metrics.healthRq.WithLabelValues("unavailable").Inc()
		s.Logger.Warn("health_db_unreachable", zap.Error(err))
		writeDetail(w, http.StatusServiceUnavailable, dbDownDetail)
		return
	}
	s.metrics.healthRq.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, s.healthReport(s.Now()))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var out domain.ProbeOutcome
	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := out.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	now := s.Now()
	row := &domain.ConnectionLog{
		Status:         out.Status,
		ResponseTimeMS: out.ResponseTimeMS,
		CheckedAt:      now.UTC(),
	}
	if err := s.Logs.Append(r.Context(), row); err != nil {
		s.Logger.Error("status_append_failed", zap.Error(err))
		writeDetail(w, http.StatusServiceUnavailable, dbDownDetail)
		return
	}
	s.metrics.reports.WithLabelValues(string(out.Status)).Inc()
	s.metrics.latency.Observe(out.ResponseTimeMS)

	rows, err := s.Logs.Recent(r.Context(), s.Limit)
	if err != nil {
		s.Logger.Error("status_recent_failed", zap.Error(err))
		writeDetail(w, http.StatusServiceUnavailable, dbDownDetail)
		return
	}
	logs := make([]domain.LogEntry, 0, len(rows))
	for _, c := range rows {
		logs = append(logs, c.Entry(s.Location))
	}

	s.Logger.Info("status_logged",
		zap.Int64("id", row.ID),
		zap.String("status", string(out.Status)),
		zap.Float64("response_time_ms", out.ResponseTimeMS),
	)

	hr := s.healthReport(now)
	writeJSON(w, http.StatusOK, domain.StatusResponse{
		Status:    hr.Status,
		Timestamp: hr.Timestamp,
		Timezone:  hr.Timezone,
		Logs:      logs,
	})
}

func (s *Server) healthReport(now time.Time) domain.HealthReport {
	local := now.In(s.Location)
	return domain.HealthReport{
		Status:    string(domain.StatusUp),
		Timestamp: local.Format(healthLayout),
		Timezone:  zoneLabel(s.Location, local),
	}
}

// zoneLabel renders "Asia/Kolkata (IST)".
func zoneLabel(loc *time.Location, t time.Time) string {
	abbr, _ := t.Zone()
	return loc.String() + " (" + abbr + ")"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
