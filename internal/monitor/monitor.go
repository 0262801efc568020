// Package monitor runs probe cycles: probe every endpoint, then append each
// result to that endpoint's history.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
	"github.com/arun-gupta/api-status-dashboard/internal/endpoints"
	"github.com/arun-gupta/api-status-dashboard/internal/metrics"
	"github.com/arun-gupta/api-status-dashboard/internal/probe"
)

type Prober interface {
	ProbeAll(ctx context.Context, eps []domain.Endpoint) []domain.ProbeResult
}

type History interface {
	Append(ctx context.Context, r domain.ProbeResult) error
	ReadAll(ctx context.Context, names []string) (domain.History, error)
}

// Cycle summarises one probe cycle.
type Cycle struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Results  []domain.ProbeResult
}

type Options struct {
	Metrics     *metrics.Metrics
	DiagnoseDNS bool
}

type Monitor struct {
	logger    *zap.Logger
	prober    Prober
	history   History
	endpoints []domain.Endpoint
	names     []string
	opts      Options

	// cycles run one at a time so each key's history is appended in
	// completion order even when a manual trigger overlaps the schedule
	mu sync.Mutex
}

func New(logger *zap.Logger, p Prober, h History, eps []domain.Endpoint, opts Options) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		logger:    logger,
		prober:    p,
		history:   h,
		endpoints: eps,
		names:     endpoints.Names(eps),
		opts:      opts,
	}
}

// Names lists the monitored endpoints in registry order.
func (m *Monitor) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// RunCycle probes all endpoints and appends the results. Probe failures are
// part of the results; the returned error only reports history writes that
// failed. Every key is attempted even if an earlier one fails.
func (m *Monitor) RunCycle(ctx context.Context) (Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := Cycle{ID: uuid.NewString(), Started: time.Now().UTC()}
	log := m.logger.With(zap.String("cycle_id", c.ID))
	log.Info("probe_cycle_start", zap.Int("endpoints", len(m.endpoints)))

	c.Results = m.prober.ProbeAll(ctx, m.endpoints)

	var errs error
	for _, r := range c.Results {
		m.opts.Metrics.ObserveProbe(r)
		logResult(log, r)

		if err := m.history.Append(ctx, r); err != nil {
			m.opts.Metrics.StoreError("write")
			log.Warn("history_append_error", zap.String("endpoint", r.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}

	if m.opts.DiagnoseDNS {
		m.diagnose(ctx, log, c.Results)
	}

	c.Duration = time.Since(c.Started)
	m.opts.Metrics.ObserveCycle(c.Duration)
	log.Info("probe_cycle_done",
		zap.Duration("took", c.Duration),
		zap.Int("results", len(c.Results)),
		zap.Int("write_errors", len(multierr.Errors(errs))),
	)
	return c, errs
}

// Status reads the stored history of every monitored endpoint.
func (m *Monitor) Status(ctx context.Context) (domain.History, error) {
	h, err := m.history.ReadAll(ctx, m.names)
	if err != nil {
		m.opts.Metrics.StoreError("read")
		m.logger.Warn("history_read_error", zap.Error(err))
		return nil, err
	}
	return h, nil
}

func logResult(log *zap.Logger, r domain.ProbeResult) {
	fields := []zap.Field{
		zap.String("endpoint", r.Name),
		zap.String("status", string(r.Status)),
		zap.Int("http_status", r.HTTPStatus),
		zap.Int64("latency_ms", r.Latency.Milliseconds()),
		zap.Bool("content_valid", r.ContentValidation.Valid),
	}
	if len(r.ContentValidation.Errors) > 0 {
		fields = append(fields, zap.Strings("content_errors", r.ContentValidation.Errors))
	}
	if r.Error != nil {
		fields = append(fields, zap.String("error", *r.Error))
	}
	if r.Status == domain.StatusUp {
		log.Debug("probe_result", fields...)
		return
	}
	log.Info("probe_result", fields...)
}

// diagnose logs why endpoints that never answered could not be reached.
// It runs after the history writes and never touches the results.
func (m *Monitor) diagnose(ctx context.Context, log *zap.Logger, results []domain.ProbeResult) {
	var wg sync.WaitGroup
	for i, r := range results {
		if r.HTTPStatus != 0 || i >= len(m.endpoints) || m.endpoints[i].Name != r.Name {
			continue
		}
		url := m.endpoints[i].URL
		wg.Add(1)
		go func(name, url string) {
			defer wg.Done()
			dns := probe.Diagnose(ctx, url)
			log.Info("dns_check",
				zap.String("endpoint", name),
				zap.String("domain", dns.Domain),
				zap.String("class", dns.Class),
				zap.Bool("has_a_or_aaaa", dns.HasAOrAAAA),
				zap.Strings("nameservers", dns.Nameservers),
				zap.String("cname", dns.CNAME),
				zap.String("resolver_error", dns.ResolverError),
			)
		}(r.Name, url)
	}
	wg.Wait()
}
