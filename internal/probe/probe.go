package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

// maxBodyBytes caps how much of a response body is read for content validation.
const maxBodyBytes = 1 << 20

// connection pool limits; a cycle touches a handful of distinct hosts.
const (
	defaultMaxIdleConns        = 32
	defaultMaxIdleConnsPerHost = 4
	defaultIdleConnTimeout     = 60 * time.Second
)

// Prober issues one bounded HTTP request per endpoint and turns the outcome
// into a domain.ProbeResult. It never returns an error: every failure is
// recorded in the result.
type Prober struct {
	Client *http.Client
	Logger *zap.Logger
}

// NewProber returns a Prober with a pooled client. The client has no global
// timeout; each probe is bounded by its endpoint's timeout via the context.
func NewProber(logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		Logger: logger,
	}
}

// Probe runs a single request against ep.
func (p *Prober) Probe(ctx context.Context, ep domain.Endpoint) domain.ProbeResult {
	start := time.Now()
	res := domain.ProbeResult{
		Name:      ep.Name,
		Timestamp: start.UTC(),
		Status:    domain.StatusDown,
		ContentValidation: domain.ContentValidation{
			Valid:  false,
			Errors: []string{},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, ep.EffectiveTimeout())
	defer cancel()

	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if ep.Body != "" {
		body = strings.NewReader(ep.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, ep.URL, body)
	if err != nil {
		return failed(res, time.Since(start), err)
	}
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return failed(res, latency, err)
	}
	defer resp.Body.Close()

	res.Latency = latency
	res.HTTPStatus = resp.StatusCode
	res.Status = Classify(resp.StatusCode)
	res.RateLimit = ExtractRateLimit(resp.Header)

	if len(ep.ExpectedFields) > 0 {
		res.ContentValidation = ValidateContent(readBody(resp), ep.ExpectedFields)
	} else {
		res.ContentValidation = domain.ContentValidation{
			Valid:  resp.StatusCode >= 200 && resp.StatusCode < 300,
			Errors: []string{},
		}
	}
	return res
}

func failed(res domain.ProbeResult, latency time.Duration, err error) domain.ProbeResult {
	msg := err.Error()
	res.Status = domain.StatusDown
	res.HTTPStatus = 0
	res.Latency = latency
	res.Error = &msg
	return res
}
